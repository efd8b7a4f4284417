package importer

// PreviewRow is one candidate transaction staged for import, with its
// classification and a user-togglable selection flag. Duplicates default to
// unselected, new rows to selected.
type PreviewRow struct {
	PreviewID   string
	Category    string
	Match       Match
	Selected    bool
	Transaction ParsedTransaction
}

// ImportPreview is the user-adjustable staging list produced before commit.
type ImportPreview struct {
	Rows   []PreviewRow
	Errors []RowError
}

// NewCount returns the number of rows classified as new.
func (p *ImportPreview) NewCount() int {
	count := 0
	for _, row := range p.Rows {
		if !row.Match.IsDuplicate {
			count++
		}
	}
	return count
}

// DuplicateCount returns the number of rows flagged as duplicates.
func (p *ImportPreview) DuplicateCount() int {
	count := 0
	for _, row := range p.Rows {
		if row.Match.IsDuplicate {
			count++
		}
	}
	return count
}

// ErrorCount returns the number of rows that failed to parse.
func (p *ImportPreview) ErrorCount() int {
	return len(p.Errors)
}

// SelectedCount returns the number of rows currently selected for import.
func (p *ImportPreview) SelectedCount() int {
	count := 0
	for _, row := range p.Rows {
		if row.Selected {
			count++
		}
	}
	return count
}

// ToggleSelection flips the selection of one row, reporting whether the
// preview ID was found.
func (p *ImportPreview) ToggleSelection(previewID string) bool {
	for i := range p.Rows {
		if p.Rows[i].PreviewID == previewID {
			p.Rows[i].Selected = !p.Rows[i].Selected
			return true
		}
	}
	return false
}

// SetAllSelected selects or deselects every row.
func (p *ImportPreview) SetAllSelected(selected bool) {
	for i := range p.Rows {
		p.Rows[i].Selected = selected
	}
}

// SetCategory assigns a category to one staged row before commit.
func (p *ImportPreview) SetCategory(previewID, category string) bool {
	for i := range p.Rows {
		if p.Rows[i].PreviewID == previewID {
			p.Rows[i].Category = category
			return true
		}
	}
	return false
}

// ImportResult summarizes a completed import: how many rows were persisted,
// skipped by deselection, flagged as duplicates, and rejected with row-level
// errors.
type ImportResult struct {
	RowErrors  []RowError
	Imported   int
	Skipped    int
	Duplicates int
	Errors     int
}
