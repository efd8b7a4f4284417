// Package tui implements the interactive import preview: a scrollable list of
// staged transactions where the user toggles rows before committing.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/centavo-dev/centavo/internal/importer"
)

// Model holds the preview screen state. The embedded preview is mutated in
// place so the caller sees the final selection after the program exits.
type Model struct {
	preview   *importer.ImportPreview
	keymap    KeyMap
	cursor    int
	offset    int
	width     int
	height    int
	confirmed bool
	quitting  bool
}

// NewModel creates a preview model over the staged rows.
func NewModel(preview *importer.ImportPreview) Model {
	return Model{
		preview: preview,
		keymap:  DefaultKeyMap(),
		width:   80,
		height:  24,
	}
}

// Confirmed reports whether the user committed the selection rather than
// canceling.
func (m Model) Confirmed() bool {
	return m.confirmed
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampScroll()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keymap.Down):
			if m.cursor < len(m.preview.Rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keymap.Home):
			m.cursor = 0
		case key.Matches(msg, m.keymap.End):
			if len(m.preview.Rows) > 0 {
				m.cursor = len(m.preview.Rows) - 1
			}
		case key.Matches(msg, m.keymap.Toggle):
			if m.cursor < len(m.preview.Rows) {
				m.preview.ToggleSelection(m.preview.Rows[m.cursor].PreviewID)
			}
		case key.Matches(msg, m.keymap.ToggleAll):
			m.preview.SetAllSelected(m.preview.SelectedCount() < len(m.preview.Rows))
		case key.Matches(msg, m.keymap.Confirm):
			m.confirmed = true
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		}
		m.clampScroll()
	}

	return m, nil
}

// clampScroll keeps the cursor inside the visible window.
func (m *Model) clampScroll() {
	visible := m.visibleRows()
	if visible <= 0 {
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// visibleRows is the number of transaction rows that fit between the header
// and footer chrome.
func (m Model) visibleRows() int {
	const chrome = 6
	if m.height <= chrome {
		return 1
	}
	return m.height - chrome
}
