package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/centavo-dev/centavo/internal/cli"
	"github.com/centavo-dev/centavo/internal/importer"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cli.PrimaryColor)

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(cli.PrimaryColor)

	selectedStyle   = lipgloss.NewStyle().Foreground(cli.SuccessColor)
	deselectedStyle = lipgloss.NewStyle().Foreground(cli.SubtleColor)
	duplicateStyle  = lipgloss.NewStyle().Foreground(cli.WarningColor)
	helpStyle       = lipgloss.NewStyle().Foreground(cli.SubtleColor)
	negativeStyle   = lipgloss.NewStyle().Foreground(cli.ErrorColor)
	positiveStyle   = lipgloss.NewStyle().Foreground(cli.SuccessColor)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Import Preview"))
	b.WriteString("\n\n")

	if len(m.preview.Rows) == 0 {
		b.WriteString(helpStyle.Render("No transactions to import."))
		b.WriteString("\n")
	} else {
		visible := m.visibleRows()
		end := m.offset + visible
		if end > len(m.preview.Rows) {
			end = len(m.preview.Rows)
		}
		for i := m.offset; i < end; i++ {
			b.WriteString(m.renderRow(i))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move · space toggle · a toggle all · enter import · q cancel"))

	return b.String()
}

func (m Model) renderRow(i int) string {
	row := m.preview.Rows[i]

	cursor := "  "
	if i == m.cursor {
		cursor = cursorStyle.Render("> ")
	}

	check := deselectedStyle.Render("[ ]")
	if row.Selected {
		check = selectedStyle.Render("[x]")
	}

	amount := cli.FormatAmount(row.Transaction.Amount)
	if row.Transaction.Amount.IsNegative() {
		amount = negativeStyle.Render(amount)
	} else {
		amount = positiveStyle.Render(amount)
	}

	line := fmt.Sprintf("%s%s %s  %-30s %12s",
		cursor,
		check,
		row.Transaction.Date.Format("2006-01-02"),
		truncate(row.Transaction.Merchant, 30),
		amount,
	)

	if row.Match.IsDuplicate {
		line += duplicateStyle.Render(fmt.Sprintf("  dup %d%%", int(row.Match.Confidence*100)))
	}

	return line
}

func (m Model) renderStatus() string {
	return helpStyle.Render(fmt.Sprintf(
		"%d new · %d duplicates · %d errors · %d selected",
		m.preview.NewCount(),
		m.preview.DuplicateCount(),
		m.preview.ErrorCount(),
		m.preview.SelectedCount(),
	))
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// RenderSummary formats a finished import as a styled box for the CLI.
func RenderSummary(result *importer.ImportResult) string {
	lines := []string{
		fmt.Sprintf("Imported:   %d", result.Imported),
		fmt.Sprintf("Skipped:    %d", result.Skipped),
		fmt.Sprintf("Duplicates: %d", result.Duplicates),
	}
	if result.Errors > 0 {
		lines = append(lines, fmt.Sprintf("Errors:     %d", result.Errors))
	}
	return cli.RenderBox("Import Complete", strings.Join(lines, "\n"))
}
