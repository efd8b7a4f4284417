package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/centavo-dev/centavo/internal/importer"
)

// Run shows the interactive preview and blocks until the user confirms or
// cancels. Selection changes are applied to preview in place. Returns true
// when the user confirmed the import.
func Run(preview *importer.ImportPreview) (bool, error) {
	program := tea.NewProgram(NewModel(preview), tea.WithAltScreen())

	final, err := program.Run()
	if err != nil {
		return false, fmt.Errorf("preview UI failed: %w", err)
	}

	model, ok := final.(Model)
	if !ok {
		return false, fmt.Errorf("preview UI returned unexpected model type %T", final)
	}
	return model.Confirmed(), nil
}
