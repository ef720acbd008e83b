package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/pb33f/pfesim/tui"
)

func LaunchTUI(resultFile string) error {
	p := tea.NewProgram(tui.NewResultViewModel(resultFile), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
