package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/runoshun/schedule/internal/manager"
	"github.com/runoshun/schedule/internal/tui"
)

// launchTUIFunc is a function variable for launching TUI, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// newTUICommand creates the tui command.
func newTUICommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse the board interactively",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, err := s.board()
			if err != nil {
				return err
			}
			return launchTUIFunc(m)
		},
	}
}

func launchTUI(m *manager.Manager) error {
	p := tea.NewProgram(tui.New(m), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
