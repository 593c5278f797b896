package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newHistoryCommand creates the history command.
func newHistoryCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List recently viewed items, oldest first",
		Long: `List recently viewed items, oldest first.

Each entry shows the item as it was when viewed. Viewing an item again
moves it to the end; only the most recent views are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := s.board()
			if err != nil {
				return err
			}
			printItems(cmd.OutOrStdout(), m.History())
			return nil
		},
	}
}

// newPrioritizedCommand creates the prioritized command.
func newPrioritizedCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "prioritized",
		Short: "List scheduled tasks and subtasks by start time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := s.board()
			if err != nil {
				return err
			}
			printItems(cmd.OutOrStdout(), m.Prioritized())
			return nil
		},
	}
}

// newExportCommand creates the export command.
func newExportCommand(s *session) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole board as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := s.board()
			if err != nil {
				return err
			}

			snap := m.Export()
			var data []byte
			switch format {
			case "json":
				data, err = json.MarshalIndent(snap, "", "  ")
				data = append(data, '\n')
			case "yaml":
				data, err = yaml.Marshal(snap)
			default:
				return fmt.Errorf("unknown format %q (use json or yaml)", format)
			}
			if err != nil {
				return fmt.Errorf("encode board: %w", err)
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o600); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported board to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}
