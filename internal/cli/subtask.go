package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/schedule/internal/domain"
	"github.com/runoshun/schedule/internal/manager"
)

var subtaskOps = kindOps[domain.Subtask]{
	name:     "subtask",
	list:     (*manager.Manager).Subtasks,
	get:      (*manager.Manager).GetSubtask,
	del:      (*manager.Manager).DeleteSubtask,
	delAll:   (*manager.Manager).DeleteAllSubtasks,
	notFound: domain.ErrSubtaskNotFound,
}

// newSubtaskCommand creates the subtask command.
func newSubtaskCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtask",
		Short: "Manage subtasks of epics",
	}

	cmd.AddCommand(
		newSubtaskAddCommand(s),
		newSubtaskUpdateCommand(s),
		newShowCommand(s, subtaskOps),
		newListCommand(s, subtaskOps),
		newRmCommand(s, subtaskOps, "Delete a subtask, or every subtask with --all. Owning epics are recomputed."),
	)

	return cmd
}

func newSubtaskAddCommand(s *session) *cobra.Command {
	var flags fieldFlags
	var epicID int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new subtask in an epic",
		Long: `Create a new subtask in an epic.

Example:
  schedule subtask add --epic 2 --name "Deploy" --start "2024-06-01 14:00" --duration 1h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			draft := domain.Subtask{EpicID: epicID}
			if err := flags.apply(cmd, &draft.Fields, s.location()); err != nil {
				return err
			}
			m, err := s.board()
			if err != nil {
				return err
			}
			subtask, err := m.CreateSubtask(draft)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created subtask #%d in epic #%d: %s\n", subtask.ID, subtask.EpicID, subtask.Name)
			return nil
		},
	}

	flags.register(cmd, true)
	cmd.Flags().IntVarP(&epicID, "epic", "e", 0, "Owning epic id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("epic")

	return cmd
}

func newSubtaskUpdateCommand(s *session) *cobra.Command {
	var flags fieldFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a subtask",
		Long: `Update a subtask. Only the given flags change; pass --start "" to unschedule.

A subtask never moves to another epic. The owning epic is recomputed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, err := s.board()
			if err != nil {
				return err
			}
			subtask, err := subtaskOps.find(m, id)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &subtask.Fields, s.location()); err != nil {
				return err
			}
			if _, err := m.UpdateSubtask(subtask); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated subtask #%d\n", id)
			return nil
		},
	}

	flags.register(cmd, true)

	return cmd
}
