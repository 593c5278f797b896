package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/schedule/internal/domain"
	"github.com/runoshun/schedule/internal/manager"
)

var epicOps = kindOps[domain.Epic]{
	name:     "epic",
	list:     (*manager.Manager).Epics,
	get:      (*manager.Manager).GetEpic,
	del:      (*manager.Manager).DeleteEpic,
	delAll:   (*manager.Manager).DeleteAllEpics,
	notFound: domain.ErrEpicNotFound,
}

// newEpicCommand creates the epic command.
func newEpicCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "epic",
		Short: "Manage epics",
		Long: `Manage epics.

An epic's status, start, end and duration are derived from its subtasks
and cannot be set directly.`,
	}

	cmd.AddCommand(
		newEpicAddCommand(s),
		newEpicUpdateCommand(s),
		newShowCommand(s, epicOps),
		newListCommand(s, epicOps),
		newRmCommand(s, epicOps, "Delete an epic and all of its subtasks, or every epic with --all."),
		newEpicSubtasksCommand(s),
	)

	return cmd
}

func newEpicAddCommand(s *session) *cobra.Command {
	var flags fieldFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new epic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var draft domain.Epic
			if err := flags.apply(cmd, &draft.Fields, s.location()); err != nil {
				return err
			}
			m, err := s.board()
			if err != nil {
				return err
			}
			epic, err := m.CreateEpic(draft)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created epic #%d: %s\n", epic.ID, epic.Name)
			return nil
		},
	}

	flags.register(cmd, false)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newEpicUpdateCommand(s *session) *cobra.Command {
	var flags fieldFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename or redescribe an epic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, err := s.board()
			if err != nil {
				return err
			}
			epic, err := epicOps.find(m, id)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &epic.Fields, s.location()); err != nil {
				return err
			}
			if _, err := m.UpdateEpic(epic); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated epic #%d\n", id)
			return nil
		},
	}

	flags.register(cmd, false)

	return cmd
}

func newEpicSubtasksCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "subtasks <id>",
		Short: "List the subtasks of an epic in insertion order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, err := s.board()
			if err != nil {
				return err
			}
			subtasks, err := m.EpicSubtasks(id)
			if err != nil {
				return err
			}
			printItems(cmd.OutOrStdout(), asItems(subtasks))
			return nil
		},
	}
}
