package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/schedule/internal/domain"
	"github.com/runoshun/schedule/internal/manager"
)

var taskOps = kindOps[domain.Task]{
	name:     "task",
	list:     (*manager.Manager).Tasks,
	get:      (*manager.Manager).GetTask,
	del:      (*manager.Manager).DeleteTask,
	delAll:   (*manager.Manager).DeleteAllTasks,
	notFound: domain.ErrTaskNotFound,
}

// newTaskCommand creates the task command.
func newTaskCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage standalone tasks",
	}

	cmd.AddCommand(
		newTaskAddCommand(s),
		newTaskUpdateCommand(s),
		newShowCommand(s, taskOps),
		newListCommand(s, taskOps),
		newRmCommand(s, taskOps, "Delete a task, or every task with --all."),
	)

	return cmd
}

func newTaskAddCommand(s *session) *cobra.Command {
	var flags fieldFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new task",
		Long: `Create a new standalone task.

The task starts as NEW unless --status is given. A task with --start
must not overlap any other scheduled task or subtask.

Examples:
  # Unscheduled task
  schedule task add --name "Pay bills"

  # Scheduled task
  schedule task add --name "Standup" --start "2024-06-01 09:00" --duration 15m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var draft domain.Task
			if err := flags.apply(cmd, &draft.Fields, s.location()); err != nil {
				return err
			}
			m, err := s.board()
			if err != nil {
				return err
			}
			task, err := m.CreateTask(draft)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task #%d: %s\n", task.ID, task.Name)
			return nil
		},
	}

	flags.register(cmd, true)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newTaskUpdateCommand(s *session) *cobra.Command {
	var flags fieldFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a task",
		Long: `Update a task. Only the given flags change; pass --start "" to unschedule.

On a time conflict the task is left unchanged.`,
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
			task, err := taskOps.find(m, id)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &task.Fields, s.location()); err != nil {
				return err
			}
			if _, err := m.UpdateTask(task); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task #%d\n", id)
			return nil
		},
	}

	flags.register(cmd, true)

	return cmd
}
