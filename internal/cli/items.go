package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/schedule/internal/domain"
	"github.com/runoshun/schedule/internal/manager"
)

// kindOps binds the manager operations shared by every item kind.
type kindOps[T domain.Item] struct {
	list     func(*manager.Manager) []T
	get      func(*manager.Manager, int) (T, error)
	del      func(*manager.Manager, int) error
	delAll   func(*manager.Manager) error
	notFound error
	name     string // "task", "epic" or "subtask"
}

// find returns the stored item without recording a view.
func (o kindOps[T]) find(m *manager.Manager, id int) (T, error) {
	for _, it := range o.list(m) {
		if it.Base().ID == id {
			return it, nil
		}
	}
	var zero T
	return zero, o.notFound
}

// fieldFlags are the caller-settable fields of an item.
type fieldFlags struct {
	name     string
	desc     string
	status   string
	start    string
	duration time.Duration
}

func (f *fieldFlags) register(cmd *cobra.Command, withSchedule bool) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "Item name")
	cmd.Flags().StringVar(&f.desc, "desc", "", "Item description")
	if withSchedule {
		cmd.Flags().StringVarP(&f.status, "status", "s", "", "Status: new, in_progress, done")
		cmd.Flags().StringVar(&f.start, "start", "", `Start time "YYYY-MM-DD HH:MM" (empty = unscheduled)`)
		cmd.Flags().DurationVar(&f.duration, "duration", 0, "Planned duration (e.g. 45m, 1h30m)")
	}
}

// apply copies the flags set on cmd into dst. Start times are read in loc.
func (f *fieldFlags) apply(cmd *cobra.Command, dst *domain.Fields, loc *time.Location) error {
	flags := cmd.Flags()
	if flags.Changed("name") {
		dst.Name = f.name
	}
	if flags.Changed("desc") {
		dst.Description = f.desc
	}
	if flags.Changed("status") {
		status, err := domain.ParseStatus(f.status)
		if err != nil {
			return err
		}
		dst.Status = status
	}
	if flags.Changed("start") {
		start, err := parseStart(f.start, loc)
		if err != nil {
			return err
		}
		dst.StartTime = start
	}
	if flags.Changed("duration") {
		dst.Duration = f.duration
	}
	return nil
}

func newShowCommand[T domain.Item](s *session, ops kindOps[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: fmt.Sprintf("Show a %s", ops.name),
		Long: fmt.Sprintf(`Show a %s.

Showing an item records it in the view history.`, ops.name),
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
			it, err := ops.get(m, id)
			if err != nil {
				return err
			}
			printItem(cmd.OutOrStdout(), it)
			return nil
		},
	}
}

func newListCommand[T domain.Item](s *session, ops kindOps[T]) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List all %ss ordered by id", ops.name),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := s.board()
			if err != nil {
				return err
			}
			printItems(cmd.OutOrStdout(), asItems(ops.list(m)))
			return nil
		},
	}
}

func newRmCommand[T domain.Item](s *session, ops kindOps[T], long string) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "rm [<id>]",
		Short: fmt.Sprintf("Delete a %s, or all of them with --all", ops.name),
		Long:  long,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return errors.New("specify either an id or --all")
			}
			m, err := s.board()
			if err != nil {
				return err
			}

			if all {
				if err := ops.delAll(m); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted all %ss\n", ops.name)
				return nil
			}

			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := ops.del(m, id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s #%d\n", ops.name, id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, fmt.Sprintf("Delete every %s", ops.name))

	return cmd
}
