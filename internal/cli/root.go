// Package cli provides the command-line interface for schedule.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/schedule/internal/app"
	"github.com/runoshun/schedule/internal/domain"
	"github.com/runoshun/schedule/internal/manager"
)

// Command group IDs.
const (
	groupSetup = "setup"
	groupBoard = "board"
	groupView  = "view"
)

// DataDirEnv overrides the default data directory.
const DataDirEnv = "SCHEDULE_DIR"

// ContainerFactory builds the container for a data directory.
type ContainerFactory func(dataDir string) (*app.Container, error)

// session lazily builds the container once flags are parsed.
type session struct {
	factory ContainerFactory
	c       *app.Container
	dataDir string
}

func (s *session) container() (*app.Container, error) {
	if s.c != nil {
		return s.c, nil
	}
	c, err := s.factory(s.dataDir)
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	s.c = c
	return c, nil
}

// board loads the stored board.
func (s *session) board() (*manager.Manager, error) {
	c, err := s.container()
	if err != nil {
		return nil, err
	}
	return c.Board()
}

// location returns the configured time zone. Before a container can be
// built it falls back to the local zone; the build error surfaces later.
func (s *session) location() *time.Location {
	c, err := s.container()
	if err != nil || c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (s *session) close() {
	if s.c != nil {
		_ = s.c.Close()
		s.c = nil
	}
}

// NewRootCommand creates the root command for schedule.
// factory builds the container after --data-dir is known.
func NewRootCommand(factory ContainerFactory, version string) *cobra.Command {
	s := &session{factory: factory}

	defaultDir := os.Getenv(DataDirEnv)
	if defaultDir == "" {
		defaultDir = domain.DataDirName
	}

	root := &cobra.Command{
		Use:   "schedule",
		Short: "Plan tasks, epics and subtasks without overlaps",
		Long: `schedule keeps a board of standalone tasks and epics made of subtasks.

Scheduled items never overlap in time. An epic's status and time window
are derived from its subtasks. Viewing an item records it in a short
history of recently viewed items.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			s.close()
		},
	}

	root.PersistentFlags().StringVarP(&s.dataDir, "data-dir", "d", defaultDir,
		"Data directory (env "+DataDirEnv+")")

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupBoard, Title: "Board Commands:"},
		&cobra.Group{ID: groupView, Title: "View Commands:"},
	)

	// Setup commands
	initCmd := newInitCommand(s)
	initCmd.GroupID = groupSetup

	configCmd := newConfigCommand(s)
	configCmd.GroupID = groupSetup

	serveCmd := newServeCommand(s)
	serveCmd.GroupID = groupSetup

	// Board commands
	taskCmd := newTaskCommand(s)
	taskCmd.GroupID = groupBoard

	epicCmd := newEpicCommand(s)
	epicCmd.GroupID = groupBoard

	subtaskCmd := newSubtaskCommand(s)
	subtaskCmd.GroupID = groupBoard

	// View commands
	historyCmd := newHistoryCommand(s)
	historyCmd.GroupID = groupView

	prioritizedCmd := newPrioritizedCommand(s)
	prioritizedCmd.GroupID = groupView

	exportCmd := newExportCommand(s)
	exportCmd.GroupID = groupView

	tuiCmd := newTUICommand(s)
	tuiCmd.GroupID = groupView

	root.AddCommand(
		initCmd,
		configCmd,
		serveCmd,
		taskCmd,
		epicCmd,
		subtaskCmd,
		historyCmd,
		prioritizedCmd,
		exportCmd,
		tuiCmd,
	)

	return root
}
