package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// serveFunc runs the HTTP server until ctx ends, allowing it to be mocked in tests.
var serveFunc = func(ctx context.Context, s *session, addr string) error {
	c, err := s.container()
	if err != nil {
		return err
	}
	m, err := c.Board()
	if err != nil {
		return err
	}
	return c.Server(m).ListenAndServe(ctx, addr, c.AppConfig.Server.ShutdownTimeout)
}

// newServeCommand creates the serve command.
func newServeCommand(s *session) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP",
		Long: `Serve the board over HTTP until interrupted.

Routes:
  GET|POST|DELETE /tasks, /epics, /subtasks
  GET|DELETE      /tasks/{id}, /epics/{id}, /subtasks/{id}
  GET             /epics/{id}/subtasks, /history, /prioritized

POST without an id creates, POST with an id updates. Every change is
written to the configured store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = c.AppConfig.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Serving board on %s\n", addr)
			return serveFunc(ctx, s, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from [server] addr)")

	return cmd
}
