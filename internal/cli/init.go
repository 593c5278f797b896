package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/runoshun/schedule/internal/usecase"
)

// newInitCommand creates the init command.
func newInitCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an empty board",
		Long: `Create an empty board in the configured store.

The store type comes from [store] in config.toml:
- json (default): <data-dir>/board.json
- csv: <data-dir>/board.csv
- git: a blob under refs/<namespace>/board in the repository containing
  the data directory, or a new bare repository if there is none

Running init on an existing board leaves it untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			out, err := c.InitBoardUseCase().Execute(cmd.Context(), usecase.InitBoardInput{
				DataDir:     c.Config.DataDir,
				ProjectRoot: filepath.Dir(c.Config.DataDir),
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if !out.Created {
				_, _ = fmt.Fprintf(w, "Board already initialized in %s\n", c.Config.StorePath)
				return nil
			}
			_, _ = fmt.Fprintf(w, "Initialized %s board in %s\n", c.AppConfig.Store.Type, c.Config.StorePath)
			if out.GitignoreNeedsAdd {
				_, _ = fmt.Fprintf(w, "Hint: add %s/ to .gitignore\n", filepath.Base(out.DataDir))
			}
			return nil
		},
	}
}
