package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/schedule/internal/domain"
	"github.com/runoshun/schedule/internal/infra/config"
	"github.com/runoshun/schedule/internal/usecase"
)

// newConfigCommand creates the config command.
func newConfigCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `Manage schedule configuration files and settings.`,
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(newConfigShowCommand(s))
	cmd.AddCommand(newConfigInitCommand(s))

	return cmd
}

// newConfigShowCommand creates the config show subcommand.
func newConfigShowCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display effective configuration after merging all sources.

Shows which config files were loaded and the final merged configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}
			res, err := c.ShowConfigUseCase().Execute(cmd.Context(), usecase.ShowConfigInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, "[Loaded from]")
			for _, info := range []domain.ConfigInfo{res.GlobalConfig, res.LocalConfig} {
				switch {
				case info.Path == "":
				case info.Exists:
					_, _ = fmt.Fprintf(w, "- %s\n", info.Path)
				default:
					_, _ = fmt.Fprintf(w, "- %s (not found)\n", info.Path)
				}
			}
			_, _ = fmt.Fprintln(w)

			_, _ = fmt.Fprintln(w, "[Effective Config]")
			out, err := config.Encode(res.EffectiveConfig)
			if err != nil {
				return err
			}
			_, _ = w.Write(out)
			return nil
		},
	}
}

// newConfigInitCommand creates the config init subcommand.
func newConfigInitCommand(s *session) *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Write a commented default config file.

By default the file is written to <data-dir>/config.toml.
With --global it goes to $XDG_CONFIG_HOME/schedule/config.toml.
An existing file is never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := s.container()
			if err != nil {
				return err
			}

			out, err := c.InitConfigUseCase().Execute(cmd.Context(), usecase.InitConfigInput{
				Config: domain.NewDefaultConfig(),
				Global: global,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", out.Path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&global, "global", "g", false, "Write the global config file")

	return cmd
}
