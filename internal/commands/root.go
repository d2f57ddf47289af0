// Package commands wires the gitmem CLI surface.
package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/gitmem/internal/app"
	"github.com/dotcommander/gitmem/internal/output"
)

// Execute runs the CLI application.
func Execute(version string) error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	err := newRootCmd(version).Execute()
	if err != nil {
		slog.Error("command failed", "error", err.Error())
	}
	return err
}

func newRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "gitmem",
		Short:         "Git/GitHub workflow memory hook for coding agents",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			showVersion, _ := cmd.Flags().GetBool("version")
			if showVersion {
				type resp struct {
					Version string `json:"version"`
				}
				return output.PrintSuccess(cmd.OutOrStdout(), resp{Version: version})
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.EnsureConfigDir(); err != nil {
				// The hook handler must never fail the host, not even on a
				// broken HOME; it falls back to defaults and still emits its
				// success marker. Every other command reports the failure.
				if cmd.Name() != "post-tool" {
					return err
				}
				slog.Warn("config dir unavailable", "error", err)
			}

			// Wire path flags into app-level resolvers.
			if queuePath, err := cmd.Flags().GetString("queue-path"); err == nil && queuePath != "" {
				app.SetQueuePathOverride(queuePath)
			}
			if dbPath, err := cmd.Flags().GetString("db-path"); err == nil && dbPath != "" {
				app.SetDBPathOverride(dbPath)
			}

			return nil
		},
	}

	root.PersistentFlags().String("queue-path", "", "Override queue file path")
	root.PersistentFlags().String("db-path", "", "Override database path")
	root.Flags().BoolP("version", "v", false, "version for gitmem")

	root.AddCommand(NewHookCmd())
	root.AddCommand(NewDrainCmd())
	root.AddCommand(NewLogCmd())
	root.AddCommand(NewStatusCmd())

	return root
}
