package commands

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/gitmem/internal/app"
	"github.com/dotcommander/gitmem/internal/commands/hookcmd"
	"github.com/dotcommander/gitmem/internal/ghcli"
	"github.com/dotcommander/gitmem/internal/gitinfo"
	"github.com/dotcommander/gitmem/internal/hookio"
	"github.com/dotcommander/gitmem/internal/queue"
	"github.com/dotcommander/gitmem/internal/workflow"
)

// NewHookCmd creates the hook parent command.
func NewHookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Hook handlers and installers for Claude Code",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(hookcmd.NewInstallCmd())
	cmd.AddCommand(hookcmd.NewUninstallCmd())

	// Handler subcommand — called by the hook system, not agents directly.
	// Hidden from help output to reduce command surface noise.
	postTool := newHookPostToolCmd()
	postTool.Hidden = true
	cmd.AddCommand(postTool)

	return cmd
}

// hookResult is the fixed success marker written to stdout on every clean
// exit, including abort-success paths.
type hookResult struct {
	OK bool `json:"ok"`
}

// newHookPostToolCmd creates the PostToolUse hook handler: classify the
// observed git/gh command, build a memory record, append it to the queue.
//
// Every path exits 0. Hooks must never block Claude Code or alter its exit
// code — failures are diagnostics in the side-channel log, nothing more.
func newHookPostToolCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "post-tool",
		Short:         "PostToolUse hook — queues git/GitHub workflow events",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := hookLogger()

			env := hookio.Read(cmd.InOrStdin())
			pipeline := workflow.New(gitinfo.Repo{}, ghcli.Client{}, logger)

			record, _ := pipeline.Run(cmd.Context(), env)
			if record == nil {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(hookResult{OK: true})
			}

			queuePath, err := app.GetQueuePath()
			if err != nil {
				logger.Warn("queue path unresolved, record dropped", "error", err)
				return json.NewEncoder(cmd.OutOrStdout()).Encode(hookResult{OK: true})
			}

			if err := queue.Append(queuePath, record); err != nil {
				logger.Warn("queue append failed, record dropped", "error", err, "queue", queuePath)
			} else {
				logger.Info("record queued",
					"workflow_type", record.Metadata.WorkflowType,
					"project", record.Metadata.Project,
					"importance", record.Importance)
			}

			return json.NewEncoder(cmd.OutOrStdout()).Encode(hookResult{OK: true})
		},
	}
}

// hookLogger routes hook diagnostics to the side-channel log file so the
// host's stderr stays quiet. Falls back to the process default logger when
// the log file can't be opened.
func hookLogger() *slog.Logger {
	logPath, err := app.GetLogPath()
	if err != nil {
		return slog.Default()
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec // G304: path from config
	if err != nil {
		return slog.Default()
	}
	// Left open for process lifetime; hook invocations are short-lived.
	return slog.New(slog.NewJSONHandler(f, nil))
}
