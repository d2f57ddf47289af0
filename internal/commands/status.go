package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/gitmem/internal/app"
	"github.com/dotcommander/gitmem/internal/output"
	"github.com/dotcommander/gitmem/internal/queue"
	"github.com/dotcommander/gitmem/internal/store"
)

// NewStatusCmd creates the status command: queue depth and store counts.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queue depth and memory store counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			queuePath, err := app.GetQueuePath()
			if err != nil {
				return output.PrintError(cmd.OutOrStdout(), err)
			}
			depth, err := queue.Depth(queuePath)
			if err != nil {
				return output.PrintError(cmd.OutOrStdout(), err)
			}

			dbPath, err := app.GetDBPath()
			if err != nil {
				return output.PrintError(cmd.OutOrStdout(), err)
			}

			// Don't create the database just to report on it.
			var stored int64
			if _, statErr := os.Stat(dbPath); statErr == nil {
				db, err := store.InitDBWithPath(dbPath)
				if err != nil {
					return output.PrintError(cmd.OutOrStdout(), err)
				}
				defer func() { _ = db.Close() }()

				stored, err = store.CountMemories(db)
				if err != nil {
					return output.PrintError(cmd.OutOrStdout(), err)
				}
			}

			type resp struct {
				QueuePath  string `json:"queue_path"`
				QueueDepth int    `json:"queue_depth"`
				DBPath     string `json:"db_path"`
				Stored     int64  `json:"stored"`
			}
			return output.PrintSuccess(cmd.OutOrStdout(), resp{
				QueuePath:  queuePath,
				QueueDepth: depth,
				DBPath:     dbPath,
				Stored:     stored,
			})
		},
	}
}
