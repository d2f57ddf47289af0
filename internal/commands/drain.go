package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dotcommander/gitmem/internal/app"
	"github.com/dotcommander/gitmem/internal/models"
	"github.com/dotcommander/gitmem/internal/output"
	"github.com/dotcommander/gitmem/internal/queue"
	"github.com/dotcommander/gitmem/internal/store"
)

// NewDrainCmd creates the drain command: move queued records into the
// SQLite memory store.
func NewDrainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drain",
		Short: "Drain the event queue into the memory store",
		Long: `Reads all queued records under the queue lock, persists them into the
SQLite memory store, and truncates the queue. The queue is truncated only
after the store insert succeeds; a failed insert leaves every record queued
for the next drain. Safe to run on an empty or missing queue. Malformed lines
are dropped and reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			queuePath, err := app.GetQueuePath()
			if err != nil {
				return output.PrintError(cmd.OutOrStdout(), err)
			}

			inserted := 0
			res, err := queue.Drain(queuePath, func(records []models.MemoryRecord) error {
				if len(records) == 0 {
					return nil
				}
				db, err := store.InitDB()
				if err != nil {
					return err
				}
				defer func() { _ = db.Close() }()

				inserted, err = store.InsertMemories(db, records)
				return err
			})
			if err != nil {
				return output.PrintError(cmd.OutOrStdout(), err)
			}
			if res.Malformed > 0 {
				slog.Warn("malformed queue lines dropped", "count", res.Malformed, "queue", queuePath)
			}

			type resp struct {
				Drained   int    `json:"drained"`
				Malformed int    `json:"malformed"`
				Queue     string `json:"queue"`
			}
			return output.PrintSuccess(cmd.OutOrStdout(), resp{Drained: inserted, Malformed: res.Malformed, Queue: queuePath})
		},
	}
}
