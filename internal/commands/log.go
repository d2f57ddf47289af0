package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/gitmem/internal/app"
	"github.com/dotcommander/gitmem/internal/output"
	"github.com/dotcommander/gitmem/internal/store"
)

// NewLogCmd creates the log command: list recently stored workflow memories.
func NewLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "List recently stored workflow memories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			project, _ := cmd.Flags().GetString("project")

			dbPath, err := app.GetDBPath()
			if err != nil {
				return output.PrintError(cmd.OutOrStdout(), err)
			}
			if _, err := os.Stat(dbPath); os.IsNotExist(err) {
				return output.PrintSuccess(cmd.OutOrStdout(), []store.StoredMemory{})
			}

			db, err := store.InitDBWithPath(dbPath)
			if err != nil {
				return output.PrintError(cmd.OutOrStdout(), err)
			}
			defer func() { _ = db.Close() }()

			memories, err := store.ListMemories(db, project, limit)
			if err != nil {
				return output.PrintError(cmd.OutOrStdout(), err)
			}
			if memories == nil {
				memories = []store.StoredMemory{}
			}
			return output.PrintSuccess(cmd.OutOrStdout(), memories)
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum number of memories to list")
	cmd.Flags().String("project", "", "Filter by project name")
	return cmd
}
