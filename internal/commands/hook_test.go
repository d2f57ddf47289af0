package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dotcommander/gitmem/internal/models"
	"github.com/dotcommander/gitmem/internal/queue"
	"github.com/dotcommander/gitmem/internal/store"
)

func runPostTool(t *testing.T, stdin string) string {
	t.Helper()
	cmd := newHookPostToolCmd()
	cmd.SetIn(strings.NewReader(stdin))
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestHookPostTool_NonCandidateCommandSucceedsQuietly(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	queuePath := filepath.Join(dir, "queue.jsonl")
	t.Setenv("GITMEM_QUEUE_PATH", queuePath)
	t.Setenv("GITMEM_LOG_PATH", filepath.Join(dir, "hook.log"))

	out := runPostTool(t, `{"tool_input":{"command":"ls -la"},"cwd":"/tmp"}`)

	var res hookResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.True(t, res.OK)
	require.NoFileExists(t, queuePath)
}

func TestHookPostTool_MalformedStdinStillSucceeds(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Setenv("GITMEM_QUEUE_PATH", filepath.Join(dir, "queue.jsonl"))
	t.Setenv("GITMEM_LOG_PATH", filepath.Join(dir, "hook.log"))

	out := runPostTool(t, "{definitely not json")

	var res hookResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.True(t, res.OK)
}

func TestHookPostTool_FailedCommandIsIgnored(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	queuePath := filepath.Join(dir, "queue.jsonl")
	t.Setenv("GITMEM_QUEUE_PATH", queuePath)
	t.Setenv("GITMEM_LOG_PATH", filepath.Join(dir, "hook.log"))
	t.Setenv("GITMEM_TOOL_EXIT_CODE", "1")

	out := runPostTool(t, `{"tool_input":{"command":"git commit -m \"feat: x\""},"cwd":"/tmp"}`)

	var res hookResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.True(t, res.OK)
	require.NoFileExists(t, queuePath)
}

func TestDrainCommand_MovesQueueIntoStore(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	queuePath := filepath.Join(dir, "queue.jsonl")
	dbPath := filepath.Join(dir, "gitmem.db")
	t.Setenv("GITMEM_QUEUE_PATH", queuePath)
	t.Setenv("GITMEM_DB_PATH", dbPath)

	rec := &models.MemoryRecord{
		Content:    "Merged PR #42 in widget: Add retry logic",
		Tags:       []string{"git-workflow", "pr", "merged", "repo:widget"},
		Importance: 0.8,
		Type:       models.RecordType,
		Metadata: models.RecordMetadata{
			WorkflowType: models.WorkflowPRMerge,
			Project:      "widget",
			Command:      "gh pr merge 42",
		},
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, queue.Append(queuePath, rec))

	cmd := NewDrainCmd()
	cmd.SetOut(&bytes.Buffer{})
	require.NoError(t, cmd.Execute())

	// Queue is now empty, record lives in the store.
	depth, err := queue.Depth(queuePath)
	require.NoError(t, err)
	require.Zero(t, depth)

	db, err := store.InitDBWithPath(dbPath)
	require.NoError(t, err)
	defer db.Close()

	rows, err := store.ListMemories(db, "widget", 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Merged PR #42 in widget: Add retry logic", rows[0].Content)
	require.Equal(t, "pr-merge", rows[0].Workflow)
}

func TestDrainCommand_FailedInsertKeepsQueue(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	queuePath := filepath.Join(dir, "queue.jsonl")
	t.Setenv("GITMEM_QUEUE_PATH", queuePath)

	// A regular file where the db's parent dir should be makes store init fail.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	t.Setenv("GITMEM_DB_PATH", filepath.Join(blocker, "gitmem.db"))

	rec := &models.MemoryRecord{
		Content:    "Closed issue #15 in widget",
		Tags:       []string{"git-workflow", "issue", "closed", "repo:widget"},
		Importance: 0.5,
		Type:       models.RecordType,
		Metadata: models.RecordMetadata{
			WorkflowType: models.WorkflowIssueClose,
			Project:      "widget",
			Command:      "gh issue close 15",
		},
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, queue.Append(queuePath, rec))

	var out bytes.Buffer
	cmd := NewDrainCmd()
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), `"success":false`)

	// The failed insert must not consume the queue.
	depth, err := queue.Depth(queuePath)
	require.NoError(t, err)
	require.Equal(t, 1, depth)

	// Pointing at a writable store drains the surviving record.
	t.Setenv("GITMEM_DB_PATH", filepath.Join(dir, "gitmem.db"))
	cmd = NewDrainCmd()
	cmd.SetOut(&bytes.Buffer{})
	require.NoError(t, cmd.Execute())

	depth, err = queue.Depth(queuePath)
	require.NoError(t, err)
	require.Zero(t, depth)

	db, err := store.InitDBWithPath(filepath.Join(dir, "gitmem.db"))
	require.NoError(t, err)
	defer db.Close()

	count, err := store.CountMemories(db)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestDrainCommand_EmptyQueueIsNoop(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "gitmem.db")
	t.Setenv("GITMEM_QUEUE_PATH", filepath.Join(dir, "queue.jsonl"))
	t.Setenv("GITMEM_DB_PATH", dbPath)

	cmd := NewDrainCmd()
	cmd.SetOut(&bytes.Buffer{})
	require.NoError(t, cmd.Execute())

	// No records: the store file is never created.
	_, err := os.Stat(dbPath)
	require.True(t, os.IsNotExist(err))
}
