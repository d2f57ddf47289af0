package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func freshHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	resetSettingsForTest()
	t.Cleanup(resetSettingsForTest)
	return home
}

func writeConfig(t *testing.T, home, body string) {
	t.Helper()
	dir := filepath.Join(home, ".config", "gitmem")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
}

func TestGetQueuePath_Default(t *testing.T) {
	home := freshHome(t)

	path, err := GetQueuePath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".config", "gitmem", "queue.jsonl"), path)
}

func TestGetQueuePath_Precedence(t *testing.T) {
	home := freshHome(t)
	writeConfig(t, home, "queue_path: /from/config/queue.jsonl\n")

	// config.yaml beats the default.
	path, err := GetQueuePath()
	require.NoError(t, err)
	require.Equal(t, "/from/config/queue.jsonl", path)

	// Env beats config.yaml.
	t.Setenv("GITMEM_QUEUE_PATH", "/from/env/queue.jsonl")
	path, err = GetQueuePath()
	require.NoError(t, err)
	require.Equal(t, "/from/env/queue.jsonl", path)

	// Flag override beats everything.
	SetQueuePathOverride("/from/flag/queue.jsonl")
	path, err = GetQueuePath()
	require.NoError(t, err)
	require.Equal(t, "/from/flag/queue.jsonl", path)
}

func TestGetDBPath_Precedence(t *testing.T) {
	home := freshHome(t)

	path, err := GetDBPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".config", "gitmem", "gitmem.db"), path)

	t.Setenv("GITMEM_DB_PATH", "/from/env/gitmem.db")
	path, err = GetDBPath()
	require.NoError(t, err)
	require.Equal(t, "/from/env/gitmem.db", path)

	SetDBPathOverride("/from/flag/gitmem.db")
	path, err = GetDBPath()
	require.NoError(t, err)
	require.Equal(t, "/from/flag/gitmem.db", path)
}

func TestGetLogPath_FromConfigExpandsHome(t *testing.T) {
	home := freshHome(t)
	writeConfig(t, home, "log_path: ~/logs/gitmem.log\n")

	path, err := GetLogPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "logs", "gitmem.log"), path)
}

func TestLoadSettings_MissingConfigIsZero(t *testing.T) {
	freshHome(t)

	s, err := LoadSettings()
	require.NoError(t, err)
	require.Empty(t, s.QueuePath)
	require.Empty(t, s.LogPath)
	require.Empty(t, s.DBPath)
}

func TestLoadSettings_MalformedConfigErrors(t *testing.T) {
	home := freshHome(t)
	writeConfig(t, home, "queue_path: [not\n")

	_, err := LoadSettings()
	require.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home := freshHome(t)

	got, err := expandHome("~/x/y")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "x", "y"), got)

	got, err = expandHome("/absolute/path")
	require.NoError(t, err)
	require.Equal(t, "/absolute/path", got)

	got, err = expandHome("~")
	require.NoError(t, err)
	require.Equal(t, "~", got)
}

func TestEnsureDBDir(t *testing.T) {
	base := t.TempDir()
	dbPath := filepath.Join(base, "deep", "nested", "gitmem.db")

	dir, err := EnsureDBDir(dbPath)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(base, "deep", "nested"), dir)
	require.DirExists(t, dir)
}
