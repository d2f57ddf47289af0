package app

import (
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Settings represents configuration loaded from config.yaml.
// Field names match snake_case YAML keys.
type Settings struct {
	QueuePath string `yaml:"queue_path"`
	LogPath   string `yaml:"log_path"`
	DBPath    string `yaml:"db_path"`
}

// Default filenames under ConfigDir.
const (
	defaultQueueFile = "queue.jsonl"
	defaultLogFile   = "hook.log"
	defaultDBFile    = "gitmem.db"
)

// settingsOnce, settings, settingsErr implement the sync.Once lazy-load singleton for config.
// overrideMu and the override vars implement mutex-protected process-wide overrides for CLI flags.
//
//nolint:gochecknoglobals // sync.Once singleton + RWMutex overrides are intentional process-wide state
var (
	settingsOnce sync.Once
	settings     Settings
	settingsErr  error

	overrideMu        sync.RWMutex
	queuePathOverride string
	dbPathOverride    string
)

// SetQueuePathOverride sets a process-wide queue path override.
// Intended for CLI flag support (e.g. --queue-path).
func SetQueuePathOverride(path string) {
	overrideMu.Lock()
	queuePathOverride = path
	overrideMu.Unlock()
}

// SetDBPathOverride sets a process-wide database path override.
// Intended for CLI flag support (e.g. --db-path).
func SetDBPathOverride(path string) {
	overrideMu.Lock()
	dbPathOverride = path
	overrideMu.Unlock()
}

func getQueuePathOverride() string {
	overrideMu.RLock()
	defer overrideMu.RUnlock()
	return queuePathOverride
}

func getDBPathOverride() string {
	overrideMu.RLock()
	defer overrideMu.RUnlock()
	return dbPathOverride
}

// LoadSettings reads config.yaml once per process. A missing file yields
// zero-value settings, not an error.
func LoadSettings() (Settings, error) {
	settingsOnce.Do(func() {
		dir, err := ConfigDir()
		if err != nil {
			settingsErr = err
			return
		}
		data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
		if os.IsNotExist(err) {
			return
		}
		if err != nil {
			settingsErr = err
			return
		}
		settingsErr = yaml.Unmarshal(data, &settings)
	})
	return settings, settingsErr
}

// resetSettingsForTest clears the settings singleton so tests can reload
// config.yaml from a fresh HOME.
func resetSettingsForTest() {
	settingsOnce = sync.Once{}
	settings = Settings{}
	settingsErr = nil
	SetQueuePathOverride("")
	SetDBPathOverride("")
}

// resolvePath applies precedence: flag override > env var > config.yaml > default.
func resolvePath(override, envKey, configured, defaultFile string) (string, error) {
	if override != "" {
		return override, nil
	}
	if env := os.Getenv(envKey); env != "" {
		return env, nil
	}
	if configured != "" {
		return expandHome(configured)
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, defaultFile), nil
}

// expandHome replaces a leading ~/ with the user home directory so config.yaml
// values like ~/.config/gitmem/queue.jsonl work as written.
func expandHome(path string) (string, error) {
	if len(path) < 2 || path[0] != '~' || path[1] != '/' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[2:]), nil
}

// GetQueuePath resolves the queue file location.
func GetQueuePath() (string, error) {
	s, err := LoadSettings()
	if err != nil {
		return "", err
	}
	return resolvePath(getQueuePathOverride(), "GITMEM_QUEUE_PATH", s.QueuePath, defaultQueueFile)
}

// GetLogPath resolves the hook diagnostic log location.
func GetLogPath() (string, error) {
	s, err := LoadSettings()
	if err != nil {
		return "", err
	}
	return resolvePath("", "GITMEM_LOG_PATH", s.LogPath, defaultLogFile)
}

// GetDBPath resolves the SQLite memory store location.
func GetDBPath() (string, error) {
	s, err := LoadSettings()
	if err != nil {
		return "", err
	}
	return resolvePath(getDBPathOverride(), "GITMEM_DB_PATH", s.DBPath, defaultDBFile)
}

// EnsureDBDir creates the parent directory for the database path.
func EnsureDBDir(dbPath string) (string, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", err
	}
	return dir, nil
}
