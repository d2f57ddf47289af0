package app

import (
	"os"
	"path/filepath"
)

// ConfigDir returns ~/.config/gitmem/ on all platforms.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gitmem"), nil
}

// EnsureConfigDir creates the config directory and default config.yaml if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return os.WriteFile(configFile, []byte(defaultConfig), 0600)
	}
	return nil
}

const defaultConfig = `# gitmem configuration
# Run: gitmem --help

# Optional: override the event queue location.
# Can also be set via GITMEM_QUEUE_PATH or --queue-path.
# queue_path: ~/.config/gitmem/queue.jsonl

# Optional: override the hook diagnostic log location.
# Can also be set via GITMEM_LOG_PATH.
# log_path: ~/.config/gitmem/hook.log

# Optional: override the SQLite memory store location used by 'gitmem drain'.
# Can also be set via GITMEM_DB_PATH or --db-path.
# db_path: ~/.config/gitmem/gitmem.db
`
