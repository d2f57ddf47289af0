// Package hookcmd provides hook installation and uninstallation commands.
// This package is separate from the main commands package to allow independent
// evolution of hook lifecycle management.
package hookcmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/gitmem/internal/output"
)

const gitmemCommandFallback = "gitmem"

// hookEventName is the Claude Code lifecycle event gitmem hooks into.
const hookEventName = "PostToolUse"

// hookMatcher restricts the hook to shell commands; other tools carry no
// git/GitHub workflow signal.
const hookMatcher = "Bash"

type hookHandler struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Timeout int    `json:"timeout"`
}

type hookEntry struct {
	Matcher string        `json:"matcher"`
	Hooks   []hookHandler `json:"hooks"`
}

func claudeSettingsPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".claude", "settings.json")
}

func projectClaudeSettingsPath() string {
	wd, err := os.Getwd()
	if err != nil {
		return filepath.Join(".", ".claude", "settings.json")
	}
	return filepath.Join(wd, ".claude", "settings.json")
}

func resolveClaudeSettingsPath(projectScoped bool) string {
	if projectScoped {
		return projectClaudeSettingsPath()
	}
	return claudeSettingsPath()
}

func gitmemExecutable() string {
	exe, err := os.Executable()
	if err != nil || strings.TrimSpace(exe) == "" {
		return gitmemCommandFallback
	}
	return exe
}

func buildHookCommand() string {
	exe := gitmemExecutable()
	if exe == gitmemCommandFallback {
		return "gitmem hook post-tool"
	}
	return fmt.Sprintf("%q hook post-tool", exe)
}

func gitmemHookEntry() hookEntry {
	return hookEntry{
		Matcher: hookMatcher,
		Hooks: []hookHandler{{
			Type:    "command",
			Command: buildHookCommand(),
			Timeout: 10000,
		}},
	}
}

func readSettings(path string) (map[string]any, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path derived from home dir or cwd
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return settings, nil
}

func writeSettings(path string, settings map[string]any) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// IsGitmemHookCommand checks if a command string is the gitmem hook handler.
func IsGitmemHookCommand(command string) bool {
	parts := strings.Fields(strings.TrimSpace(command))
	if len(parts) < 3 {
		return false
	}
	execToken := strings.Trim(parts[0], "\"'")
	return filepath.Base(execToken) == "gitmem" && parts[1] == "hook" && parts[2] == "post-tool"
}

// entryIsGitmem matches both the canonical command form and whatever command
// the current binary would install, so a renamed binary still finds its own
// entry on reinstall or uninstall.
func entryIsGitmem(entry any) bool {
	entryObj, ok := entry.(map[string]any)
	if !ok {
		return false
	}
	hooks, ok := entryObj["hooks"].([]any)
	if !ok {
		return false
	}
	for _, h := range hooks {
		hMap, ok := h.(map[string]any)
		if !ok {
			continue
		}
		cmd, _ := hMap["command"].(string)
		if IsGitmemHookCommand(cmd) || cmd == buildHookCommand() {
			return true
		}
	}
	return false
}

// upsertHookEntry replaces any existing gitmem entry with newEntry, keeping
// foreign entries untouched. Reports whether an entry already existed.
func upsertHookEntry(existing []any, newEntry map[string]any) (entries []any, replaced bool) {
	var kept []any
	for _, e := range existing {
		if entryIsGitmem(e) {
			replaced = true
			continue
		}
		kept = append(kept, e)
	}
	return append(kept, newEntry), replaced
}

// NewInstallCmd creates the hook install command.
func NewInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the gitmem PostToolUse hook for Claude Code",
		Long: `Merges a PostToolUse[Bash] hook entry into Claude Code's settings.json,
preserving any existing hooks. Idempotent: reinstalling updates the gitmem
entry in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projectScoped, _ := cmd.Flags().GetBool("project")
			path := resolveClaudeSettingsPath(projectScoped)

			settings, err := readSettings(path)
			if err != nil {
				return output.PrintError(cmd.OutOrStdout(), err)
			}

			hooksObj, _ := settings["hooks"].(map[string]any)
			if hooksObj == nil {
				hooksObj = map[string]any{}
			}

			entryJSON, _ := json.Marshal(gitmemHookEntry())
			var entryMap map[string]any
			_ = json.Unmarshal(entryJSON, &entryMap)

			existing, _ := hooksObj[hookEventName].([]any)
			entries, replaced := upsertHookEntry(existing, entryMap)
			hooksObj[hookEventName] = entries
			settings["hooks"] = hooksObj

			if err := writeSettings(path, settings); err != nil {
				return output.PrintError(cmd.OutOrStdout(), err)
			}

			status := "installed"
			if replaced {
				status = "updated"
			}
			type resp struct {
				Path   string `json:"path"`
				Event  string `json:"event"`
				Status string `json:"status"`
			}
			return output.PrintSuccess(cmd.OutOrStdout(), resp{Path: path, Event: hookEventName, Status: status})
		},
	}

	cmd.Flags().Bool("project", false, "Install into ./.claude/settings.json instead of the user settings")
	return cmd
}

// NewUninstallCmd creates the hook uninstall command.
func NewUninstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the gitmem hook from Claude Code settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projectScoped, _ := cmd.Flags().GetBool("project")
			path := resolveClaudeSettingsPath(projectScoped)

			settings, err := readSettings(path)
			if err != nil {
				return output.PrintError(cmd.OutOrStdout(), err)
			}

			removed := false
			if hooksObj, ok := settings["hooks"].(map[string]any); ok {
				if existing, ok := hooksObj[hookEventName].([]any); ok {
					var kept []any
					for _, e := range existing {
						if entryIsGitmem(e) {
							removed = true
							continue
						}
						kept = append(kept, e)
					}
					if len(kept) == 0 {
						delete(hooksObj, hookEventName)
					} else {
						hooksObj[hookEventName] = kept
					}
					settings["hooks"] = hooksObj
				}
			}

			if removed {
				if err := writeSettings(path, settings); err != nil {
					return output.PrintError(cmd.OutOrStdout(), err)
				}
			}

			type resp struct {
				Path    string `json:"path"`
				Removed bool   `json:"removed"`
			}
			return output.PrintSuccess(cmd.OutOrStdout(), resp{Path: path, Removed: removed})
		},
	}

	cmd.Flags().Bool("project", false, "Uninstall from ./.claude/settings.json instead of the user settings")
	return cmd
}
