// Package ghcli shells out to the gh binary for read-only pull-request
// lookups. gh is treated purely as a data source; every call is bounded by a
// context timeout and every failure degrades to missing data.
package ghcli

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/dotcommander/gitmem/internal/workflow"
)

// lookupTimeout bounds each gh invocation so a slow network call can never
// hang the host's command loop.
const lookupTimeout = 5 * time.Second

// Client runs gh commands. Implements workflow.PRQuerier.
type Client struct{}

var _ workflow.PRQuerier = Client{}

// PRTitle returns the title of the given PR, or "" when gh fails.
func (Client) PRTitle(ctx context.Context, slug, number string) (string, error) {
	return run(ctx, "pr", "view", number, "--repo", slug, "--json", "title", "--jq", ".title")
}

// PRBody returns the body text of the given PR, or "" when gh fails.
func (Client) PRBody(ctx context.Context, slug, number string) (string, error) {
	return run(ctx, "pr", "view", number, "--repo", slug, "--json", "body", "--jq", ".body")
}

func run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "gh", args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
