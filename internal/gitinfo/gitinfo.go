// Package gitinfo answers read-only questions about the repository the
// observed command ran in: HEAD subject, current branch, merge parentage,
// and the owner/repo slug of the origin remote.
package gitinfo

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/dotcommander/gitmem/internal/workflow"
)

// Repo implements workflow.GitQuerier by opening the repository fresh per
// query. Hook invocations are single-pass, so there is nothing to cache.
type Repo struct{}

var _ workflow.GitQuerier = Repo{}

func open(dir string) (*git.Repository, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		dir = wd
	}
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", dir, err)
	}
	return repo, nil
}

// CommitFacts returns the HEAD commit subject, the current branch name, and
// the HEAD parent count (>1 means the latest commit is a merge).
func (Repo) CommitFacts(dir string) (workflow.CommitFacts, error) {
	repo, err := open(dir)
	if err != nil {
		return workflow.CommitFacts{}, err
	}

	head, err := repo.Head()
	if err != nil {
		return workflow.CommitFacts{}, fmt.Errorf("get HEAD: %w", err)
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return workflow.CommitFacts{}, fmt.Errorf("get HEAD commit: %w", err)
	}

	subject, _, _ := strings.Cut(strings.TrimSpace(commit.Message), "\n")

	branch := ""
	if head.Name().IsBranch() {
		branch = head.Name().Short()
	}

	return workflow.CommitFacts{
		Subject:     strings.TrimSpace(subject),
		Branch:      branch,
		ParentCount: len(commit.ParentHashes),
	}, nil
}

// RemoteSlug returns the "owner/repo" slug of the origin remote, handling
// both https and ssh URL forms. Empty when no origin remote exists.
func (Repo) RemoteSlug(dir string) (string, error) {
	repo, err := open(dir)
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("get origin remote: %w", err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", nil
	}
	return ParseSlug(urls[0]), nil
}

// ParseSlug extracts "owner/repo" from a remote URL. Supported forms:
//
//	https://github.com/owner/repo.git
//	git@github.com:owner/repo.git
//	ssh://git@github.com/owner/repo
//
// Returns "" when the URL doesn't carry an owner/repo pair.
func ParseSlug(url string) string {
	url = strings.TrimSuffix(strings.TrimSpace(url), ".git")

	if i := strings.Index(url, "://"); i >= 0 {
		url = url[i+3:]
	}
	if i := strings.LastIndex(url, "@"); i >= 0 {
		url = url[i+1:]
	}
	// scp-like syntax: host:owner/repo
	if i := strings.Index(url, ":"); i >= 0 {
		url = url[i+1:]
	} else if i := strings.Index(url, "/"); i >= 0 {
		url = url[i+1:]
	}

	url = strings.Trim(url, "/")
	parts := strings.Split(url, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return ""
	}
	return parts[0] + "/" + parts[1]
}
