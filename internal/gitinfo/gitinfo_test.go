package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, repo *git.Repository, dir, name, body, message string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
	_, err = wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func TestCommitFacts(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	commitFile(t, repo, dir, "a.txt", "hello", "feat: add caching\n\nlonger body text")

	facts, err := Repo{}.CommitFacts(dir)
	require.NoError(t, err)
	require.Equal(t, "feat: add caching", facts.Subject)
	require.Equal(t, "master", facts.Branch)
	require.Equal(t, 0, facts.ParentCount)

	commitFile(t, repo, dir, "b.txt", "world", "fix: second commit")
	facts, err = Repo{}.CommitFacts(dir)
	require.NoError(t, err)
	require.Equal(t, "fix: second commit", facts.Subject)
	require.Equal(t, 1, facts.ParentCount)
}

func TestCommitFacts_MergeParentage(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	commitFile(t, repo, dir, "a.txt", "one", "chore: base")

	head, err := repo.Head()
	require.NoError(t, err)
	base := head.Hash()

	commitFile(t, repo, dir, "b.txt", "two", "feat: side work")
	head, err = repo.Head()
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Commit("Merge branch 'side'", &git.CommitOptions{
		Author:            &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
		Parents:           []plumbing.Hash{head.Hash(), base},
		AllowEmptyCommits: true,
	})
	require.NoError(t, err)

	facts, err := Repo{}.CommitFacts(dir)
	require.NoError(t, err)
	require.Equal(t, "Merge branch 'side'", facts.Subject)
	require.Equal(t, 2, facts.ParentCount)
}

func TestCommitFacts_NotARepository(t *testing.T) {
	_, err := Repo{}.CommitFacts(t.TempDir())
	require.Error(t, err)
}

func TestRemoteSlug(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = Repo{}.RemoteSlug(dir)
	require.Error(t, err)

	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://github.com/acme/widget.git"},
	})
	require.NoError(t, err)

	slug, err := Repo{}.RemoteSlug(dir)
	require.NoError(t, err)
	require.Equal(t, "acme/widget", slug)
}

func TestParseSlug(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/acme/widget.git", "acme/widget"},
		{"https://github.com/acme/widget", "acme/widget"},
		{"git@github.com:acme/widget.git", "acme/widget"},
		{"ssh://git@github.com/acme/widget", "acme/widget"},
		{"https://gitlab.example.com/team/tool.git", "team/tool"},
		{"https://github.com/acme", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			require.Equal(t, tt.want, ParseSlug(tt.url))
		})
	}
}
