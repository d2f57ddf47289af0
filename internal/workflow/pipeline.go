package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/dotcommander/gitmem/internal/hookio"
	"github.com/dotcommander/gitmem/internal/models"
)

// CommitFacts are the git-side facts needed to summarize a commit.
type CommitFacts struct {
	Subject     string
	Branch      string
	ParentCount int
}

// GitQuerier is the read-only versioning query surface. Implementations are
// best-effort: callers treat any error as missing data, never as a failure.
type GitQuerier interface {
	CommitFacts(dir string) (CommitFacts, error)
	RemoteSlug(dir string) (string, error)
}

// PRQuerier is the read-only hosting-service query surface used for PR-merge
// enrichment. Same best-effort contract as GitQuerier.
type PRQuerier interface {
	PRTitle(ctx context.Context, slug, number string) (string, error)
	PRBody(ctx context.Context, slug, number string) (string, error)
}

// Pipeline runs the single-pass classify → extract → score → finalize flow
// for one hook invocation. The zero value is not usable; construct with New.
type Pipeline struct {
	git    GitQuerier
	pr     PRQuerier
	logger *slog.Logger

	// lookPath is swapped in tests to simulate missing tools.
	lookPath func(string) (string, error)
	now      func() time.Time
}

// New constructs a Pipeline with real PATH lookups and wall-clock time.
func New(git GitQuerier, pr PRQuerier, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		git:      git,
		pr:       pr,
		logger:   logger,
		lookPath: exec.LookPath,
		now:      time.Now,
	}
}

// Run executes the pipeline for one envelope. A nil record with a non-empty
// reason is a successful no-op; every path here is a clean exit for the host.
// Gate rejections stay silent (most hook invocations are unrelated commands);
// skips after the gate are logged with their reason.
func (p *Pipeline) Run(ctx context.Context, env hookio.Envelope) (*models.MemoryRecord, string) {
	if reason := p.gate(env); reason != "" {
		return nil, reason
	}
	p.logger.Info("workflow command detected", "command", truncate(env.Command, 200))

	wt := Classify(env.Command, env.Output)
	if wt == models.WorkflowUnknown {
		return nil, p.skip("no workflow classification match")
	}

	project := projectName(env.WorkingDir)
	content, subject, reason := p.buildContent(ctx, wt, env, project)
	if reason != "" {
		return nil, p.skip(reason)
	}

	record := Finalize(wt, content, project, env.Command, Importance(wt, subject), p.now())
	if record == nil {
		return nil, p.skip("empty or placeholder content")
	}
	return record, ""
}

func (p *Pipeline) skip(reason string) string {
	p.logger.Info("skipping", "reason", reason)
	return reason
}

// gate decides proceed (empty string) or abort-success (skip reason) before
// any repository or CLI lookups happen.
func (p *Pipeline) gate(env hookio.Envelope) string {
	for _, tool := range []string{"git", "gh"} {
		if _, err := p.lookPath(tool); err != nil {
			return fmt.Sprintf("required tool %q not found", tool)
		}
	}
	if env.ExitStatus != 0 {
		return fmt.Sprintf("command exited %d", env.ExitStatus)
	}
	if env.Command == "" || !IsCandidate(env.Command) {
		return "not a git/GitHub workflow command"
	}
	return ""
}

// buildContent runs the per-type extraction and enrichment. The returned
// subject is only meaningful for commits (it feeds the importance scorer).
//
//nolint:gocyclo // one small branch per workflow type reads better than dispatch indirection
func (p *Pipeline) buildContent(ctx context.Context, wt models.WorkflowType, env hookio.Envelope, project string) (content, subject, skipReason string) {
	switch wt {
	case models.WorkflowCommit:
		return p.commitContent(env, project)

	case models.WorkflowIssueCreate:
		title, hasTitle := ExtractTitleFlag(env.Command)
		if !hasTitle {
			title = "see URL"
		}
		num := "?"
		url, hasURL := ExtractIssueURL(env.Output)
		if hasURL {
			if n, ok := ExtractTrailingNumber(url); ok {
				num = n
			}
		}
		content = fmt.Sprintf("Created issue #%s in %s: %s", num, project, title)
		if hasURL {
			content += " - " + url
		}
		return content, "", ""

	case models.WorkflowIssueClose:
		num := "?"
		if n, ok := ExtractCloseNumber(env.Command); ok {
			num = n
		}
		return fmt.Sprintf("Closed issue #%s in %s", num, project), "", ""

	case models.WorkflowPRMerge:
		return p.mergeContent(ctx, env, project), "", ""

	case models.WorkflowPRReview:
		num := "?"
		if n, ok := ExtractViewNumber(env.Command); ok {
			num = n
		}
		verdict := "changes requested"
		if strings.Contains(strings.ToLower(env.Output), "approved") {
			verdict = "approved"
		}
		return fmt.Sprintf("PR #%s review in %s: %s", num, project, verdict), "", ""

	case models.WorkflowPRReviewAPI:
		num := "?"
		if n, ok := ExtractPullsPathNumber(env.Command); ok {
			num = n
		}
		return fmt.Sprintf("Fetched PR #%s review data in %s", num, project), "", ""

	default:
		return "", "", "no workflow classification match"
	}
}

// commitContent reads HEAD facts and suppresses merge commits: a HEAD with
// more than one parent carries no distinguishing content of its own.
func (p *Pipeline) commitContent(env hookio.Envelope, project string) (content, subject, skipReason string) {
	facts, err := p.git.CommitFacts(env.WorkingDir)
	if err != nil {
		p.logger.Warn("commit facts unavailable", "error", err, "dir", env.WorkingDir)
	}
	if facts.ParentCount > 1 {
		return "", "", "merge commit"
	}

	subject = facts.Subject
	if subject == "" {
		subject = "unknown"
	}
	content = fmt.Sprintf("Committed to %s: %s", project, subject)
	if facts.Branch != "" {
		content += " on " + facts.Branch
	}
	if n, ok := ExtractFilesChanged(env.Output); ok {
		content += fmt.Sprintf(" (%s files)", n)
	}
	return content, subject, ""
}

// mergeContent builds the pr-merge summary, issuing best-effort title and
// linked-issue lookups when the PR number is known. Lookup failures degrade
// the summary, never abort it.
func (p *Pipeline) mergeContent(ctx context.Context, env hookio.Envelope, project string) string {
	num, ok := ExtractMergeNumber(env.Command)
	if !ok {
		num, ok = ExtractHashRef(env.Output)
	}
	if !ok {
		return fmt.Sprintf("Merged PR #? in %s", project)
	}

	content := fmt.Sprintf("Merged PR #%s in %s", num, project)

	slug, err := p.git.RemoteSlug(env.WorkingDir)
	if err != nil || slug == "" {
		if err != nil {
			p.logger.Warn("remote slug unavailable", "error", err, "dir", env.WorkingDir)
		}
		return content
	}

	if title, err := p.pr.PRTitle(ctx, slug, num); err == nil && title != "" {
		content += ": " + title
	} else if err != nil {
		p.logger.Warn("pr title lookup failed", "error", err, "pr", num, "repo", slug)
	}

	if body, err := p.pr.PRBody(ctx, slug, num); err == nil {
		if linked := ExtractLinkedIssues(body); len(linked) > 0 {
			content += fmt.Sprintf(" (closes #%s)", strings.Join(linked, ", #"))
		}
	} else {
		p.logger.Warn("pr body lookup failed", "error", err, "pr", num, "repo", slug)
	}

	return content
}

// projectName derives the project tag from the working directory basename,
// falling back to the process working directory.
func projectName(dir string) string {
	if dir == "" {
		dir, _ = os.Getwd()
	}
	if dir == "" {
		return "unknown"
	}
	return filepath.Base(dir)
}
