// Package workflow turns an observed shell command and its output into a
// queued MemoryRecord: classify, extract, score, finalize.
package workflow

import (
	"regexp"
	"strings"

	"github.com/dotcommander/gitmem/internal/models"
)

// prReviewAPIPattern matches gh api calls targeting pull-request comments or
// reviews, e.g. "gh api repos/o/r/pulls/7/reviews".
var prReviewAPIPattern = regexp.MustCompile(`(?i)gh\s+api\s+\S*pulls/\d+/(comments|reviews)`)

// Classify maps a command and its output to a workflow type using an ordered
// first-match rule set. More specific patterns are checked before overlapping
// ones. Returns WorkflowUnknown when the command carries no workflow signal.
func Classify(command, output string) models.WorkflowType {
	cmd := strings.ToLower(command)
	out := strings.ToLower(output)

	switch {
	case strings.Contains(cmd, "git commit"):
		return models.WorkflowCommit
	case strings.Contains(cmd, "gh issue create"):
		return models.WorkflowIssueCreate
	case strings.Contains(cmd, "gh issue close"):
		return models.WorkflowIssueClose
	case strings.Contains(cmd, "gh pr merge"):
		return models.WorkflowPRMerge
	case strings.Contains(cmd, "gh pr view"):
		// A bare "gh pr view" carries no review signal; only classify when
		// the output shows a verdict.
		if strings.Contains(out, "approved") || strings.Contains(out, "requested changes") {
			return models.WorkflowPRReview
		}
		return models.WorkflowUnknown
	case prReviewAPIPattern.MatchString(command):
		if strings.Contains(out, "body") || strings.Contains(out, "comment") || strings.Contains(out, "state") {
			return models.WorkflowPRReviewAPI
		}
		return models.WorkflowUnknown
	default:
		return models.WorkflowUnknown
	}
}

// IsCandidate reports whether the command text matches any git/GitHub
// workflow pattern at all. The gate uses this to short-circuit before any
// repository or CLI lookups happen.
func IsCandidate(command string) bool {
	cmd := strings.ToLower(command)
	for _, p := range []string{"git commit", "gh issue", "gh pr", "gh api"} {
		if strings.Contains(cmd, p) {
			return true
		}
	}
	return false
}
