package workflow

import (
	"regexp"
	"strings"

	"github.com/dotcommander/gitmem/internal/models"
)

// Base importance per workflow type. Advisory input to the downstream
// consumer's ranking; pr-merge is the designated "work shipped" signal.
//
//nolint:gochecknoglobals // fixed scoring table
var baseImportance = map[models.WorkflowType]float64{
	models.WorkflowIssueCreate: 0.6,
	models.WorkflowIssueClose:  0.5,
	models.WorkflowPRMerge:     0.8,
	models.WorkflowPRReview:    0.5,
	models.WorkflowPRReviewAPI: 0.5,
}

const defaultImportance = 0.5

// conventionalPrefixPattern matches "feat:", "fix(scope):" and similar
// conventional-commit subject prefixes.
var conventionalPrefixPattern = regexp.MustCompile(`^([a-zA-Z]+)\s*[(:!]`)

// Importance maps a workflow type to its [0,1] score. Commits are refined by
// the conventional-commit prefix of the subject line.
func Importance(wt models.WorkflowType, subject string) float64 {
	if wt != models.WorkflowCommit {
		if s, ok := baseImportance[wt]; ok {
			return s
		}
		return defaultImportance
	}

	switch conventionalPrefix(subject) {
	case "feat", "fix":
		return 0.6
	case "chore", "docs", "style", "ci":
		return 0.4
	case "refactor", "perf", "test":
		return 0.5
	default:
		return defaultImportance
	}
}

func conventionalPrefix(subject string) string {
	m := conventionalPrefixPattern.FindStringSubmatch(strings.TrimSpace(subject))
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}
