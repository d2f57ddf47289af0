package workflow

import (
	"strings"
	"time"

	"github.com/dotcommander/gitmem/internal/models"
)

// truncationMarker is appended whenever a field is cut.
const truncationMarker = "..."

// workflowTags returns the type-specific tag tokens that sit between the
// domain tag and the repo tag.
func workflowTags(wt models.WorkflowType) []string {
	switch wt {
	case models.WorkflowCommit:
		return []string{"commit"}
	case models.WorkflowIssueCreate:
		return []string{"issue", "created"}
	case models.WorkflowIssueClose:
		return []string{"issue", "closed"}
	case models.WorkflowPRMerge:
		return []string{"pr", "merged"}
	case models.WorkflowPRReview, models.WorkflowPRReviewAPI:
		return []string{"pr", "review"}
	default:
		return nil
	}
}

// truncate cuts s to max runes, appending the truncation marker when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + truncationMarker
}

// Finalize assembles the MemoryRecord for a classified workflow event.
// Returns nil when the content is empty or a bare placeholder; only non-nil
// records reach the queue. Tag order is semantically meaningful: domain tag
// first, repo tag last.
func Finalize(wt models.WorkflowType, content, project, command string, importance float64, now time.Time) *models.MemoryRecord {
	content = strings.TrimSpace(content)
	if content == "" || content == "unknown" {
		return nil
	}

	tags := append([]string{models.DomainTag}, workflowTags(wt)...)
	tags = append(tags, "repo:"+project)

	return &models.MemoryRecord{
		Content:    truncate(content, models.MaxContentLength),
		Tags:       tags,
		Importance: importance,
		Type:       models.RecordType,
		Metadata: models.RecordMetadata{
			WorkflowType: wt,
			Project:      project,
			Command:      truncate(command, models.MaxCommandLength),
		},
		Timestamp: now.UTC().Truncate(time.Second),
	}
}
