package models

import "time"

// WorkflowType identifies the git/GitHub action a hook invocation observed.
type WorkflowType string

// Workflow type constants. Exactly one is assigned per hook invocation;
// WorkflowUnknown never reaches the queue.
const (
	WorkflowCommit      WorkflowType = "commit"
	WorkflowIssueCreate WorkflowType = "issue-create"
	WorkflowIssueClose  WorkflowType = "issue-close"
	WorkflowPRMerge     WorkflowType = "pr-merge"
	WorkflowPRReview    WorkflowType = "pr-review"
	WorkflowPRReviewAPI WorkflowType = "pr-review-api"
	WorkflowUnknown     WorkflowType = "unknown"
)

// RecordType is the fixed type literal marking queued records as contextual
// memories for the downstream consumer (as opposed to entities or decisions).
const RecordType = "context"

// DomainTag is always the first tag on a record and identifies the domain.
const DomainTag = "git-workflow"

// Field size limits enforced by the content finalizer.
const (
	MaxContentLength = 1500
	MaxCommandLength = 500
)

// RecordMetadata carries the structured fields alongside the summary.
type RecordMetadata struct {
	WorkflowType WorkflowType `json:"workflow_type"`
	Project      string       `json:"project"`
	Command      string       `json:"command"`
}

// MemoryRecord is the unit of persistence: one line in the queue file,
// one row in the memory store after draining. Never mutated after creation.
type MemoryRecord struct {
	Content    string         `json:"content"`
	Tags       []string       `json:"tags"`
	Importance float64        `json:"importance"`
	Type       string         `json:"type"`
	Metadata   RecordMetadata `json:"metadata"`
	Timestamp  time.Time      `json:"timestamp"`
}
