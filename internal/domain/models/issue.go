package models

import "time"

// IssueStatus enumerates the workflow states of an issue.
type IssueStatus string

const (
	StatusOpen       IssueStatus = "open"
	StatusInProgress IssueStatus = "in_progress"
	StatusResolved   IssueStatus = "resolved"
	StatusClosed     IssueStatus = "closed"
	StatusRejected   IssueStatus = "rejected"
)

// IssuePriority enumerates issue priorities.
type IssuePriority string

const (
	PriorityLow      IssuePriority = "low"
	PriorityMedium   IssuePriority = "medium"
	PriorityHigh     IssuePriority = "high"
	PriorityCritical IssuePriority = "critical"
)

// Issue represents the issues table. Titles are unique per project.
type Issue struct {
	ID          int64         `json:"id" db:"id"`
	Title       string        `json:"title" db:"title"`
	Description *string       `json:"description,omitempty" db:"description"`
	Status      IssueStatus   `json:"status" db:"status"`
	Priority    IssuePriority `json:"priority" db:"priority"`
	ProjectID   int64         `json:"project_id" db:"project_id"`
	ReporterID  *int64        `json:"reporter_id,omitempty" db:"reporter_id"`
	AssigneeID  *int64        `json:"assignee_id,omitempty" db:"assignee_id"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// CreateIssueRequest is the payload for issue creation.
type CreateIssueRequest struct {
	Title       string        `json:"title" binding:"required,max=255"`
	Description *string       `json:"description"`
	Priority    IssuePriority `json:"priority"`
	ProjectID   int64         `json:"project_id" binding:"required"`
	AssigneeID  *int64        `json:"assignee_id"`
}

// UpdateIssueRequest carries optional field updates. Status changes go
// through the dedicated transition endpoint, not through here.
type UpdateIssueRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Priority    *IssuePriority `json:"priority"`
	AssigneeID  *int64         `json:"assignee_id"`
}

// ChangeStatusRequest is the payload of the status-transition endpoint.
type ChangeStatusRequest struct {
	Status IssueStatus `json:"status" binding:"required"`
}

// IssueFilter narrows and orders issue listings.
type IssueFilter struct {
	Search     string
	ProjectID  *int64
	Status     *IssueStatus
	Priority   *IssuePriority
	AssigneeID *int64
	ReporterID *int64
	SortBy     string
	SortOrder  string
	Page       int
	PerPage    int
}

// PaginatedIssues is the listing envelope.
type PaginatedIssues struct {
	Items   []Issue `json:"items"`
	Total   int64   `json:"total"`
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
}
