package service

import (
	"github.com/bugloop/issue-tracker/internal/domain/models"
)

// Action enumerates the guarded operations of the resource layer.
type Action string

const (
	ActionManageProject Action = "project:manage"
	ActionUpdateIssue   Action = "issue:update"
	ActionTransition    Action = "issue:transition"
	ActionComment       Action = "issue:comment"
)

// Actor is the authenticated principal as seen by capability checks.
type Actor struct {
	UserID int64
	Role   models.Role
}

// Can is the single capability-evaluation function used by every protected
// operation. It replaces per-handler role string comparisons so the rules
// cannot drift between call sites.
//
// Rules: admin may do anything; manager may manage any project and act on
// any issue; otherwise project management requires ownership and issue
// actions require being the reporter or the assignee.
func Can(actor Actor, action Action, ownerID int64, issue *models.Issue) bool {
	if actor.Role == models.RoleAdmin || actor.Role == models.RoleManager {
		return true
	}

	switch action {
	case ActionManageProject:
		return ownerID == actor.UserID
	case ActionUpdateIssue, ActionTransition, ActionComment:
		if issue == nil {
			return false
		}
		if issue.ReporterID != nil && *issue.ReporterID == actor.UserID {
			return true
		}
		if issue.AssigneeID != nil && *issue.AssigneeID == actor.UserID {
			return true
		}
		return false
	default:
		return false
	}
}
