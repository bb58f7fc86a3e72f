package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bugloop/issue-tracker/internal/domain/models"
)

func TestCanProjectManagement(t *testing.T) {
	owner := Actor{UserID: 1, Role: models.RoleDeveloper}
	other := Actor{UserID: 2, Role: models.RoleDeveloper}
	manager := Actor{UserID: 3, Role: models.RoleManager}
	admin := Actor{UserID: 4, Role: models.RoleAdmin}

	assert.True(t, Can(owner, ActionManageProject, 1, nil))
	assert.False(t, Can(other, ActionManageProject, 1, nil))
	assert.True(t, Can(manager, ActionManageProject, 1, nil))
	assert.True(t, Can(admin, ActionManageProject, 1, nil))
}

func TestCanIssueActions(t *testing.T) {
	reporterID := int64(1)
	assigneeID := int64(2)
	issue := &models.Issue{ReporterID: &reporterID, AssigneeID: &assigneeID}

	for _, action := range []Action{ActionUpdateIssue, ActionTransition, ActionComment} {
		assert.True(t, Can(Actor{UserID: 1, Role: models.RoleDeveloper}, action, 0, issue), "%s: reporter", action)
		assert.True(t, Can(Actor{UserID: 2, Role: models.RoleDeveloper}, action, 0, issue), "%s: assignee", action)
		assert.False(t, Can(Actor{UserID: 3, Role: models.RoleDeveloper}, action, 0, issue), "%s: bystander", action)
		assert.True(t, Can(Actor{UserID: 3, Role: models.RoleManager}, action, 0, issue), "%s: manager", action)
	}
}

func TestCanNilIssue(t *testing.T) {
	assert.False(t, Can(Actor{UserID: 1, Role: models.RoleDeveloper}, ActionComment, 0, nil))
}

func TestCanIssueWithoutReporter(t *testing.T) {
	issue := &models.Issue{}
	assert.False(t, Can(Actor{UserID: 1, Role: models.RoleDeveloper}, ActionUpdateIssue, 0, issue))
}

func TestCanUnknownAction(t *testing.T) {
	// Admin short-circuits before the action switch; everyone else is denied.
	assert.True(t, Can(Actor{UserID: 1, Role: models.RoleAdmin}, Action("bogus"), 0, nil))
	assert.False(t, Can(Actor{UserID: 1, Role: models.RoleDeveloper}, Action("bogus"), 0, nil))
}
