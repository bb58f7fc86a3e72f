package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainErrors "github.com/bugloop/issue-tracker/internal/domain/errors"
	"github.com/bugloop/issue-tracker/internal/domain/models"
)

type fakeIssueStore struct {
	mu     sync.Mutex
	nextID int64
	issues map[int64]*models.Issue
}

func newFakeIssueStore() *fakeIssueStore {
	return &fakeIssueStore{nextID: 1, issues: make(map[int64]*models.Issue)}
}

func (f *fakeIssueStore) Create(_ context.Context, issue *models.Issue) (*models.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *issue
	copied.ID = f.nextID
	f.nextID++
	copied.CreatedAt = time.Now()
	copied.UpdatedAt = copied.CreatedAt
	f.issues[copied.ID] = &copied
	out := copied
	return &out, nil
}

func (f *fakeIssueStore) FindByID(_ context.Context, id int64) (*models.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	issue, ok := f.issues[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	copied := *issue
	return &copied, nil
}

func (f *fakeIssueStore) Update(_ context.Context, issue *models.Issue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.issues[issue.ID]; !ok {
		return domainErrors.ErrNotFound
	}
	copied := *issue
	f.issues[issue.ID] = &copied
	return nil
}

func (f *fakeIssueStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.issues[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(f.issues, id)
	return nil
}

func (f *fakeIssueStore) List(_ context.Context, _ models.IssueFilter) ([]models.Issue, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Issue, 0, len(f.issues))
	for _, issue := range f.issues {
		out = append(out, *issue)
	}
	return out, int64(len(out)), nil
}

type fakeCommentStore struct {
	mu       sync.Mutex
	nextID   int64
	comments map[int64][]models.Comment
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{nextID: 1, comments: make(map[int64][]models.Comment)}
}

func (f *fakeCommentStore) Create(_ context.Context, comment *models.Comment) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *comment
	copied.ID = f.nextID
	f.nextID++
	copied.CreatedAt = time.Now()
	f.comments[copied.IssueID] = append(f.comments[copied.IssueID], copied)
	out := copied
	return &out, nil
}

func (f *fakeCommentStore) ListByIssue(_ context.Context, issueID int64) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Comment(nil), f.comments[issueID]...), nil
}

func (f *fakeCommentStore) CountByIssue(_ context.Context, issueID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.comments[issueID])), nil
}

func newTestIssueService(t *testing.T) (*IssueService, *fakeIssueStore, *fakeCommentStore) {
	t.Helper()
	issues := newFakeIssueStore()
	comments := newFakeCommentStore()
	return NewIssueService(issues, comments, zap.NewNop()), issues, comments
}

var reporter = Actor{UserID: 1, Role: models.RoleDeveloper}

func createIssue(t *testing.T, svc *IssueService, priority models.IssuePriority) *models.Issue {
	t.Helper()
	issue, err := svc.Create(context.Background(), reporter, models.CreateIssueRequest{
		Title:     "broken login button",
		Priority:  priority,
		ProjectID: 1,
	})
	require.NoError(t, err)
	return issue
}

func TestCreateIssueDefaults(t *testing.T) {
	svc, _, _ := newTestIssueService(t)
	issue, err := svc.Create(context.Background(), reporter, models.CreateIssueRequest{
		Title:     "something is off",
		ProjectID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, issue.Status)
	assert.Equal(t, models.PriorityMedium, issue.Priority)
	require.NotNil(t, issue.ReporterID)
	assert.Equal(t, reporter.UserID, *issue.ReporterID)
}

func TestValidateTransitionTable(t *testing.T) {
	allowed := []struct{ from, to models.IssueStatus }{
		{models.StatusOpen, models.StatusInProgress},
		{models.StatusOpen, models.StatusRejected},
		{models.StatusInProgress, models.StatusResolved},
		{models.StatusInProgress, models.StatusClosed},
		{models.StatusInProgress, models.StatusRejected},
		{models.StatusResolved, models.StatusClosed},
		{models.StatusResolved, models.StatusInProgress},
		{models.StatusClosed, models.StatusOpen},
		{models.StatusRejected, models.StatusOpen},
	}
	for _, tc := range allowed {
		assert.NoError(t, ValidateTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct{ from, to models.IssueStatus }{
		{models.StatusOpen, models.StatusResolved},
		{models.StatusOpen, models.StatusClosed},
		{models.StatusResolved, models.StatusOpen},
		{models.StatusResolved, models.StatusRejected},
		{models.StatusClosed, models.StatusInProgress},
		{models.StatusClosed, models.StatusResolved},
		{models.StatusRejected, models.StatusInProgress},
		{models.StatusRejected, models.StatusClosed},
	}
	for _, tc := range denied {
		assert.ErrorIs(t, ValidateTransition(tc.from, tc.to), domainErrors.ErrInvalidTransition, "%s -> %s", tc.from, tc.to)
	}

	// Same-status transitions are no-ops, never errors.
	for _, status := range []models.IssueStatus{models.StatusOpen, models.StatusClosed} {
		assert.NoError(t, ValidateTransition(status, status))
	}
}

func TestChangeStatusWalk(t *testing.T) {
	svc, _, _ := newTestIssueService(t)
	ctx := context.Background()
	issue := createIssue(t, svc, models.PriorityHigh)

	issue, err := svc.ChangeStatus(ctx, reporter, issue.ID, models.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, issue.Status)

	issue, err = svc.ChangeStatus(ctx, reporter, issue.ID, models.StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, issue.Status)

	_, err = svc.ChangeStatus(ctx, reporter, issue.ID, models.StatusRejected)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidTransition)
}

func TestCriticalIssueNeedsCommentToClose(t *testing.T) {
	svc, _, comments := newTestIssueService(t)
	ctx := context.Background()
	issue := createIssue(t, svc, models.PriorityCritical)

	_, err := svc.ChangeStatus(ctx, reporter, issue.ID, models.StatusInProgress)
	require.NoError(t, err)

	_, err = svc.ChangeStatus(ctx, reporter, issue.ID, models.StatusClosed)
	assert.ErrorIs(t, err, domainErrors.ErrCriticalNeedsComment)

	_, err = comments.Create(ctx, &models.Comment{IssueID: issue.ID, Content: "root cause found"})
	require.NoError(t, err)

	issue, err = svc.ChangeStatus(ctx, reporter, issue.ID, models.StatusClosed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, issue.Status)
}

func TestChangeStatusRequiresCapability(t *testing.T) {
	svc, _, _ := newTestIssueService(t)
	ctx := context.Background()
	issue := createIssue(t, svc, models.PriorityLow)

	outsider := Actor{UserID: 999, Role: models.RoleDeveloper}
	_, err := svc.ChangeStatus(ctx, outsider, issue.ID, models.StatusInProgress)
	assert.ErrorIs(t, err, domainErrors.ErrForbidden)

	manager := Actor{UserID: 999, Role: models.RoleManager}
	_, err = svc.ChangeStatus(ctx, manager, issue.ID, models.StatusInProgress)
	assert.NoError(t, err)
}

func TestUpdateIssueFields(t *testing.T) {
	svc, _, _ := newTestIssueService(t)
	ctx := context.Background()
	issue := createIssue(t, svc, models.PriorityLow)

	newTitle := "actually the logout button"
	assignee := int64(7)
	updated, err := svc.Update(ctx, reporter, issue.ID, models.UpdateIssueRequest{
		Title:      &newTitle,
		AssigneeID: &assignee,
	})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, assignee, *updated.AssigneeID)
	assert.Equal(t, models.PriorityLow, updated.Priority)
}

func TestDeleteIssue(t *testing.T) {
	svc, _, _ := newTestIssueService(t)
	ctx := context.Background()
	issue := createIssue(t, svc, models.PriorityLow)

	outsider := Actor{UserID: 999, Role: models.RoleDeveloper}
	assert.ErrorIs(t, svc.Delete(ctx, outsider, issue.ID), domainErrors.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, reporter, issue.ID))
	_, err := svc.Get(ctx, issue.ID)
	assert.ErrorIs(t, err, domainErrors.ErrNotFound)
}
