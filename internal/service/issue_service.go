package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domainErrors "github.com/bugloop/issue-tracker/internal/domain/errors"
	"github.com/bugloop/issue-tracker/internal/domain/models"
	"github.com/bugloop/issue-tracker/internal/domain/repository"
)

// allowedTransitions is the issue workflow. A transition absent from the
// target set is rejected; transitioning to the current status is a no-op.
var allowedTransitions = map[models.IssueStatus]map[models.IssueStatus]bool{
	models.StatusOpen:       {models.StatusInProgress: true, models.StatusRejected: true},
	models.StatusInProgress: {models.StatusResolved: true, models.StatusClosed: true, models.StatusRejected: true},
	models.StatusResolved:   {models.StatusClosed: true, models.StatusInProgress: true},
	models.StatusClosed:     {models.StatusOpen: true},
	models.StatusRejected:   {models.StatusOpen: true},
}

// ValidateTransition checks the workflow table without touching storage.
func ValidateTransition(current, target models.IssueStatus) error {
	if current == target {
		return nil
	}
	if !allowedTransitions[current][target] {
		return fmt.Errorf("%w: %s -> %s", domainErrors.ErrInvalidTransition, current, target)
	}
	return nil
}

// IssueService implements issue CRUD and the status workflow.
type IssueService struct {
	issues   repository.IssueRepository
	comments repository.CommentRepository
	logger   *zap.Logger
}

func NewIssueService(issues repository.IssueRepository, comments repository.CommentRepository, logger *zap.Logger) *IssueService {
	return &IssueService{issues: issues, comments: comments, logger: logger}
}

func (s *IssueService) Create(ctx context.Context, actor Actor, req models.CreateIssueRequest) (*models.Issue, error) {
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	reporterID := actor.UserID
	return s.issues.Create(ctx, &models.Issue{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.StatusOpen,
		Priority:    priority,
		ProjectID:   req.ProjectID,
		ReporterID:  &reporterID,
		AssigneeID:  req.AssigneeID,
	})
}

func (s *IssueService) Get(ctx context.Context, id int64) (*models.Issue, error) {
	return s.issues.FindByID(ctx, id)
}

func (s *IssueService) List(ctx context.Context, filter models.IssueFilter) (*models.PaginatedIssues, error) {
	items, total, err := s.issues.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &models.PaginatedIssues{
		Items:   items,
		Total:   total,
		Page:    filter.Page,
		PerPage: filter.PerPage,
	}, nil
}

func (s *IssueService) Update(ctx context.Context, actor Actor, id int64, req models.UpdateIssueRequest) (*models.Issue, error) {
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !Can(actor, ActionUpdateIssue, 0, issue) {
		return nil, domainErrors.ErrForbidden
	}

	if req.Title != nil {
		issue.Title = *req.Title
	}
	if req.Description != nil {
		issue.Description = req.Description
	}
	if req.Priority != nil {
		issue.Priority = *req.Priority
	}
	if req.AssigneeID != nil {
		issue.AssigneeID = req.AssigneeID
	}

	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// ChangeStatus validates and applies a workflow transition. One business
// rule rides on top of the table: a critical issue cannot be closed until
// it has at least one comment.
func (s *IssueService) ChangeStatus(ctx context.Context, actor Actor, id int64, target models.IssueStatus) (*models.Issue, error) {
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !Can(actor, ActionTransition, 0, issue) {
		return nil, domainErrors.ErrForbidden
	}

	if err := ValidateTransition(issue.Status, target); err != nil {
		return nil, err
	}

	if target == models.StatusClosed && issue.Priority == models.PriorityCritical {
		count, err := s.comments.CountByIssue(ctx, id)
		if err != nil {
			return nil, err
		}
		if count < 1 {
			return nil, domainErrors.ErrCriticalNeedsComment
		}
	}

	if issue.Status == target {
		return issue, nil
	}

	previous := issue.Status
	issue.Status = target
	if err := s.issues.Update(ctx, issue); err != nil {
		return nil, err
	}
	s.logger.Info("issue status changed",
		zap.Int64("issue_id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(target)),
		zap.Int64("actor_id", actor.UserID),
	)
	return issue, nil
}

func (s *IssueService) Delete(ctx context.Context, actor Actor, id int64) error {
	issue, err := s.issues.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !Can(actor, ActionUpdateIssue, 0, issue) {
		return domainErrors.ErrForbidden
	}
	return s.issues.Delete(ctx, id)
}
