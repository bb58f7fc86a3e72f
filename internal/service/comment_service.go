package service

import (
	"context"

	domainErrors "github.com/bugloop/issue-tracker/internal/domain/errors"
	"github.com/bugloop/issue-tracker/internal/domain/models"
	"github.com/bugloop/issue-tracker/internal/domain/repository"
)

// CommentService implements comment creation and listing on issues.
type CommentService struct {
	comments repository.CommentRepository
	issues   repository.IssueRepository
}

func NewCommentService(comments repository.CommentRepository, issues repository.IssueRepository) *CommentService {
	return &CommentService{comments: comments, issues: issues}
}

func (s *CommentService) Create(ctx context.Context, actor Actor, issueID int64, req models.CreateCommentRequest) (*models.Comment, error) {
	issue, err := s.issues.FindByID(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if !Can(actor, ActionComment, 0, issue) {
		return nil, domainErrors.ErrForbidden
	}

	authorID := actor.UserID
	return s.comments.Create(ctx, &models.Comment{
		IssueID:  issueID,
		AuthorID: &authorID,
		Content:  req.Content,
	})
}

func (s *CommentService) ListByIssue(ctx context.Context, issueID int64) ([]models.Comment, error) {
	if _, err := s.issues.FindByID(ctx, issueID); err != nil {
		return nil, err
	}
	return s.comments.ListByIssue(ctx, issueID)
}
