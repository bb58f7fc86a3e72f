package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/bugloop/issue-tracker/internal/domain/errors"
	"github.com/bugloop/issue-tracker/internal/domain/models"
	"github.com/bugloop/issue-tracker/internal/domain/repository"
)

type pgxCommentRepository struct {
	db *pgxpool.Pool
}

func NewCommentRepository(db *pgxpool.Pool) repository.CommentRepository {
	return &pgxCommentRepository{db: db}
}

func (r *pgxCommentRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	query := `
		INSERT INTO comments (issue_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, issue_id, author_id, content, created_at`
	c := &models.Comment{}
	err := r.db.QueryRow(ctx, query, comment.IssueID, comment.AuthorID, comment.Content).
		Scan(&c.ID, &c.IssueID, &c.AuthorID, &c.Content, &c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, fmt.Errorf("%w: referenced issue", domainErrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return c, nil
}

func (r *pgxCommentRepository) ListByIssue(ctx context.Context, issueID int64) ([]models.Comment, error) {
	query := `
		SELECT id, issue_id, author_id, content, created_at
		FROM comments
		WHERE issue_id = $1
		ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	items := []models.Comment{}
	for rows.Next() {
		c := models.Comment{}
		if err := rows.Scan(&c.ID, &c.IssueID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comment rows: %w", err)
	}
	return items, nil
}

func (r *pgxCommentRepository) CountByIssue(ctx context.Context, issueID int64) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE issue_id = $1`, issueID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}
