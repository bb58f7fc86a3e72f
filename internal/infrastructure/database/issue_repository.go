package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/bugloop/issue-tracker/internal/domain/errors"
	"github.com/bugloop/issue-tracker/internal/domain/models"
	"github.com/bugloop/issue-tracker/internal/domain/repository"
)

type pgxIssueRepository struct {
	db *pgxpool.Pool
}

func NewIssueRepository(db *pgxpool.Pool) repository.IssueRepository {
	return &pgxIssueRepository{db: db}
}

const issueColumns = `id, title, description, status, priority, project_id, reporter_id, assignee_id, created_at, updated_at`

func scanIssue(row pgx.Row) (*models.Issue, error) {
	i := &models.Issue{}
	err := row.Scan(&i.ID, &i.Title, &i.Description, &i.Status, &i.Priority,
		&i.ProjectID, &i.ReporterID, &i.AssigneeID, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan issue: %w", err)
	}
	return i, nil
}

func (r *pgxIssueRepository) Create(ctx context.Context, issue *models.Issue) (*models.Issue, error) {
	query := `
		INSERT INTO issues (title, description, status, priority, project_id, reporter_id, assignee_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + issueColumns
	created, err := scanIssue(r.db.QueryRow(ctx, query,
		issue.Title, issue.Description, issue.Status, issue.Priority,
		issue.ProjectID, issue.ReporterID, issue.AssigneeID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, fmt.Errorf("%w: issue title within project", domainErrors.ErrAlreadyExists)
			case "23503":
				return nil, fmt.Errorf("%w: referenced project or user", domainErrors.ErrNotFound)
			}
		}
		return nil, err
	}
	return created, nil
}

func (r *pgxIssueRepository) FindByID(ctx context.Context, id int64) (*models.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE id = $1`
	return scanIssue(r.db.QueryRow(ctx, query, id))
}

func (r *pgxIssueRepository) Update(ctx context.Context, issue *models.Issue) error {
	query := `
		UPDATE issues
		SET title = $2, description = $3, status = $4, priority = $5, assignee_id = $6, updated_at = NOW()
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		issue.ID, issue.Title, issue.Description, issue.Status, issue.Priority, issue.AssigneeID)
	if err != nil {
		return fmt.Errorf("failed to update issue: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *pgxIssueRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM issues WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

var issueSortColumns = map[string]string{
	"created_at": "created_at",
	"priority":   "priority",
	"status":     "status",
	"id":         "id",
}

func (r *pgxIssueRepository) List(ctx context.Context, filter models.IssueFilter) ([]models.Issue, int64, error) {
	where := []string{"TRUE"}
	args := []any{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		where = append(where, fmt.Sprintf("project_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		where = append(where, fmt.Sprintf("priority = $%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		where = append(where, fmt.Sprintf("assignee_id = $%d", len(args)))
	}
	if filter.ReporterID != nil {
		args = append(args, *filter.ReporterID)
		where = append(where, fmt.Sprintf("reporter_id = $%d", len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM issues WHERE ` + whereClause
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count issues: %w", err)
	}

	sortCol, ok := issueSortColumns[filter.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}

	args = append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)
	query := fmt.Sprintf(`SELECT %s FROM issues WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		issueColumns, whereClause, sortCol, direction, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list issues: %w", err)
	}
	defer rows.Close()

	items := []models.Issue{}
	for rows.Next() {
		i := models.Issue{}
		if err := rows.Scan(&i.ID, &i.Title, &i.Description, &i.Status, &i.Priority,
			&i.ProjectID, &i.ReporterID, &i.AssigneeID, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan issue row: %w", err)
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate issue rows: %w", err)
	}
	return items, total, nil
}
