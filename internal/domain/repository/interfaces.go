// Package repository declares the persistence contracts consumed by the
// service layer. Implementations live in internal/infrastructure/database.
package repository

import (
	"context"
	"time"

	"github.com/bugloop/issue-tracker/internal/domain/models"
)

// RefreshTokenRepository is the durable ledger of refresh-token records.
type RefreshTokenRepository interface {
	// FindByJTI returns the record or domain ErrNotFound.
	FindByJTI(ctx context.Context, jti string) (*models.RefreshTokenRecord, error)

	// Insert stores a new, unrevoked record.
	Insert(ctx context.Context, record *models.RefreshTokenRecord) error

	// MarkRevoked flips revoked false→true as a conditional update and
	// records the successor jti if one is given. It returns false with a
	// nil error when the record was already revoked or absent, so a lost
	// race is observable rather than silently double-applied.
	MarkRevoked(ctx context.Context, jti string, replacedBy *string) (bool, error)

	// RevokeAllActiveForUser revokes every currently-active record of the
	// user and returns how many were affected. Used only by the
	// reuse-detection cascade.
	RevokeAllActiveForUser(ctx context.Context, userID int64) (int64, error)

	// CountActiveForUser reports the user's active records.
	CountActiveForUser(ctx context.Context, userID int64) (int64, error)

	// DeleteExpired prunes records whose expiry passed before cutoff.
	// Housekeeping only; correctness never depends on it.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// BlocklistRepository stores access-token jtis invalidated before expiry.
type BlocklistRepository interface {
	// Insert is idempotent: re-blocklisting a jti is a no-op, not an error.
	Insert(ctx context.Context, jti string, expiresAt time.Time) error

	// IsBlocklisted is true only while an entry exists and is unexpired.
	IsBlocklisted(ctx context.Context, jti string) (bool, error)

	// DeleteExpired prunes inert entries.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByIdentifier(ctx context.Context, usernameOrEmail string) (*models.User, error)
}

// ProjectRepository persists projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	FindByID(ctx context.Context, id int64) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, int64, error)
}

// IssueRepository persists issues.
type IssueRepository interface {
	Create(ctx context.Context, issue *models.Issue) (*models.Issue, error)
	FindByID(ctx context.Context, id int64) (*models.Issue, error)
	Update(ctx context.Context, issue *models.Issue) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.IssueFilter) ([]models.Issue, int64, error)
}

// CommentRepository persists issue comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	ListByIssue(ctx context.Context, issueID int64) ([]models.Comment, error)
	CountByIssue(ctx context.Context, issueID int64) (int64, error)
}
