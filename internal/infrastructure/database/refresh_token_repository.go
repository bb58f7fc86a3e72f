package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/bugloop/issue-tracker/internal/domain/errors"
	"github.com/bugloop/issue-tracker/internal/domain/models"
	"github.com/bugloop/issue-tracker/internal/domain/repository"
)

type pgxRefreshTokenRepository struct {
	db *pgxpool.Pool
}

// NewRefreshTokenRepository creates the PostgreSQL refresh-token ledger.
func NewRefreshTokenRepository(db *pgxpool.Pool) repository.RefreshTokenRepository {
	return &pgxRefreshTokenRepository{db: db}
}

func (r *pgxRefreshTokenRepository) FindByJTI(ctx context.Context, jti string) (*models.RefreshTokenRecord, error) {
	query := `
		SELECT jti, user_id, revoked, created_at, expires_at, replaced_by
		FROM refresh_tokens
		WHERE jti = $1`
	record := &models.RefreshTokenRecord{}
	err := r.db.QueryRow(ctx, query, jti).Scan(
		&record.JTI, &record.UserID, &record.Revoked,
		&record.CreatedAt, &record.ExpiresAt, &record.ReplacedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}
	return record, nil
}

func (r *pgxRefreshTokenRepository) Insert(ctx context.Context, record *models.RefreshTokenRecord) error {
	query := `
		INSERT INTO refresh_tokens (jti, user_id, revoked, created_at, expires_at, replaced_by)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query,
		record.JTI, record.UserID, record.Revoked,
		record.CreatedAt, record.ExpiresAt, record.ReplacedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: refresh token jti", domainErrors.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to insert refresh token: %w", err)
	}
	return nil
}

// MarkRevoked is the compare-and-set transition on which the whole rotation
// protocol rests: the revoked flag flips only if it is currently false, and
// the affected-row count tells the caller whether it won. Two concurrent
// rotations of the same record therefore produce exactly one successor.
func (r *pgxRefreshTokenRepository) MarkRevoked(ctx context.Context, jti string, replacedBy *string) (bool, error) {
	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE, replaced_by = COALESCE($2, replaced_by)
		WHERE jti = $1 AND revoked = FALSE`
	tag, err := r.db.Exec(ctx, query, jti, replacedBy)
	if err != nil {
		return false, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *pgxRefreshTokenRepository) RevokeAllActiveForUser(ctx context.Context, userID int64) (int64, error) {
	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE
		WHERE user_id = $1 AND revoked = FALSE AND expires_at > NOW()`
	tag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke user refresh tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *pgxRefreshTokenRepository) CountActiveForUser(ctx context.Context, userID int64) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM refresh_tokens
		WHERE user_id = $1 AND revoked = FALSE AND expires_at > NOW()`
	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active refresh tokens: %w", err)
	}
	return count, nil
}

func (r *pgxRefreshTokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
