package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bugloop/issue-tracker/internal/domain/repository"
)

type pgxBlocklistRepository struct {
	db *pgxpool.Pool
}

// NewBlocklistRepository creates the PostgreSQL access-token blocklist.
func NewBlocklistRepository(db *pgxpool.Pool) repository.BlocklistRepository {
	return &pgxBlocklistRepository{db: db}
}

// Insert blocklists a jti. ON CONFLICT DO NOTHING makes a repeated logout
// with the same access token a no-op instead of an error.
func (r *pgxBlocklistRepository) Insert(ctx context.Context, jti string, expiresAt time.Time) error {
	query := `
		INSERT INTO token_blocklist (jti, created_at, expires_at)
		VALUES ($1, NOW(), $2)
		ON CONFLICT (jti) DO NOTHING`
	if _, err := r.db.Exec(ctx, query, jti, expiresAt); err != nil {
		return fmt.Errorf("failed to insert blocklist entry: %w", err)
	}
	return nil
}

// IsBlocklisted ignores entries whose expiry already passed, so an external
// pruning job can delete them at any time without changing behavior.
func (r *pgxBlocklistRepository) IsBlocklisted(ctx context.Context, jti string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM token_blocklist
			WHERE jti = $1 AND expires_at > NOW()
		)`
	var blocked bool
	if err := r.db.QueryRow(ctx, query, jti).Scan(&blocked); err != nil {
		return false, fmt.Errorf("failed to check blocklist: %w", err)
	}
	return blocked, nil
}

func (r *pgxBlocklistRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM token_blocklist WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired blocklist entries: %w", err)
	}
	return tag.RowsAffected(), nil
}
