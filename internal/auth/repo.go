package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRepository persists session metadata for auditing and cleanup.
type SessionRepository interface {
	CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// PGSessionRepository implements SessionRepository using PostgreSQL.
type PGSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository constructs a PostgreSQL session repository.
func NewSessionRepository(pool *pgxpool.Pool) *PGSessionRepository {
	return &PGSessionRepository{pool: pool}
}

// CreateSession records a new login session.
func (r *PGSessionRepository) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	query := `INSERT INTO sessions (id, user_id, created_at, expires_at, ip, ua)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))`
	_, err := r.pool.Exec(ctx, query, id, userID, time.Now().UTC(), expiresAt.UTC(), ip, ua)
	return err
}

// DeleteSession removes a session record.
func (r *PGSessionRepository) DeleteSession(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// DeleteExpiredSessions purges sessions past their expiry.
func (r *PGSessionRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ SessionRepository = (*PGSessionRepository)(nil)
