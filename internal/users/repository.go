package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haven-app/haven/internal/shared"
)

// Repository defines persistence operations for user accounts.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, email, passwordHash string, name *string) (*User, error)
	UpdateProfile(ctx context.Context, id int64, name, imageURL *string) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, email, password_hash, name, image_url, created_at, updated_at`

// GetByEmail fetches a user by email.
func (r *PGRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

// GetByID fetches a user by id.
func (r *PGRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// Create inserts a new account. A duplicate email maps to shared.ErrConflict.
func (r *PGRepository) Create(ctx context.Context, email, passwordHash string, name *string) (*User, error) {
	now := time.Now().UTC()
	query := `INSERT INTO users (email, password_hash, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING ` + userColumns
	user, err := r.scanOne(r.pool.QueryRow(ctx, query, email, passwordHash, name, now))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, shared.ErrConflict
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile overwrites name and image URL for the account.
func (r *PGRepository) UpdateProfile(ctx context.Context, id int64, name, imageURL *string) (*User, error) {
	query := `UPDATE users SET name = $1, image_url = $2, updated_at = $3 WHERE id = $4
		RETURNING ` + userColumns
	return r.scanOne(r.pool.QueryRow(ctx, query, name, imageURL, time.Now().UTC(), id))
}

func (r *PGRepository) scanOne(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.ImageURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

var _ Repository = (*PGRepository)(nil)
