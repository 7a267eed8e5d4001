package guardians

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haven-app/haven/internal/shared"
)

// Repository defines persistence operations for guardians.
type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]Guardian, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	Get(ctx context.Context, id int64) (*Guardian, error)
	Create(ctx context.Context, userID int64, fields Fields) (*Guardian, error)
	Update(ctx context.Context, id int64, fields Fields) (*Guardian, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const guardianColumns = `id, user_id, name, email, phone, relationship, is_active, created_at`

// ListByUser returns all guardians owned by the user, newest first.
func (r *repository) ListByUser(ctx context.Context, userID int64) ([]Guardian, error) {
	query := `SELECT ` + guardianColumns + ` FROM guardians WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Guardian
	for rows.Next() {
		var g Guardian
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Email, &g.Phone, &g.Relationship, &g.IsActive, &g.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

func (r *repository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM guardians WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

func (r *repository) Get(ctx context.Context, id int64) (*Guardian, error) {
	query := `SELECT ` + guardianColumns + ` FROM guardians WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *repository) Create(ctx context.Context, userID int64, fields Fields) (*Guardian, error) {
	query := `INSERT INTO guardians (user_id, name, email, phone, relationship, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6)
		RETURNING ` + guardianColumns
	return r.scanOne(r.pool.QueryRow(ctx, query, userID, fields.Name, fields.Email, fields.Phone, fields.Relationship, time.Now().UTC()))
}

func (r *repository) Update(ctx context.Context, id int64, fields Fields) (*Guardian, error) {
	query := `UPDATE guardians SET name = $1, email = $2, phone = $3, relationship = $4 WHERE id = $5
		RETURNING ` + guardianColumns
	return r.scanOne(r.pool.QueryRow(ctx, query, fields.Name, fields.Email, fields.Phone, fields.Relationship, id))
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM guardians WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) scanOne(row pgx.Row) (*Guardian, error) {
	var g Guardian
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.Email, &g.Phone, &g.Relationship, &g.IsActive, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}
