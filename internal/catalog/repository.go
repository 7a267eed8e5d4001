package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haven-app/haven/internal/shared"
)

// Repository defines persistence operations for the product catalog.
type Repository interface {
	ListActive(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int64) (*Product, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const productColumns = `id, name, price, image, is_active, created_at, updated_at`

func (r *repository) ListActive(ctx context.Context) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Image, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p Product
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price, &p.Image, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
