package catalog

import (
	"context"

	"github.com/haven-app/haven/internal/shared"
)

// Service wraps catalog queries.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListActive returns the products available in the shop.
func (s *Service) ListActive(ctx context.Context) ([]Product, error) {
	return s.repo.ListActive(ctx)
}

// Get returns one product by id.
func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	if id <= 0 {
		return nil, shared.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}
