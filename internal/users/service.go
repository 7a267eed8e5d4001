package users

import (
	"context"

	"github.com/haven-app/haven/internal/shared"
)

// Service wraps user account business rules. It also hosts the session gate
// used by every authenticated endpoint: resolve session, then resolve the
// user row, in that order.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve returns the user behind the request session. It fails with
// shared.ErrUnauthorized when no session is present and shared.ErrNotFound
// when the session references a deleted account.
func (s *Service) Resolve(ctx context.Context) (*User, error) {
	sess := shared.SessionFromContext(ctx)
	if !sess.Authenticated() {
		return nil, shared.ErrUnauthorized
	}
	return s.repo.GetByEmail(ctx, sess.Email())
}

// UpdateProfile overwrites the display name and avatar for the resolved user.
func (s *Service) UpdateProfile(ctx context.Context, name, imageURL *string) (*User, error) {
	user, err := s.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateProfile(ctx, user.ID, name, imageURL)
}
