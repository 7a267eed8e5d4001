package guardians

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/haven-app/haven/internal/shared"
	"github.com/haven-app/haven/internal/users"
)

// Notifier queues an out-of-band notification for a newly added guardian.
type Notifier interface {
	NotifyGuardianAdded(ctx context.Context, guardian Guardian, owner *users.User) error
}

// Service enforces the guardian ownership and cap rules. Every operation
// requires the already-resolved owning user.
type Service struct {
	repo     Repository
	notifier Notifier
	logger   *slog.Logger
}

// NewService constructs a new Service. The notifier may be nil.
func NewService(repo Repository, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// List returns the owner's guardians, most recently created first.
func (s *Service) List(ctx context.Context, owner *users.User) ([]Guardian, error) {
	return s.repo.ListByUser(ctx, owner.ID)
}

// Create adds a guardian for the owner, enforcing the cap of
// MaxGuardiansPerUser active guardians.
func (s *Service) Create(ctx context.Context, owner *users.User, fields Fields) (*Guardian, error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	count, err := s.repo.CountByUser(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	if count >= MaxGuardiansPerUser {
		return nil, shared.ErrLimitExceeded
	}

	guardian, err := s.repo.Create(ctx, owner.ID, fields)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyGuardianAdded(ctx, *guardian, owner); err != nil {
			// Notification is best effort; the guardian record stands.
			s.logger.Warn("guardian welcome notification failed", slog.Any("error", err))
		}
	}
	return guardian, nil
}

// Update overwrites the editable fields of a guardian owned by owner.
func (s *Service) Update(ctx context.Context, owner *users.User, id int64, fields Fields) (*Guardian, error) {
	if _, err := s.resolveOwned(ctx, owner, id); err != nil {
		return nil, err
	}
	if err := validateFields(fields); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, fields)
}

// Delete permanently removes a guardian owned by owner.
func (s *Service) Delete(ctx context.Context, owner *users.User, id int64) error {
	if _, err := s.resolveOwned(ctx, owner, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) resolveOwned(ctx context.Context, owner *users.User, id int64) (*Guardian, error) {
	guardian, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if guardian.UserID != owner.ID {
		return nil, fmt.Errorf("guardian %d: %w", id, shared.ErrForbidden)
	}
	return guardian, nil
}
