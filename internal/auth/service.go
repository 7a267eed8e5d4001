package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/haven-app/haven/internal/shared"
	"github.com/haven-app/haven/internal/users"
)

// Service wraps authentication business rules.
type Service struct {
	users    users.Repository
	sessions SessionRepository
}

// NewService constructs a new Service.
func NewService(userRepo users.Repository, sessionRepo SessionRepository) *Service {
	return &Service{users: userRepo, sessions: sessionRepo}
}

// Authenticate validates email/password credentials. A missing account is
// reported as shared.ErrNotFound so the endpoint can distinguish it from a
// wrong password, matching the documented contract.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*users.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Register creates a new account with a hashed password.
func (s *Service) Register(ctx context.Context, email, password string, name *string) (*users.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, email, string(hashed), name)
}

// RegisterSession persists the session metadata in postgres.
func (s *Service) RegisterSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return s.sessions.CreateSession(ctx, id, userID, expiresAt, ip, ua)
}

// RemoveSession deletes a session record from postgres.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.sessions.DeleteSession(ctx, id)
}
