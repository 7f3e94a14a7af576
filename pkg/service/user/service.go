// Package user provides registration and lookup of API callers.
package user

import (
	"context"
	"log/slog"
	"strings"

	"github.com/amirasaad/pixbank/pkg/domain/user"
	"github.com/amirasaad/pixbank/pkg/repository"
	"github.com/google/uuid"
)

// Service registers and resolves users.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a user Service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Register creates a new user. The email must be valid and unused; the
// password is stored hashed.
func (s *Service) Register(ctx context.Context, email, name, password string) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := user.New(email, strings.TrimSpace(name), password)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		return repo.Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", u.ID)
	return u, nil
}

// Get returns the user by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	repo, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}
