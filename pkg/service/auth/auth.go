// Package auth authenticates API callers and issues access tokens.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/pixbank/pkg/config"
	"github.com/amirasaad/pixbank/pkg/domain"
	"github.com/amirasaad/pixbank/pkg/domain/user"
	"github.com/amirasaad/pixbank/pkg/repository"
	"github.com/amirasaad/pixbank/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const tokenContextKey contextKey = "token"

// Strategy abstracts how callers are authenticated and how their identity
// is carried between requests.
type Strategy interface {
	Login(ctx context.Context, email, password string) (*user.User, error)
	GenerateToken(ctx context.Context, u *user.User) (string, error)
	GetCurrentUserID(ctx context.Context) (uuid.UUID, error)
}

// Service wraps a Strategy with logging.
type Service struct {
	strategy Strategy
	logger   *slog.Logger
}

// New creates an auth Service with the given strategy.
func New(strategy Strategy, logger *slog.Logger) *Service {
	return &Service{strategy: strategy, logger: logger}
}

// NewWithJWT creates an auth Service backed by HS256 JWTs.
func NewWithJWT(uow repository.UnitOfWork, cfg *config.Jwt, logger *slog.Logger) *Service {
	return New(&JWTStrategy{uow: uow, cfg: cfg, logger: logger}, logger)
}

// Login verifies the credentials and returns the authenticated user.
func (s *Service) Login(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.strategy.Login(ctx, email, password)
	if err != nil {
		s.logger.Warn("login failed", "email", email)
		return nil, err
	}
	s.logger.Info("login successful", "user_id", u.ID)
	return u, nil
}

// GenerateToken issues an access token for u.
func (s *Service) GenerateToken(ctx context.Context, u *user.User) (string, error) {
	return s.strategy.GenerateToken(ctx, u)
}

// GetCurrentUserID extracts the authenticated user id from a verified token.
func (s *Service) GetCurrentUserID(token *jwt.Token) (uuid.UUID, error) {
	return s.strategy.GetCurrentUserID(
		context.WithValue(context.Background(), tokenContextKey, token),
	)
}

// JWTStrategy authenticates against the user store and issues HS256 tokens.
type JWTStrategy struct {
	uow    repository.UnitOfWork
	cfg    *config.Jwt
	logger *slog.Logger
}

// dummyHash keeps failed lookups doing the same bcrypt work as real ones.
const dummyHash = "$2a$14$uPCWQRmRVFyUUpRvyhdbYuD0glqoLJIyCPxbs0huB8iT5eAcF3bZm"

// Login looks the user up by email and verifies the password. Unknown email
// and bad password are indistinguishable to the caller.
func (s *JWTStrategy) Login(ctx context.Context, email, password string) (*user.User, error) {
	var u *user.User
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = repo.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				_ = utils.CheckPasswordHash(password, dummyHash)
				return domain.ErrUnauthorized
			}
			return err
		}
		if !utils.CheckPasswordHash(password, u.PasswordHash) {
			return domain.ErrUnauthorized
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GenerateToken signs an HS256 token carrying the user identity.
func (s *JWTStrategy) GenerateToken(_ context.Context, u *user.User) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = u.ID.String()
	claims["email"] = u.Email
	claims["name"] = u.Name
	claims["exp"] = time.Now().Add(s.cfg.Expiry).Unix()
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		s.logger.Error("token signing failed", "user_id", u.ID, "error", err)
		return "", err
	}
	return signed, nil
}

// GetCurrentUserID reads the user id claim from the verified token placed in
// the context by the middleware.
func (s *JWTStrategy) GetCurrentUserID(ctx context.Context) (uuid.UUID, error) {
	token, ok := ctx.Value(tokenContextKey).(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return userID, nil
}
