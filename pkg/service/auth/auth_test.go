package auth_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/pixbank/internal/fixtures"
	"github.com/amirasaad/pixbank/pkg/config"
	"github.com/amirasaad/pixbank/pkg/domain"
	"github.com/amirasaad/pixbank/pkg/domain/user"
	"github.com/amirasaad/pixbank/pkg/service/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-not-for-production"

func newService(t *testing.T) (*auth.Service, *fixtures.MemoryUoW) {
	t.Helper()
	uow := fixtures.NewMemoryUoW()
	cfg := &config.Jwt{Secret: testSecret, Expiry: time.Hour}
	return auth.NewWithJWT(uow, cfg, slog.Default()), uow
}

func seedUser(t *testing.T, uow *fixtures.MemoryUoW, email, password string) *user.User {
	t.Helper()
	u, err := user.New(email, "Test User", password)
	require.NoError(t, err)
	repo, err := uow.UserRepository()
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestLogin(t *testing.T) {
	svc, uow := newService(t)
	seeded := seedUser(t, uow, "maria@example.com", "s3cret!")

	u, err := svc.Login(context.Background(), "maria@example.com", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, u.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, uow := newService(t)
	seedUser(t, uow, "maria@example.com", "s3cret!")

	_, err := svc.Login(context.Background(), "maria@example.com", "wrong")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	require.ErrorIs(t, err, domain.ErrUnauthorized, "indistinguishable from wrong password")
}

func TestTokenRoundTrip(t *testing.T) {
	svc, uow := newService(t)
	seeded := seedUser(t, uow, "maria@example.com", "s3cret!")

	signed, err := svc.GenerateToken(context.Background(), seeded)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	token, err := jwt.Parse(signed, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	userID, err := svc.GetCurrentUserID(token)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, userID)
}

func TestGetCurrentUserID_MissingClaim(t *testing.T) {
	svc, _ := newService(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "x@example.com"})
	_, err := svc.GetCurrentUserID(token)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.GetCurrentUserID(nil)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}
