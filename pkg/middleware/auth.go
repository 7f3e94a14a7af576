// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"strings"

	"github.com/amirasaad/pixbank/pkg/config"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JwtProtected rejects requests without a valid bearer token. The verified
// token is stored in c.Locals("user") for handlers to read.
func JwtProtected(cfg *config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if strings.Contains(err.Error(), "missing or malformed") {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "missing or malformed token"})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"error": "invalid or expired token"})
}
