package common

import (
	authsvc "github.com/amirasaad/pixbank/pkg/service/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CurrentUserID extracts the authenticated user id from the verified token
// the JWT middleware stored in locals. On failure it writes the problem
// response and returns uuid.Nil.
func CurrentUserID(c *fiber.Ctx, authSvc *authsvc.Service) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, ErrorResponseJSON(c, fiber.StatusUnauthorized,
			"Unauthorized", "missing user context")
	}
	userID, err := authSvc.GetCurrentUserID(token)
	if err != nil {
		return uuid.Nil, ErrorResponseJSON(c, fiber.StatusUnauthorized,
			"Unauthorized", "invalid user identity")
	}
	return userID, nil
}
