// Package webapi provides the HTTP surface of the application, organized
// into sub-packages per domain:
// - account: account lifecycle endpoints
// - transaction: ledger operation endpoints
// - auth: registration, login and current-user endpoints
package webapi

import (
	"strings"

	"github.com/amirasaad/pixbank/pkg/app"
	accountweb "github.com/amirasaad/pixbank/webapi/account"
	authweb "github.com/amirasaad/pixbank/webapi/auth"
	"github.com/amirasaad/pixbank/webapi/common"
	transactionweb "github.com/amirasaad/pixbank/webapi/transaction"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupApp initializes the Fiber app with rate limiting, panic recovery,
// request logging and all routes.
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ErrorResponseJSON(c, fiber.StatusInternalServerError,
				"Internal Server Error", nil)
		},
	})

	fiberApp.Use(limiter.New(limiter.Config{
		Max:        a.Config.RateLimit.MaxRequests,
		Expiration: a.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			// behind a proxy the client is the first hop in X-Forwarded-For
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ErrorResponseJSON(c, fiber.StatusTooManyRequests,
				"Too Many Requests", "rate limit exceeded")
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("PixBank API is running")
	})

	accountweb.Routes(fiberApp, a.AccountService, a.AuthService, a.Config)
	transactionweb.Routes(fiberApp, a.LedgerService, a.AuthService, a.Config)
	authweb.Routes(fiberApp, a.AuthService, a.UserService, a.Config)

	return fiberApp
}
