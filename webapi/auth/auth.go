// Package auth exposes registration and login over HTTP.
package auth

import (
	"github.com/amirasaad/pixbank/pkg/config"
	"github.com/amirasaad/pixbank/pkg/domain/user"
	"github.com/amirasaad/pixbank/pkg/middleware"
	authsvc "github.com/amirasaad/pixbank/pkg/service/auth"
	usersvc "github.com/amirasaad/pixbank/pkg/service/user"
	"github.com/amirasaad/pixbank/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Routes registers the authentication endpoints.
func Routes(app *fiber.App, authSvc *authsvc.Service, userSvc *usersvc.Service, cfg *config.App) {
	app.Post("/api/auth/register", Register(userSvc))
	app.Post("/api/auth/login", Login(authSvc))
	app.Get("/api/auth/me", middleware.JwtProtected(cfg.Auth.Jwt), Me(authSvc, userSvc))
}

// Register creates a new user.
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration details"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Router /api/auth/register [post]
func Register(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RegisterRequest](c)
		if input == nil {
			return err
		}
		u, err := userSvc.Register(c.Context(), input.Email, input.Name, input.Password)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "User registered", toUserResponse(u))
	}
}

// Login verifies credentials and returns a bearer token.
// @Summary User login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Router /api/auth/login [post]
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginRequest](c)
		if input == nil {
			return err
		}
		u, err := authSvc.Login(c.Context(), input.Email, input.Password)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		token, err := authSvc.GenerateToken(c.Context(), u)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Login successful", fiber.Map{
			"token": token,
			"user":  toUserResponse(u),
		})
	}
}

// Me returns the profile of the authenticated caller.
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security Bearer
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Router /api/auth/me [get]
func Me(authSvc *authsvc.Service, userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if userID == uuid.Nil {
			return err
		}
		u, err := userSvc.Get(c.Context(), userID)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Current user", toUserResponse(u))
	}
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Name:  u.Name,
	}
}
