// Package account exposes account lifecycle operations over HTTP.
package account

import (
	"github.com/amirasaad/pixbank/pkg/config"
	domacct "github.com/amirasaad/pixbank/pkg/domain/account"
	"github.com/amirasaad/pixbank/pkg/middleware"
	"github.com/amirasaad/pixbank/pkg/money"
	accountsvc "github.com/amirasaad/pixbank/pkg/service/account"
	authsvc "github.com/amirasaad/pixbank/pkg/service/auth"
	"github.com/amirasaad/pixbank/webapi/common"
	"github.com/amirasaad/pixbank/webapi/transaction"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Routes registers the account endpoints. Reads are public; everything that
// creates or mutates requires a bearer token.
func Routes(app *fiber.App, accountSvc *accountsvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	jwt := middleware.JwtProtected(cfg.Auth.Jwt)

	app.Get("/api/accounts", ListAccounts(accountSvc))
	app.Get("/api/accounts/:id", GetAccount(accountSvc))
	app.Get("/api/accounts/:id/balance", jwt, GetBalance(accountSvc, authSvc))
	app.Get("/api/accounts/:id/statement", jwt, GetStatement(accountSvc, authSvc))
	app.Post("/api/accounts", jwt, CreateAccount(accountSvc, authSvc))
	app.Put("/api/accounts/:id", jwt, UpdateAccount(accountSvc, authSvc))
	app.Delete("/api/accounts/:id", jwt, DeleteAccount(accountSvc, authSvc))
}

// ListAccounts lists all active accounts.
// @Summary List active accounts
// @Tags accounts
// @Produce json
// @Success 200 {object} common.Response
// @Router /api/accounts [get]
func ListAccounts(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accounts, err := accountSvc.ListActive(c.Context())
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		out := make([]AccountResponse, 0, len(accounts))
		for _, a := range accounts {
			out = append(out, ToAccountResponse(a))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts listed", out)
	}
}

// GetAccount returns one account by id, active or not.
// @Summary Get account by id
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /api/accounts/{id} [get]
func GetAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return nil
		}
		a, err := accountSvc.Get(c.Context(), id)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account found", ToAccountResponse(a))
	}
}

// GetBalance returns the balance of an account owned by the caller.
// @Summary Get account balance
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 403 {object} common.ProblemDetails
// @Router /api/accounts/{id}/balance [get]
// @Security Bearer
func GetBalance(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if userID == uuid.Nil {
			return err
		}
		id, ok := parseID(c)
		if !ok {
			return nil
		}
		balance, err := accountSvc.Balance(c.Context(), userID, id)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Balance retrieved", fiber.Map{
			"account_id": id.String(),
			"balance":    money.Float(balance),
		})
	}
}

// GetStatement returns the account with its transaction history.
// @Summary Get account statement
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Param limit query int false "Maximum number of transactions"
// @Success 200 {object} common.Response
// @Failure 403 {object} common.ProblemDetails
// @Router /api/accounts/{id}/statement [get]
// @Security Bearer
func GetStatement(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if userID == uuid.Nil {
			return err
		}
		id, ok := parseID(c)
		if !ok {
			return nil
		}
		limit := c.QueryInt("limit", 0)
		a, err := accountSvc.Get(c.Context(), id)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		txs, err := accountSvc.Statement(c.Context(), userID, id, limit)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Statement retrieved", fiber.Map{
			"account":      ToAccountResponse(a),
			"transactions": transaction.ToTransactionResponses(txs),
		})
	}
}

// CreateAccount opens a new account owned by the caller.
// @Summary Open a new account
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest true "Account details"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Router /api/accounts [post]
// @Security Bearer
func CreateAccount(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if userID == uuid.Nil {
			return err
		}
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err
		}
		a, err := accountSvc.Open(c.Context(), userID, accountsvc.OpenParams{
			HolderName:     input.HolderName,
			Document:       input.Document,
			BankCode:       input.BankCode,
			Agency:         input.Agency,
			Number:         input.Number,
			Type:           domacct.Type(input.Type),
			InitialBalance: input.InitialBalance,
		})
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", ToAccountResponse(a))
	}
}

// UpdateAccount renames the account holder.
// @Summary Update account holder name
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body UpdateAccountRequest true "New holder name"
// @Success 200 {object} common.Response
// @Failure 403 {object} common.ProblemDetails
// @Router /api/accounts/{id} [put]
// @Security Bearer
func UpdateAccount(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if userID == uuid.Nil {
			return err
		}
		id, ok := parseID(c)
		if !ok {
			return nil
		}
		input, err := common.BindAndValidate[UpdateAccountRequest](c)
		if input == nil {
			return err
		}
		if err := accountSvc.UpdateHolderName(c.Context(), userID, id, input.HolderName); err != nil {
			return common.ProblemFromError(c, err)
		}
		a, err := accountSvc.Get(c.Context(), id)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account updated", ToAccountResponse(a))
	}
}

// DeleteAccount deactivates the account (soft delete).
// @Summary Deactivate an account
// @Tags accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} common.Response
// @Failure 403 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Router /api/accounts/{id} [delete]
// @Security Bearer
func DeleteAccount(accountSvc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if userID == uuid.Nil {
			return err
		}
		id, ok := parseID(c)
		if !ok {
			return nil
		}
		if err := accountSvc.Deactivate(c.Context(), userID, id); err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account deactivated", nil)
	}
}

// parseID parses the :id route parameter. On failure the response is
// already written and ok is false.
func parseID(c *fiber.Ctx) (id uuid.UUID, ok bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		_ = common.ErrorResponseJSON(c, fiber.StatusBadRequest,
			"Invalid account id", err.Error())
		return uuid.Nil, false
	}
	return id, true
}
