// Package transaction exposes the ledger operations over HTTP.
package transaction

import (
	"github.com/amirasaad/pixbank/pkg/config"
	"github.com/amirasaad/pixbank/pkg/domain/account"
	"github.com/amirasaad/pixbank/pkg/middleware"
	"github.com/amirasaad/pixbank/pkg/money"
	authsvc "github.com/amirasaad/pixbank/pkg/service/auth"
	"github.com/amirasaad/pixbank/pkg/service/ledger"
	"github.com/amirasaad/pixbank/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Routes registers the ledger endpoints. All money movement requires a
// bearer token; the authenticated user is the actor passed to the engine.
func Routes(app *fiber.App, ledgerSvc *ledger.Service, authSvc *authsvc.Service, cfg *config.App) {
	jwt := middleware.JwtProtected(cfg.Auth.Jwt)

	app.Get("/api/transactions", ListTransactions(ledgerSvc))
	app.Post("/api/transactions/deposit", jwt, Deposit(ledgerSvc, authSvc))
	app.Post("/api/transactions/withdraw", jwt, Withdraw(ledgerSvc, authSvc))
	app.Post("/api/transactions/transfer", jwt, Transfer(ledgerSvc, authSvc))
	app.Post("/api/transactions/pix", jwt, Pix(ledgerSvc, authSvc))
}

// ListTransactions lists committed transactions, newest first, optionally
// filtered by type.
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Param type query string false "Filter by type" Enums(deposit, withdraw, transfer, pix)
// @Param limit query int false "Maximum number of records"
// @Success 200 {object} common.Response
// @Router /api/transactions [get]
func ListTransactions(ledgerSvc *ledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		typeFilter := account.TransactionType(c.Query("type"))
		limit := c.QueryInt("limit", 0)
		txs, err := ledgerSvc.List(c.Context(), typeFilter, limit)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions listed",
			ToTransactionResponses(txs))
	}
}

// Deposit credits an account.
// @Summary Deposit funds
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body DepositRequest true "Deposit details"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Router /api/transactions/deposit [post]
// @Security Bearer
func Deposit(ledgerSvc *ledger.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if userID == uuid.Nil {
			return err
		}
		input, err := common.BindAndValidate[DepositRequest](c)
		if input == nil {
			return err
		}
		accountID, err := uuid.Parse(input.AccountID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account id", err.Error())
		}
		res, err := ledgerSvc.Deposit(c.Context(), userID, accountID, input.Amount, input.Description)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return operationResponse(c, "Deposit completed", res)
	}
}

// Withdraw debits an account owned by the caller.
// @Summary Withdraw funds
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body WithdrawRequest true "Withdrawal details"
// @Success 200 {object} common.Response
// @Failure 403 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Router /api/transactions/withdraw [post]
// @Security Bearer
func Withdraw(ledgerSvc *ledger.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if userID == uuid.Nil {
			return err
		}
		input, err := common.BindAndValidate[WithdrawRequest](c)
		if input == nil {
			return err
		}
		accountID, err := uuid.Parse(input.AccountID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account id", err.Error())
		}
		res, err := ledgerSvc.Withdraw(c.Context(), userID, accountID, input.Amount, input.Description)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return operationResponse(c, "Withdrawal completed", res)
	}
}

// Transfer moves funds between two accounts.
// @Summary Transfer funds
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body TransferRequest true "Transfer details"
// @Success 200 {object} common.Response
// @Failure 403 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Router /api/transactions/transfer [post]
// @Security Bearer
func Transfer(ledgerSvc *ledger.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if userID == uuid.Nil {
			return err
		}
		input, err := common.BindAndValidate[TransferRequest](c)
		if input == nil {
			return err
		}
		sourceID, err := uuid.Parse(input.SourceID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid source id", err.Error())
		}
		destID, err := uuid.Parse(input.DestinationID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid destination id", err.Error())
		}
		res, err := ledgerSvc.Transfer(c.Context(), userID, sourceID, destID, input.Amount, input.Description)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return operationResponse(c, "Transfer completed", res)
	}
}

// Pix transfers funds to the account resolved from a PIX key.
// @Summary Transfer funds by PIX key
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body PixRequest true "PIX transfer details"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Router /api/transactions/pix [post]
// @Security Bearer
func Pix(ledgerSvc *ledger.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if userID == uuid.Nil {
			return err
		}
		input, err := common.BindAndValidate[PixRequest](c)
		if input == nil {
			return err
		}
		sourceID, err := uuid.Parse(input.SourceID)
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid source id", err.Error())
		}
		res, err := ledgerSvc.Pix(c.Context(), userID, sourceID, input.PixKey, input.Amount, input.Description)
		if err != nil {
			return common.ProblemFromError(c, err)
		}
		return operationResponse(c, "Pix completed", res)
	}
}

func operationResponse(c *fiber.Ctx, message string, res *ledger.Result) error {
	return common.SuccessResponseJSON(c, fiber.StatusOK, message, OperationResponse{
		Balance:     money.Float(res.Balance),
		Transaction: ToTransactionResponse(res.Transaction),
	})
}
