// Package common holds the response envelope, RFC 9457 problem details and
// request binding shared by all handlers.
package common

import (
	"errors"
	"net/http"

	"github.com/amirasaad/pixbank/pkg/domain"
	"github.com/amirasaad/pixbank/pkg/domain/account"
	"github.com/amirasaad/pixbank/pkg/domain/user"
	"github.com/amirasaad/pixbank/pkg/money"
	accountsvc "github.com/amirasaad/pixbank/pkg/service/account"
	"github.com/amirasaad/pixbank/pkg/service/ledger"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Response is the standard envelope for success cases.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Errors   any    `json:"errors,omitempty"`
}

// SuccessResponseJSON writes the success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseJSON writes a response following RFC 9457 Problem Details.
func ErrorResponseJSON(c *fiber.Ctx, status int, title string, detail any) error {
	pd := ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
	}
	if detail != nil {
		if s, ok := detail.(string); ok {
			pd.Detail = s
		} else {
			pd.Errors = detail
		}
	}
	pd.Instance = c.OriginalURL()
	if err := c.Status(status).JSON(pd); err != nil {
		return err
	}
	// after JSON: c.JSON overwrites the content type
	c.Set(fiber.HeaderContentType, "application/problem+json")
	return nil
}

// ProblemFromError writes the problem response matching err's status code.
func ProblemFromError(c *fiber.Ctx, err error) error {
	status := ErrorToStatusCode(err)
	title := "Internal Server Error"
	detail := ""
	if status != fiber.StatusInternalServerError {
		title = http.StatusText(status)
		detail = err.Error()
	}
	return ErrorResponseJSON(c, status, title, detail)
}

// ErrorToStatusCode maps domain errors to HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, account.ErrAccountNotFound),
		errors.Is(err, account.ErrPixKeyNotFound),
		errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, account.ErrInsufficientFunds):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, account.ErrSameAccount),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrAmountExceedsMaxSafeInt),
		errors.Is(err, account.ErrInvalidDocument),
		errors.Is(err, account.ErrDescriptionTooLong):
		return fiber.StatusBadRequest
	case errors.Is(err, account.ErrAccountInactive):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, accountsvc.ErrBalanceNotZero):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, account.ErrDocumentTaken),
		errors.Is(err, user.ErrEmailTaken):
		return fiber.StatusConflict
	case errors.Is(err, user.ErrInvalidEmail):
		return fiber.StatusBadRequest
	case errors.Is(err, account.ErrNotOwner):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, ledger.ErrUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it with
// go-playground/validator. On failure it writes the error response and
// returns a nil struct.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}
	if err := validate.Struct(input); err != nil {
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", err.Error())
	}
	return &input, nil
}

var validate = validator.New()
