package common_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/amirasaad/pixbank/pkg/domain"
	"github.com/amirasaad/pixbank/pkg/domain/account"
	"github.com/amirasaad/pixbank/pkg/domain/user"
	"github.com/amirasaad/pixbank/pkg/money"
	accountsvc "github.com/amirasaad/pixbank/pkg/service/account"
	"github.com/amirasaad/pixbank/pkg/service/ledger"
	"github.com/amirasaad/pixbank/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestErrorToStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{account.ErrAccountNotFound, fiber.StatusNotFound},
		{account.ErrPixKeyNotFound, fiber.StatusNotFound},
		{domain.ErrNotFound, fiber.StatusNotFound},
		{account.ErrInsufficientFunds, fiber.StatusUnprocessableEntity},
		{account.ErrAccountInactive, fiber.StatusUnprocessableEntity},
		{accountsvc.ErrBalanceNotZero, fiber.StatusUnprocessableEntity},
		{account.ErrSameAccount, fiber.StatusBadRequest},
		{money.ErrInvalidAmount, fiber.StatusBadRequest},
		{money.ErrAmountExceedsMaxSafeInt, fiber.StatusBadRequest},
		{account.ErrInvalidDocument, fiber.StatusBadRequest},
		{account.ErrDescriptionTooLong, fiber.StatusBadRequest},
		{user.ErrInvalidEmail, fiber.StatusBadRequest},
		{account.ErrDocumentTaken, fiber.StatusConflict},
		{user.ErrEmailTaken, fiber.StatusConflict},
		{account.ErrNotOwner, fiber.StatusForbidden},
		{domain.ErrUnauthorized, fiber.StatusUnauthorized},
		{ledger.ErrUnavailable, fiber.StatusServiceUnavailable},
		{errors.New("anything else"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, common.ErrorToStatusCode(tt.err))
			// wrapped errors map the same way
			assert.Equal(t, tt.want, common.ErrorToStatusCode(fmt.Errorf("wrapped: %w", tt.err)))
		})
	}
}
