package account

import (
	"time"

	"github.com/amirasaad/pixbank/pkg/domain/account"
	"github.com/amirasaad/pixbank/pkg/money"
)

// CreateAccountRequest is the request body for opening an account.
type CreateAccountRequest struct {
	HolderName     string  `json:"holder_name" validate:"required,min=2,max=128"`
	Document       string  `json:"document" validate:"required,min=11,max=18"`
	BankCode       string  `json:"bank_code" validate:"required,max=8"`
	Agency         string  `json:"agency" validate:"required,max=16"`
	Number         string  `json:"number" validate:"required,max=16"`
	Type           string  `json:"type" validate:"omitempty,oneof=checking savings"`
	InitialBalance float64 `json:"initial_balance" validate:"omitempty,gte=0"`
}

// UpdateAccountRequest is the request body for renaming the holder.
type UpdateAccountRequest struct {
	HolderName string `json:"holder_name" validate:"required,min=2,max=128"`
}

// AccountResponse is the public view of an account. Balance is in currency
// units with two decimal places.
type AccountResponse struct {
	ID         string    `json:"id"`
	HolderName string    `json:"holder_name"`
	Document   string    `json:"document"`
	BankCode   string    `json:"bank_code"`
	Agency     string    `json:"agency"`
	Number     string    `json:"number"`
	Type       string    `json:"type"`
	Balance    float64   `json:"balance"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToAccountResponse maps a domain account to its public view.
func ToAccountResponse(a *account.Account) AccountResponse {
	return AccountResponse{
		ID:         a.ID.String(),
		HolderName: a.HolderName,
		Document:   a.Document,
		BankCode:   a.BankCode,
		Agency:     a.Agency,
		Number:     a.Number,
		Type:       string(a.Type),
		Balance:    money.Float(a.Balance),
		Status:     string(a.Status),
		CreatedAt:  a.CreatedAt,
	}
}
