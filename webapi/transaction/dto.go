package transaction

import (
	"time"

	"github.com/amirasaad/pixbank/pkg/domain/account"
	"github.com/amirasaad/pixbank/pkg/money"
)

// DepositRequest is the request body for crediting an account.
type DepositRequest struct {
	AccountID   string  `json:"account_id" validate:"required,uuid"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"omitempty,max=255"`
}

// WithdrawRequest is the request body for debiting an account.
type WithdrawRequest struct {
	AccountID   string  `json:"account_id" validate:"required,uuid"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"omitempty,max=255"`
}

// TransferRequest is the request body for moving funds between accounts.
type TransferRequest struct {
	SourceID      string  `json:"source_id" validate:"required,uuid"`
	DestinationID string  `json:"destination_id" validate:"required,uuid"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Description   string  `json:"description" validate:"omitempty,max=255"`
}

// PixRequest is the request body for a transfer addressed by PIX key.
type PixRequest struct {
	SourceID    string  `json:"source_id" validate:"required,uuid"`
	PixKey      string  `json:"pix_key" validate:"required,min=11,max=18"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"omitempty,max=255"`
}

// TransactionResponse is the public view of a committed transaction.
type TransactionResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	Source      *string   `json:"source,omitempty"`
	Destination *string   `json:"destination,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// OperationResponse carries the transaction plus the primary account's new
// balance.
type OperationResponse struct {
	Balance     float64             `json:"balance"`
	Transaction TransactionResponse `json:"transaction"`
}

// ToTransactionResponse maps a domain transaction to its public view.
func ToTransactionResponse(tx *account.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:          tx.ID.String(),
		Type:        string(tx.Type),
		Amount:      money.Float(tx.Amount),
		Description: tx.Description,
		Status:      tx.Status,
		CreatedAt:   tx.CreatedAt,
	}
	if tx.Source != nil {
		s := tx.Source.String()
		resp.Source = &s
	}
	if tx.Destination != nil {
		d := tx.Destination.String()
		resp.Destination = &d
	}
	return resp
}

// ToTransactionResponses maps a slice of transactions.
func ToTransactionResponses(txs []*account.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, ToTransactionResponse(tx))
	}
	return out
}
