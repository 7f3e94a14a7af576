package account

import (
	"time"

	"github.com/amirasaad/pixbank/pkg/money"
	"github.com/google/uuid"
)

// TransactionType identifies the money-movement operation that produced a record.
type TransactionType string

// Transaction types.
const (
	TypeDeposit  TransactionType = "deposit"
	TypeWithdraw TransactionType = "withdraw"
	TypeTransfer TransactionType = "transfer"
	TypePix      TransactionType = "pix"
)

// StatusCompleted is the only persisted transaction status: records are
// appended at commit time, after the balance mutation succeeded.
const StatusCompleted = "completed"

// MaxDescriptionLen bounds the free-text description.
const MaxDescriptionLen = 255

// Transaction is an append-only record of a completed money movement.
// Exactly one of Source/Destination is nil for deposit/withdraw; both are
// set and distinct for transfer/pix. Never mutated after creation.
type Transaction struct {
	ID          uuid.UUID
	Type        TransactionType
	Amount      money.Amount
	Description string
	Source      *uuid.UUID
	Destination *uuid.UUID
	Status      string
	CreatedAt   time.Time
}

// NewDeposit records a credit of amount into accountID.
func NewDeposit(accountID uuid.UUID, amount money.Amount, description string) (*Transaction, error) {
	return newTransaction(TypeDeposit, amount, description, nil, &accountID)
}

// NewWithdraw records a debit of amount from accountID.
func NewWithdraw(accountID uuid.UUID, amount money.Amount, description string) (*Transaction, error) {
	return newTransaction(TypeWithdraw, amount, description, &accountID, nil)
}

// NewTransfer records an atomic movement of amount from source to destination.
func NewTransfer(sourceID, destinationID uuid.UUID, amount money.Amount, description string) (*Transaction, error) {
	if sourceID == destinationID {
		return nil, ErrSameAccount
	}
	return newTransaction(TypeTransfer, amount, description, &sourceID, &destinationID)
}

// NewPix records a transfer addressed by PIX key after key resolution.
func NewPix(sourceID, destinationID uuid.UUID, amount money.Amount, description string) (*Transaction, error) {
	if sourceID == destinationID {
		return nil, ErrSameAccount
	}
	return newTransaction(TypePix, amount, description, &sourceID, &destinationID)
}

func newTransaction(
	t TransactionType,
	amount money.Amount,
	description string,
	source, destination *uuid.UUID,
) (*Transaction, error) {
	if amount <= 0 {
		return nil, money.ErrInvalidAmount
	}
	if len(description) > MaxDescriptionLen {
		return nil, ErrDescriptionTooLong
	}
	return &Transaction{
		ID:          uuid.New(),
		Type:        t,
		Amount:      amount,
		Description: description,
		Source:      source,
		Destination: destination,
		Status:      StatusCompleted,
		CreatedAt:   time.Now(),
	}, nil
}

// NewTransactionFromData hydrates a Transaction from storage, bypassing
// invariants. Repository use only.
func NewTransactionFromData(
	id uuid.UUID,
	t TransactionType,
	amount money.Amount,
	description string,
	source, destination *uuid.UUID,
	status string,
	createdAt time.Time,
) *Transaction {
	return &Transaction{
		ID:          id,
		Type:        t,
		Amount:      amount,
		Description: description,
		Source:      source,
		Destination: destination,
		Status:      status,
		CreatedAt:   createdAt,
	}
}
