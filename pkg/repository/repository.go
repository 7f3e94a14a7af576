// Package repository defines the data-access contracts consumed by the
// service layer. Implementations live in infra/repository.
package repository

import (
	"context"

	"github.com/amirasaad/pixbank/pkg/domain/account"
	"github.com/amirasaad/pixbank/pkg/domain/user"
	"github.com/amirasaad/pixbank/pkg/money"
	"github.com/google/uuid"
)

// AccountRepository defines the interface for account data access operations.
// UpdateBalance is only safe inside the ledger engine's atomic section: the
// caller must hold the per-account lock so no other writer interleaves
// between the read and the conditional write.
type AccountRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
	// GetByDocument resolves a normalized digits-only document to its account.
	GetByDocument(ctx context.Context, document string) (*account.Account, error)
	ListActive(ctx context.Context) ([]*account.Account, error)
	Create(ctx context.Context, a *account.Account) error
	UpdateBalance(ctx context.Context, id uuid.UUID, balance money.Amount) error
	SetHolderName(ctx context.Context, id uuid.UUID, name string) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// TransactionRepository defines the append-only transaction log.
type TransactionRepository interface {
	Create(ctx context.Context, tx *account.Transaction) error
	Get(ctx context.Context, id uuid.UUID) (*account.Transaction, error)
	// ListForAccount returns transactions touching the account as source or
	// destination, newest first.
	ListForAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*account.Transaction, error)
	// ListAll returns all transactions newest first, optionally filtered by type.
	ListAll(ctx context.Context, typeFilter account.TransactionType, limit int) ([]*account.Transaction, error)
}

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
}
