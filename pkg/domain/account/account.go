// Package account holds the ledger's aggregate types: Account and the
// append-only Transaction record, together with the invariant checks the
// ledger engine runs inside its atomic section.
package account

import (
	"errors"
	"time"

	"github.com/amirasaad/pixbank/pkg/document"
	"github.com/amirasaad/pixbank/pkg/money"
	"github.com/google/uuid"
)

var (
	// ErrAccountNotFound is returned when an account id does not resolve.
	ErrAccountNotFound = errors.New("account not found")

	// ErrPixKeyNotFound is returned when a PIX key resolves to no active account.
	ErrPixKeyNotFound = errors.New("pix key not found")

	// ErrInsufficientFunds is returned when an account has insufficient funds
	// for a withdrawal or transfer at commit time.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSameAccount is returned when a transfer is attempted from an account to itself.
	ErrSameAccount = errors.New("cannot transfer to same account")

	// ErrAccountInactive is returned when an operation targets a deactivated account.
	ErrAccountInactive = errors.New("account is inactive")

	// ErrNotOwner is returned when a user attempts to debit an account they do not own.
	ErrNotOwner = errors.New("not account owner")

	// ErrInvalidDocument is returned when a document fails CPF/CNPJ validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrDocumentTaken is returned when an account with the same document already exists.
	ErrDocumentTaken = errors.New("document already registered")

	// ErrNilAccount is returned when a nil account reaches an invariant check.
	ErrNilAccount = errors.New("nil account")

	// ErrDescriptionTooLong is returned when a transaction description
	// exceeds MaxDescriptionLen.
	ErrDescriptionTooLong = errors.New("description too long")
)

// Status marks whether an account accepts money movement.
type Status string

// Account statuses. Inactive accounts are soft-deleted: excluded from
// listings and PIX resolution, rejecting debits and credits.
const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Type is the product type of an account.
type Type string

// Account types.
const (
	TypeChecking Type = "checking"
	TypeSavings  Type = "savings"
)

// Account represents a bank account. The balance is held in minor units and
// may only be mutated by the ledger engine; every committed read observes
// Balance >= 0.
type Account struct {
	ID          uuid.UUID
	OwnerUserID uuid.UUID
	HolderName  string
	Document    string // normalized digits-only CPF/CNPJ, globally unique
	BankCode    string
	Agency      string
	Number      string
	Type        Type
	Balance     money.Amount
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Builder provides a fluent API for constructing Account instances and is
// the only way to obtain one outside of repository hydration.
type Builder struct {
	id          uuid.UUID
	ownerUserID uuid.UUID
	holderName  string
	doc         string
	bankCode    string
	agency      string
	number      string
	accountType Type
	balance     money.Amount
	createdAt   time.Time
}

// New creates a Builder with sensible defaults: a fresh UUID, checking type,
// zero balance.
func New() *Builder {
	return &Builder{
		id:          uuid.New(),
		accountType: TypeChecking,
		createdAt:   time.Now(),
	}
}

// WithID sets the ID for the account being built.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithOwner sets the user who opened the account. Mandatory: the ledger
// engine enforces ownership on every debit.
func (b *Builder) WithOwner(userID uuid.UUID) *Builder {
	b.ownerUserID = userID
	return b
}

// WithHolderName sets the display name of the account holder.
func (b *Builder) WithHolderName(name string) *Builder {
	b.holderName = name
	return b
}

// WithDocument sets the holder's CPF/CNPJ. It is normalized on Build.
func (b *Builder) WithDocument(doc string) *Builder {
	b.doc = doc
	return b
}

// WithRouting sets bank code, agency and account number.
func (b *Builder) WithRouting(bankCode, agency, number string) *Builder {
	b.bankCode = bankCode
	b.agency = agency
	b.number = number
	return b
}

// WithType sets the account type. Defaults to checking.
func (b *Builder) WithType(t Type) *Builder {
	b.accountType = t
	return b
}

// WithBalance sets the opening balance in minor units.
func (b *Builder) WithBalance(balance money.Amount) *Builder {
	b.balance = balance
	return b
}

// Build validates all invariants and returns the new Account.
func (b *Builder) Build() (*Account, error) {
	if b.ownerUserID == uuid.Nil {
		return nil, errors.New("owner user id is required")
	}
	if b.holderName == "" {
		return nil, errors.New("holder name is required")
	}
	if !document.IsValid(b.doc) {
		return nil, ErrInvalidDocument
	}
	if b.bankCode == "" || b.agency == "" || b.number == "" {
		return nil, errors.New("bank code, agency and account number are required")
	}
	if b.accountType != TypeChecking && b.accountType != TypeSavings {
		return nil, errors.New("account type must be checking or savings")
	}
	if b.balance < 0 {
		return nil, money.ErrInvalidAmount
	}
	return &Account{
		ID:          b.id,
		OwnerUserID: b.ownerUserID,
		HolderName:  b.holderName,
		Document:    document.Normalize(b.doc),
		BankCode:    b.bankCode,
		Agency:      b.agency,
		Number:      b.number,
		Type:        b.accountType,
		Balance:     b.balance,
		Status:      StatusActive,
		CreatedAt:   b.createdAt,
		UpdatedAt:   b.createdAt,
	}, nil
}

// IsActive reports whether the account accepts money movement.
func (a *Account) IsActive() bool {
	return a.Status == StatusActive
}

// ValidateCredit checks the invariants for crediting this account.
// Anyone may credit an active account; no ownership check applies.
func (a *Account) ValidateCredit(amount money.Amount) error {
	if a == nil {
		return ErrNilAccount
	}
	if !a.IsActive() {
		return ErrAccountInactive
	}
	if amount <= 0 {
		return money.ErrInvalidAmount
	}
	return nil
}

// ValidateDebit checks the invariants for debiting this account: the actor
// must own it, it must be active, and the balance at this instant must
// cover the amount. Callers must hold the account lock so the balance read
// here is the commit-time balance.
func (a *Account) ValidateDebit(actorID uuid.UUID, amount money.Amount) error {
	if a == nil {
		return ErrNilAccount
	}
	if a.OwnerUserID != actorID {
		return ErrNotOwner
	}
	if !a.IsActive() {
		return ErrAccountInactive
	}
	if amount <= 0 {
		return money.ErrInvalidAmount
	}
	if a.Balance < amount {
		return ErrInsufficientFunds
	}
	return nil
}

// ValidateTransfer checks the invariants for moving amount from this
// account to dest as one atomic operation.
func (a *Account) ValidateTransfer(actorID uuid.UUID, dest *Account, amount money.Amount) error {
	if a == nil || dest == nil {
		return ErrNilAccount
	}
	if a.ID == dest.ID {
		return ErrSameAccount
	}
	if err := a.ValidateDebit(actorID, amount); err != nil {
		return err
	}
	return dest.ValidateCredit(amount)
}
