// Package account provides account lifecycle operations: opening, lookup,
// listing, holder-name updates and deactivation. Balance mutation is not
// here; only the ledger engine writes balances.
package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/amirasaad/pixbank/pkg/document"
	"github.com/amirasaad/pixbank/pkg/domain/account"
	"github.com/amirasaad/pixbank/pkg/money"
	"github.com/amirasaad/pixbank/pkg/repository"
	"github.com/google/uuid"
)

// OpenParams carries the caller-supplied fields for opening an account.
type OpenParams struct {
	HolderName     string
	Document       string
	BankCode       string
	Agency         string
	Number         string
	Type           account.Type
	InitialBalance float64
}

// Service exposes account lifecycle operations on top of a UnitOfWork.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates an account Service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Open creates a new active account owned by ownerID. The document must be
// a valid CPF/CNPJ not yet registered; the optional initial balance must be
// representable in whole cents.
func (s *Service) Open(ctx context.Context, ownerID uuid.UUID, p OpenParams) (*account.Account, error) {
	balance, err := money.ParseBalance(p.InitialBalance)
	if err != nil {
		return nil, err
	}
	b := account.New().
		WithOwner(ownerID).
		WithHolderName(strings.TrimSpace(p.HolderName)).
		WithDocument(p.Document).
		WithRouting(p.BankCode, p.Agency, p.Number).
		WithBalance(balance)
	if p.Type != "" {
		b = b.WithType(p.Type)
	}
	acct, err := b.Build()
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		return repo.Create(ctx, acct)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("account opened",
		"account_id", acct.ID, "owner_id", ownerID, "type", acct.Type)
	return acct, nil
}

// Get returns the account by id. Inactive accounts remain readable.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}

// GetByDocument resolves a CPF/CNPJ to its account.
func (s *Service) GetByDocument(ctx context.Context, doc string) (*account.Account, error) {
	key := document.Normalize(doc)
	if key == "" {
		return nil, account.ErrAccountNotFound
	}
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return repo.GetByDocument(ctx, key)
}

// ListActive returns all active accounts.
func (s *Service) ListActive(ctx context.Context) ([]*account.Account, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return repo.ListActive(ctx)
}

// Balance returns the current balance of an account owned by actorID.
// Deactivated accounts stay readable.
func (s *Service) Balance(ctx context.Context, actorID, id uuid.UUID) (money.Amount, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return 0, err
	}
	acct, err := repo.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if acct.OwnerUserID != actorID {
		return 0, account.ErrNotOwner
	}
	return acct.Balance, nil
}

// UpdateHolderName renames the account holder. Only the owner may rename.
func (s *Service) UpdateHolderName(ctx context.Context, actorID, id uuid.UUID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("holder name is required")
	}
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if _, err := s.ownedActiveIn(ctx, repo, actorID, id); err != nil {
			return err
		}
		return repo.SetHolderName(ctx, id, name)
	})
}

// Deactivate soft-deletes the account. Only the owner may deactivate, the
// account must be active, and the balance must be zero so no funds are
// stranded.
func (s *Service) Deactivate(ctx context.Context, actorID, id uuid.UUID) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err := s.ownedActiveIn(ctx, repo, actorID, id)
		if err != nil {
			return err
		}
		if acct.Balance != 0 {
			return ErrBalanceNotZero
		}
		return repo.Deactivate(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("account deactivated", "account_id", id, "actor_id", actorID)
	return nil
}

// Statement returns the account's transaction history, newest first. The
// actor must own the account; inactive accounts keep their history readable.
func (s *Service) Statement(
	ctx context.Context,
	actorID, id uuid.UUID,
	limit int,
) ([]*account.Transaction, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	acct, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if acct.OwnerUserID != actorID {
		return nil, account.ErrNotOwner
	}
	txRepo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return txRepo.ListForAccount(ctx, id, limit)
}

// ErrBalanceNotZero is returned when deactivation is attempted on an
// account still holding funds.
var ErrBalanceNotZero = errors.New("account balance must be zero")

func (s *Service) ownedActiveIn(
	ctx context.Context,
	repo repository.AccountRepository,
	actorID, id uuid.UUID,
) (*account.Account, error) {
	acct, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if acct.OwnerUserID != actorID {
		return nil, account.ErrNotOwner
	}
	if !acct.IsActive() {
		return nil, account.ErrAccountInactive
	}
	return acct, nil
}
