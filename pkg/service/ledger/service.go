// Package ledger implements the transaction engine: the only component
// allowed to mutate account balances and append transaction records.
//
// Every operation is one atomic unit executed under per-account locks:
// re-read the balance(s) from storage, validate the invariants against that
// fresh read, then write the new balance(s) and append the transaction row
// inside a single database transaction. No operation is ever observed
// half-applied.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/pixbank/pkg/document"
	"github.com/amirasaad/pixbank/pkg/domain/account"
	"github.com/amirasaad/pixbank/pkg/money"
	"github.com/amirasaad/pixbank/pkg/notifier"
	"github.com/amirasaad/pixbank/pkg/repository"
	"github.com/google/uuid"
)

// ErrUnavailable is returned when storage cannot be reached or an account
// lock cannot be acquired within the configured budget. No partial state is
// left behind.
var ErrUnavailable = errors.New("ledger unavailable")

// DefaultLockTimeout bounds how long an operation may wait for its account locks.
const DefaultLockTimeout = 5 * time.Second

// Result is the outcome of a successful operation: the updated balance of
// the primary account and the committed transaction record.
type Result struct {
	Balance     money.Amount
	Transaction *account.Transaction
}

// Service executes deposit, withdraw, transfer and pix atomically.
type Service struct {
	uow         repository.UnitOfWork
	notifier    notifier.Notifier
	locks       *lockTable
	lockTimeout time.Duration
	logger      *slog.Logger
}

// New creates a ledger Service. A zero lockTimeout falls back to
// DefaultLockTimeout.
func New(
	uow repository.UnitOfWork,
	n notifier.Notifier,
	logger *slog.Logger,
	lockTimeout time.Duration,
) *Service {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &Service{
		uow:         uow,
		notifier:    n,
		locks:       newLockTable(),
		lockTimeout: lockTimeout,
		logger:      logger,
	}
}

// Deposit credits amount into the account. Any authenticated actor may
// credit an active account.
func (s *Service) Deposit(
	ctx context.Context,
	actorID, accountID uuid.UUID,
	amountValue float64,
	desc string,
) (*Result, error) {
	amount, err := money.Parse(amountValue)
	if err != nil {
		return nil, err
	}
	if err := validateDescription(desc); err != nil {
		return nil, err
	}
	logger := s.logger.With("op", "deposit", "account_id", accountID, "actor_id", actorID)

	release, err := s.acquire(ctx, accountID)
	if err != nil {
		return nil, err
	}
	defer release()

	var res Result
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err := repo.Get(ctx, accountID)
		if err != nil {
			return err
		}
		if err := acct.ValidateCredit(amount); err != nil {
			return err
		}
		newBalance, err := money.Add(acct.Balance, amount)
		if err != nil {
			return err
		}
		if err := repo.UpdateBalance(ctx, accountID, newBalance); err != nil {
			return err
		}
		tx, err := account.NewDeposit(accountID, amount, desc)
		if err != nil {
			return err
		}
		if err := s.appendTransaction(ctx, uow, tx); err != nil {
			return err
		}
		res = Result{Balance: newBalance, Transaction: tx}
		return nil
	})
	release() // locks are never held across notification dispatch
	if err != nil {
		logger.Error("deposit failed", "error", err)
		return nil, s.classify(err)
	}
	logger.Info("deposit committed", "transaction_id", res.Transaction.ID, "new_balance", res.Balance)
	s.notify(ctx, res.Transaction, accountID)
	return &res, nil
}

// Withdraw debits amount from the account. The actor must own it, and the
// funds check runs against the balance re-read inside this atomic section,
// not the one observed at request validation time.
func (s *Service) Withdraw(
	ctx context.Context,
	actorID, accountID uuid.UUID,
	amountValue float64,
	desc string,
) (*Result, error) {
	amount, err := money.Parse(amountValue)
	if err != nil {
		return nil, err
	}
	if err := validateDescription(desc); err != nil {
		return nil, err
	}
	logger := s.logger.With("op", "withdraw", "account_id", accountID, "actor_id", actorID)

	release, err := s.acquire(ctx, accountID)
	if err != nil {
		return nil, err
	}
	defer release()

	var res Result
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err := repo.Get(ctx, accountID)
		if err != nil {
			return err
		}
		if err := acct.ValidateDebit(actorID, amount); err != nil {
			return err
		}
		newBalance := acct.Balance - amount
		if err := repo.UpdateBalance(ctx, accountID, newBalance); err != nil {
			return err
		}
		tx, err := account.NewWithdraw(accountID, amount, desc)
		if err != nil {
			return err
		}
		if err := s.appendTransaction(ctx, uow, tx); err != nil {
			return err
		}
		res = Result{Balance: newBalance, Transaction: tx}
		return nil
	})
	release()
	if err != nil {
		logger.Error("withdraw failed", "error", err)
		return nil, s.classify(err)
	}
	logger.Info("withdraw committed", "transaction_id", res.Transaction.ID, "new_balance", res.Balance)
	s.notify(ctx, res.Transaction, accountID)
	return &res, nil
}

// Transfer moves amount from source to destination atomically: both balance
// writes and the log append commit together or not at all.
func (s *Service) Transfer(
	ctx context.Context,
	actorID, sourceID, destinationID uuid.UUID,
	amountValue float64,
	desc string,
) (*Result, error) {
	return s.move(ctx, account.TypeTransfer, actorID, sourceID, destinationID, amountValue, desc)
}

// Pix resolves pixKey (a normalized document) to exactly one active
// destination account, then behaves like Transfer with type pix.
func (s *Service) Pix(
	ctx context.Context,
	actorID, sourceID uuid.UUID,
	pixKey string,
	amountValue float64,
	desc string,
) (*Result, error) {
	destinationID, err := s.resolvePixKey(ctx, pixKey)
	if err != nil {
		return nil, err
	}
	return s.move(ctx, account.TypePix, actorID, sourceID, destinationID, amountValue, desc)
}

// resolvePixKey looks up the destination outside the atomic section; the
// destination's status is re-validated under lock before any write.
func (s *Service) resolvePixKey(ctx context.Context, pixKey string) (uuid.UUID, error) {
	key := document.Normalize(pixKey)
	if key == "" {
		return uuid.Nil, account.ErrPixKeyNotFound
	}
	var destinationID uuid.UUID
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		dest, err := repo.GetByDocument(ctx, key)
		if err != nil {
			return err
		}
		if !dest.IsActive() {
			return account.ErrPixKeyNotFound
		}
		destinationID = dest.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return uuid.Nil, account.ErrPixKeyNotFound
		}
		return uuid.Nil, s.classify(err)
	}
	return destinationID, nil
}

func (s *Service) move(
	ctx context.Context,
	txType account.TransactionType,
	actorID, sourceID, destinationID uuid.UUID,
	amountValue float64,
	desc string,
) (*Result, error) {
	amount, err := money.Parse(amountValue)
	if err != nil {
		return nil, err
	}
	if err := validateDescription(desc); err != nil {
		return nil, err
	}
	if sourceID == destinationID {
		return nil, account.ErrSameAccount
	}
	logger := s.logger.With(
		"op", string(txType),
		"source_id", sourceID,
		"destination_id", destinationID,
		"actor_id", actorID,
	)

	release, err := s.acquire(ctx, sourceID, destinationID)
	if err != nil {
		return nil, err
	}
	defer release()

	var res Result
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		source, err := repo.Get(ctx, sourceID)
		if err != nil {
			return err
		}
		dest, err := repo.Get(ctx, destinationID)
		if err != nil {
			return err
		}
		if err := source.ValidateTransfer(actorID, dest, amount); err != nil {
			return err
		}
		destBalance, err := money.Add(dest.Balance, amount)
		if err != nil {
			return err
		}
		sourceBalance := source.Balance - amount
		if err := repo.UpdateBalance(ctx, sourceID, sourceBalance); err != nil {
			return err
		}
		if err := repo.UpdateBalance(ctx, destinationID, destBalance); err != nil {
			return err
		}
		var tx *account.Transaction
		if txType == account.TypePix {
			tx, err = account.NewPix(sourceID, destinationID, amount, desc)
		} else {
			tx, err = account.NewTransfer(sourceID, destinationID, amount, desc)
		}
		if err != nil {
			return err
		}
		if err := s.appendTransaction(ctx, uow, tx); err != nil {
			return err
		}
		res = Result{Balance: sourceBalance, Transaction: tx}
		return nil
	})
	release()
	if err != nil {
		logger.Error("transfer failed", "error", err)
		return nil, s.classify(err)
	}
	logger.Info("transfer committed", "transaction_id", res.Transaction.ID, "source_balance", res.Balance)
	s.notify(ctx, res.Transaction, sourceID, destinationID)
	return &res, nil
}

// List returns committed transactions, newest first, optionally filtered
// by type. Read-only: no locks are taken.
func (s *Service) List(
	ctx context.Context,
	typeFilter account.TransactionType,
	limit int,
) ([]*account.Transaction, error) {
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, s.classify(err)
	}
	txs, err := repo.ListAll(ctx, typeFilter, limit)
	if err != nil {
		return nil, s.classify(err)
	}
	return txs, nil
}

// acquire takes the per-account locks with a bounded wait.
func (s *Service) acquire(ctx context.Context, ids ...uuid.UUID) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()
	release, err := s.locks.acquire(lockCtx, ids...)
	if err != nil {
		return nil, fmt.Errorf("%w: lock acquisition: %v", ErrUnavailable, err)
	}
	return release, nil
}

func (s *Service) appendTransaction(
	ctx context.Context,
	uow repository.UnitOfWork,
	tx *account.Transaction,
) error {
	txRepo, err := uow.TransactionRepository()
	if err != nil {
		return err
	}
	return txRepo.Create(ctx, tx)
}

// notify emits the committed transaction on the side-channel. Best-effort:
// it runs after the commit and cannot roll it back.
func (s *Service) notify(ctx context.Context, tx *account.Transaction, accountIDs ...uuid.UUID) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(context.WithoutCancel(ctx), notifier.Event{
		Type:        notifier.EventTransaction,
		AccountIDs:  accountIDs,
		Transaction: tx,
	})
}

func validateDescription(desc string) error {
	if len(desc) > account.MaxDescriptionLen {
		return account.ErrDescriptionTooLong
	}
	return nil
}

// domainErrs are validation and invariant failures detected inside the
// atomic section; they pass through to the caller unchanged.
var domainErrs = []error{
	money.ErrInvalidAmount,
	money.ErrAmountExceedsMaxSafeInt,
	account.ErrAccountNotFound,
	account.ErrPixKeyNotFound,
	account.ErrInsufficientFunds,
	account.ErrSameAccount,
	account.ErrAccountInactive,
	account.ErrNotOwner,
	account.ErrDescriptionTooLong,
}

// classify separates typed domain failures from storage failures; the
// latter surface as ErrUnavailable and are never retried by the engine.
func (s *Service) classify(err error) error {
	for _, d := range domainErrs {
		if errors.Is(err, d) {
			return err
		}
	}
	if errors.Is(err, ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
