// Package fixtures provides an in-memory UnitOfWork and repositories for
// tests. Do serializes transactions like the embedded store's single
// writer does, and restores a snapshot on error so rollback semantics
// match the real implementation.
package fixtures

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/amirasaad/pixbank/pkg/document"
	"github.com/amirasaad/pixbank/pkg/domain"
	"github.com/amirasaad/pixbank/pkg/domain/account"
	"github.com/amirasaad/pixbank/pkg/domain/user"
	"github.com/amirasaad/pixbank/pkg/money"
	"github.com/amirasaad/pixbank/pkg/repository"
	"github.com/google/uuid"
)

type store struct {
	txMu sync.Mutex // serializes Do transactions
	mu   sync.Mutex // guards the maps below

	accounts     map[uuid.UUID]account.Account
	byDocument   map[string]uuid.UUID
	transactions []account.Transaction
	users        map[uuid.UUID]user.User
	byEmail      map[string]uuid.UUID
}

type snapshot struct {
	accounts   map[uuid.UUID]account.Account
	byDocument map[string]uuid.UUID
	txLen      int
	users      map[uuid.UUID]user.User
	byEmail    map[string]uuid.UUID
}

// MemoryUoW is an in-memory repository.UnitOfWork.
type MemoryUoW struct {
	store *store
}

// NewMemoryUoW creates an empty in-memory unit of work.
func NewMemoryUoW() *MemoryUoW {
	return &MemoryUoW{store: &store{
		accounts:   make(map[uuid.UUID]account.Account),
		byDocument: make(map[string]uuid.UUID),
		users:      make(map[uuid.UUID]user.User),
		byEmail:    make(map[string]uuid.UUID),
	}}
}

// Do runs fn as one transaction: all mutations are kept only if fn returns nil.
func (u *MemoryUoW) Do(_ context.Context, fn func(uow repository.UnitOfWork) error) error {
	u.store.txMu.Lock()
	defer u.store.txMu.Unlock()
	snap := u.store.take()
	if err := fn(u); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

// GetRepository mirrors the production reflect-keyed registry.
func (u *MemoryUoW) GetRepository(repoType reflect.Type) (any, error) {
	switch repoType {
	case reflect.TypeOf((*repository.AccountRepository)(nil)).Elem():
		return &accountRepo{store: u.store}, nil
	case reflect.TypeOf((*repository.TransactionRepository)(nil)).Elem():
		return &transactionRepo{store: u.store}, nil
	case reflect.TypeOf((*repository.UserRepository)(nil)).Elem():
		return &userRepo{store: u.store}, nil
	default:
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
}

// AccountRepository implements repository.UnitOfWork.
func (u *MemoryUoW) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepo{store: u.store}, nil
}

// TransactionRepository implements repository.UnitOfWork.
func (u *MemoryUoW) TransactionRepository() (repository.TransactionRepository, error) {
	return &transactionRepo{store: u.store}, nil
}

// UserRepository implements repository.UnitOfWork.
func (u *MemoryUoW) UserRepository() (repository.UserRepository, error) {
	return &userRepo{store: u.store}, nil
}

func (s *store) take() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		accounts:   make(map[uuid.UUID]account.Account, len(s.accounts)),
		byDocument: make(map[string]uuid.UUID, len(s.byDocument)),
		txLen:      len(s.transactions),
		users:      make(map[uuid.UUID]user.User, len(s.users)),
		byEmail:    make(map[string]uuid.UUID, len(s.byEmail)),
	}
	for k, v := range s.accounts {
		snap.accounts[k] = v
	}
	for k, v := range s.byDocument {
		snap.byDocument[k] = v
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	for k, v := range s.byEmail {
		snap.byEmail[k] = v
	}
	return snap
}

func (s *store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = snap.accounts
	s.byDocument = snap.byDocument
	s.transactions = s.transactions[:snap.txLen]
	s.users = snap.users
	s.byEmail = snap.byEmail
}

type accountRepo struct {
	store *store
}

func (r *accountRepo) Get(_ context.Context, id uuid.UUID) (*account.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return &a, nil
}

func (r *accountRepo) GetByDocument(_ context.Context, doc string) (*account.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	id, ok := r.store.byDocument[document.Normalize(doc)]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	a := r.store.accounts[id]
	return &a, nil
}

func (r *accountRepo) ListActive(_ context.Context) ([]*account.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*account.Account
	for _, a := range r.store.accounts {
		if a.Status == account.StatusActive {
			cp := a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *accountRepo) Create(_ context.Context, a *account.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.byDocument[a.Document]; exists {
		return account.ErrDocumentTaken
	}
	r.store.accounts[a.ID] = *a
	r.store.byDocument[a.Document] = a.ID
	return nil
}

func (r *accountRepo) UpdateBalance(_ context.Context, id uuid.UUID, balance money.Amount) error {
	return r.mutate(id, func(a *account.Account) { a.Balance = balance })
}

func (r *accountRepo) SetHolderName(_ context.Context, id uuid.UUID, name string) error {
	return r.mutate(id, func(a *account.Account) { a.HolderName = name })
}

func (r *accountRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	return r.mutate(id, func(a *account.Account) { a.Status = account.StatusInactive })
}

func (r *accountRepo) mutate(id uuid.UUID, fn func(*account.Account)) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.accounts[id]
	if !ok {
		return account.ErrAccountNotFound
	}
	fn(&a)
	r.store.accounts[id] = a
	return nil
}

type transactionRepo struct {
	store *store
}

func (r *transactionRepo) Create(_ context.Context, tx *account.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.transactions = append(r.store.transactions, *tx)
	return nil
}

func (r *transactionRepo) Get(_ context.Context, id uuid.UUID) (*account.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.transactions {
		if r.store.transactions[i].ID == id {
			tx := r.store.transactions[i]
			return &tx, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *transactionRepo) ListForAccount(
	_ context.Context,
	accountID uuid.UUID,
	limit int,
) ([]*account.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*account.Transaction
	// newest first: the slice is append-ordered
	for i := len(r.store.transactions) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		tx := r.store.transactions[i]
		if (tx.Source != nil && *tx.Source == accountID) ||
			(tx.Destination != nil && *tx.Destination == accountID) {
			cp := tx
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *transactionRepo) ListAll(
	_ context.Context,
	typeFilter account.TransactionType,
	limit int,
) ([]*account.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*account.Transaction
	for i := len(r.store.transactions) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		tx := r.store.transactions[i]
		if typeFilter != "" && tx.Type != typeFilter {
			continue
		}
		cp := tx
		out = append(out, &cp)
	}
	return out, nil
}

type userRepo struct {
	store *store
}

func (r *userRepo) Get(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	id, ok := r.store.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u := r.store.users[id]
	return &u, nil
}

func (r *userRepo) Create(_ context.Context, u *user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.byEmail[u.Email]; exists {
		return user.ErrEmailTaken
	}
	r.store.users[u.ID] = *u
	r.store.byEmail[u.Email] = u.ID
	return nil
}
