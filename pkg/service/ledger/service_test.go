package ledger_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/amirasaad/pixbank/internal/fixtures"
	"github.com/amirasaad/pixbank/pkg/domain/account"
	"github.com/amirasaad/pixbank/pkg/money"
	"github.com/amirasaad/pixbank/pkg/notifier"
	"github.com/amirasaad/pixbank/pkg/service/ledger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	uow    *fixtures.MemoryUoW
	bus    *notifier.Bus
	svc    *ledger.Service
	events []notifier.Event
	mu     sync.Mutex
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		uow: fixtures.NewMemoryUoW(),
		bus: notifier.NewBus(slog.Default()),
	}
	e.bus.Subscribe(notifier.EventTransaction, func(_ context.Context, ev notifier.Event) {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.events = append(e.events, ev)
	})
	e.svc = ledger.New(e.uow, e.bus, slog.Default(), 0)
	return e
}

// seedAccount creates an active account owned by ownerID with the given
// balance in minor units.
func (e *env) seedAccount(t *testing.T, ownerID uuid.UUID, doc string, balance money.Amount) *account.Account {
	t.Helper()
	a, err := account.New().
		WithOwner(ownerID).
		WithHolderName("Holder " + doc).
		WithDocument(doc).
		WithRouting("001", "1234", "56789-0").
		WithBalance(balance).
		Build()
	require.NoError(t, err)
	repo, err := e.uow.AccountRepository()
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

func (e *env) balance(t *testing.T, id uuid.UUID) money.Amount {
	t.Helper()
	repo, err := e.uow.AccountRepository()
	require.NoError(t, err)
	a, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	return a.Balance
}

func (e *env) transactionCount(t *testing.T) int {
	t.Helper()
	repo, err := e.uow.TransactionRepository()
	require.NoError(t, err)
	txs, err := repo.ListAll(context.Background(), "", 0)
	require.NoError(t, err)
	return len(txs)
}

// Known-valid CPF/CNPJ documents for seeding.
const (
	docA = "52998224725"
	docB = "11444777000161"
	docC = "15350946056"
)

func TestDeposit(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()
	a := e.seedAccount(t, owner, docA, 100000) // 1000.00

	res, err := e.svc.Deposit(context.Background(), owner, a.ID, 500.00, "payday")
	require.NoError(t, err)
	assert.Equal(t, money.Amount(150000), res.Balance)
	assert.Equal(t, account.TypeDeposit, res.Transaction.Type)
	require.NotNil(t, res.Transaction.Destination)
	assert.Equal(t, a.ID, *res.Transaction.Destination)
	assert.Nil(t, res.Transaction.Source)
	assert.Equal(t, account.StatusCompleted, res.Transaction.Status)
	assert.Equal(t, money.Amount(150000), e.balance(t, a.ID))
}

func TestDeposit_InvalidAmounts(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()
	a := e.seedAccount(t, owner, docA, 10000)

	for _, amount := range []float64{10.005, 0, -100} {
		_, err := e.svc.Deposit(context.Background(), owner, a.ID, amount, "")
		require.ErrorIs(t, err, money.ErrInvalidAmount, "amount %v", amount)
	}
	assert.Equal(t, money.Amount(10000), e.balance(t, a.ID))
	assert.Zero(t, e.transactionCount(t))
}

func TestDeposit_AccountNotFound(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.Deposit(context.Background(), uuid.New(), uuid.New(), 100.00, "")
	require.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestDeposit_InactiveAccount(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()
	a := e.seedAccount(t, owner, docA, 10000)
	repo, err := e.uow.AccountRepository()
	require.NoError(t, err)
	require.NoError(t, repo.Deactivate(context.Background(), a.ID))

	_, err = e.svc.Deposit(context.Background(), owner, a.ID, 100.00, "")
	require.ErrorIs(t, err, account.ErrAccountInactive)
	assert.Equal(t, money.Amount(10000), e.balance(t, a.ID))
}

func TestWithdraw(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()
	a := e.seedAccount(t, owner, docA, 100000)

	res, err := e.svc.Withdraw(context.Background(), owner, a.ID, 250.50, "rent")
	require.NoError(t, err)
	assert.Equal(t, money.Amount(74950), res.Balance)
	assert.Equal(t, account.TypeWithdraw, res.Transaction.Type)
	require.NotNil(t, res.Transaction.Source)
	assert.Equal(t, a.ID, *res.Transaction.Source)
	assert.Nil(t, res.Transaction.Destination)
}

func TestWithdraw_InsufficientFunds(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()
	a := e.seedAccount(t, owner, docA, 10000) // 100.00

	_, err := e.svc.Withdraw(context.Background(), owner, a.ID, 150.00, "")
	require.ErrorIs(t, err, account.ErrInsufficientFunds)
	assert.Equal(t, money.Amount(10000), e.balance(t, a.ID), "balance unchanged")
	assert.Zero(t, e.transactionCount(t), "no transaction recorded")
}

func TestWithdraw_NotOwner(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()
	a := e.seedAccount(t, owner, docA, 100000)

	_, err := e.svc.Withdraw(context.Background(), uuid.New(), a.ID, 100.00, "")
	require.ErrorIs(t, err, account.ErrNotOwner)
	assert.Equal(t, money.Amount(100000), e.balance(t, a.ID))
	assert.Zero(t, e.transactionCount(t))
}

func TestTransfer(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()
	a := e.seedAccount(t, owner, docA, 100000) // 1000.00
	b := e.seedAccount(t, uuid.New(), docB, 50000)

	res, err := e.svc.Transfer(context.Background(), owner, a.ID, b.ID, 100.00, "split bill")
	require.NoError(t, err)
	assert.Equal(t, money.Amount(90000), res.Balance)
	assert.Equal(t, money.Amount(90000), e.balance(t, a.ID))
	assert.Equal(t, money.Amount(60000), e.balance(t, b.ID))

	tx := res.Transaction
	assert.Equal(t, account.TypeTransfer, tx.Type)
	require.NotNil(t, tx.Source)
	require.NotNil(t, tx.Destination)
	assert.Equal(t, a.ID, *tx.Source)
	assert.Equal(t, b.ID, *tx.Destination)
	assert.Equal(t, 1, e.transactionCount(t))
}

func TestTransfer_Conservation(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()
	a := e.seedAccount(t, owner, docA, 100000)
	b := e.seedAccount(t, uuid.New(), docB, 50000)
	c := e.seedAccount(t, uuid.New(), docC, 77700)
	before := e.balance(t, a.ID) + e.balance(t, b.ID)

	_, err := e.svc.Transfer(context.Background(), owner, a.ID, b.ID, 423.17, "")
	require.NoError(t, err)

	assert.Equal(t, before, e.balance(t, a.ID)+e.balance(t, b.ID))
	assert.Equal(t, money.Amount(77700), e.balance(t, c.ID), "uninvolved account untouched")
}

func TestTransfer_SameAccount(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()
	a := e.seedAccount(t, owner, docA, 100000)

	_, err := e.svc.Transfer(context.Background(), owner, a.ID, a.ID, 100.00, "")
	require.ErrorIs(t, err, account.ErrSameAccount)
}

func TestTransfer_InsufficientFundsIsAtomic(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()
	a := e.seedAccount(t, owner, docA, 10000)
	b := e.seedAccount(t, uuid.New(), docB, 50000)

	_, err := e.svc.Transfer(context.Background(), owner, a.ID, b.ID, 999.99, "")
	require.ErrorIs(t, err, account.ErrInsufficientFunds)
	assert.Equal(t, money.Amount(10000), e.balance(t, a.ID))
	assert.Equal(t, money.Amount(50000), e.balance(t, b.ID))
	assert.Zero(t, e.transactionCount(t))
}

func TestTransfer_InactiveDestination(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()
	a := e.seedAccount(t, owner, docA, 100000)
	b := e.seedAccount(t, uuid.New(), docB, 50000)
	repo, err := e.uow.AccountRepository()
	require.NoError(t, err)
	require.NoError(t, repo.Deactivate(context.Background(), b.ID))

	_, err = e.svc.Transfer(context.Background(), owner, a.ID, b.ID, 100.00, "")
	require.ErrorIs(t, err, account.ErrAccountInactive)
	assert.Equal(t, money.Amount(100000), e.balance(t, a.ID))
}

func TestPix(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()
	a := e.seedAccount(t, owner, docA, 100000)
	b := e.seedAccount(t, uuid.New(), docB, 50000)

	res, err := e.svc.Pix(context.Background(), owner, a.ID, "11.444.777/0001-61", 50.00, "pix test")
	require.NoError(t, err)
	assert.Equal(t, account.TypePix, res.Transaction.Type)
	require.NotNil(t, res.Transaction.Destination)
	assert.Equal(t, b.ID, *res.Transaction.Destination)
	assert.Equal(t, money.Amount(95000), e.balance(t, a.ID))
	assert.Equal(t, money.Amount(55000), e.balance(t, b.ID))
}

func TestPix_KeyNotFound(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()
	a := e.seedAccount(t, owner, docA, 100000)

	_, err := e.svc.Pix(context.Background(), owner, a.ID, "00000000000", 50.00, "")
	require.ErrorIs(t, err, account.ErrPixKeyNotFound)
	assert.Equal(t, money.Amount(100000), e.balance(t, a.ID))
}

func TestPix_InactiveKeyOwnerNotResolvable(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()
	a := e.seedAccount(t, owner, docA, 100000)
	b := e.seedAccount(t, uuid.New(), docB, 50000)
	repo, err := e.uow.AccountRepository()
	require.NoError(t, err)
	require.NoError(t, repo.Deactivate(context.Background(), b.ID))

	_, err = e.svc.Pix(context.Background(), owner, a.ID, docB, 50.00, "")
	require.ErrorIs(t, err, account.ErrPixKeyNotFound)
}

func TestPix_ResolvesToSelf(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()
	a := e.seedAccount(t, owner, docA, 100000)

	_, err := e.svc.Pix(context.Background(), owner, a.ID, docA, 50.00, "")
	require.ErrorIs(t, err, account.ErrSameAccount)
}

func TestConcurrentWithdrawals_OnlyAffordableSubsetSucceeds(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()
	a := e.seedAccount(t, owner, docA, 100000) // 1000.00

	const workers = 2
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.svc.Withdraw(context.Background(), owner, a.ID, 600.00, "race")
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		default:
			require.ErrorIs(t, err, account.ErrInsufficientFunds)
			insufficient++
		}
	}
	assert.Equal(t, 1, ok, "exactly one withdrawal succeeds")
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, money.Amount(40000), e.balance(t, a.ID))
	assert.Equal(t, 1, e.transactionCount(t))
}

func TestConcurrentOpposingTransfers_NoDeadlock(t *testing.T) {
	e := newEnv(t)
	ownerA, ownerB := uuid.New(), uuid.New()
	a := e.seedAccount(t, ownerA, docA, 100000)
	b := e.seedAccount(t, ownerB, docB, 100000)

	const rounds = 20
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_, err := e.svc.Transfer(context.Background(), ownerA, a.ID, b.ID, 1.00, "")
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			_, err := e.svc.Transfer(context.Background(), ownerB, b.ID, a.ID, 1.00, "")
			assert.NoError(t, err)
		}
	}()
	wg.Wait()

	assert.Equal(t, money.Amount(100000), e.balance(t, a.ID))
	assert.Equal(t, money.Amount(100000), e.balance(t, b.ID))
	assert.Equal(t, 2*rounds, e.transactionCount(t))
}

func TestNotification_EmittedOncePerCommit(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()
	a := e.seedAccount(t, owner, docA, 100000)
	b := e.seedAccount(t, uuid.New(), docB, 50000)

	_, err := e.svc.Deposit(context.Background(), owner, a.ID, 10.00, "")
	require.NoError(t, err)
	_, err = e.svc.Transfer(context.Background(), owner, a.ID, b.ID, 10.00, "")
	require.NoError(t, err)
	_, err = e.svc.Withdraw(context.Background(), owner, a.ID, 999999.00, "")
	require.ErrorIs(t, err, account.ErrInsufficientFunds)

	e.mu.Lock()
	defer e.mu.Unlock()
	require.Len(t, e.events, 2, "one event per committed transaction, none for failures")
	assert.Equal(t, []uuid.UUID{a.ID}, e.events[0].AccountIDs)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, e.events[1].AccountIDs)
}

func TestDescriptionTooLong(t *testing.T) {
	e := newEnv(t)
	owner := uuid.New()
	a := e.seedAccount(t, owner, docA, 100000)

	long := make([]byte, account.MaxDescriptionLen+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err := e.svc.Deposit(context.Background(), owner, a.ID, 10.00, string(long))
	require.ErrorIs(t, err, account.ErrDescriptionTooLong)
	assert.Equal(t, money.Amount(100000), e.balance(t, a.ID))
}
