package account_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/amirasaad/pixbank/internal/fixtures"
	"github.com/amirasaad/pixbank/pkg/domain/account"
	"github.com/amirasaad/pixbank/pkg/money"
	accountsvc "github.com/amirasaad/pixbank/pkg/service/account"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() (*accountsvc.Service, *fixtures.MemoryUoW) {
	uow := fixtures.NewMemoryUoW()
	return accountsvc.New(uow, slog.Default()), uow
}

func openParams(doc string) accountsvc.OpenParams {
	return accountsvc.OpenParams{
		HolderName: "Maria Silva",
		Document:   doc,
		BankCode:   "001",
		Agency:     "1234",
		Number:     "56789-0",
	}
}

func TestOpen(t *testing.T) {
	svc, _ := newService()
	owner := uuid.New()

	p := openParams("529.982.247-25")
	p.InitialBalance = 150.75
	acct, err := svc.Open(context.Background(), owner, p)
	require.NoError(t, err)

	assert.Equal(t, owner, acct.OwnerUserID)
	assert.Equal(t, "52998224725", acct.Document)
	assert.Equal(t, money.Amount(15075), acct.Balance)
	assert.Equal(t, account.StatusActive, acct.Status)

	got, err := svc.Get(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.Equal(t, acct.ID, got.ID)
}

func TestOpen_InvalidDocument(t *testing.T) {
	svc, _ := newService()
	_, err := svc.Open(context.Background(), uuid.New(), openParams("12345678900"))
	require.ErrorIs(t, err, account.ErrInvalidDocument)
}

func TestOpen_DuplicateDocument(t *testing.T) {
	svc, _ := newService()
	_, err := svc.Open(context.Background(), uuid.New(), openParams("52998224725"))
	require.NoError(t, err)

	_, err = svc.Open(context.Background(), uuid.New(), openParams("529.982.247-25"))
	require.ErrorIs(t, err, account.ErrDocumentTaken, "normalized document collides")
}

func TestOpen_SubCentInitialBalance(t *testing.T) {
	svc, _ := newService()
	p := openParams("52998224725")
	p.InitialBalance = 10.005
	_, err := svc.Open(context.Background(), uuid.New(), p)
	require.ErrorIs(t, err, money.ErrInvalidAmount)
}

func TestGetByDocument(t *testing.T) {
	svc, _ := newService()
	acct, err := svc.Open(context.Background(), uuid.New(), openParams("11444777000161"))
	require.NoError(t, err)

	got, err := svc.GetByDocument(context.Background(), "11.444.777/0001-61")
	require.NoError(t, err)
	assert.Equal(t, acct.ID, got.ID)

	_, err = svc.GetByDocument(context.Background(), "00000000000")
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestListActive_ExcludesDeactivated(t *testing.T) {
	svc, _ := newService()
	owner := uuid.New()
	a, err := svc.Open(context.Background(), owner, openParams("52998224725"))
	require.NoError(t, err)
	b, err := svc.Open(context.Background(), uuid.New(), openParams("11444777000161"))
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), owner, a.ID))

	active, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, b.ID, active[0].ID)

	// still readable by id
	got, err := svc.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, account.StatusInactive, got.Status)
}

func TestBalance(t *testing.T) {
	svc, _ := newService()
	owner := uuid.New()
	p := openParams("52998224725")
	p.InitialBalance = 42.00
	acct, err := svc.Open(context.Background(), owner, p)
	require.NoError(t, err)

	bal, err := svc.Balance(context.Background(), owner, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(4200), bal)

	_, err = svc.Balance(context.Background(), uuid.New(), acct.ID)
	assert.ErrorIs(t, err, account.ErrNotOwner)
}

func TestUpdateHolderName(t *testing.T) {
	svc, _ := newService()
	owner := uuid.New()
	acct, err := svc.Open(context.Background(), owner, openParams("52998224725"))
	require.NoError(t, err)

	require.NoError(t, svc.UpdateHolderName(context.Background(), owner, acct.ID, "Maria S. Costa"))
	got, err := svc.Get(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria S. Costa", got.HolderName)

	err = svc.UpdateHolderName(context.Background(), uuid.New(), acct.ID, "Mallory")
	assert.ErrorIs(t, err, account.ErrNotOwner)

	err = svc.UpdateHolderName(context.Background(), owner, acct.ID, "   ")
	assert.Error(t, err)
}

func TestDeactivate(t *testing.T) {
	svc, _ := newService()
	owner := uuid.New()
	acct, err := svc.Open(context.Background(), owner, openParams("52998224725"))
	require.NoError(t, err)

	err = svc.Deactivate(context.Background(), uuid.New(), acct.ID)
	assert.ErrorIs(t, err, account.ErrNotOwner)

	require.NoError(t, svc.Deactivate(context.Background(), owner, acct.ID))

	err = svc.Deactivate(context.Background(), owner, acct.ID)
	assert.ErrorIs(t, err, account.ErrAccountInactive, "already inactive")
}

func TestDeactivate_NonZeroBalance(t *testing.T) {
	svc, _ := newService()
	owner := uuid.New()
	p := openParams("52998224725")
	p.InitialBalance = 1.00
	acct, err := svc.Open(context.Background(), owner, p)
	require.NoError(t, err)

	err = svc.Deactivate(context.Background(), owner, acct.ID)
	require.ErrorIs(t, err, accountsvc.ErrBalanceNotZero)

	got, err := svc.Get(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive())
}

func TestStatement(t *testing.T) {
	svc, uow := newService()
	owner := uuid.New()
	acct, err := svc.Open(context.Background(), owner, openParams("52998224725"))
	require.NoError(t, err)

	txRepo, err := uow.TransactionRepository()
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		tx, err := account.NewDeposit(acct.ID, money.Amount(100*(i+1)), "")
		require.NoError(t, err)
		require.NoError(t, txRepo.Create(context.Background(), tx))
	}

	txs, err := svc.Statement(context.Background(), owner, acct.ID, 0)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, money.Amount(300), txs[0].Amount, "newest first")

	limited, err := svc.Statement(context.Background(), owner, acct.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	_, err = svc.Statement(context.Background(), uuid.New(), acct.ID, 0)
	assert.ErrorIs(t, err, account.ErrNotOwner)
}
