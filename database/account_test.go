package database

import (
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jerry-enebeli/purse/config"
	"github.com/jerry-enebeli/purse/model"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatasource() *Datasource {
	return newDatasource(&config.Configuration{})
}

func createTestAccount(t *testing.T, ds *Datasource, ownerID string) model.Account {
	t.Helper()
	account, err := ds.CreateAccount(ownerID, model.AccountTypeChecking, model.GenerateAccountNumber())
	require.NoError(t, err)
	return account
}

func fund(t *testing.T, ds *Datasource, id string, amount int64) {
	t.Helper()
	lease, err := ds.Lease(id)
	require.NoError(t, err)
	defer lease.Release()
	_, err = ds.ApplyDelta(lease, id, decimal.NewFromInt(amount))
	require.NoError(t, err)
}

func TestCreateAccount_Success(t *testing.T) {
	ds := newTestDatasource()
	ownerID := gofakeit.UUID()

	account, err := ds.CreateAccount(ownerID, model.AccountTypeSavings, "1234567890")
	require.NoError(t, err)

	assert.Contains(t, account.AccountID, "acc_")
	assert.Equal(t, ownerID, account.OwnerID)
	assert.Equal(t, "1234567890", account.Number)
	assert.Equal(t, model.AccountTypeSavings, account.Type)
	assert.True(t, account.Balance.IsZero())
	assert.True(t, account.Active)
	assert.False(t, account.CreatedAt.IsZero())
}

func TestCreateAccount_DuplicateNumber(t *testing.T) {
	ds := newTestDatasource()

	_, err := ds.CreateAccount("owner_1", model.AccountTypeChecking, "1234567890")
	require.NoError(t, err)

	_, err = ds.CreateAccount("owner_2", model.AccountTypeChecking, "1234567890")
	assert.True(t, errors.Is(err, model.ErrDuplicateAccountNumber))

	accounts, err := ds.GetActiveAccountsByOwner("owner_2")
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestCreateAccount_InvalidType(t *testing.T) {
	ds := newTestDatasource()
	_, err := ds.CreateAccount("owner_1", model.AccountType("brokerage"), "1234567890")
	assert.True(t, errors.Is(err, model.ErrInvalidAccountType))
}

func TestGetAccount_NotFound(t *testing.T) {
	ds := newTestDatasource()

	_, err := ds.GetAccountByID("acc_missing")
	assert.True(t, errors.Is(err, model.ErrAccountNotFound))

	_, err = ds.GetAccountByNumber("0000000000")
	assert.True(t, errors.Is(err, model.ErrAccountNotFound))
}

func TestGetAccountByNumber(t *testing.T) {
	ds := newTestDatasource()
	created := createTestAccount(t, ds, "owner_1")

	found, err := ds.GetAccountByNumber(created.Number)
	require.NoError(t, err)
	assert.Equal(t, created.AccountID, found.AccountID)
}

func TestGetActiveAccountsByOwner(t *testing.T) {
	ds := newTestDatasource()
	first := createTestAccount(t, ds, "owner_1")
	second := createTestAccount(t, ds, "owner_1")
	third := createTestAccount(t, ds, "owner_1")
	createTestAccount(t, ds, "owner_2")

	lease, err := ds.Lease(second.AccountID)
	require.NoError(t, err)
	require.NoError(t, ds.DeactivateAccount(lease, second.AccountID))
	lease.Release()

	accounts, err := ds.GetActiveAccountsByOwner("owner_1")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, first.AccountID, accounts[0].AccountID)
	assert.Equal(t, third.AccountID, accounts[1].AccountID)

	// deactivated accounts are still readable by ID
	deactivated, err := ds.GetAccountByID(second.AccountID)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)
}

func TestGetAccountByID_ReturnsCopy(t *testing.T) {
	ds := newTestDatasource()
	created := createTestAccount(t, ds, "owner_1")

	account, err := ds.GetAccountByID(created.AccountID)
	require.NoError(t, err)
	account.Balance = decimal.NewFromInt(1000)

	again, err := ds.GetAccountByID(created.AccountID)
	require.NoError(t, err)
	assert.True(t, again.Balance.IsZero())
}

func TestLease_UnknownAccount(t *testing.T) {
	ds := newTestDatasource()
	known := createTestAccount(t, ds, "owner_1")

	_, err := ds.Lease(known.AccountID, "acc_missing")
	assert.True(t, errors.Is(err, model.ErrAccountNotFound))

	// nothing was left locked
	lease, err := ds.Lease(known.AccountID)
	require.NoError(t, err)
	lease.Release()
}

func TestLease_Coverage(t *testing.T) {
	ds := newTestDatasource()
	a := createTestAccount(t, ds, "owner_1")
	b := createTestAccount(t, ds, "owner_1")

	lease, err := ds.Lease(a.AccountID)
	require.NoError(t, err)

	assert.True(t, lease.Covers(a.AccountID))
	assert.False(t, lease.Covers(b.AccountID))

	_, err = ds.ApplyDelta(lease, b.AccountID, decimal.NewFromInt(10))
	assert.True(t, errors.Is(err, model.ErrAccountNotLeased))
	assert.True(t, errors.Is(ds.DeactivateAccount(lease, b.AccountID), model.ErrAccountNotLeased))

	lease.Release()
	lease.Release()

	_, err = ds.ApplyDelta(lease, a.AccountID, decimal.NewFromInt(10))
	assert.True(t, errors.Is(err, model.ErrAccountNotLeased))

	_, err = ds.ApplyDelta(nil, a.AccountID, decimal.NewFromInt(10))
	assert.True(t, errors.Is(err, model.ErrAccountNotLeased))
}

func TestLease_DuplicateIDs(t *testing.T) {
	ds := newTestDatasource()
	a := createTestAccount(t, ds, "owner_1")

	lease, err := ds.Lease(a.AccountID, a.AccountID)
	require.NoError(t, err)
	assert.Len(t, lease.records, 1)
	lease.Release()
}

func TestApplyDelta(t *testing.T) {
	ds := newTestDatasource()
	a := createTestAccount(t, ds, "owner_1")
	fund(t, ds, a.AccountID, 50)

	lease, err := ds.Lease(a.AccountID)
	require.NoError(t, err)

	_, err = ds.ApplyDelta(lease, a.AccountID, decimal.NewFromInt(-60))
	assert.True(t, errors.Is(err, model.ErrInsufficientFunds))

	leased, err := lease.Account(a.AccountID)
	require.NoError(t, err)
	assert.True(t, leased.Balance.Equal(decimal.NewFromInt(50)))

	balance, err := ds.ApplyDelta(lease, a.AccountID, decimal.NewFromInt(-50))
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
	lease.Release()

	account, err := ds.GetAccountByID(a.AccountID)
	require.NoError(t, err)
	assert.True(t, account.Balance.IsZero())
}

func TestLease_OppositeOrderDoesNotDeadlock(t *testing.T) {
	ds := newTestDatasource()
	a := createTestAccount(t, ds, "owner_1")
	b := createTestAccount(t, ds, "owner_2")
	fund(t, ds, a.AccountID, 100)
	fund(t, ds, b.AccountID, 100)

	move := func(from, to string) {
		lease, err := ds.Lease(from, to)
		if !assert.NoError(t, err) {
			return
		}
		defer lease.Release()
		if _, err := ds.ApplyDelta(lease, from, decimal.NewFromInt(-1)); err != nil {
			return
		}
		_, err = ds.ApplyDelta(lease, to, decimal.NewFromInt(1))
		assert.NoError(t, err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			move(a.AccountID, b.AccountID)
		}()
		go func() {
			defer wg.Done()
			move(b.AccountID, a.AccountID)
		}()
	}
	wg.Wait()

	first, err := ds.GetAccountByID(a.AccountID)
	require.NoError(t, err)
	second, err := ds.GetAccountByID(b.AccountID)
	require.NoError(t, err)
	assert.True(t, first.Balance.Add(second.Balance).Equal(decimal.NewFromInt(200)))
	assert.False(t, first.Balance.IsNegative())
	assert.False(t, second.Balance.IsNegative())
}
