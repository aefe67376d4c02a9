package service

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minibank/minibank-backend/internal/domain"
	"github.com/minibank/minibank-backend/internal/repository"
	"github.com/minibank/minibank-backend/internal/testutil"
)

func setupCoreTest(t *testing.T) (*AccountService, *TransactionService, *sql.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)

	notifierSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(notifierSrv.Close)

	accountSvc := NewAccountService(repository.NewAccountRepository(db), db, 5)
	gateway := NewNotificationGateway(NewNotifierClient(notifierSrv.URL, 2*time.Second))
	txnSvc := NewTransactionService(accountSvc, repository.NewTransactionRepository(db), gateway)

	return accountSvc, txnSvc, db
}

func requireDecimalEqual(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(decimal.NewFromInt(want)), "want %d, got %s", want, got)
}

func TestBankingScenario(t *testing.T) {
	accountSvc, txnSvc, db := setupCoreTest(t)
	ctx := context.Background()

	john, err := accountSvc.Create(ctx, "John Doe")
	require.NoError(t, err)
	require.Equal(t, domain.AccountStatusActive, john.Status)
	requireDecimalEqual(t, 0, john.Balance)
	require.Equal(t, "JOH", john.AccountNumber[:3])

	// Deposit 1000.
	depositTxn, err := txnSvc.Deposit(ctx, john.AccountNumber, decimal.NewFromInt(1000))
	require.NoError(t, err)
	require.Equal(t, domain.TransactionTypeDeposit, depositTxn.Type)
	require.Regexp(t, `^TXN-\d{8}-\d{3}$`, depositTxn.TransactionID)
	requireDecimalEqual(t, 1000, testutil.GetBalance(t, db, john.AccountNumber))
	require.Equal(t, 1, testutil.CountTransactions(t, db, "deposit"))

	// Withdraw 1500 must fail and leave the balance untouched.
	_, err = txnSvc.Withdraw(ctx, john.AccountNumber, decimal.NewFromInt(1500))
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	requireDecimalEqual(t, 1000, testutil.GetBalance(t, db, john.AccountNumber))
	require.Equal(t, 0, testutil.CountTransactions(t, db, "withdraw"))

	// Transfer 500 to Jane Roe.
	jane, err := accountSvc.Create(ctx, "Jane Roe")
	require.NoError(t, err)

	transferTxn, err := txnSvc.Transfer(ctx, decimal.NewFromInt(500), john.AccountNumber, jane.AccountNumber)
	require.NoError(t, err)
	require.Equal(t, domain.TransactionTypeTransfer, transferTxn.Type)
	require.NotNil(t, transferTxn.SourceAccount)
	require.NotNil(t, transferTxn.DestinationAccount)
	assert.Equal(t, john.AccountNumber, *transferTxn.SourceAccount)
	assert.Equal(t, jane.AccountNumber, *transferTxn.DestinationAccount)

	requireDecimalEqual(t, 500, testutil.GetBalance(t, db, john.AccountNumber))
	requireDecimalEqual(t, 500, testutil.GetBalance(t, db, jane.AccountNumber))
	require.Equal(t, 1, testutil.CountTransactions(t, db, "transfer"))
}

func TestTransferToUnknownDestinationLeavesSourceUntouched(t *testing.T) {
	accountSvc, txnSvc, db := setupCoreTest(t)
	ctx := context.Background()

	source := testutil.SeedAccount(t, db, "SRC1001", "Source Holder", decimal.NewFromInt(300), domain.AccountStatusActive)

	_, err := txnSvc.Transfer(ctx, decimal.NewFromInt(100), source.AccountNumber, "NOP9999")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	requireDecimalEqual(t, 300, testutil.GetBalance(t, db, source.AccountNumber))
	require.Equal(t, 0, testutil.CountTransactions(t, db, "transfer"))

	_, err = accountSvc.GetByAccountNumber(ctx, "NOP9999")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestTransferFromInactiveSourceFails(t *testing.T) {
	_, txnSvc, db := setupCoreTest(t)
	ctx := context.Background()

	source := testutil.SeedAccount(t, db, "INA2001", "Inactive Holder", decimal.NewFromInt(300), domain.AccountStatusInactive)
	dest := testutil.SeedAccount(t, db, "ACT2002", "Active Holder", decimal.NewFromInt(0), domain.AccountStatusActive)

	_, err := txnSvc.Transfer(ctx, decimal.NewFromInt(100), source.AccountNumber, dest.AccountNumber)
	require.ErrorIs(t, err, domain.ErrInactiveAccount)

	requireDecimalEqual(t, 300, testutil.GetBalance(t, db, source.AccountNumber))
	requireDecimalEqual(t, 0, testutil.GetBalance(t, db, dest.AccountNumber))
	require.Equal(t, 0, testutil.CountTransactions(t, db, "transfer"))
}

func TestTransferPartiallyAppliedWhenCreditFails(t *testing.T) {
	_, txnSvc, db := setupCoreTest(t)
	ctx := context.Background()

	source := testutil.SeedAccount(t, db, "SRC3001", "Source Holder", decimal.NewFromInt(500), domain.AccountStatusActive)
	dest := testutil.SeedAccount(t, db, "DST3002", "Dest Holder", decimal.NewFromInt(0), domain.AccountStatusInactive)

	// Destination resolves but is inactive: the debit lands, the credit fails.
	// This is the documented consistency window, so the source has lost funds
	// and no record exists.
	_, err := txnSvc.Transfer(ctx, decimal.NewFromInt(200), source.AccountNumber, dest.AccountNumber)
	require.ErrorIs(t, err, domain.ErrInactiveAccount)

	requireDecimalEqual(t, 300, testutil.GetBalance(t, db, source.AccountNumber))
	requireDecimalEqual(t, 0, testutil.GetBalance(t, db, dest.AccountNumber))
	require.Equal(t, 0, testutil.CountTransactions(t, db, "transfer"))
}

func TestUpdateBalanceStatusCheckedBeforeSufficiency(t *testing.T) {
	accountSvc, _, db := setupCoreTest(t)
	ctx := context.Background()

	acct := testutil.SeedAccount(t, db, "INA4001", "Frozen Holder", decimal.NewFromInt(10), domain.AccountStatusInactive)

	// Withdrawal exceeds the balance AND the account is inactive; the status
	// check wins.
	_, err := accountSvc.UpdateBalance(ctx, acct.AccountNumber, decimal.NewFromInt(100), domain.UpdateTypeWithdraw)
	require.ErrorIs(t, err, domain.ErrInactiveAccount)
	require.NotErrorIs(t, err, domain.ErrInsufficientBalance)

	_, err = accountSvc.UpdateBalance(ctx, acct.AccountNumber, decimal.NewFromInt(100), domain.UpdateTypeDeposit)
	require.ErrorIs(t, err, domain.ErrInactiveAccount)
}

func TestUpdateBalanceExactWithdrawalAllowed(t *testing.T) {
	accountSvc, _, db := setupCoreTest(t)
	ctx := context.Background()

	acct := testutil.SeedAccount(t, db, "EXA5001", "Exact Holder", decimal.NewFromInt(250), domain.AccountStatusActive)

	updated, err := accountSvc.UpdateBalance(ctx, acct.AccountNumber, decimal.NewFromInt(250), domain.UpdateTypeWithdraw)
	require.NoError(t, err)
	requireDecimalEqual(t, 0, updated.Balance)

	_, err = accountSvc.UpdateBalance(ctx, acct.AccountNumber, decimal.NewFromInt(1), domain.UpdateTypeWithdraw)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestUpdateStatusTransitions(t *testing.T) {
	accountSvc, _, db := setupCoreTest(t)
	ctx := context.Background()

	acct := testutil.SeedAccount(t, db, "STA6001", "Status Holder", decimal.Zero, domain.AccountStatusActive)

	_, err := accountSvc.UpdateStatus(ctx, acct.AccountNumber, domain.AccountStatusActive)
	require.ErrorIs(t, err, domain.ErrSameAccountStatus)

	updated, err := accountSvc.UpdateStatus(ctx, acct.AccountNumber, domain.AccountStatusInactive)
	require.NoError(t, err)
	require.Equal(t, domain.AccountStatusInactive, updated.Status)

	_, err = accountSvc.UpdateStatus(ctx, acct.AccountNumber, domain.AccountStatusInactive)
	require.ErrorIs(t, err, domain.ErrSameAccountStatus)

	updated, err = accountSvc.UpdateStatus(ctx, acct.AccountNumber, domain.AccountStatusActive)
	require.NoError(t, err)
	require.Equal(t, domain.AccountStatusActive, updated.Status)
}

func TestGetHistory(t *testing.T) {
	_, txnSvc, db := setupCoreTest(t)
	ctx := context.Background()

	acct := testutil.SeedAccount(t, db, "HIS7001", "History Holder", decimal.NewFromInt(1000), domain.AccountStatusActive)
	other := testutil.SeedAccount(t, db, "HIS7002", "Other Holder", decimal.NewFromInt(1000), domain.AccountStatusActive)

	// Unknown account is an error, not an empty history.
	_, err := txnSvc.GetHistory(ctx, "NOP7999")
	require.ErrorIs(t, err, domain.ErrNoTransactionFound)

	// Known account with no activity yields an empty history.
	history, err := txnSvc.GetHistory(ctx, acct.AccountNumber)
	require.NoError(t, err)
	require.Empty(t, history)

	_, err = txnSvc.Deposit(ctx, acct.AccountNumber, decimal.NewFromInt(100))
	require.NoError(t, err)
	_, err = txnSvc.Withdraw(ctx, acct.AccountNumber, decimal.NewFromInt(50))
	require.NoError(t, err)
	_, err = txnSvc.Transfer(ctx, decimal.NewFromInt(25), other.AccountNumber, acct.AccountNumber)
	require.NoError(t, err)

	history, err = txnSvc.GetHistory(ctx, acct.AccountNumber)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i := 1; i < len(history); i++ {
		require.False(t, history[i-1].Timestamp.Before(history[i].Timestamp),
			"history must be ordered by timestamp descending")
	}

	// The transfer shows up for both participants.
	otherHistory, err := txnSvc.GetHistory(ctx, other.AccountNumber)
	require.NoError(t, err)
	require.Len(t, otherHistory, 1)
	require.Equal(t, domain.TransactionTypeTransfer, otherHistory[0].Type)
}

func TestBalanceOpsNotBlockedByNotifierOutage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	// Notifier that is already gone.
	deadSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadSrv.Close()

	accountSvc := NewAccountService(repository.NewAccountRepository(db), db, 5)
	gateway := NewNotificationGateway(NewNotifierClient(deadSrv.URL, time.Second))
	txnSvc := NewTransactionService(accountSvc, repository.NewTransactionRepository(db), gateway)

	acct := testutil.SeedAccount(t, db, "OUT8001", "Outage Holder", decimal.Zero, domain.AccountStatusActive)

	txn, err := txnSvc.Deposit(ctx, acct.AccountNumber, decimal.NewFromInt(75))
	require.NoError(t, err)
	require.NotNil(t, txn)
	requireDecimalEqual(t, 75, testutil.GetBalance(t, db, acct.AccountNumber))
	require.Equal(t, 1, testutil.CountTransactions(t, db, "deposit"))
}

func TestCreateGeneratesUniqueAccounts(t *testing.T) {
	accountSvc, _, _ := setupCoreTest(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for range 10 {
		acct, err := accountSvc.Create(ctx, "Repeat Holder")
		require.NoError(t, err)
		require.False(t, seen[acct.AccountNumber], "duplicate account number %s", acct.AccountNumber)
		seen[acct.AccountNumber] = true
	}
}
