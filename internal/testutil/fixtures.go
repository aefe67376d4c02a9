package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minibank/minibank-backend/internal/domain"
)

func SeedAccount(t *testing.T, db *sql.DB, accountNumber, holderName string, balance decimal.Decimal, status domain.AccountStatus) *domain.Account {
	t.Helper()

	now := time.Now().UTC()
	a := &domain.Account{
		ID:            uuid.New(),
		AccountNumber: accountNumber,
		HolderName:    holderName,
		Balance:       balance,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := db.Exec(
		`INSERT INTO accounts (id, account_number, holder_name, balance, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.AccountNumber, a.HolderName, a.Balance, a.Status, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed account %s: %v", accountNumber, err)
	}
	return a
}

func GetBalance(t *testing.T, db *sql.DB, accountNumber string) decimal.Decimal {
	t.Helper()

	var balance decimal.Decimal
	err := db.QueryRow(`SELECT balance FROM accounts WHERE account_number = $1`, accountNumber).Scan(&balance)
	if err != nil {
		t.Fatalf("get balance for %s: %v", accountNumber, err)
	}
	return balance
}

func CountTransactions(t *testing.T, db *sql.DB, transactionType string) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE type = $1`, transactionType).Scan(&count)
	if err != nil {
		t.Fatalf("count %s transactions: %v", transactionType, err)
	}
	return count
}
