package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minibank/minibank-backend/internal/domain"
)

const accountColumns = `id, account_number, holder_name, balance, status, created_at, updated_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) FindByAccountNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_number = $1`, accountNumber,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("FindByAccountNumber: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("FindByAccountNumber: %w: %w", domain.ErrStorageFailure, err)
	}
	return a, nil
}

func (r *AccountRepository) FindAll(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("FindAll: %w: %w", domain.ErrStorageFailure, err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("FindAll: scan: %w: %w", domain.ErrStorageFailure, err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("FindAll: rows: %w: %w", domain.ErrStorageFailure, err)
	}
	return accounts, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, account_number, holder_name, balance, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		account.ID, account.AccountNumber, account.HolderName,
		account.Balance, account.Status, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("Create: %w", err)
		}
		return fmt.Errorf("Create: %w: %w", domain.ErrStorageFailure, err)
	}
	return nil
}

func (r *AccountRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteByID: %w: %w", domain.ErrStorageFailure, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteByID: rows affected: %w: %w", domain.ErrStorageFailure, err)
	}
	if rows == 0 {
		return fmt.Errorf("DeleteByID: %w", domain.ErrAccountNotFound)
	}
	return nil
}

// GetForUpdate loads an account inside tx with a row lock, so a balance or
// status mutation is atomic per account.
func (r *AccountRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, accountNumber string) (*domain.Account, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_number = $1 FOR UPDATE`, accountNumber,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w: %w", domain.ErrStorageFailure, err)
	}
	return a, nil
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal, updatedAt time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = $1, updated_at = $2 WHERE id = $3`,
		newBalance, updatedAt, id,
	)
	if err != nil {
		return fmt.Errorf("UpdateBalance: %w: %w", domain.ErrStorageFailure, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateBalance: rows affected: %w: %w", domain.ErrStorageFailure, err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateBalance: %w", domain.ErrAccountNotFound)
	}
	return nil
}

func (r *AccountRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id uuid.UUID, status domain.AccountStatus, updatedAt time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET status = $1, updated_at = $2 WHERE id = $3`,
		status, updatedAt, id,
	)
	if err != nil {
		return fmt.Errorf("UpdateStatus: %w: %w", domain.ErrStorageFailure, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateStatus: rows affected: %w: %w", domain.ErrStorageFailure, err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateStatus: %w", domain.ErrAccountNotFound)
	}
	return nil
}

func scanAccount(s scanner) (*domain.Account, error) {
	var a domain.Account
	err := s.Scan(
		&a.ID, &a.AccountNumber, &a.HolderName,
		&a.Balance, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
