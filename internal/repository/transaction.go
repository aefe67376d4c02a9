package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minibank/minibank-backend/internal/domain"
)

const transactionColumns = `id, transaction_id, type, account_number, source_account,
	destination_account, amount, timestamp`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (
			id, transaction_id, type, account_number, source_account,
			destination_account, amount, timestamp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		txn.ID, txn.TransactionID, txn.Type, txn.AccountNumber,
		txn.SourceAccount, txn.DestinationAccount, txn.Amount, txn.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("Create: %w: %w", domain.ErrStorageFailure, err)
	}
	return nil
}

// FindByParticipant returns every transaction where the account is the
// subject, source, or destination, most recent first.
func (r *TransactionRepository) FindByParticipant(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE account_number = $1 OR source_account = $1 OR destination_account = $1
		ORDER BY timestamp DESC`,
		accountNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("FindByParticipant: %w: %w", domain.ErrStorageFailure, err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("FindByParticipant: scan: %w: %w", domain.ErrStorageFailure, err)
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("FindByParticipant: rows: %w: %w", domain.ErrStorageFailure, err)
	}
	return txns, nil
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var t domain.Transaction
	err := s.Scan(
		&t.ID, &t.TransactionID, &t.Type, &t.AccountNumber,
		&t.SourceAccount, &t.DestinationAccount, &t.Amount, &t.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
