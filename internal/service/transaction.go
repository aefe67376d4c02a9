package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minibank/minibank-backend/internal/domain"
	"github.com/minibank/minibank-backend/internal/logging"
)

type accountCore interface {
	GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, accountNumber string, amount decimal.Decimal, updateType domain.UpdateType) (*domain.Account, error)
}

type transactionRepo interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	FindByParticipant(ctx context.Context, accountNumber string) ([]domain.Transaction, error)
}

type notifier interface {
	Notify(ctx context.Context, message string) error
}

// TransactionService orchestrates deposits, withdrawals, and transfers. The
// ordering is fixed: mutate the balance first, then record the transaction,
// then notify. Notification is advisory; its failure never reaches the caller
// of a completed money movement.
type TransactionService struct {
	accounts accountCore
	txns     transactionRepo
	notifier notifier
}

func NewTransactionService(accounts accountCore, txns transactionRepo, notifier notifier) *TransactionService {
	return &TransactionService{accounts: accounts, txns: txns, notifier: notifier}
}

func (s *TransactionService) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (*domain.Transaction, error) {
	account, err := s.accounts.UpdateBalance(ctx, accountNumber, amount, domain.UpdateTypeDeposit)
	if err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}

	txn, err := s.record(ctx, &domain.Transaction{
		Type:          domain.TransactionTypeDeposit,
		AccountNumber: &account.AccountNumber,
		Amount:        amount,
	})
	if err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}

	s.notify(ctx, fmt.Sprintf("Deposit of %s completed for account %s. Transaction ID: %s",
		amount, accountNumber, txn.TransactionID))

	return txn, nil
}

func (s *TransactionService) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) (*domain.Transaction, error) {
	account, err := s.accounts.UpdateBalance(ctx, accountNumber, amount, domain.UpdateTypeWithdraw)
	if err != nil {
		return nil, fmt.Errorf("Withdraw: %w", err)
	}

	txn, err := s.record(ctx, &domain.Transaction{
		Type:          domain.TransactionTypeWithdraw,
		AccountNumber: &account.AccountNumber,
		Amount:        amount,
	})
	if err != nil {
		return nil, fmt.Errorf("Withdraw: %w", err)
	}

	s.notify(ctx, fmt.Sprintf("Withdrawal of %s completed for account %s. Transaction ID: %s",
		amount, accountNumber, txn.TransactionID))

	return txn, nil
}

// Transfer debits the source and credits the destination as two independent
// single-account mutations. There is no transaction spanning both legs: a
// credit failure after a successful debit leaves the system partially applied
// and is logged as such. No compensating debit reversal is attempted.
func (s *TransactionService) Transfer(ctx context.Context, amount decimal.Decimal, sourceAccount, destinationAccount string) (*domain.Transaction, error) {
	log := logging.FromContext(ctx)

	if sourceAccount == destinationAccount {
		return nil, fmt.Errorf("Transfer: source and destination are the same account: %w", domain.ErrInvalidRequest)
	}

	source, destination, err := s.resolveTransferAccounts(ctx, sourceAccount, destinationAccount)
	if err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	if _, err := s.accounts.UpdateBalance(ctx, source.AccountNumber, amount, domain.UpdateTypeWithdraw); err != nil {
		return nil, fmt.Errorf("Transfer: debit: %w", err)
	}

	if _, err := s.accounts.UpdateBalance(ctx, destination.AccountNumber, amount, domain.UpdateTypeDeposit); err != nil {
		log.Error("transfer partially applied: debit succeeded but credit failed",
			"source_account", sourceAccount,
			"destination_account", destinationAccount,
			"amount", amount,
			"error", err,
		)
		return nil, fmt.Errorf("Transfer: credit: %w", err)
	}

	txn, err := s.record(ctx, &domain.Transaction{
		Type:               domain.TransactionTypeTransfer,
		SourceAccount:      &source.AccountNumber,
		DestinationAccount: &destination.AccountNumber,
		Amount:             amount,
	})
	if err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	s.notify(ctx, fmt.Sprintf("Transfer of %s from account %s to account %s completed. Transaction ID: %s",
		amount, sourceAccount, destinationAccount, txn.TransactionID))

	return txn, nil
}

// GetHistory returns every transaction the account participated in, most
// recent first. A known account with no history yields an empty slice; an
// unknown account fails with ErrNoTransactionFound.
func (s *TransactionService) GetHistory(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	if _, err := s.accounts.GetByAccountNumber(ctx, accountNumber); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, fmt.Errorf("GetHistory: account %s is unknown: %w", accountNumber, domain.ErrNoTransactionFound)
		}
		return nil, fmt.Errorf("GetHistory: %w", err)
	}

	txns, err := s.txns.FindByParticipant(ctx, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("GetHistory: %w", err)
	}
	return txns, nil
}

func (s *TransactionService) resolveTransferAccounts(ctx context.Context, sourceNumber, destinationNumber string) (*domain.Account, *domain.Account, error) {
	source, err := s.accounts.GetByAccountNumber(ctx, sourceNumber)
	if err != nil {
		return nil, nil, fmt.Errorf("resolveTransferAccounts: source: %w", err)
	}
	destination, err := s.accounts.GetByAccountNumber(ctx, destinationNumber)
	if err != nil {
		return nil, nil, fmt.Errorf("resolveTransferAccounts: destination: %w", err)
	}
	return source, destination, nil
}

func (s *TransactionService) record(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	transactionID, err := generateTransactionID(time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}

	txn.ID = uuid.New()
	txn.TransactionID = transactionID
	txn.Timestamp = time.Now().UTC()

	if err := s.txns.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	return txn, nil
}

// notify is fire-and-log. The gateway already typed the failure; a completed
// mutation is never unwound because of it.
func (s *TransactionService) notify(ctx context.Context, message string) {
	if err := s.notifier.Notify(ctx, message); err != nil {
		logging.FromContext(ctx).Warn("best-effort notification failed", "error", err)
	}
}

// generateTransactionID builds TXN-<YYYYMMDD>-<NNN> with a zero-padded random
// numeral below 1000.
func generateTransactionID(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return "", fmt.Errorf("generateTransactionID: %w", err)
	}
	return fmt.Sprintf("TXN-%s-%03d", now.Format("20060102"), n.Int64()), nil
}
