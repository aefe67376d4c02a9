package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minibank/minibank-backend/internal/domain"
	"github.com/minibank/minibank-backend/internal/logging"
	"github.com/minibank/minibank-backend/internal/repository"
)

var holderNamePattern = regexp.MustCompile(`^[A-Za-z ]+$`)

type accountRepo interface {
	FindByAccountNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	GetForUpdate(ctx context.Context, tx *sql.Tx, accountNumber string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal, updatedAt time.Time) error
	UpdateStatus(ctx context.Context, tx *sql.Tx, id uuid.UUID, status domain.AccountStatus, updatedAt time.Time) error
}

// AccountService owns every balance and status mutation. All state changes go
// through a row-locked transaction on the single account row; nothing here
// spans more than one account.
type AccountService struct {
	accounts   accountRepo
	db         *sql.DB
	maxRetries int
}

func NewAccountService(accounts accountRepo, db *sql.DB, maxRetries int) *AccountService {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &AccountService{accounts: accounts, db: db, maxRetries: maxRetries}
}

func (s *AccountService) GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	account, err := s.accounts.FindByAccountNumber(ctx, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("GetByAccountNumber: %w", err)
	}
	return account, nil
}

func (s *AccountService) Create(ctx context.Context, holderName string) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	holderName = strings.TrimSpace(holderName)
	if holderName == "" || !holderNamePattern.MatchString(holderName) {
		return nil, fmt.Errorf("Create: %w", domain.ErrInvalidHolderName)
	}

	// The generated number is initials plus a random numeral, so collisions
	// are possible; the unique index on account_number catches them and we
	// regenerate.
	var lastErr error
	for range s.maxRetries {
		number, err := generateAccountNumber(holderName)
		if err != nil {
			return nil, fmt.Errorf("Create: %w", err)
		}

		now := time.Now().UTC()
		account := &domain.Account{
			ID:            uuid.New(),
			AccountNumber: number,
			HolderName:    holderName,
			Balance:       decimal.Zero,
			Status:        domain.AccountStatusActive,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		if err := s.accounts.Create(ctx, account); err != nil {
			if repository.IsUniqueViolation(err) {
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("Create: %w", err)
		}

		log.Info("account created",
			"account_number", account.AccountNumber,
			"holder_name", account.HolderName,
		)
		return account, nil
	}

	return nil, fmt.Errorf("Create: account number collisions exhausted %d attempts: %w", s.maxRetries, lastErr)
}

func (s *AccountService) UpdateBalance(ctx context.Context, accountNumber string, amount decimal.Decimal, updateType domain.UpdateType) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	if !amount.IsPositive() {
		return nil, fmt.Errorf("UpdateBalance: %w", domain.ErrInvalidAmount)
	}
	if !updateType.IsValid() {
		return nil, fmt.Errorf("UpdateBalance: %q: %w", updateType, domain.ErrInvalidUpdateType)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("UpdateBalance: begin tx: %w", err)
	}
	defer tx.Rollback()

	account, err := s.accounts.GetForUpdate(ctx, tx, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("UpdateBalance: %w", err)
	}

	if account.Status != domain.AccountStatusActive {
		return nil, fmt.Errorf("UpdateBalance: account %s: %w", accountNumber, domain.ErrInactiveAccount)
	}

	var newBalance decimal.Decimal
	switch updateType {
	case domain.UpdateTypeDeposit:
		newBalance = account.Balance.Add(amount)
	case domain.UpdateTypeWithdraw:
		if account.Balance.LessThan(amount) {
			return nil, fmt.Errorf("UpdateBalance: account %s: %w", accountNumber, domain.ErrInsufficientBalance)
		}
		newBalance = account.Balance.Sub(amount)
	}

	now := time.Now().UTC()
	if err := s.accounts.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
		return nil, fmt.Errorf("UpdateBalance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("UpdateBalance: commit: %w", err)
	}

	log.Info("balance updated",
		"account_number", accountNumber,
		"update_type", updateType,
		"amount", amount,
		"balance", newBalance,
	)

	account.Balance = newBalance
	account.UpdatedAt = now
	return account, nil
}

func (s *AccountService) UpdateStatus(ctx context.Context, accountNumber string, newStatus domain.AccountStatus) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	if !newStatus.IsValid() {
		return nil, fmt.Errorf("UpdateStatus: %q: %w", newStatus, domain.ErrInvalidStatus)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("UpdateStatus: begin tx: %w", err)
	}
	defer tx.Rollback()

	account, err := s.accounts.GetForUpdate(ctx, tx, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("UpdateStatus: %w", err)
	}

	if account.Status == newStatus {
		return nil, fmt.Errorf("UpdateStatus: account %s is already %s: %w", accountNumber, newStatus, domain.ErrSameAccountStatus)
	}

	now := time.Now().UTC()
	if err := s.accounts.UpdateStatus(ctx, tx, account.ID, newStatus, now); err != nil {
		return nil, fmt.Errorf("UpdateStatus: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("UpdateStatus: commit: %w", err)
	}

	log.Info("account status updated",
		"account_number", accountNumber,
		"old_status", account.Status,
		"new_status", newStatus,
	)

	account.Status = newStatus
	account.UpdatedAt = now
	return account, nil
}

// generateAccountNumber derives three uppercase initials from the holder name
// (right-padded with X when the name has fewer than three letters) and appends
// a random numeral below 10000, with no fixed width.
func generateAccountNumber(holderName string) (string, error) {
	var letters []byte
	for i := 0; i < len(holderName); i++ {
		c := holderName[i]
		switch {
		case c >= 'A' && c <= 'Z':
			letters = append(letters, c)
		case c >= 'a' && c <= 'z':
			letters = append(letters, c-'a'+'A')
		}
	}

	initials := letters
	if len(initials) >= 3 {
		initials = initials[:3]
	} else {
		for len(initials) < 3 {
			initials = append(initials, 'X')
		}
	}

	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("generateAccountNumber: %w", err)
	}
	return string(initials) + strconv.FormatInt(n.Int64(), 10), nil
}
