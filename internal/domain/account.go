package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
)

func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountStatusActive, AccountStatusInactive:
		return true
	}
	return false
}

type UpdateType string

const (
	UpdateTypeDeposit  UpdateType = "deposit"
	UpdateTypeWithdraw UpdateType = "withdraw"
)

func (u UpdateType) IsValid() bool {
	switch u {
	case UpdateTypeDeposit, UpdateTypeWithdraw:
		return true
	}
	return false
}

// Account is the single owner of a customer balance. AccountNumber is the
// human-facing identifier; ID is storage identity only.
type Account struct {
	ID            uuid.UUID
	AccountNumber string
	HolderName    string
	Balance       decimal.Decimal
	Status        AccountStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
