package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "deposit"
	TransactionTypeWithdraw TransactionType = "withdraw"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Transaction is an immutable, append-only record of a completed money
// movement. AccountNumber is set for deposits and withdrawals; SourceAccount
// and DestinationAccount are set for transfers.
type Transaction struct {
	ID                 uuid.UUID
	TransactionID      string
	Type               TransactionType
	AccountNumber      *string
	SourceAccount      *string
	DestinationAccount *string
	Amount             decimal.Decimal
	Timestamp          time.Time
}
