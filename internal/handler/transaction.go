package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/minibank/minibank-backend/internal/domain"
	"github.com/minibank/minibank-backend/internal/logging"
)

// Transaction endpoints only accept well-formed account numbers: three
// uppercase letters followed by a numeral below 10000, which is not
// zero-padded when generated.
var accountNumberPattern = regexp.MustCompile(`^[A-Z]{3}\d{1,4}$`)

type transactionService interface {
	Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (*domain.Transaction, error)
	Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) (*domain.Transaction, error)
	Transfer(ctx context.Context, amount decimal.Decimal, sourceAccount, destinationAccount string) (*domain.Transaction, error)
	GetHistory(ctx context.Context, accountNumber string) ([]domain.Transaction, error)
}

type TransactionHandler struct {
	txns transactionService
}

func NewTransactionHandler(txns transactionService) *TransactionHandler {
	return &TransactionHandler{txns: txns}
}

type transactionRequest struct {
	AccountNumber string          `json:"accountNumber"`
	Amount        decimal.Decimal `json:"amount"`
}

func (r transactionRequest) Validate() []FieldError {
	var errs []FieldError
	errs = validateAccountNumber(errs, "accountNumber", r.AccountNumber)
	if !r.Amount.IsPositive() {
		errs = append(errs, FieldError{Field: "amount", Message: "must be a positive non-zero value"})
	}
	return errs
}

type transferRequest struct {
	Amount             decimal.Decimal `json:"amount"`
	SourceAccount      string          `json:"sourceAccount"`
	DestinationAccount string          `json:"destinationAccount"`
}

func (r transferRequest) Validate() []FieldError {
	var errs []FieldError
	if !r.Amount.IsPositive() {
		errs = append(errs, FieldError{Field: "amount", Message: "must be a positive non-zero value"})
	}
	errs = validateAccountNumber(errs, "sourceAccount", r.SourceAccount)
	errs = validateAccountNumber(errs, "destinationAccount", r.DestinationAccount)
	return errs
}

func validateAccountNumber(errs []FieldError, field, value string) []FieldError {
	if value == "" {
		return append(errs, FieldError{Field: field, Message: "required"})
	}
	if !accountNumberPattern.MatchString(value) {
		return append(errs, FieldError{Field: field, Message: "must be three uppercase alphabets followed by digits"})
	}
	return errs
}

type transactionDTO struct {
	TransactionID      string          `json:"transactionId"`
	Type               string          `json:"type"`
	AccountNumber      *string         `json:"accountNumber,omitempty"`
	SourceAccount      *string         `json:"sourceAccount,omitempty"`
	DestinationAccount *string         `json:"destinationAccount,omitempty"`
	Amount             decimal.Decimal `json:"amount"`
	Timestamp          time.Time       `json:"timestamp"`
}

func toTransactionDTO(t *domain.Transaction) transactionDTO {
	return transactionDTO{
		TransactionID:      t.TransactionID,
		Type:               string(t.Type),
		AccountNumber:      t.AccountNumber,
		SourceAccount:      t.SourceAccount,
		DestinationAccount: t.DestinationAccount,
		Amount:             t.Amount,
		Timestamp:          t.Timestamp,
	}
}

func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.applyBalanceOp(w, r, h.txns.Deposit)
}

func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.applyBalanceOp(w, r, h.txns.Withdraw)
}

func (h *TransactionHandler) applyBalanceOp(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, accountNumber string, amount decimal.Decimal) (*domain.Transaction, error),
) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	txn, err := op(r.Context(), req.AccountNumber, req.Amount)
	if err != nil {
		logging.FromContext(r.Context()).Error("transaction failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toTransactionDTO(txn))
}

func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	txn, err := h.txns.Transfer(r.Context(), req.Amount, req.SourceAccount, req.DestinationAccount)
	if err != nil {
		logging.FromContext(r.Context()).Error("transfer failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toTransactionDTO(txn))
}

func (h *TransactionHandler) History(w http.ResponseWriter, r *http.Request) {
	txns, err := h.txns.GetHistory(r.Context(), r.PathValue("accountNumber"))
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]transactionDTO, len(txns))
	for i := range txns {
		dtos[i] = toTransactionDTO(&txns[i])
	}

	RespondSuccess(w, http.StatusOK, dtos)
}
