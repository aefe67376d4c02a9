package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/minibank/minibank-backend/internal/domain"
	"github.com/minibank/minibank-backend/internal/logging"
)

var holderNamePattern = regexp.MustCompile(`^[A-Za-z ]+$`)

type accountService interface {
	GetByAccountNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	Create(ctx context.Context, holderName string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, accountNumber string, amount decimal.Decimal, updateType domain.UpdateType) (*domain.Account, error)
	UpdateStatus(ctx context.Context, accountNumber string, newStatus domain.AccountStatus) (*domain.Account, error)
}

type AccountHandler struct {
	accounts accountService
}

func NewAccountHandler(accounts accountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type createAccountRequest struct {
	HolderName string `json:"holderName"`
}

func (r createAccountRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.HolderName) == "" {
		errs = append(errs, FieldError{Field: "holderName", Message: "required"})
	} else if !holderNamePattern.MatchString(r.HolderName) {
		errs = append(errs, FieldError{Field: "holderName", Message: "must contain only alphabets and spaces"})
	}
	return errs
}

type balanceUpdateRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	UpdateType string          `json:"updateType"`
}

func (r balanceUpdateRequest) Validate() []FieldError {
	var errs []FieldError
	if !r.Amount.IsPositive() {
		errs = append(errs, FieldError{Field: "amount", Message: "must be a positive non-zero value"})
	}
	if r.UpdateType == "" {
		errs = append(errs, FieldError{Field: "updateType", Message: "required"})
	} else if !domain.UpdateType(r.UpdateType).IsValid() {
		errs = append(errs, FieldError{Field: "updateType", Message: "must be deposit or withdraw"})
	}
	return errs
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func (r statusUpdateRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Status == "" {
		errs = append(errs, FieldError{Field: "status", Message: "required"})
	} else if !domain.AccountStatus(r.Status).IsValid() {
		errs = append(errs, FieldError{Field: "status", Message: "must be active or inactive"})
	}
	return errs
}

type accountDTO struct {
	ID            string          `json:"id"`
	AccountNumber string          `json:"accountNumber"`
	HolderName    string          `json:"holderName"`
	Balance       decimal.Decimal `json:"balance"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		ID:            a.ID.String(),
		AccountNumber: a.AccountNumber,
		HolderName:    a.HolderName,
		Balance:       a.Balance,
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	account, err := h.accounts.Create(r.Context(), req.HolderName)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toAccountDTO(account))
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.GetByAccountNumber(r.Context(), r.PathValue("accountNumber"))
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

func (h *AccountHandler) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	var req balanceUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	account, err := h.accounts.UpdateBalance(r.Context(), r.PathValue("accountNumber"), req.Amount, domain.UpdateType(req.UpdateType))
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to update balance", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

func (h *AccountHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	account, err := h.accounts.UpdateStatus(r.Context(), r.PathValue("accountNumber"), domain.AccountStatus(req.Status))
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to update status", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}
