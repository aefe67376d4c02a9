package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrAccountNotFound     = &AppError{http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found"}
	ErrInactiveAccount     = &AppError{http.StatusLocked, "INACTIVE_ACCOUNT", "Account is inactive"}
	ErrInsufficientBalance = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE", "Insufficient balance"}
	ErrSameAccountStatus   = &AppError{http.StatusUnprocessableEntity, "SAME_ACCOUNT_STATUS", "Account already has the requested status"}
	ErrNoTransactionFound  = &AppError{http.StatusNotFound, "NO_TRANSACTION_FOUND", "No transactions found"}
	ErrSelfTransfer        = &AppError{http.StatusBadRequest, "SELF_TRANSFER_NOT_ALLOWED", "Source and destination accounts must differ"}
	ErrInvalidAmount       = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be greater than zero"}
	ErrInvalidHolderName   = &AppError{http.StatusBadRequest, "INVALID_HOLDER_NAME", "Holder name must contain only alphabets and spaces"}
	ErrInvalidStatus       = &AppError{http.StatusBadRequest, "INVALID_STATUS", "Invalid account status"}
	ErrInvalidUpdateType   = &AppError{http.StatusBadRequest, "INVALID_UPDATE_TYPE", "Invalid balance update type"}
	ErrNotifierUnavailable = &AppError{http.StatusServiceUnavailable, "NOTIFICATION_UNAVAILABLE", "Notification service unavailable"}
	ErrStorageFailure      = &AppError{http.StatusInternalServerError, "STORAGE_FAILURE", "Storage failure"}
)
