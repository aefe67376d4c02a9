package domain

import "errors"

var (
	ErrAccountNotFound         = errors.New("account not found")
	ErrInactiveAccount         = errors.New("account is inactive")
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrSameAccountStatus       = errors.New("account already has the requested status")
	ErrNoTransactionFound      = errors.New("no transactions found")
	ErrInvalidRequest          = errors.New("invalid request")
	ErrInvalidAmount           = errors.New("amount must be greater than zero")
	ErrInvalidHolderName       = errors.New("holder name must contain only alphabets and spaces")
	ErrInvalidStatus           = errors.New("invalid account status")
	ErrInvalidUpdateType       = errors.New("invalid balance update type")
	ErrNotificationUnavailable = errors.New("notification service unavailable")
	ErrStorageFailure          = errors.New("storage failure")
)
