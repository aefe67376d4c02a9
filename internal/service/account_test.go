package service

import (
	"context"
	"regexp"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/minibank/minibank-backend/internal/domain"
)

var accountNumberFormat = regexp.MustCompile(`^[A-Z]{3}\d+$`)

func TestGenerateAccountNumber(t *testing.T) {
	tests := []struct {
		name       string
		holderName string
		wantPrefix string
	}{
		{name: "three-letter initials from full name", holderName: "John Doe", wantPrefix: "JOH"},
		{name: "short name right-padded with X", holderName: "Al", wantPrefix: "ALX"},
		{name: "single letter padded twice", holderName: "J", wantPrefix: "JXX"},
		{name: "lowercase is uppercased", holderName: "jane roe", wantPrefix: "JAN"},
		{name: "spaces are stripped before taking initials", holderName: "A B C D", wantPrefix: "ABC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			number, err := generateAccountNumber(tt.holderName)
			require.NoError(t, err)
			require.Regexp(t, accountNumberFormat, number)
			require.Equal(t, tt.wantPrefix, number[:3])

			numeral, err := strconv.Atoi(number[3:])
			require.NoError(t, err)
			require.GreaterOrEqual(t, numeral, 0)
			require.Less(t, numeral, 10000)
		})
	}
}

func TestCreateRejectsInvalidHolderName(t *testing.T) {
	svc := NewAccountService(nil, nil, 5)

	tests := []struct {
		name       string
		holderName string
	}{
		{name: "blank", holderName: "   "},
		{name: "empty", holderName: ""},
		{name: "digits", holderName: "John2 Doe"},
		{name: "punctuation", holderName: "John-Doe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.holderName)
			require.ErrorIs(t, err, domain.ErrInvalidHolderName)
		})
	}
}

func TestUpdateBalanceRejectsInvalidInput(t *testing.T) {
	svc := NewAccountService(nil, nil, 5)
	ctx := context.Background()

	_, err := svc.UpdateBalance(ctx, "JOH1234", decimal.Zero, domain.UpdateTypeDeposit)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.UpdateBalance(ctx, "JOH1234", decimal.NewFromInt(-50), domain.UpdateTypeWithdraw)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.UpdateBalance(ctx, "JOH1234", decimal.NewFromInt(50), domain.UpdateType("refund"))
	require.ErrorIs(t, err, domain.ErrInvalidUpdateType)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := NewAccountService(nil, nil, 5)

	_, err := svc.UpdateStatus(context.Background(), "JOH1234", domain.AccountStatus("suspended"))
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
}
