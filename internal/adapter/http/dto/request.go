package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/adbilling/internal/domain"
	"github.com/iho/adbilling/internal/usecase"
)

// BillRequest is the billing trigger for one advertiser-day.
type BillRequest struct {
	DailyMetricsID string          `json:"daily_metrics_id"`
	AdvertiserID   string          `json:"advertiser_id"`
	Amount         decimal.Decimal `json:"amount"`
	Kind           string          `json:"kind"`
}

// ToUseCaseInput converts to use case input.
func (r *BillRequest) ToUseCaseInput() (usecase.BillInput, error) {
	amount, err := MinorUnits(r.Amount)
	if err != nil {
		return usecase.BillInput{}, err
	}

	kind := domain.TransactionKind(r.Kind)
	if r.Kind == "" {
		kind = domain.TransactionKindDeduct
	}

	return usecase.BillInput{
		DailyMetricsID: r.DailyMetricsID,
		AdvertiserID:   r.AdvertiserID,
		Amount:         amount,
		Kind:           kind,
	}, nil
}

// MutationRequest asks the advertiser side to charge or deduct an account.
type MutationRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	IdempotencyKey string          `json:"idempotency_key"`
}

// ToDomain converts to a domain mutation request for the given account and kind.
func (r *MutationRequest) ToDomain(advertiserID string, kind domain.TransactionKind) (domain.MutationRequest, error) {
	amount, err := MinorUnits(r.Amount)
	if err != nil {
		return domain.MutationRequest{}, err
	}

	return domain.MutationRequest{
		AdvertiserID:   advertiserID,
		IdempotencyKey: r.IdempotencyKey,
		Kind:           kind,
		Amount:         amount,
	}, nil
}

// OpenAccountRequest opens a balance account.
type OpenAccountRequest struct {
	AdvertiserID   string          `json:"advertiser_id"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// InitialMinorUnits returns the opening balance in minor units.
func (r *OpenAccountRequest) InitialMinorUnits() (int64, error) {
	if r.InitialBalance.IsZero() {
		return 0, nil
	}
	if r.InitialBalance.IsNegative() {
		return 0, domain.ErrInvalidAmount
	}
	return MinorUnits(r.InitialBalance)
}

// MinorUnits converts a wire amount to int64 minor units. Fractions are
// refused because amounts are already expressed in the smallest currency unit.
func MinorUnits(d decimal.Decimal) (int64, error) {
	if !d.IsInteger() {
		return 0, fmt.Errorf("%w: %s is not a whole number of minor units", domain.ErrInvalidAmount, d.String())
	}
	n := d.BigInt()
	if !n.IsInt64() {
		return 0, fmt.Errorf("%w: %s", domain.ErrAmountTooLarge, d.String())
	}
	return n.Int64(), nil
}
