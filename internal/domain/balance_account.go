package domain

import (
	"math"
	"time"
)

// BalanceAccount holds one advertiser's spendable balance in the smallest
// currency unit. It is owned by the advertiser service.
type BalanceAccount struct {
	AdvertiserID string
	Balance      int64
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ApplyCharge returns the balance after adding amount.
func (a *BalanceAccount) ApplyCharge(amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if a.Balance > math.MaxInt64-amount {
		return 0, ErrBalanceOverflow
	}
	return a.Balance + amount, nil
}

// ApplyDeduct returns the balance after removing amount. It never goes below zero.
func (a *BalanceAccount) ApplyDeduct(amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if a.Balance < amount {
		return 0, ErrInsufficientBalance
	}
	return a.Balance - amount, nil
}

// Apply computes the balance after a mutation of the given kind.
func (a *BalanceAccount) Apply(kind TransactionKind, amount int64) (int64, error) {
	switch kind {
	case TransactionKindCharge:
		return a.ApplyCharge(amount)
	case TransactionKindDeduct:
		return a.ApplyDeduct(amount)
	default:
		return 0, ErrInvalidKind
	}
}

// BalanceMutation is an entry in an account's dedupe set: proof that the
// request carrying IdempotencyKey has been applied exactly once.
type BalanceMutation struct {
	AdvertiserID   string
	IdempotencyKey string
	Kind           TransactionKind
	Amount         int64
	BalanceAfter   int64
	AppliedAt      time.Time
}

// MutationOutcome is the first-class result of a balance mutation request.
type MutationOutcome string

const (
	MutationApplied        MutationOutcome = "applied"
	MutationAlreadyApplied MutationOutcome = "already_applied"
	MutationRejected       MutationOutcome = "rejected"
	MutationNotFound       MutationOutcome = "not_found"
)

// MutationRequest asks the balance owner to charge or deduct an account.
type MutationRequest struct {
	AdvertiserID   string
	IdempotencyKey string
	Kind           TransactionKind
	Amount         int64
}

// MutationResult is the answer of the balance owner. Reason is set only
// when Outcome is MutationRejected.
type MutationResult struct {
	Outcome MutationOutcome
	Reason  error
	Balance int64
}

// Succeeded reports whether the mutation is known to be applied.
func (r *MutationResult) Succeeded() bool {
	return r.Outcome == MutationApplied || r.Outcome == MutationAlreadyApplied
}
