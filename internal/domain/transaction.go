package domain

import "time"

// TransactionState is the lifecycle state of a billing transaction.
type TransactionState string

const (
	TransactionStatePending     TransactionState = "PENDING"
	TransactionStateSettled     TransactionState = "SETTLED"
	TransactionStateFailed      TransactionState = "FAILED"
	TransactionStateReconciling TransactionState = "RECONCILING"
)

// TransactionKind selects the balance mutation a transaction performs.
type TransactionKind string

const (
	TransactionKindCharge TransactionKind = "CHARGE"
	TransactionKindDeduct TransactionKind = "DEDUCT"
)

// Valid reports whether k is a known kind.
func (k TransactionKind) Valid() bool {
	return k == TransactionKindCharge || k == TransactionKindDeduct
}

// legalTransitions lists, for each state, the states it may move to.
var legalTransitions = map[TransactionState][]TransactionState{
	TransactionStatePending:     {TransactionStateSettled, TransactionStateFailed, TransactionStateReconciling},
	TransactionStateReconciling: {TransactionStateSettled, TransactionStateFailed},
}

// CanTransition reports whether from -> to is a legal state change.
func CanTransition(from, to TransactionState) bool {
	for _, s := range legalTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// SourceStates returns every state from which to is reachable in one step.
func SourceStates(to TransactionState) []TransactionState {
	var sources []TransactionState
	for from, targets := range legalTransitions {
		for _, s := range targets {
			if s == to {
				sources = append(sources, from)
			}
		}
	}
	return sources
}

// Transaction is the billing-side record of one attempt to move funds
// against an advertiser's balance account.
type Transaction struct {
	ID             string
	DailyMetricsID string
	AdvertiserID   string
	Amount         int64
	Kind           TransactionKind
	State          TransactionState
	FailureReason  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	SettledAt      *time.Time
}

// IsLive reports whether the transaction still holds its billing period.
func (t *Transaction) IsLive() bool {
	return t.State != TransactionStateFailed
}

// IsTerminal reports whether no further transition is possible.
func (t *Transaction) IsTerminal() bool {
	return t.State == TransactionStateSettled || t.State == TransactionStateFailed
}

// Transition moves the transaction to next, stamping timestamps.
func (t *Transaction) Transition(next TransactionState, reason string, now time.Time) error {
	if !CanTransition(t.State, next) {
		return ErrInvalidTransactionState
	}

	t.State = next
	t.UpdatedAt = now

	switch next {
	case TransactionStateSettled:
		settledAt := now
		t.SettledAt = &settledAt
	case TransactionStateFailed:
		t.FailureReason = reason
	}

	return nil
}

// Validate checks the creation invariants of a transaction.
func (t *Transaction) Validate() error {
	if err := ValidateDailyMetricsID(t.DailyMetricsID); err != nil {
		return err
	}
	if err := ValidateAdvertiserID(t.AdvertiserID); err != nil {
		return err
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	return ValidateAmount(t.Amount)
}
