package domain

import "errors"

var (
	// Ledger errors
	ErrDuplicateTransaction    = errors.New("a non-failed transaction already exists for this billing period")
	ErrInvalidTransactionState = errors.New("invalid transaction state transition")
	ErrTransactionNotFound     = errors.New("transaction not found")

	// Balance errors
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrBalanceOverflow      = errors.New("balance would overflow")
	ErrAccountNotFound      = errors.New("balance account not found")
	ErrAccountAlreadyExists = errors.New("balance account already exists")
	ErrMutationNotFound     = errors.New("no mutation recorded for idempotency key")
	ErrVersionConflict      = errors.New("balance account was modified concurrently")

	// Billing errors
	ErrAdvertiserNotFound  = errors.New("advertiser not found")
	ErrRemoteIndeterminate = errors.New("remote balance mutation outcome is unknown")
	ErrAttemptAbandoned    = errors.New("billing attempt abandoned before remote call")
	ErrBalanceRejected     = errors.New("balance mutation rejected")
)

// Failure reason codes persisted on FAILED transactions.
const (
	ReasonInsufficientBalance = "insufficient_balance"
	ReasonAdvertiserNotFound  = "advertiser_not_found"
	ReasonAccountNotFound     = "account_not_found"
	ReasonBalanceOverflow     = "balance_overflow"
	ReasonAttemptAbandoned    = "attempt_abandoned"
	ReasonRejected            = "rejected"
)

var reasonErrors = map[string]error{
	ReasonInsufficientBalance: ErrInsufficientBalance,
	ReasonAdvertiserNotFound:  ErrAdvertiserNotFound,
	ReasonAccountNotFound:     ErrAccountNotFound,
	ReasonBalanceOverflow:     ErrBalanceOverflow,
	ReasonAttemptAbandoned:    ErrAttemptAbandoned,
	ReasonRejected:            ErrBalanceRejected,
}

// ReasonCode returns the stable code stored for a failure error.
func ReasonCode(err error) string {
	for code, target := range reasonErrors {
		if errors.Is(err, target) {
			return code
		}
	}
	return ReasonRejected
}

// ReasonError maps a stored failure code back to its sentinel error.
// Unknown or empty codes yield nil.
func ReasonError(code string) error {
	return reasonErrors[code]
}
