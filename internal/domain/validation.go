package domain

import (
	"errors"
	"fmt"
	"regexp"
)

// Validation errors
var (
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrAmountTooLarge        = errors.New("amount exceeds maximum allowed")
	ErrInvalidDailyMetricsID = errors.New("invalid daily metrics id")
	ErrInvalidAdvertiserID   = errors.New("invalid advertiser id")
	ErrInvalidKind           = errors.New("kind must be CHARGE or DEDUCT")
	ErrInvalidIdempotencyKey = errors.New("invalid idempotency key")
)

// Validation constants
const (
	MaxAmount              int64 = 1_000_000_000_000 // minor units
	MaxDailyMetricsIDLen         = 128
	MaxAdvertiserIDLen           = 64
	MaxIdempotencyKeyLen         = 128
	identifierCharsPattern       = `^[A-Za-z0-9._:-]+$`
)

var identifierRegex = regexp.MustCompile(identifierCharsPattern)

// ValidateAmount validates a transaction or mutation amount.
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if amount > MaxAmount {
		return fmt.Errorf("%w: maximum amount is %d", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// ValidateDailyMetricsID validates the billing period key.
func ValidateDailyMetricsID(id string) error {
	if id == "" || len(id) > MaxDailyMetricsIDLen {
		return fmt.Errorf("%w: length must be 1..%d", ErrInvalidDailyMetricsID, MaxDailyMetricsIDLen)
	}

	if !identifierRegex.MatchString(id) {
		return fmt.Errorf("%w: contains forbidden characters", ErrInvalidDailyMetricsID)
	}

	return nil
}

// ValidateAdvertiserID validates an advertiser identifier.
func ValidateAdvertiserID(id string) error {
	if id == "" || len(id) > MaxAdvertiserIDLen {
		return fmt.Errorf("%w: length must be 1..%d", ErrInvalidAdvertiserID, MaxAdvertiserIDLen)
	}

	if !identifierRegex.MatchString(id) {
		return fmt.Errorf("%w: contains forbidden characters", ErrInvalidAdvertiserID)
	}

	return nil
}

// ValidateMutationRequest validates a request arriving at the balance owner.
func ValidateMutationRequest(req MutationRequest) error {
	if err := ValidateAdvertiserID(req.AdvertiserID); err != nil {
		return err
	}

	if req.IdempotencyKey == "" || len(req.IdempotencyKey) > MaxIdempotencyKeyLen {
		return fmt.Errorf("%w: length must be 1..%d", ErrInvalidIdempotencyKey, MaxIdempotencyKeyLen)
	}

	if !req.Kind.Valid() {
		return ErrInvalidKind
	}

	return ValidateAmount(req.Amount)
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
