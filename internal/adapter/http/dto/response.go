package dto

import (
	"time"

	"github.com/iho/adbilling/internal/domain"
	"github.com/iho/adbilling/internal/usecase"
)

// TransactionResponse represents a billing transaction in API responses.
type TransactionResponse struct {
	ID             string     `json:"id"`
	DailyMetricsID string     `json:"daily_metrics_id"`
	AdvertiserID   string     `json:"advertiser_id"`
	Amount         int64      `json:"amount"`
	Kind           string     `json:"kind"`
	State          string     `json:"state"`
	FailureReason  string     `json:"failure_reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	SettledAt      *time.Time `json:"settled_at,omitempty"`
}

// TransactionFromDomain converts a domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	if t == nil {
		return nil
	}
	return &TransactionResponse{
		ID:             t.ID,
		DailyMetricsID: t.DailyMetricsID,
		AdvertiserID:   t.AdvertiserID,
		Amount:         t.Amount,
		Kind:           string(t.Kind),
		State:          string(t.State),
		FailureReason:  t.FailureReason,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
		SettledAt:      t.SettledAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ListTransactionsResponse is a page of transactions.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Limit        int                    `json:"limit"`
	Offset       int                    `json:"offset"`
}

// BillResponse reports the outcome of a billing trigger.
type BillResponse struct {
	TransactionID string               `json:"transaction_id"`
	Outcome       string               `json:"outcome"`
	Reason        string               `json:"reason,omitempty"`
	Replayed      bool                 `json:"replayed"`
	Transaction   *TransactionResponse `json:"transaction,omitempty"`
}

// BillFromResult converts a billing result to response.
func BillFromResult(res *usecase.BillResult) *BillResponse {
	resp := &BillResponse{
		TransactionID: res.TransactionID,
		Outcome:       res.Outcome,
		Replayed:      res.Replayed,
		Transaction:   TransactionFromDomain(res.Transaction),
	}
	if res.Reason != nil {
		resp.Reason = domain.ReasonCode(res.Reason)
	}
	return resp
}

// ResolveResponse reports the outcome of resolving one transaction.
type ResolveResponse struct {
	Resolution  string               `json:"resolution"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

// ResolveFromResult converts a resolution to response.
func ResolveFromResult(res *usecase.ResolveResult) *ResolveResponse {
	return &ResolveResponse{
		Resolution:  res.Resolution,
		Transaction: TransactionFromDomain(res.Transaction),
	}
}

// SweepResponse summarizes a sweep.
type SweepResponse struct {
	Examined           int       `json:"examined"`
	Settled            int       `json:"settled"`
	Failed             int       `json:"failed"`
	Unresolved         int       `json:"unresolved"`
	ResendExpired      int       `json:"resend_expired"`
	AlreadyResolved    int       `json:"already_resolved"`
	Errors             int       `json:"errors"`
	OrphansReleased    int       `json:"orphans_released"`
	ReservationsHealed int       `json:"reservations_healed"`
	StartedAt          time.Time `json:"started_at"`
	DurationMillis     int64     `json:"duration_ms"`
}

// SweepFromReport converts a sweep report to response.
func SweepFromReport(r *usecase.SweepReport) *SweepResponse {
	return &SweepResponse{
		Examined:           r.Examined,
		Settled:            r.Settled,
		Failed:             r.Failed,
		Unresolved:         r.Unresolved,
		ResendExpired:      r.ResendExpired,
		AlreadyResolved:    r.AlreadyResolved,
		Errors:             r.Errors,
		OrphansReleased:    r.OrphansReleased,
		ReservationsHealed: r.ReservationsHealed,
		StartedAt:          r.StartedAt,
		DurationMillis:     r.Duration.Milliseconds(),
	}
}

// AccountResponse represents a balance account in API responses.
type AccountResponse struct {
	AdvertiserID string    `json:"advertiser_id"`
	Balance      int64     `json:"balance"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AccountFromDomain converts a domain account to response.
func AccountFromDomain(a *domain.BalanceAccount) *AccountResponse {
	return &AccountResponse{
		AdvertiserID: a.AdvertiserID,
		Balance:      a.Balance,
		Version:      a.Version,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// MutationResponse is the wire form of a balance mutation outcome.
type MutationResponse struct {
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`
	Balance int64  `json:"balance"`
}

// MutationFromResult converts a mutation result to response.
func MutationFromResult(res *domain.MutationResult) *MutationResponse {
	resp := &MutationResponse{
		Outcome: string(res.Outcome),
		Balance: res.Balance,
	}
	if res.Reason != nil {
		resp.Reason = domain.ReasonCode(res.Reason)
	}
	return resp
}

// ToDomain converts a mutation response back to a domain result.
func (r *MutationResponse) ToDomain() *domain.MutationResult {
	res := &domain.MutationResult{
		Outcome: domain.MutationOutcome(r.Outcome),
		Balance: r.Balance,
	}
	if res.Outcome == domain.MutationRejected {
		res.Reason = domain.ReasonError(r.Reason)
		if res.Reason == nil {
			res.Reason = domain.ErrBalanceRejected
		}
	}
	return res
}

// MutationRecordResponse represents a recorded mutation.
type MutationRecordResponse struct {
	AdvertiserID   string    `json:"advertiser_id"`
	IdempotencyKey string    `json:"idempotency_key"`
	Kind           string    `json:"kind"`
	Amount         int64     `json:"amount"`
	BalanceAfter   int64     `json:"balance_after"`
	AppliedAt      time.Time `json:"applied_at"`
}

// MutationRecordFromDomain converts a recorded mutation to response.
func MutationRecordFromDomain(m *domain.BalanceMutation) *MutationRecordResponse {
	return &MutationRecordResponse{
		AdvertiserID:   m.AdvertiserID,
		IdempotencyKey: m.IdempotencyKey,
		Kind:           string(m.Kind),
		Amount:         m.Amount,
		BalanceAfter:   m.BalanceAfter,
		AppliedAt:      m.AppliedAt,
	}
}

// AdvertiserResponse answers an existence query.
type AdvertiserResponse struct {
	AdvertiserID string `json:"advertiser_id"`
	Exists       bool   `json:"exists"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
