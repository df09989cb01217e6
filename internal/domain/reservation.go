package domain

import "time"

// ReservationState is the guard's view of a billing period.
type ReservationState string

const (
	ReservationPending ReservationState = "pending"
	ReservationSettled ReservationState = "settled"
)

// Reservation ties a billing period to the transaction that claimed it.
type Reservation struct {
	DailyMetricsID string
	TransactionID  string
	State          ReservationState
	ReservedAt     time.Time
}

// ReserveOutcome is the result of an atomic check-and-reserve.
type ReserveOutcome string

const (
	ReserveReserved       ReserveOutcome = "reserved"
	ReserveAlreadySettled ReserveOutcome = "already_settled"
	ReserveAlreadyPending ReserveOutcome = "already_pending"
)

// ReserveResult carries the outcome and the transaction holding the period.
type ReserveResult struct {
	Outcome       ReserveOutcome
	TransactionID string
}

// ReservationFor derives the guard entry matching a live transaction.
func ReservationFor(t *Transaction) *Reservation {
	state := ReservationPending
	if t.State == TransactionStateSettled {
		state = ReservationSettled
	}
	return &Reservation{
		DailyMetricsID: t.DailyMetricsID,
		TransactionID:  t.ID,
		State:          state,
		ReservedAt:     t.CreatedAt,
	}
}
