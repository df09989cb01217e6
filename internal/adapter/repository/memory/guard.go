package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iho/adbilling/internal/domain"
)

// IdempotencyGuard implements usecase.IdempotencyGuard in process memory.
type IdempotencyGuard struct {
	mu           sync.Mutex
	reservations map[string]*domain.Reservation
	now          func() time.Time
}

// NewIdempotencyGuard creates a new IdempotencyGuard.
func NewIdempotencyGuard() *IdempotencyGuard {
	return &IdempotencyGuard{
		reservations: make(map[string]*domain.Reservation),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CheckAndReserve claims dailyMetricsID for transactionID unless it is already held.
func (g *IdempotencyGuard) CheckAndReserve(ctx context.Context, dailyMetricsID, transactionID string) (*domain.ReserveResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.reservations[dailyMetricsID]; ok {
		outcome := domain.ReserveAlreadyPending
		if existing.State == domain.ReservationSettled {
			outcome = domain.ReserveAlreadySettled
		}
		return &domain.ReserveResult{Outcome: outcome, TransactionID: existing.TransactionID}, nil
	}

	g.reservations[dailyMetricsID] = &domain.Reservation{
		DailyMetricsID: dailyMetricsID,
		TransactionID:  transactionID,
		State:          domain.ReservationPending,
		ReservedAt:     g.now(),
	}

	return &domain.ReserveResult{Outcome: domain.ReserveReserved, TransactionID: transactionID}, nil
}

// MarkSettled flags the reservation as settled if transactionID still holds it.
func (g *IdempotencyGuard) MarkSettled(ctx context.Context, dailyMetricsID, transactionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if r, ok := g.reservations[dailyMetricsID]; ok && r.TransactionID == transactionID {
		r.State = domain.ReservationSettled
	}
	return nil
}

// Release frees the period if transactionID still holds it.
func (g *IdempotencyGuard) Release(ctx context.Context, dailyMetricsID, transactionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if r, ok := g.reservations[dailyMetricsID]; ok && r.TransactionID == transactionID {
		delete(g.reservations, dailyMetricsID)
	}
	return nil
}

// Restore overwrites the reservation of a period.
func (g *IdempotencyGuard) Restore(ctx context.Context, reservation *domain.Reservation) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	stored := *reservation
	g.reservations[reservation.DailyMetricsID] = &stored
	return nil
}

// ListPending returns pending reservations made before reservedBefore, oldest first.
func (g *IdempotencyGuard) ListPending(ctx context.Context, reservedBefore time.Time, limit int) ([]*domain.Reservation, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var pending []*domain.Reservation
	for _, r := range g.reservations {
		if r.State == domain.ReservationPending && r.ReservedAt.Before(reservedBefore) {
			c := *r
			pending = append(pending, &c)
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].ReservedAt.Before(pending[j].ReservedAt)
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}

	return pending, nil
}

// Reset drops every reservation, as if the backing store lost its data.
func (g *IdempotencyGuard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reservations = make(map[string]*domain.Reservation)
}
