package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/iho/adbilling/internal/domain"
)

// Resolutions reported by Resolve.
const (
	ResolutionSettled         = "settled"
	ResolutionFailed          = "failed"
	ResolutionUnresolved      = "unresolved"
	ResolutionAlreadyResolved = "already_resolved"
	ResolutionResendExpired   = "resend_expired"
)

// ReconcileConfig tunes the sweep.
type ReconcileConfig struct {
	GraceInterval time.Duration
	BatchSize     int
	Concurrency   int
	RemoteTimeout time.Duration
	// MaxResendAge bounds the age of a transaction whose mutation may be
	// re-sent after a not-found lookup. Older ones are only looked up.
	MaxResendAge time.Duration
}

// ReconciliationUseCase drives unresolved transactions to a terminal state by
// asking the balance owner what happened to them.
type ReconciliationUseCase struct {
	ledger  *LedgerUseCase
	guard   IdempotencyGuard
	gateway BalanceGateway
	queue   ReconcileQueue
	metrics Metrics
	logger  zerolog.Logger
	cfg     ReconcileConfig
	now     func() time.Time
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	ledger *LedgerUseCase,
	guard IdempotencyGuard,
	gateway BalanceGateway,
	queue ReconcileQueue,
	metrics Metrics,
	logger zerolog.Logger,
	cfg ReconcileConfig,
) *ReconciliationUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if cfg.GraceInterval <= 0 {
		cfg.GraceInterval = DefaultGraceInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultSweepBatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultSweepConcurrency
	}
	if cfg.RemoteTimeout <= 0 {
		cfg.RemoteTimeout = DefaultRemoteTimeout
	}
	if cfg.MaxResendAge <= 0 {
		cfg.MaxResendAge = DefaultMaxResendAge
	}

	return &ReconciliationUseCase{
		ledger:  ledger,
		guard:   guard,
		gateway: gateway,
		queue:   queue,
		metrics: metrics,
		logger:  logger.With().Str("component", "reconciliation").Logger(),
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ResolveResult is the outcome of resolving one transaction.
type ResolveResult struct {
	Transaction *domain.Transaction
	Resolution  string
}

// SweepReport summarizes one sweep.
type SweepReport struct {
	Examined           int
	Settled            int
	Failed             int
	Unresolved         int
	ResendExpired      int
	AlreadyResolved    int
	Errors             int
	OrphansReleased    int
	ReservationsHealed int
	StartedAt          time.Time
	Duration           time.Duration
}

// Sweep resolves every queued transaction and every RECONCILING or stale
// PENDING ledger row, then cleans up orphan reservations. Each resolution is
// independent: a failure on one does not stop the others.
func (uc *ReconciliationUseCase) Sweep(ctx context.Context) (*SweepReport, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ReconciliationUseCase.Sweep")
	defer span.End()

	now := uc.now()
	cutoff := now.Add(-uc.cfg.GraceInterval)
	report := &SweepReport{StartedAt: now}

	ids, err := uc.collect(ctx, cutoff)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.cfg.Concurrency)

	for _, id := range ids {
		g.Go(func() error {
			res, err := uc.Resolve(gctx, id)

			mu.Lock()
			defer mu.Unlock()

			report.Examined++
			if err != nil {
				report.Errors++
				uc.logger.Error().Err(err).Str("transaction_id", id).Msg("failed to resolve transaction")
				return nil
			}

			switch res.Resolution {
			case ResolutionSettled:
				report.Settled++
			case ResolutionFailed:
				report.Failed++
			case ResolutionAlreadyResolved:
				report.AlreadyResolved++
			case ResolutionResendExpired:
				report.ResendExpired++
			default:
				report.Unresolved++
			}

			return nil
		})
	}

	_ = g.Wait()

	released, healed, err := uc.cleanupReservations(ctx, cutoff)
	if err != nil {
		uc.logger.Error().Err(err).Msg("failed to clean up reservations")
	}
	report.OrphansReleased = released
	report.ReservationsHealed = healed

	report.Duration = time.Since(now)

	span.SetAttributes(
		attribute.Int("sweep.examined", report.Examined),
		attribute.Int("sweep.settled", report.Settled),
		attribute.Int("sweep.failed", report.Failed),
		attribute.Int("sweep.unresolved", report.Unresolved),
		attribute.Int("sweep.resend_expired", report.ResendExpired),
	)

	return report, nil
}

// collect merges the explicit queue with a ledger scan, so a transaction whose
// enqueue was lost is still found. Both sources only yield entries older than
// cutoff, leaving attempts still in flight alone.
func (uc *ReconciliationUseCase) collect(ctx context.Context, cutoff time.Time) ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string

	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	queued, err := uc.queue.Due(ctx, cutoff, uc.cfg.BatchSize)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("reconcile queue unavailable, scanning ledger only")
	}
	for _, id := range queued {
		add(id)
	}

	rows, err := uc.ledger.ListUnresolved(ctx, cutoff, uc.cfg.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("list unresolved transactions: %w", err)
	}
	for _, row := range rows {
		add(row.ID)
	}

	return ids, nil
}

// Resolve settles or fails one transaction if the balance owner can say what
// happened to it. If it cannot, the transaction stays RECONCILING.
func (uc *ReconciliationUseCase) Resolve(ctx context.Context, id string) (*ResolveResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ReconciliationUseCase.Resolve")
	defer span.End()
	span.SetAttributes(attribute.String("billing.transaction_id", id))

	res, err := uc.resolve(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("reconcile.resolution", res.Resolution))
	uc.metrics.ObserveResolution(res.Resolution)

	return res, nil
}

func (uc *ReconciliationUseCase) resolve(ctx context.Context, id string) (*ResolveResult, error) {
	transaction, err := uc.ledger.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			uc.dequeue(ctx, id)
		}
		return nil, err
	}

	if transaction.IsTerminal() {
		uc.dequeue(ctx, id)
		return &ResolveResult{Transaction: transaction, Resolution: ResolutionAlreadyResolved}, nil
	}

	if transaction.State == domain.TransactionStatePending {
		moved, err := uc.ledger.MarkReconciling(ctx, id)
		if err != nil {
			return uc.lostRace(ctx, id, err)
		}
		transaction = moved
	}

	lctx, cancel := context.WithTimeout(ctx, uc.cfg.RemoteTimeout)
	start := time.Now()
	answer, err := uc.gateway.Lookup(lctx, transaction.AdvertiserID, transaction.ID)
	cancel()
	uc.metrics.ObserveRemoteCall("lookup", mutationOutcome(answer, err), time.Since(start))

	if err != nil || answer == nil {
		uc.logger.Warn().Err(err).Str("transaction_id", id).Msg("lookup failed, transaction stays reconciling")
		return uc.unresolved(ctx, transaction), nil
	}

	if answer.Succeeded() {
		return uc.settle(ctx, transaction)
	}

	// Past the window the balance owner may have purged the dedupe record, so
	// not-found no longer proves the mutation was never applied.
	if age := uc.now().Sub(transaction.CreatedAt); age > uc.cfg.MaxResendAge {
		uc.logger.Error().
			Str("transaction_id", id).
			Str("advertiser_id", transaction.AdvertiserID).
			Dur("age", age).
			Dur("max_resend_age", uc.cfg.MaxResendAge).
			Msg("resend window expired, transaction needs manual reconciliation")
		return &ResolveResult{Transaction: transaction, Resolution: ResolutionResendExpired}, nil
	}

	// Never applied: resend with the same key. The balance owner's dedupe
	// makes this safe even if the original request is still in flight.
	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.cfg.RemoteTimeout)
	start = time.Now()
	answer, err = uc.gateway.Apply(actx, domain.MutationRequest{
		AdvertiserID:   transaction.AdvertiserID,
		IdempotencyKey: transaction.ID,
		Kind:           transaction.Kind,
		Amount:         transaction.Amount,
	})
	cancel()
	uc.metrics.ObserveRemoteCall("apply", mutationOutcome(answer, err), time.Since(start))

	switch {
	case err != nil || answer == nil:
		uc.logger.Warn().Err(err).Str("transaction_id", id).Msg("resend failed, transaction stays reconciling")
		return uc.unresolved(ctx, transaction), nil
	case answer.Succeeded():
		return uc.settle(ctx, transaction)
	case answer.Outcome == domain.MutationRejected:
		reason := answer.Reason
		if reason == nil {
			reason = domain.ErrBalanceRejected
		}
		return uc.fail(ctx, transaction, reason)
	default:
		return uc.unresolved(ctx, transaction), nil
	}
}

func (uc *ReconciliationUseCase) settle(ctx context.Context, transaction *domain.Transaction) (*ResolveResult, error) {
	settled, err := uc.ledger.MarkSettled(ctx, transaction.ID)
	if err != nil {
		return uc.lostRace(ctx, transaction.ID, err)
	}

	if err := uc.guard.MarkSettled(ctx, settled.DailyMetricsID, settled.ID); err != nil {
		uc.logger.Error().Err(err).Str("transaction_id", settled.ID).Msg("failed to mark reservation settled")
	}
	uc.dequeue(ctx, settled.ID)

	return &ResolveResult{Transaction: settled, Resolution: ResolutionSettled}, nil
}

func (uc *ReconciliationUseCase) fail(ctx context.Context, transaction *domain.Transaction, cause error) (*ResolveResult, error) {
	failed, err := uc.ledger.MarkFailed(ctx, transaction.ID, cause)
	if err != nil {
		return uc.lostRace(ctx, transaction.ID, err)
	}

	if err := uc.guard.Release(ctx, failed.DailyMetricsID, failed.ID); err != nil {
		uc.logger.Error().Err(err).Str("transaction_id", failed.ID).Msg("failed to release reservation")
	}
	uc.dequeue(ctx, failed.ID)

	return &ResolveResult{Transaction: failed, Resolution: ResolutionFailed}, nil
}

func (uc *ReconciliationUseCase) unresolved(ctx context.Context, transaction *domain.Transaction) *ResolveResult {
	if err := uc.queue.Enqueue(ctx, transaction.ID, uc.now()); err != nil {
		uc.logger.Warn().Err(err).Str("transaction_id", transaction.ID).Msg("failed to requeue transaction")
	}

	return &ResolveResult{Transaction: transaction, Resolution: ResolutionUnresolved}
}

// lostRace handles a transition that did not apply. When another resolver
// finished first, the transaction is reported as already resolved.
func (uc *ReconciliationUseCase) lostRace(ctx context.Context, id string, cause error) (*ResolveResult, error) {
	if !errors.Is(cause, domain.ErrInvalidTransactionState) {
		return nil, cause
	}

	current, err := uc.ledger.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if current.IsTerminal() {
		uc.dequeue(ctx, id)
		return &ResolveResult{Transaction: current, Resolution: ResolutionAlreadyResolved}, nil
	}

	return &ResolveResult{Transaction: current, Resolution: ResolutionUnresolved}, nil
}

func (uc *ReconciliationUseCase) dequeue(ctx context.Context, id string) {
	if err := uc.queue.Remove(ctx, id); err != nil {
		uc.logger.Warn().Err(err).Str("transaction_id", id).Msg("failed to remove transaction from reconcile queue")
	}
}

// cleanupReservations walks pending reservations older than cutoff. Those with
// no ledger row or a FAILED one are released; those whose transaction settled
// are marked settled.
func (uc *ReconciliationUseCase) cleanupReservations(ctx context.Context, cutoff time.Time) (released, healed int, err error) {
	pending, err := uc.guard.ListPending(ctx, cutoff, uc.cfg.BatchSize)
	if err != nil {
		return 0, 0, err
	}

	for _, reservation := range pending {
		transaction, err := uc.ledger.FindByID(ctx, reservation.TransactionID)

		switch {
		case errors.Is(err, domain.ErrTransactionNotFound):
			if err := uc.guard.Release(ctx, reservation.DailyMetricsID, reservation.TransactionID); err != nil {
				return released, healed, err
			}
			released++
		case err != nil:
			return released, healed, err
		case transaction.State == domain.TransactionStateFailed:
			if err := uc.guard.Release(ctx, reservation.DailyMetricsID, reservation.TransactionID); err != nil {
				return released, healed, err
			}
			released++
		case transaction.State == domain.TransactionStateSettled:
			if err := uc.guard.MarkSettled(ctx, reservation.DailyMetricsID, reservation.TransactionID); err != nil {
				return released, healed, err
			}
			healed++
		}
	}

	return released, healed, nil
}

// RebuildGuard restores the guard and the reconcile queue from the ledger. It
// runs at startup so a lost Redis dataset cannot reopen a billed period.
func (uc *ReconciliationUseCase) RebuildGuard(ctx context.Context) (int, error) {
	restored := 0

	for offset := 0; ; offset += uc.cfg.BatchSize {
		rows, err := uc.ledger.ListLive(ctx, uc.cfg.BatchSize, offset)
		if err != nil {
			return restored, fmt.Errorf("list live transactions: %w", err)
		}

		for _, row := range rows {
			if err := uc.guard.Restore(ctx, domain.ReservationFor(row)); err != nil {
				return restored, fmt.Errorf("restore reservation %s: %w", row.DailyMetricsID, err)
			}
			if row.State == domain.TransactionStateReconciling {
				if err := uc.queue.Enqueue(ctx, row.ID, row.UpdatedAt); err != nil {
					return restored, fmt.Errorf("requeue %s: %w", row.ID, err)
				}
			}
			restored++
		}

		if len(rows) < uc.cfg.BatchSize {
			break
		}
	}

	uc.logger.Info().Int("restored", restored).Msg("idempotency guard rebuilt from ledger")

	return restored, nil
}
