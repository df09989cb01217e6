package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/iho/adbilling/internal/domain"
)

const tracerName = "github.com/iho/adbilling/internal/usecase"

// BillingConfig bounds the external calls of a billing attempt.
type BillingConfig struct {
	RemoteTimeout    time.Duration
	ExistenceTimeout time.Duration
}

// BillingUseCase runs one billing attempt per billing period through the
// PENDING -> SETTLED | FAILED | RECONCILING state machine.
type BillingUseCase struct {
	guard   IdempotencyGuard
	ledger  *LedgerUseCase
	gateway BalanceGateway
	oracle  ExistenceOracle
	queue   ReconcileQueue
	metrics Metrics
	logger  zerolog.Logger
	cfg     BillingConfig
	now     func() time.Time
}

// NewBillingUseCase creates a new BillingUseCase.
func NewBillingUseCase(
	guard IdempotencyGuard,
	ledger *LedgerUseCase,
	gateway BalanceGateway,
	oracle ExistenceOracle,
	queue ReconcileQueue,
	metrics Metrics,
	logger zerolog.Logger,
	cfg BillingConfig,
) *BillingUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if cfg.RemoteTimeout <= 0 {
		cfg.RemoteTimeout = DefaultRemoteTimeout
	}
	if cfg.ExistenceTimeout <= 0 {
		cfg.ExistenceTimeout = DefaultExistenceTimeout
	}

	return &BillingUseCase{
		guard:   guard,
		ledger:  ledger,
		gateway: gateway,
		oracle:  oracle,
		queue:   queue,
		metrics: metrics,
		logger:  logger.With().Str("component", "billing").Logger(),
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// BillInput represents one billing trigger for an aggregated period.
type BillInput struct {
	DailyMetricsID string
	AdvertiserID   string
	Amount         int64
	Kind           domain.TransactionKind
}

// Validate checks the trigger before any state is touched.
func (in BillInput) Validate() error {
	if err := domain.ValidateDailyMetricsID(in.DailyMetricsID); err != nil {
		return err
	}
	if err := domain.ValidateAdvertiserID(in.AdvertiserID); err != nil {
		return err
	}
	if !in.Kind.Valid() {
		return domain.ErrInvalidKind
	}
	return domain.ValidateAmount(in.Amount)
}

// BillResult reports what happened to a billing period. Transaction is nil
// only when a concurrent attempt holds the period but has not recorded its
// transaction yet; TransactionID is always set.
type BillResult struct {
	Transaction   *domain.Transaction
	TransactionID string
	Outcome       string
	Reason        error
	Replayed      bool
}

// Bill charges or deducts the advertiser's balance for a billing period at most once.
// Definite failures are reported in the result. An unknown remote outcome leaves the
// transaction RECONCILING and is not an error.
func (uc *BillingUseCase) Bill(ctx context.Context, input BillInput) (*BillResult, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "BillingUseCase.Bill")
	defer span.End()

	span.SetAttributes(
		attribute.String("billing.daily_metrics_id", input.DailyMetricsID),
		attribute.String("billing.advertiser_id", input.AdvertiserID),
		attribute.Int64("billing.amount", input.Amount),
		attribute.String("billing.kind", string(input.Kind)),
	)

	if err := input.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result, err := uc.bill(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("billing.transaction_id", result.TransactionID),
		attribute.String("billing.outcome", result.Outcome),
		attribute.Bool("billing.replayed", result.Replayed),
	)

	if result.Replayed {
		uc.metrics.ObserveBilling(OutcomeReplayed)
	} else {
		uc.metrics.ObserveBilling(result.Outcome)
	}

	return result, nil
}

func (uc *BillingUseCase) bill(ctx context.Context, input BillInput) (*BillResult, error) {
	// Bookkeeping after the reservation must finish even if the caller goes away.
	bctx := context.WithoutCancel(ctx)

	transactionID := uc.ledger.NewTransactionID()

	// A reservation left behind by a FAILED attempt whose release was lost is
	// freed and the period retried once.
	for attempt := 0; ; attempt++ {
		reservation, err := uc.guard.CheckAndReserve(ctx, input.DailyMetricsID, transactionID)
		if err != nil {
			return nil, fmt.Errorf("reserve billing period: %w", err)
		}

		if reservation.Outcome == domain.ReserveReserved {
			break
		}

		result, err := uc.replay(ctx, input.DailyMetricsID, reservation.TransactionID)
		if err != nil {
			return nil, err
		}

		if result.Transaction == nil || result.Transaction.State != domain.TransactionStateFailed || attempt > 0 {
			return result, nil
		}

		if err := uc.guard.Release(bctx, input.DailyMetricsID, reservation.TransactionID); err != nil {
			return nil, fmt.Errorf("release stale reservation: %w", err)
		}
	}

	exists := uc.advertiserExists(ctx, input.AdvertiserID)

	transaction, err := uc.ledger.Create(bctx, CreateTransactionInput{
		ID:             transactionID,
		DailyMetricsID: input.DailyMetricsID,
		AdvertiserID:   input.AdvertiserID,
		Amount:         input.Amount,
		Kind:           input.Kind,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateTransaction) {
			return uc.recoverGuard(bctx, input.DailyMetricsID)
		}

		uc.releaseReservation(bctx, input.DailyMetricsID, transactionID)

		return nil, fmt.Errorf("record transaction: %w", err)
	}

	// A caller that gave up during the existence check leaves a false
	// negative behind; record the abandonment instead.
	if ctx.Err() != nil {
		return uc.failBeforeRemote(bctx, transaction, domain.ErrAttemptAbandoned)
	}

	if !exists {
		return uc.failBeforeRemote(bctx, transaction, domain.ErrAdvertiserNotFound)
	}

	return uc.applyRemote(bctx, transaction)
}

func (uc *BillingUseCase) advertiserExists(ctx context.Context, advertiserID string) bool {
	ectx, cancel := context.WithTimeout(ctx, uc.cfg.ExistenceTimeout)
	defer cancel()

	start := time.Now()
	exists, err := uc.oracle.Exists(ectx, advertiserID)
	uc.metrics.ObserveRemoteCall("exists", remoteOutcome(err), time.Since(start))

	if err != nil {
		uc.logger.Warn().Err(err).
			Str("advertiser_id", advertiserID).
			Msg("existence check failed, treating advertiser as unknown")
		return false
	}

	return exists
}

func (uc *BillingUseCase) applyRemote(ctx context.Context, transaction *domain.Transaction) (*BillResult, error) {
	rctx, cancel := context.WithTimeout(ctx, uc.cfg.RemoteTimeout)
	defer cancel()

	rctx, span := otel.Tracer(tracerName).Start(rctx, "BalanceGateway.Apply")
	start := time.Now()

	res, err := uc.gateway.Apply(rctx, domain.MutationRequest{
		AdvertiserID:   transaction.AdvertiserID,
		IdempotencyKey: transaction.ID,
		Kind:           transaction.Kind,
		Amount:         transaction.Amount,
	})
	if err == nil && res == nil {
		err = domain.ErrRemoteIndeterminate
	}

	uc.metrics.ObserveRemoteCall("apply", mutationOutcome(res, err), time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	switch {
	case err != nil:
		uc.logger.Warn().Err(err).
			Str("transaction_id", transaction.ID).
			Msg("balance mutation outcome unknown, reconciling")
		return uc.reconcileLater(ctx, transaction)
	case res.Succeeded():
		return uc.settle(ctx, transaction)
	case res.Outcome == domain.MutationRejected:
		reason := res.Reason
		if reason == nil {
			reason = domain.ErrBalanceRejected
		}
		return uc.fail(ctx, transaction, reason)
	default:
		uc.logger.Warn().
			Str("transaction_id", transaction.ID).
			Str("outcome", string(res.Outcome)).
			Msg("unexpected balance mutation outcome, reconciling")
		return uc.reconcileLater(ctx, transaction)
	}
}

func (uc *BillingUseCase) settle(ctx context.Context, transaction *domain.Transaction) (*BillResult, error) {
	settled, err := uc.ledger.MarkSettled(ctx, transaction.ID)
	if err != nil {
		return uc.afterLostTransition(ctx, transaction, err)
	}

	if err := uc.guard.MarkSettled(ctx, settled.DailyMetricsID, settled.ID); err != nil {
		uc.logger.Error().Err(err).
			Str("transaction_id", settled.ID).
			Msg("failed to mark reservation settled")
	}

	return resultFor(settled, false), nil
}

func (uc *BillingUseCase) fail(ctx context.Context, transaction *domain.Transaction, cause error) (*BillResult, error) {
	failed, err := uc.ledger.MarkFailed(ctx, transaction.ID, cause)
	if err != nil {
		return uc.afterLostTransition(ctx, transaction, err)
	}

	uc.releaseReservation(ctx, failed.DailyMetricsID, failed.ID)

	result := resultFor(failed, false)
	result.Reason = cause

	return result, nil
}

func (uc *BillingUseCase) failBeforeRemote(ctx context.Context, transaction *domain.Transaction, cause error) (*BillResult, error) {
	uc.logger.Info().
		Str("transaction_id", transaction.ID).
		Str("reason", domain.ReasonCode(cause)).
		Msg("billing attempt failed before balance mutation")

	return uc.fail(ctx, transaction, cause)
}

func (uc *BillingUseCase) reconcileLater(ctx context.Context, transaction *domain.Transaction) (*BillResult, error) {
	reconciling, err := uc.ledger.MarkReconciling(ctx, transaction.ID)
	if err != nil {
		return uc.afterLostTransition(ctx, transaction, err)
	}

	if err := uc.queue.Enqueue(ctx, reconciling.ID, uc.now()); err != nil {
		uc.logger.Error().Err(err).
			Str("transaction_id", reconciling.ID).
			Msg("failed to enqueue transaction for reconciliation")
	}

	return resultFor(reconciling, false), nil
}

// afterLostTransition handles a ledger update that did not apply. If another
// resolver already moved the transaction, its current state is reported. If
// storage failed, the row stays PENDING and the sweep resolves it later.
func (uc *BillingUseCase) afterLostTransition(ctx context.Context, transaction *domain.Transaction, cause error) (*BillResult, error) {
	if errors.Is(cause, domain.ErrInvalidTransactionState) {
		current, err := uc.ledger.FindByID(ctx, transaction.ID)
		if err == nil {
			return resultFor(current, false), nil
		}
	}

	uc.logger.Error().Err(cause).
		Str("transaction_id", transaction.ID).
		Msg("failed to record transaction state, left for reconciliation")

	return resultFor(transaction, false), nil
}

// recoverGuard handles a ledger duplicate: the guard lost the reservation
// while the ledger still has a live transaction for the period.
func (uc *BillingUseCase) recoverGuard(ctx context.Context, dailyMetricsID string) (*BillResult, error) {
	live, err := uc.ledger.FindLiveByDailyMetricsID(ctx, dailyMetricsID)
	if err != nil {
		return nil, fmt.Errorf("load live transaction: %w", err)
	}

	if err := uc.guard.Restore(ctx, domain.ReservationFor(live)); err != nil {
		uc.logger.Error().Err(err).
			Str("daily_metrics_id", dailyMetricsID).
			Msg("failed to restore reservation from ledger")
	}

	uc.logger.Warn().
		Str("daily_metrics_id", dailyMetricsID).
		Str("transaction_id", live.ID).
		Msg("reservation missing for live transaction, restored")

	return resultFor(live, true), nil
}

func (uc *BillingUseCase) replay(ctx context.Context, dailyMetricsID, transactionID string) (*BillResult, error) {
	transaction, err := uc.ledger.FindByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return &BillResult{
				TransactionID: transactionID,
				Outcome:       OutcomePending,
				Replayed:      true,
			}, nil
		}
		return nil, fmt.Errorf("load reserved transaction: %w", err)
	}

	uc.logger.Debug().
		Str("daily_metrics_id", dailyMetricsID).
		Str("transaction_id", transactionID).
		Msg("billing period already reserved")

	return resultFor(transaction, true), nil
}

func (uc *BillingUseCase) releaseReservation(ctx context.Context, dailyMetricsID, transactionID string) {
	if err := uc.guard.Release(ctx, dailyMetricsID, transactionID); err != nil {
		uc.logger.Error().Err(err).
			Str("daily_metrics_id", dailyMetricsID).
			Str("transaction_id", transactionID).
			Msg("failed to release reservation")
	}
}

func resultFor(transaction *domain.Transaction, replayed bool) *BillResult {
	return &BillResult{
		Transaction:   transaction,
		TransactionID: transaction.ID,
		Outcome:       OutcomeForState(transaction.State),
		Reason:        domain.ReasonError(transaction.FailureReason),
		Replayed:      replayed,
	}
}

// OutcomeForState maps a transaction state to a billing outcome.
func OutcomeForState(state domain.TransactionState) string {
	switch state {
	case domain.TransactionStateSettled:
		return OutcomeSettled
	case domain.TransactionStateFailed:
		return OutcomeFailed
	case domain.TransactionStateReconciling:
		return OutcomeReconciling
	default:
		return OutcomePending
	}
}

func remoteOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

func mutationOutcome(res *domain.MutationResult, err error) string {
	if err != nil || res == nil {
		return remoteOutcome(err)
	}
	return string(res.Outcome)
}
