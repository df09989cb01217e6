package usecase

import (
	"context"
	"time"

	"github.com/iho/adbilling/internal/domain"
)

// LedgerUseCase owns the billing-side transaction records.
type LedgerUseCase struct {
	txRepo  TransactionRepository
	idGen   IDGenerator
	metrics Metrics
	now     func() time.Time
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(txRepo TransactionRepository, idGen IDGenerator, metrics Metrics) *LedgerUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &LedgerUseCase{
		txRepo:  txRepo,
		idGen:   idGen,
		metrics: metrics,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateTransactionInput represents input for recording a new transaction.
type CreateTransactionInput struct {
	ID             string
	DailyMetricsID string
	AdvertiserID   string
	Amount         int64
	Kind           domain.TransactionKind
}

// NewTransactionID returns a fresh transaction id.
func (uc *LedgerUseCase) NewTransactionID() string {
	return uc.idGen.Generate()
}

// Create records a PENDING transaction for a billing period.
func (uc *LedgerUseCase) Create(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	id := input.ID
	if id == "" {
		id = uc.idGen.Generate()
	}

	now := uc.now()
	transaction := &domain.Transaction{
		ID:             id,
		DailyMetricsID: input.DailyMetricsID,
		AdvertiserID:   input.AdvertiserID,
		Amount:         input.Amount,
		Kind:           input.Kind,
		State:          domain.TransactionStatePending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := transaction.Validate(); err != nil {
		return nil, err
	}

	if err := uc.txRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}

	return transaction, nil
}

// MarkSettled moves a transaction to SETTLED.
func (uc *LedgerUseCase) MarkSettled(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.transition(ctx, id, domain.TransactionStateSettled, "")
}

// MarkFailed moves a transaction to FAILED, recording the reason code of cause.
func (uc *LedgerUseCase) MarkFailed(ctx context.Context, id string, cause error) (*domain.Transaction, error) {
	return uc.transition(ctx, id, domain.TransactionStateFailed, domain.ReasonCode(cause))
}

// MarkReconciling moves a PENDING transaction to RECONCILING.
func (uc *LedgerUseCase) MarkReconciling(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.transition(ctx, id, domain.TransactionStateReconciling, "")
}

func (uc *LedgerUseCase) transition(ctx context.Context, id string, next domain.TransactionState, reason string) (*domain.Transaction, error) {
	from := domain.SourceStates(next)

	transaction, err := uc.txRepo.UpdateState(ctx, id, from, next, reason, uc.now())
	if err != nil {
		return nil, err
	}

	uc.metrics.ObserveTransition(next)

	return transaction, nil
}

// FindByID returns a transaction by id.
func (uc *LedgerUseCase) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txRepo.GetByID(ctx, id)
}

// FindLiveByDailyMetricsID returns the non-failed transaction of a billing period.
func (uc *LedgerUseCase) FindLiveByDailyMetricsID(ctx context.Context, dailyMetricsID string) (*domain.Transaction, error) {
	return uc.txRepo.GetLiveByDailyMetricsID(ctx, dailyMetricsID)
}

// ListByAdvertiser lists an advertiser's transactions, newest first.
func (uc *LedgerUseCase) ListByAdvertiser(ctx context.Context, advertiserID string, limit, offset int) ([]*domain.Transaction, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.txRepo.ListByAdvertiser(ctx, advertiserID, limit, offset)
}

// ListUnresolved returns RECONCILING and PENDING transactions last touched before updatedBefore.
func (uc *LedgerUseCase) ListUnresolved(ctx context.Context, updatedBefore time.Time, limit int) ([]*domain.Transaction, error) {
	return uc.txRepo.ListByStates(ctx,
		[]domain.TransactionState{domain.TransactionStateReconciling, domain.TransactionStatePending},
		updatedBefore, limit)
}

// ListLive pages through every transaction that still holds its billing period.
func (uc *LedgerUseCase) ListLive(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	return uc.txRepo.ListLive(ctx, limit, offset)
}
