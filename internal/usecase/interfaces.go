package usecase

import (
	"context"
	"time"

	"github.com/iho/adbilling/internal/domain"
)

// TransactionRepository defines data access for billing transactions.
type TransactionRepository interface {
	// Create inserts a PENDING transaction. It returns domain.ErrDuplicateTransaction
	// when a non-failed transaction already exists for the same daily metrics id.
	Create(ctx context.Context, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetLiveByDailyMetricsID(ctx context.Context, dailyMetricsID string) (*domain.Transaction, error)
	// UpdateState moves a transaction to next only if its current state is one of from.
	// It returns the updated transaction, domain.ErrTransactionNotFound, or
	// domain.ErrInvalidTransactionState when the guard did not match.
	UpdateState(ctx context.Context, id string, from []domain.TransactionState, next domain.TransactionState, reason string, now time.Time) (*domain.Transaction, error)
	ListByAdvertiser(ctx context.Context, advertiserID string, limit, offset int) ([]*domain.Transaction, error)
	ListByStates(ctx context.Context, states []domain.TransactionState, updatedBefore time.Time, limit int) ([]*domain.Transaction, error)
	ListLive(ctx context.Context, limit, offset int) ([]*domain.Transaction, error)
}

// BalanceAccountRepository defines data access for advertiser balance accounts.
type BalanceAccountRepository interface {
	Create(ctx context.Context, account *domain.BalanceAccount) error
	GetByID(ctx context.Context, advertiserID string) (*domain.BalanceAccount, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, advertiserID string) (*domain.BalanceAccount, error)
	UpdateBalance(ctx context.Context, tx Transaction, advertiserID string, balance, expectedVersion int64, updatedAt time.Time) error
	GetMutation(ctx context.Context, tx Transaction, advertiserID, idempotencyKey string) (*domain.BalanceMutation, error)
	FindMutation(ctx context.Context, advertiserID, idempotencyKey string) (*domain.BalanceMutation, error)
	CreateMutation(ctx context.Context, tx Transaction, mutation *domain.BalanceMutation) error
	DeleteMutationsBefore(ctx context.Context, before time.Time) (int64, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyGuard maps a billing period to at most one live transaction.
type IdempotencyGuard interface {
	// CheckAndReserve atomically claims dailyMetricsID for transactionID unless
	// another transaction already holds it.
	CheckAndReserve(ctx context.Context, dailyMetricsID, transactionID string) (*domain.ReserveResult, error)
	MarkSettled(ctx context.Context, dailyMetricsID, transactionID string) error
	// Release frees the period only if it is still held by transactionID.
	Release(ctx context.Context, dailyMetricsID, transactionID string) error
	// Restore writes a reservation unconditionally. Used when rebuilding from the ledger.
	Restore(ctx context.Context, reservation *domain.Reservation) error
	ListPending(ctx context.Context, reservedBefore time.Time, limit int) ([]*domain.Reservation, error)
}

// ReconcileQueue is the explicit work queue of RECONCILING transaction ids.
type ReconcileQueue interface {
	Enqueue(ctx context.Context, transactionID string, at time.Time) error
	// Due returns ids enqueued at or before the given time.
	Due(ctx context.Context, before time.Time, limit int) ([]string, error)
	Remove(ctx context.Context, transactionID string) error
}

// BalanceGateway is the billing side's view of the advertiser-owned balance
// account. An error return means the outcome is unknown.
type BalanceGateway interface {
	Apply(ctx context.Context, req domain.MutationRequest) (*domain.MutationResult, error)
	// Lookup asks whether a mutation with the key was applied. Outcome is
	// MutationApplied or MutationNotFound.
	Lookup(ctx context.Context, advertiserID, idempotencyKey string) (*domain.MutationResult, error)
}

// ExistenceOracle answers whether an advertiser exists.
type ExistenceOracle interface {
	Exists(ctx context.Context, advertiserID string) (bool, error)
}

// Metrics observes protocol events. Implementations must be safe for concurrent use.
type Metrics interface {
	ObserveBilling(outcome string)
	ObserveTransition(to domain.TransactionState)
	ObserveRemoteCall(operation, outcome string, duration time.Duration)
	ObserveResolution(resolution string)
	ObserveBalanceMutation(kind domain.TransactionKind, outcome domain.MutationOutcome)
}

type noopMetrics struct{}

func (noopMetrics) ObserveBilling(string)                                                 {}
func (noopMetrics) ObserveTransition(domain.TransactionState)                             {}
func (noopMetrics) ObserveRemoteCall(string, string, time.Duration)                       {}
func (noopMetrics) ObserveResolution(string)                                              {}
func (noopMetrics) ObserveBalanceMutation(domain.TransactionKind, domain.MutationOutcome) {}
