package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/adbilling/internal/domain"
	"github.com/iho/adbilling/internal/infrastructure/postgres/generated"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return newTransactionRepository(pool)
}

func newTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Create inserts a transaction. The partial unique index on daily_metrics_id
// rejects a second live transaction for the same period.
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	err := r.queries.CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:             transaction.ID,
		DailyMetricsID: transaction.DailyMetricsID,
		AdvertiserID:   transaction.AdvertiserID,
		Amount:         transaction.Amount,
		Kind:           string(transaction.Kind),
		State:          string(transaction.State),
		FailureReason:  transaction.FailureReason,
		CreatedAt:      timeToPgTimestamptz(transaction.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(transaction.UpdatedAt),
		SettledAt:      optionalTimestamptz(transaction.SettledAt),
	})
	if err != nil {
		if isPgError(err, pgErrUniqueViolation) {
			return domain.ErrDuplicateTransaction
		}
		return err
	}

	return nil
}

// GetByID retrieves a transaction by id.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row, err := r.queries.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	return rowToTransaction(row), nil
}

// GetLiveByDailyMetricsID retrieves the non-failed transaction of a period.
func (r *TransactionRepository) GetLiveByDailyMetricsID(ctx context.Context, dailyMetricsID string) (*domain.Transaction, error) {
	row, err := r.queries.GetLiveTransactionByDailyMetricsID(ctx, dailyMetricsID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	return rowToTransaction(row), nil
}

// UpdateState moves a transaction to next if its state is one of from.
func (r *TransactionRepository) UpdateState(ctx context.Context, id string, from []domain.TransactionState, next domain.TransactionState, reason string, now time.Time) (*domain.Transaction, error) {
	var settledAt pgtype.Timestamptz
	if next == domain.TransactionStateSettled {
		settledAt = timeToPgTimestamptz(now)
	}

	row, err := r.queries.UpdateTransactionState(ctx, generated.UpdateTransactionStateParams{
		NextState:     string(next),
		FailureReason: reason,
		UpdatedAt:     timeToPgTimestamptz(now),
		SettledAt:     settledAt,
		ID:            id,
		FromStates:    statesToStrings(from),
	})
	if err == nil {
		return rowToTransaction(row), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// Nothing matched: either the id is unknown or the state guard failed.
	if _, err := r.queries.GetTransactionByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	return nil, domain.ErrInvalidTransactionState
}

// ListByAdvertiser lists an advertiser's transactions, newest first.
func (r *TransactionRepository) ListByAdvertiser(ctx context.Context, advertiserID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactionsByAdvertiser(ctx, generated.ListTransactionsByAdvertiserParams{
		AdvertiserID: advertiserID,
		Limit:        int32(limit),
		Offset:       int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToTransactions(rows), nil
}

// ListByStates lists transactions in one of states last updated before the cutoff.
func (r *TransactionRepository) ListByStates(ctx context.Context, states []domain.TransactionState, updatedBefore time.Time, limit int) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactionsByStates(ctx, generated.ListTransactionsByStatesParams{
		States:        statesToStrings(states),
		UpdatedBefore: timeToPgTimestamptz(updatedBefore),
		RowLimit:      int32(limit),
	})
	if err != nil {
		return nil, err
	}

	return rowsToTransactions(rows), nil
}

// ListLive pages through non-failed transactions, oldest first.
func (r *TransactionRepository) ListLive(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListLiveTransactions(ctx, generated.ListLiveTransactionsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToTransactions(rows), nil
}
