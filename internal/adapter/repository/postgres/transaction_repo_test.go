package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/adbilling/internal/domain"
)

var transactionColumns = []string{
	"id", "daily_metrics_id", "advertiser_id", "amount", "kind", "state",
	"failure_reason", "created_at", "updated_at", "settled_at",
}

func transactionRow(mock pgxmock.PgxPoolIface, id, state string, settledAt pgtype.Timestamptz) *pgxmock.Rows {
	now := timeToPgTimestamptz(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	return mock.NewRows(transactionColumns).
		AddRow(id, "dm-1", "adv-1", int64(500), "DEDUCT", state, "", now, now, settledAt)
}

func newTransaction() *domain.Transaction {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Transaction{
		ID:             "tx-1",
		DailyMetricsID: "dm-1",
		AdvertiserID:   "adv-1",
		Amount:         500,
		Kind:           domain.TransactionKindDeduct,
		State:          domain.TransactionStatePending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestTransactionRepositoryCreate(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs("tx-1", "dm-1", "adv-1", int64(500), "DEDUCT", "PENDING", "",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgtype.Timestamptz{}).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := newTransactionRepository(mock)
	require.NoError(t, repo.Create(context.Background(), newTransaction()))
	assertExpectations(t, mock)
}

func TestTransactionRepositoryCreateDuplicatePeriod(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectExec("INSERT INTO transactions").
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "transactions_live_period_idx"})

	repo := newTransactionRepository(mock)
	err := repo.Create(context.Background(), newTransaction())
	assert.ErrorIs(t, err, domain.ErrDuplicateTransaction)
}

func TestTransactionRepositoryGetByID(t *testing.T) {
	mock := newMockPool(t)
	settled := timeToPgTimestamptz(time.Date(2026, 3, 1, 12, 1, 0, 0, time.UTC))
	mock.ExpectQuery("SELECT (.+) FROM transactions WHERE id").
		WithArgs("tx-1").
		WillReturnRows(transactionRow(mock, "tx-1", "SETTLED", settled))

	repo := newTransactionRepository(mock)
	got, err := repo.GetByID(context.Background(), "tx-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStateSettled, got.State)
	assert.Equal(t, domain.TransactionKindDeduct, got.Kind)
	require.NotNil(t, got.SettledAt)
	assert.True(t, got.SettledAt.Equal(settled.Time))
}

func TestTransactionRepositoryGetByIDNotFound(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("SELECT (.+) FROM transactions WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	repo := newTransactionRepository(mock)
	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestTransactionRepositoryGetLiveByDailyMetricsID(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("WHERE daily_metrics_id").
		WithArgs("dm-1").
		WillReturnRows(transactionRow(mock, "tx-1", "PENDING", pgtype.Timestamptz{}))

	repo := newTransactionRepository(mock)
	got, err := repo.GetLiveByDailyMetricsID(context.Background(), "dm-1")
	require.NoError(t, err)
	assert.Equal(t, "tx-1", got.ID)
	assert.Nil(t, got.SettledAt)
}

func TestTransactionRepositoryUpdateState(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC)

	t.Run("settles from allowed source", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery("UPDATE transactions").
			WillReturnRows(transactionRow(mock, "tx-1", "SETTLED", timeToPgTimestamptz(now)))

		repo := newTransactionRepository(mock)
		got, err := repo.UpdateState(context.Background(), "tx-1",
			domain.SourceStates(domain.TransactionStateSettled), domain.TransactionStateSettled, "", now)
		require.NoError(t, err)
		assert.Equal(t, domain.TransactionStateSettled, got.State)
		assertExpectations(t, mock)
	})

	t.Run("unknown id", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery("UPDATE transactions").WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery("SELECT (.+) FROM transactions WHERE id").
			WithArgs("tx-1").
			WillReturnError(pgx.ErrNoRows)

		repo := newTransactionRepository(mock)
		_, err := repo.UpdateState(context.Background(), "tx-1",
			[]domain.TransactionState{domain.TransactionStatePending}, domain.TransactionStateReconciling, "", now)
		assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	})

	t.Run("state guard not satisfied", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery("UPDATE transactions").WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery("SELECT (.+) FROM transactions WHERE id").
			WithArgs("tx-1").
			WillReturnRows(transactionRow(mock, "tx-1", "FAILED", pgtype.Timestamptz{}))

		repo := newTransactionRepository(mock)
		_, err := repo.UpdateState(context.Background(), "tx-1",
			[]domain.TransactionState{domain.TransactionStatePending}, domain.TransactionStateReconciling, "", now)
		assert.ErrorIs(t, err, domain.ErrInvalidTransactionState)
	})

	t.Run("storage error", func(t *testing.T) {
		mock := newMockPool(t)
		boom := errors.New("connection reset")
		mock.ExpectQuery("UPDATE transactions").WillReturnError(boom)

		repo := newTransactionRepository(mock)
		_, err := repo.UpdateState(context.Background(), "tx-1",
			[]domain.TransactionState{domain.TransactionStatePending}, domain.TransactionStateFailed, "rejected", now)
		assert.ErrorIs(t, err, boom)
	})
}

func TestTransactionRepositoryListByStates(t *testing.T) {
	mock := newMockPool(t)
	rows := mock.NewRows(transactionColumns)
	now := timeToPgTimestamptz(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	rows.AddRow("tx-1", "dm-1", "adv-1", int64(100), "CHARGE", "RECONCILING", "", now, now, pgtype.Timestamptz{})
	rows.AddRow("tx-2", "dm-2", "adv-1", int64(200), "DEDUCT", "PENDING", "", now, now, pgtype.Timestamptz{})
	mock.ExpectQuery("FROM transactions").WillReturnRows(rows)

	repo := newTransactionRepository(mock)
	got, err := repo.ListByStates(context.Background(),
		[]domain.TransactionState{domain.TransactionStateReconciling, domain.TransactionStatePending},
		time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.TransactionStateReconciling, got[0].State)
	assert.Equal(t, domain.TransactionKindCharge, got[0].Kind)
}
