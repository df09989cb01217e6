package postgres

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/adbilling/internal/domain"
	"github.com/iho/adbilling/internal/infrastructure/postgres/generated"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func optionalTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return timeToPgTimestamptz(*t)
}

func statesToStrings(states []domain.TransactionState) []string {
	out := make([]string, 0, len(states))
	for _, s := range states {
		out = append(out, string(s))
	}
	return out
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	t := &domain.Transaction{
		ID:             row.ID,
		DailyMetricsID: row.DailyMetricsID,
		AdvertiserID:   row.AdvertiserID,
		Amount:         row.Amount,
		Kind:           domain.TransactionKind(row.Kind),
		State:          domain.TransactionState(row.State),
		FailureReason:  row.FailureReason,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
	if row.SettledAt.Valid {
		settledAt := row.SettledAt.Time
		t.SettledAt = &settledAt
	}
	return t
}

func rowsToTransactions(rows []generated.Transaction) []*domain.Transaction {
	transactions := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, rowToTransaction(row))
	}
	return transactions
}

func rowToBalanceAccount(row generated.BalanceAccount) *domain.BalanceAccount {
	return &domain.BalanceAccount{
		AdvertiserID: row.AdvertiserID,
		Balance:      row.Balance,
		Version:      row.Version,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}

func rowToBalanceMutation(row generated.BalanceMutation) *domain.BalanceMutation {
	return &domain.BalanceMutation{
		AdvertiserID:   row.AdvertiserID,
		IdempotencyKey: row.IdempotencyKey,
		Kind:           domain.TransactionKind(row.Kind),
		Amount:         row.Amount,
		BalanceAfter:   row.BalanceAfter,
		AppliedAt:      row.AppliedAt.Time,
	}
}
