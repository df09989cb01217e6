package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/adbilling/internal/domain"
	"github.com/iho/adbilling/internal/infrastructure/postgres/generated"
	"github.com/iho/adbilling/internal/usecase"
)

// BalanceAccountRepository implements usecase.BalanceAccountRepository.
type BalanceAccountRepository struct {
	queries *generated.Queries
}

// NewBalanceAccountRepository creates a new BalanceAccountRepository.
func NewBalanceAccountRepository(pool *pgxpool.Pool) *BalanceAccountRepository {
	return newBalanceAccountRepository(pool)
}

func newBalanceAccountRepository(db generated.DBTX) *BalanceAccountRepository {
	return &BalanceAccountRepository{queries: generated.New(db)}
}

// Create inserts a new account.
func (r *BalanceAccountRepository) Create(ctx context.Context, account *domain.BalanceAccount) error {
	err := r.queries.CreateBalanceAccount(ctx, generated.CreateBalanceAccountParams{
		AdvertiserID: account.AdvertiserID,
		Balance:      account.Balance,
		Version:      account.Version,
		CreatedAt:    timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:    timeToPgTimestamptz(account.UpdatedAt),
	})
	if err != nil {
		if isPgError(err, pgErrUniqueViolation) {
			return domain.ErrAccountAlreadyExists
		}
		return err
	}

	return nil
}

// GetByID retrieves an account by advertiser id.
func (r *BalanceAccountRepository) GetByID(ctx context.Context, advertiserID string) (*domain.BalanceAccount, error) {
	row, err := r.queries.GetBalanceAccount(ctx, advertiserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	return rowToBalanceAccount(row), nil
}

// GetByIDForUpdate retrieves an account with a FOR UPDATE lock.
func (r *BalanceAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, advertiserID string) (*domain.BalanceAccount, error) {
	queries, err := queriesIn(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.GetBalanceAccountForUpdate(ctx, advertiserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	return rowToBalanceAccount(row), nil
}

// UpdateBalance writes a new balance if the account version still matches.
func (r *BalanceAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, advertiserID string, balance, expectedVersion int64, updatedAt time.Time) error {
	queries, err := queriesIn(tx)
	if err != nil {
		return err
	}

	affected, err := queries.UpdateBalanceAccount(ctx, generated.UpdateBalanceAccountParams{
		AdvertiserID: advertiserID,
		Balance:      balance,
		Version:      expectedVersion,
		UpdatedAt:    timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrVersionConflict
	}

	return nil
}

// GetMutation returns the dedupe record for a key inside a transaction.
func (r *BalanceAccountRepository) GetMutation(ctx context.Context, tx usecase.Transaction, advertiserID, idempotencyKey string) (*domain.BalanceMutation, error) {
	queries, err := queriesIn(tx)
	if err != nil {
		return nil, err
	}

	return getMutation(ctx, queries, advertiserID, idempotencyKey)
}

// FindMutation returns the dedupe record for a key.
func (r *BalanceAccountRepository) FindMutation(ctx context.Context, advertiserID, idempotencyKey string) (*domain.BalanceMutation, error) {
	return getMutation(ctx, r.queries, advertiserID, idempotencyKey)
}

func getMutation(ctx context.Context, queries *generated.Queries, advertiserID, idempotencyKey string) (*domain.BalanceMutation, error) {
	row, err := queries.GetBalanceMutation(ctx, generated.GetBalanceMutationParams{
		AdvertiserID:   advertiserID,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMutationNotFound
		}
		return nil, err
	}

	return rowToBalanceMutation(row), nil
}

// CreateMutation records a dedupe entry in the same transaction as the balance update.
func (r *BalanceAccountRepository) CreateMutation(ctx context.Context, tx usecase.Transaction, mutation *domain.BalanceMutation) error {
	queries, err := queriesIn(tx)
	if err != nil {
		return err
	}

	err = queries.CreateBalanceMutation(ctx, generated.CreateBalanceMutationParams{
		AdvertiserID:   mutation.AdvertiserID,
		IdempotencyKey: mutation.IdempotencyKey,
		Kind:           string(mutation.Kind),
		Amount:         mutation.Amount,
		BalanceAfter:   mutation.BalanceAfter,
		AppliedAt:      timeToPgTimestamptz(mutation.AppliedAt),
	})
	if err != nil && isPgError(err, pgErrForeignKeyViolation) {
		return domain.ErrAccountNotFound
	}

	return err
}

// DeleteMutationsBefore drops dedupe records applied before the cutoff.
func (r *BalanceAccountRepository) DeleteMutationsBefore(ctx context.Context, before time.Time) (int64, error) {
	return r.queries.DeleteBalanceMutationsBefore(ctx, timeToPgTimestamptz(before))
}
