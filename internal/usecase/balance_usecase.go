package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iho/adbilling/internal/domain"
)

// DefaultMutationRetention is how long applied mutation keys are remembered.
const DefaultMutationRetention = 30 * 24 * time.Hour

// BalanceUseCase is the advertiser-side owner of balance accounts. It is the
// only component that changes a balance.
type BalanceUseCase struct {
	txManager   TransactionManager
	accountRepo BalanceAccountRepository
	retrier     Retrier
	metrics     Metrics
	locks       *keyedMutex
	retention   time.Duration
	now         func() time.Time
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(
	txManager TransactionManager,
	accountRepo BalanceAccountRepository,
	retrier Retrier,
	metrics Metrics,
	retention time.Duration,
) *BalanceUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if retention <= 0 {
		retention = DefaultMutationRetention
	}

	return &BalanceUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		retrier:     retrier,
		metrics:     metrics,
		locks:       newKeyedMutex(),
		retention:   retention,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// OpenAccount creates a balance account with an initial balance.
func (uc *BalanceUseCase) OpenAccount(ctx context.Context, advertiserID string, initialBalance int64) (*domain.BalanceAccount, error) {
	if err := domain.ValidateAdvertiserID(advertiserID); err != nil {
		return nil, err
	}
	if initialBalance < 0 {
		return nil, domain.ErrInvalidAmount
	}

	now := uc.now()
	account := &domain.BalanceAccount{
		AdvertiserID: advertiserID,
		Balance:      initialBalance,
		Version:      0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount returns an advertiser's balance account.
func (uc *BalanceUseCase) GetAccount(ctx context.Context, advertiserID string) (*domain.BalanceAccount, error) {
	return uc.accountRepo.GetByID(ctx, advertiserID)
}

// Exists reports whether the advertiser has a balance account.
func (uc *BalanceUseCase) Exists(ctx context.Context, advertiserID string) (bool, error) {
	_, err := uc.accountRepo.GetByID(ctx, advertiserID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// Charge adds funds to an account at most once per idempotency key.
func (uc *BalanceUseCase) Charge(ctx context.Context, req domain.MutationRequest) (*domain.MutationResult, error) {
	req.Kind = domain.TransactionKindCharge
	return uc.Apply(ctx, req)
}

// Deduct removes funds from an account at most once per idempotency key.
// The balance never goes below zero.
func (uc *BalanceUseCase) Deduct(ctx context.Context, req domain.MutationRequest) (*domain.MutationResult, error) {
	req.Kind = domain.TransactionKindDeduct
	return uc.Apply(ctx, req)
}

// Apply performs a charge or deduct. Business refusals are returned as a
// MutationRejected result. A non-nil error means nothing was applied, either
// because storage failed or because ctx ended while waiting for the account.
func (uc *BalanceUseCase) Apply(ctx context.Context, req domain.MutationRequest) (*domain.MutationResult, error) {
	if err := domain.ValidateMutationRequest(req); err != nil {
		return nil, err
	}

	unlock, err := uc.locks.Lock(ctx, req.AdvertiserID)
	if err != nil {
		return nil, fmt.Errorf("wait for account %s: %w", req.AdvertiserID, err)
	}
	defer unlock()

	var result *domain.MutationResult

	err = uc.retrier.Retry(ctx, func() error {
		var err error
		result, err = uc.applyOnce(ctx, req)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("apply %s for %s: %w", req.Kind, req.AdvertiserID, err)
	}

	uc.metrics.ObserveBalanceMutation(req.Kind, result.Outcome)

	return result, nil
}

func (uc *BalanceUseCase) applyOnce(ctx context.Context, req domain.MutationRequest) (*domain.MutationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, req.AdvertiserID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return rejected(domain.ErrAccountNotFound, 0), nil
		}
		return nil, err
	}

	existing, err := uc.accountRepo.GetMutation(ctx, tx, req.AdvertiserID, req.IdempotencyKey)
	if err != nil && !errors.Is(err, domain.ErrMutationNotFound) {
		return nil, err
	}
	if existing != nil {
		return &domain.MutationResult{
			Outcome: domain.MutationAlreadyApplied,
			Balance: account.Balance,
		}, nil
	}

	newBalance, err := account.Apply(req.Kind, req.Amount)
	if err != nil {
		return rejected(err, account.Balance), nil
	}

	now := uc.now()
	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.AdvertiserID, newBalance, account.Version, now); err != nil {
		return nil, err
	}

	err = uc.accountRepo.CreateMutation(ctx, tx, &domain.BalanceMutation{
		AdvertiserID:   req.AdvertiserID,
		IdempotencyKey: req.IdempotencyKey,
		Kind:           req.Kind,
		Amount:         req.Amount,
		BalanceAfter:   newBalance,
		AppliedAt:      now,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &domain.MutationResult{
		Outcome: domain.MutationApplied,
		Balance: newBalance,
	}, nil
}

func rejected(reason error, balance int64) *domain.MutationResult {
	return &domain.MutationResult{
		Outcome: domain.MutationRejected,
		Reason:  reason,
		Balance: balance,
	}
}

// Lookup reports whether a mutation with the idempotency key has been applied.
func (uc *BalanceUseCase) Lookup(ctx context.Context, advertiserID, idempotencyKey string) (*domain.MutationResult, error) {
	mutation, err := uc.accountRepo.FindMutation(ctx, advertiserID, idempotencyKey)
	if err != nil {
		if errors.Is(err, domain.ErrMutationNotFound) {
			return &domain.MutationResult{Outcome: domain.MutationNotFound}, nil
		}
		return nil, err
	}

	return &domain.MutationResult{
		Outcome: domain.MutationApplied,
		Balance: mutation.BalanceAfter,
	}, nil
}

// GetMutation returns the recorded mutation for an idempotency key.
func (uc *BalanceUseCase) GetMutation(ctx context.Context, advertiserID, idempotencyKey string) (*domain.BalanceMutation, error) {
	return uc.accountRepo.FindMutation(ctx, advertiserID, idempotencyKey)
}

// PurgeExpiredMutations forgets dedupe records older than the retention window.
func (uc *BalanceUseCase) PurgeExpiredMutations(ctx context.Context, now time.Time) (int64, error) {
	return uc.accountRepo.DeleteMutationsBefore(ctx, now.Add(-uc.retention))
}

// Retention returns the dedupe retention window.
func (uc *BalanceUseCase) Retention() time.Duration {
	return uc.retention
}
