package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/adbilling/internal/domain"
	"github.com/iho/adbilling/internal/usecase"
)

// BalanceAccountRepository implements usecase.BalanceAccountRepository.
type BalanceAccountRepository struct {
	mu        sync.RWMutex
	accounts  map[string]*domain.BalanceAccount
	mutations map[string]map[string]*domain.BalanceMutation
}

// NewBalanceAccountRepository creates a new BalanceAccountRepository.
func NewBalanceAccountRepository() *BalanceAccountRepository {
	return &BalanceAccountRepository{
		accounts:  make(map[string]*domain.BalanceAccount),
		mutations: make(map[string]map[string]*domain.BalanceMutation),
	}
}

// Create stores a new account.
func (r *BalanceAccountRepository) Create(ctx context.Context, account *domain.BalanceAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.AdvertiserID]; ok {
		return domain.ErrAccountAlreadyExists
	}

	stored := *account
	r.accounts[account.AdvertiserID] = &stored

	return nil
}

// GetByID retrieves an account by advertiser id.
func (r *BalanceAccountRepository) GetByID(ctx context.Context, advertiserID string) (*domain.BalanceAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[advertiserID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	found := *account
	return &found, nil
}

// GetByIDForUpdate retrieves an account. Callers serialize per advertiser, so no row lock is taken.
func (r *BalanceAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, advertiserID string) (*domain.BalanceAccount, error) {
	return r.GetByID(ctx, advertiserID)
}

// UpdateBalance stages a balance change guarded by the account version.
func (r *BalanceAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, advertiserID string, balance, expectedVersion int64, updatedAt time.Time) error {
	memTx, err := asTx(tx)
	if err != nil {
		return err
	}

	return memTx.stage(&r.mu,
		func() error {
			account, ok := r.accounts[advertiserID]
			if !ok {
				return domain.ErrAccountNotFound
			}
			if account.Version != expectedVersion {
				return domain.ErrVersionConflict
			}
			return nil
		},
		func() {
			account := r.accounts[advertiserID]
			account.Balance = balance
			account.Version++
			account.UpdatedAt = updatedAt
		},
	)
}

// GetMutation returns the dedupe record for a key.
func (r *BalanceAccountRepository) GetMutation(ctx context.Context, tx usecase.Transaction, advertiserID, idempotencyKey string) (*domain.BalanceMutation, error) {
	return r.FindMutation(ctx, advertiserID, idempotencyKey)
}

// FindMutation returns the dedupe record for a key outside a transaction.
func (r *BalanceAccountRepository) FindMutation(ctx context.Context, advertiserID, idempotencyKey string) (*domain.BalanceMutation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mutation, ok := r.mutations[advertiserID][idempotencyKey]
	if !ok {
		return nil, domain.ErrMutationNotFound
	}

	found := *mutation
	return &found, nil
}

// CreateMutation stages a dedupe record.
func (r *BalanceAccountRepository) CreateMutation(ctx context.Context, tx usecase.Transaction, mutation *domain.BalanceMutation) error {
	memTx, err := asTx(tx)
	if err != nil {
		return err
	}

	stored := *mutation

	return memTx.stage(&r.mu,
		func() error {
			if _, ok := r.mutations[stored.AdvertiserID][stored.IdempotencyKey]; ok {
				return fmt.Errorf("mutation %s already recorded", stored.IdempotencyKey)
			}
			return nil
		},
		func() {
			keys, ok := r.mutations[stored.AdvertiserID]
			if !ok {
				keys = make(map[string]*domain.BalanceMutation)
				r.mutations[stored.AdvertiserID] = keys
			}
			keys[stored.IdempotencyKey] = &stored
		},
	)
}

// DeleteMutationsBefore drops dedupe records applied before the cutoff.
func (r *BalanceAccountRepository) DeleteMutationsBefore(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for advertiserID, keys := range r.mutations {
		for key, mutation := range keys {
			if mutation.AppliedAt.Before(before) {
				delete(keys, key)
				deleted++
			}
		}
		if len(keys) == 0 {
			delete(r.mutations, advertiserID)
		}
	}

	return deleted, nil
}

func asTx(tx usecase.Transaction) (*Tx, error) {
	memTx, ok := tx.(*Tx)
	if !ok {
		return nil, fmt.Errorf("memory: unexpected transaction type %T", tx)
	}
	return memTx, nil
}
