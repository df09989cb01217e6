package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/iho/adbilling/internal/domain"
)

// TransactionRepository implements usecase.TransactionRepository. It enforces
// the one-live-transaction-per-period rule the way the Postgres partial unique
// index does.
type TransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction
	live         map[string]string
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		transactions: make(map[string]*domain.Transaction),
		live:         make(map[string]string),
	}
}

// Create inserts a new transaction.
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.live[transaction.DailyMetricsID]; ok && transaction.IsLive() {
		return domain.ErrDuplicateTransaction
	}

	stored := *transaction
	r.transactions[stored.ID] = &stored
	if stored.IsLive() {
		r.live[stored.DailyMetricsID] = stored.ID
	}

	return nil
}

// GetByID retrieves a transaction by id.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	transaction, ok := r.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}

	return clone(transaction), nil
}

// GetLiveByDailyMetricsID retrieves the non-failed transaction of a period.
func (r *TransactionRepository) GetLiveByDailyMetricsID(ctx context.Context, dailyMetricsID string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.live[dailyMetricsID]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}

	return clone(r.transactions[id]), nil
}

// UpdateState applies a conditional state transition.
func (r *TransactionRepository) UpdateState(ctx context.Context, id string, from []domain.TransactionState, next domain.TransactionState, reason string, now time.Time) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	transaction, ok := r.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}

	if !slices.Contains(from, transaction.State) {
		return nil, domain.ErrInvalidTransactionState
	}

	if err := transaction.Transition(next, reason, now); err != nil {
		return nil, err
	}

	if !transaction.IsLive() && r.live[transaction.DailyMetricsID] == transaction.ID {
		delete(r.live, transaction.DailyMetricsID)
	}

	return clone(transaction), nil
}

// ListByAdvertiser lists an advertiser's transactions, newest first.
func (r *TransactionRepository) ListByAdvertiser(ctx context.Context, advertiserID string, limit, offset int) ([]*domain.Transaction, error) {
	return r.list(func(t *domain.Transaction) bool {
		return t.AdvertiserID == advertiserID
	}, true, limit, offset), nil
}

// ListByStates lists transactions in one of states last updated before the cutoff, oldest first.
func (r *TransactionRepository) ListByStates(ctx context.Context, states []domain.TransactionState, updatedBefore time.Time, limit int) ([]*domain.Transaction, error) {
	return r.list(func(t *domain.Transaction) bool {
		return slices.Contains(states, t.State) && t.UpdatedAt.Before(updatedBefore)
	}, false, limit, 0), nil
}

// ListLive pages through non-failed transactions, oldest first.
func (r *TransactionRepository) ListLive(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	return r.list(func(t *domain.Transaction) bool {
		return t.IsLive()
	}, false, limit, offset), nil
}

func (r *TransactionRepository) list(match func(*domain.Transaction) bool, newestFirst bool, limit, offset int) []*domain.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.Transaction
	for _, t := range r.transactions {
		if match(t) {
			matched = append(matched, clone(t))
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			if newestFirst {
				return matched[i].ID > matched[j].ID
			}
			return matched[i].ID < matched[j].ID
		}
		if newestFirst {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return []*domain.Transaction{}
	}
	matched = matched[offset:]
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	return matched
}

func clone(t *domain.Transaction) *domain.Transaction {
	c := *t
	if t.SettledAt != nil {
		settledAt := *t.SettledAt
		c.SettledAt = &settledAt
	}
	return &c
}
