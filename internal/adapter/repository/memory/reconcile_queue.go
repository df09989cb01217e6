package memory

import (
	"context"
	"sort"
	"sync"
	"time"
)

// ReconcileQueue implements usecase.ReconcileQueue in process memory.
type ReconcileQueue struct {
	mu    sync.Mutex
	items map[string]time.Time
}

// NewReconcileQueue creates a new ReconcileQueue.
func NewReconcileQueue() *ReconcileQueue {
	return &ReconcileQueue{items: make(map[string]time.Time)}
}

// Enqueue adds or reschedules a transaction id.
func (q *ReconcileQueue) Enqueue(ctx context.Context, transactionID string, at time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items[transactionID] = at
	return nil
}

// Due returns ids scheduled at or before the given time, earliest first.
func (q *ReconcileQueue) Due(ctx context.Context, before time.Time, limit int) ([]string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	type entry struct {
		id string
		at time.Time
	}
	var due []entry
	for id, at := range q.items {
		if !at.After(before) {
			due = append(due, entry{id: id, at: at})
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].id < due[j].id
		}
		return due[i].at.Before(due[j].at)
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}

	ids := make([]string, 0, len(due))
	for _, e := range due {
		ids = append(ids, e.id)
	}
	return ids, nil
}

// Remove drops a transaction id.
func (q *ReconcileQueue) Remove(ctx context.Context, transactionID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.items, transactionID)
	return nil
}

// Len returns the number of queued ids.
func (q *ReconcileQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
