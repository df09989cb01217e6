package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReconcileQueue implements usecase.ReconcileQueue as a sorted set scored by due time.
type ReconcileQueue struct {
	client *redis.Client
	key    string
}

// NewReconcileQueue creates a new ReconcileQueue.
func NewReconcileQueue(client *redis.Client) *ReconcileQueue {
	return &ReconcileQueue{
		client: client,
		key:    "billing:reconcile",
	}
}

// Enqueue adds or reschedules a transaction id.
func (q *ReconcileQueue) Enqueue(ctx context.Context, transactionID string, at time.Time) error {
	return q.client.ZAdd(ctx, q.key, redis.Z{
		Score:  float64(at.UnixMilli()),
		Member: transactionID,
	}).Err()
}

// Due returns ids scheduled at or before the given time, earliest first.
func (q *ReconcileQueue) Due(ctx context.Context, before time.Time, limit int) ([]string, error) {
	return q.client.ZRangeByScore(ctx, q.key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(before.UnixMilli(), 10),
		Count: int64(limit),
	}).Result()
}

// Remove drops a transaction id.
func (q *ReconcileQueue) Remove(ctx context.Context, transactionID string) error {
	return q.client.ZRem(ctx, q.key, transactionID).Err()
}
