package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/adbilling/internal/domain"
)

func TestIdempotencyGuardCheckAndReserve(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	guard := NewIdempotencyGuard(client, time.Hour)
	ctx := context.Background()

	res, err := guard.CheckAndReserve(ctx, "dm-1", "tx-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ReserveReserved, res.Outcome)
	assert.Equal(t, "tx-1", res.TransactionID)

	res, err = guard.CheckAndReserve(ctx, "dm-1", "tx-2")
	require.NoError(t, err)
	assert.Equal(t, domain.ReserveAlreadyPending, res.Outcome)
	assert.Equal(t, "tx-1", res.TransactionID)

	require.NoError(t, guard.MarkSettled(ctx, "dm-1", "tx-1"))

	res, err = guard.CheckAndReserve(ctx, "dm-1", "tx-3")
	require.NoError(t, err)
	assert.Equal(t, domain.ReserveAlreadySettled, res.Outcome)
	assert.Equal(t, "tx-1", res.TransactionID)

	assert.True(t, mr.Exists(guard.key("dm-1")))
	ttl := mr.TTL(guard.key("dm-1"))
	assert.True(t, ttl > 0 && ttl <= time.Hour, "unexpected ttl %s", ttl)
}

func TestIdempotencyGuardReleaseOnlyByHolder(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	guard := NewIdempotencyGuard(client, 0)
	ctx := context.Background()

	_, err := guard.CheckAndReserve(ctx, "dm-1", "tx-1")
	require.NoError(t, err)

	require.NoError(t, guard.Release(ctx, "dm-1", "tx-other"))
	res, err := guard.CheckAndReserve(ctx, "dm-1", "tx-2")
	require.NoError(t, err)
	assert.Equal(t, domain.ReserveAlreadyPending, res.Outcome)

	require.NoError(t, guard.Release(ctx, "dm-1", "tx-1"))
	res, err = guard.CheckAndReserve(ctx, "dm-1", "tx-2")
	require.NoError(t, err)
	assert.Equal(t, domain.ReserveReserved, res.Outcome)
	assert.Equal(t, "tx-2", res.TransactionID)
}

func TestIdempotencyGuardListPending(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	guard := NewIdempotencyGuard(client, time.Hour)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"dm-a", "dm-b", "dm-c"} {
		at := base.Add(time.Duration(i) * time.Minute)
		guard.now = func() time.Time { return at }
		_, err := guard.CheckAndReserve(ctx, id, "tx-"+id)
		require.NoError(t, err)
	}
	require.NoError(t, guard.MarkSettled(ctx, "dm-b", "tx-dm-b"))

	pending, err := guard.ListPending(ctx, base.Add(10*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "dm-a", pending[0].DailyMetricsID)
	assert.Equal(t, "tx-dm-a", pending[0].TransactionID)
	assert.True(t, pending[0].ReservedAt.Equal(base))
	assert.Equal(t, "dm-c", pending[1].DailyMetricsID)

	pending, err = guard.ListPending(ctx, base.Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "dm-a", pending[0].DailyMetricsID)

	mr.Del(guard.key("dm-a"))
	pending, err = guard.ListPending(ctx, base.Add(10*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "dm-c", pending[0].DailyMetricsID)
}

func TestIdempotencyGuardRestore(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	guard := NewIdempotencyGuard(client, time.Hour)
	ctx := context.Background()
	reservedAt := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, guard.Restore(ctx, &domain.Reservation{
		DailyMetricsID: "dm-1",
		TransactionID:  "tx-1",
		State:          domain.ReservationSettled,
		ReservedAt:     reservedAt,
	}))

	res, err := guard.CheckAndReserve(ctx, "dm-1", "tx-2")
	require.NoError(t, err)
	assert.Equal(t, domain.ReserveAlreadySettled, res.Outcome)
	assert.Equal(t, "tx-1", res.TransactionID)

	pending, err := guard.ListPending(ctx, reservedAt.Add(time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
