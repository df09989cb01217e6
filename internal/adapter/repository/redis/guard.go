package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/adbilling/internal/domain"
)

// DefaultGuardTTL keeps settled periods protected long after their billing day.
const DefaultGuardTTL = 90 * 24 * time.Hour

const (
	fieldTransaction = "tx"
	fieldState       = "state"
	fieldReservedAt  = "reserved_at"
)

// KEYS[1] reservation hash, KEYS[2] pending index.
// ARGV: transaction id, reserved_at (ms), ttl (ms), daily metrics id.
var reserveScript = redis.NewScript(`
local cur = redis.call('HMGET', KEYS[1], 'tx', 'state')
if cur[1] then
	return {cur[1], cur[2]}
end
redis.call('HSET', KEYS[1], 'tx', ARGV[1], 'state', 'pending', 'reserved_at', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
redis.call('ZADD', KEYS[2], ARGV[2], ARGV[4])
return {ARGV[1], 'reserved'}
`)

// ARGV: transaction id, daily metrics id.
var settleScript = redis.NewScript(`
if redis.call('HGET', KEYS[1], 'tx') == ARGV[1] then
	redis.call('HSET', KEYS[1], 'state', 'settled')
	redis.call('ZREM', KEYS[2], ARGV[2])
	return 1
end
return 0
`)

// ARGV: transaction id, daily metrics id.
var releaseScript = redis.NewScript(`
if redis.call('HGET', KEYS[1], 'tx') == ARGV[1] then
	redis.call('DEL', KEYS[1])
	redis.call('ZREM', KEYS[2], ARGV[2])
	return 1
end
return 0
`)

// IdempotencyGuard implements usecase.IdempotencyGuard using Redis.
type IdempotencyGuard struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewIdempotencyGuard creates a new IdempotencyGuard. A non-positive ttl uses DefaultGuardTTL.
func NewIdempotencyGuard(client *redis.Client, ttl time.Duration) *IdempotencyGuard {
	if ttl <= 0 {
		ttl = DefaultGuardTTL
	}
	return &IdempotencyGuard{
		client: client,
		prefix: "billing:guard:",
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (g *IdempotencyGuard) key(dailyMetricsID string) string {
	return g.prefix + dailyMetricsID
}

func (g *IdempotencyGuard) pendingIndex() string {
	return g.prefix + "pending"
}

// CheckAndReserve atomically claims dailyMetricsID for transactionID unless it is already held.
func (g *IdempotencyGuard) CheckAndReserve(ctx context.Context, dailyMetricsID, transactionID string) (*domain.ReserveResult, error) {
	res, err := reserveScript.Run(ctx, g.client,
		[]string{g.key(dailyMetricsID), g.pendingIndex()},
		transactionID, g.now().UnixMilli(), g.ttl.Milliseconds(), dailyMetricsID,
	).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("reserve %s: %w", dailyMetricsID, err)
	}
	if len(res) != 2 {
		return nil, fmt.Errorf("reserve %s: unexpected reply %v", dailyMetricsID, res)
	}

	outcome := domain.ReserveAlreadyPending
	switch res[1] {
	case "reserved":
		outcome = domain.ReserveReserved
	case string(domain.ReservationSettled):
		outcome = domain.ReserveAlreadySettled
	}

	return &domain.ReserveResult{Outcome: outcome, TransactionID: res[0]}, nil
}

// MarkSettled flags the reservation as settled if transactionID still holds it.
func (g *IdempotencyGuard) MarkSettled(ctx context.Context, dailyMetricsID, transactionID string) error {
	return settleScript.Run(ctx, g.client,
		[]string{g.key(dailyMetricsID), g.pendingIndex()},
		transactionID, dailyMetricsID,
	).Err()
}

// Release frees the period if transactionID still holds it.
func (g *IdempotencyGuard) Release(ctx context.Context, dailyMetricsID, transactionID string) error {
	return releaseScript.Run(ctx, g.client,
		[]string{g.key(dailyMetricsID), g.pendingIndex()},
		transactionID, dailyMetricsID,
	).Err()
}

// Restore overwrites the reservation of a period, typically from the ledger.
func (g *IdempotencyGuard) Restore(ctx context.Context, reservation *domain.Reservation) error {
	key := g.key(reservation.DailyMetricsID)
	reservedAt := reservation.ReservedAt.UnixMilli()

	_, err := g.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			fieldTransaction, reservation.TransactionID,
			fieldState, string(reservation.State),
			fieldReservedAt, reservedAt,
		)
		pipe.PExpire(ctx, key, g.ttl)
		if reservation.State == domain.ReservationPending {
			pipe.ZAdd(ctx, g.pendingIndex(), redis.Z{Score: float64(reservedAt), Member: reservation.DailyMetricsID})
		} else {
			pipe.ZRem(ctx, g.pendingIndex(), reservation.DailyMetricsID)
		}
		return nil
	})
	return err
}

// ListPending returns pending reservations made before reservedBefore, oldest first.
func (g *IdempotencyGuard) ListPending(ctx context.Context, reservedBefore time.Time, limit int) ([]*domain.Reservation, error) {
	ids, err := g.client.ZRangeByScore(ctx, g.pendingIndex(), &redis.ZRangeBy{
		Min:   "-inf",
		Max:   "(" + strconv.FormatInt(reservedBefore.UnixMilli(), 10),
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = g.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, g.key(id))
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	reservations := make([]*domain.Reservation, 0, len(ids))
	for i, id := range ids {
		fields := cmds[i].Val()
		if len(fields) == 0 {
			// Hash expired; drop the stale index entry.
			g.client.ZRem(ctx, g.pendingIndex(), id)
			continue
		}
		if domain.ReservationState(fields[fieldState]) != domain.ReservationPending {
			continue
		}
		ms, err := strconv.ParseInt(fields[fieldReservedAt], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("reservation %s: bad reserved_at: %w", id, err)
		}
		reservations = append(reservations, &domain.Reservation{
			DailyMetricsID: id,
			TransactionID:  fields[fieldTransaction],
			State:          domain.ReservationPending,
			ReservedAt:     time.UnixMilli(ms).UTC(),
		})
	}

	return reservations, nil
}
