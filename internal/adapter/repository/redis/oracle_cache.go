package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/adbilling/internal/usecase"
)

// DefaultExistenceTTL bounds how long a positive existence answer is trusted.
const DefaultExistenceTTL = time.Minute

// CachingOracle remembers positive existence answers of another oracle.
// Negative answers and errors are never cached so a newly created
// advertiser becomes billable on the next attempt.
type CachingOracle struct {
	inner  usecase.ExistenceOracle
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachingOracle creates a new CachingOracle.
func NewCachingOracle(inner usecase.ExistenceOracle, client *redis.Client, ttl time.Duration, logger zerolog.Logger) *CachingOracle {
	if ttl <= 0 {
		ttl = DefaultExistenceTTL
	}
	return &CachingOracle{
		inner:  inner,
		client: client,
		prefix: "billing:advertiser:",
		ttl:    ttl,
		logger: logger,
	}
}

// Exists reports whether the advertiser exists, consulting the cache first.
func (o *CachingOracle) Exists(ctx context.Context, advertiserID string) (bool, error) {
	key := o.prefix + advertiserID

	n, err := o.client.Exists(ctx, key).Result()
	if err == nil && n > 0 {
		return true, nil
	}
	if err != nil {
		o.logger.Warn().Err(err).Str("advertiser_id", advertiserID).Msg("existence cache unavailable")
	}

	exists, err := o.inner.Exists(ctx, advertiserID)
	if err != nil || !exists {
		return exists, err
	}

	if err := o.client.Set(ctx, key, "1", o.ttl).Err(); err != nil {
		o.logger.Warn().Err(err).Str("advertiser_id", advertiserID).Msg("failed to cache existence")
	}

	return true, nil
}
