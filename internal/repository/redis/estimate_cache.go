package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"productReco/business/estimator"
	"productReco/pkg/logger"
	"productReco/pkg/metrics"
)

// Store is the subset of *redis.Client the cache uses.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// EstimateCache caches rating estimates in front of another estimator.
// Cache errors never fail a lookup; they fall through to the wrapped estimator.
type EstimateCache struct {
	store Store
	next  estimator.RatingEstimator
	ttl   time.Duration
}

func NewEstimateCache(store Store, next estimator.RatingEstimator, ttl time.Duration) *EstimateCache {
	return &EstimateCache{
		store: store,
		next:  next,
		ttl:   ttl,
	}
}

func estimateKey(userID, productID string) string {
	// key format: "reco:estimate:{user_id}:{product_id}"
	return fmt.Sprintf("reco:estimate:%s:%s", userID, productID)
}

func (c *EstimateCache) Estimate(ctx context.Context, userID, productID string) (float64, error) {
	key := estimateKey(userID, productID)

	val, err := c.store.Get(ctx, key).Result()
	switch {
	case err == nil:
		if est, perr := strconv.ParseFloat(val, 64); perr == nil {
			metrics.EstimateCache.WithLabelValues("hit").Inc()
			return est, nil
		}
		metrics.EstimateCache.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		metrics.EstimateCache.WithLabelValues("miss").Inc()
	default:
		metrics.EstimateCache.WithLabelValues("error").Inc()
		logger.Debug("estimate cache read failed", "key", key, "error", err)
	}

	est, err := c.next.Estimate(ctx, userID, productID)
	if err != nil {
		return 0, err
	}

	if err := c.store.Set(ctx, key, strconv.FormatFloat(est, 'g', -1, 64), c.ttl).Err(); err != nil {
		logger.Debug("estimate cache write failed", "key", key, "error", err)
	}

	return est, nil
}
