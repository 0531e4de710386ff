package redis

import (
	"context"
	"encoding/json"
	"time"

	"habitio-service/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "habitio:stats:"

// StatsCache caches computed completion rates in Redis with a short TTL.
// Cache misses and Redis failures both fall through to recomputation, so the
// cache can never make a read fail.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

// NewStatsCache creates a Redis-backed stats cache. Returns nil when no
// address is configured, which disables caching.
func NewStatsCache(cfg *config.RedisConfig, log *logrus.Logger) *StatsCache {
	if cfg.Addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ttl := cfg.StatsTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &StatsCache{client: client, ttl: ttl, log: log}
}

func (c *StatsCache) GetRates(ctx context.Context, key string) ([]float64, bool) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.WithError(err).Warn("stats cache read failed")
		}
		return nil, false
	}

	var rates []float64
	if err := json.Unmarshal(data, &rates); err != nil {
		return nil, false
	}
	return rates, true
}

func (c *StatsCache) SetRates(ctx context.Context, key string, rates []float64) {
	data, err := json.Marshal(rates)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		c.log.WithError(err).Warn("stats cache write failed")
	}
}

// Invalidate drops all cached rates. Called after toggles and habit saves.
func (c *StatsCache) Invalidate(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		c.client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.WithError(err).Warn("stats cache invalidation failed")
	}
}

// Close closes the Redis client
func (c *StatsCache) Close() error {
	return c.client.Close()
}
