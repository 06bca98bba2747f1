// internal/cache/forecast_cache.go
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kiranakart/forecast/internal/config"
	"github.com/kiranakart/forecast/internal/domain"
)

const (
	forecastKeyPrefix  = "forecast:run"
	scanBatchSize      = 100
	defaultForecastTTL = 15 * time.Minute
)

// CachedForecast is the cache payload for one forecast run.
type CachedForecast struct {
	Rows    []domain.ForecastRow   `json:"rows"`
	Summary domain.ForecastSummary `json:"summary"`
}

// ForecastCache stores completed forecast runs keyed by the history state
// they were computed from. A run is reusable until new sales data arrives or
// the models are reloaded.
type ForecastCache interface {
	Get(ctx context.Context, lastDataDate string, numDays int) (*CachedForecast, bool, error)
	Set(ctx context.Context, lastDataDate string, numDays int, result *CachedForecast) error
	InvalidateAll(ctx context.Context) error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

// NewForecastCache returns a Redis-backed cache, or a noop cache when
// caching is disabled.
func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.ForecastTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultForecastTTL
	}

	return &redisForecastCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) Get(ctx context.Context, lastDataDate string, numDays int) (*CachedForecast, bool, error) {
	key := buildForecastKey(lastDataDate, numDays)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result CachedForecast
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode forecast cache: %w", err)
	}

	return &result, true, nil
}

func (c *redisForecastCache) Set(ctx context.Context, lastDataDate string, numDays int, result *CachedForecast) error {
	key := buildForecastKey(lastDataDate, numDays)
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode forecast cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisForecastCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, forecastKeyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return nil
}

func (n *noopForecastCache) Get(ctx context.Context, lastDataDate string, numDays int) (*CachedForecast, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) Set(ctx context.Context, lastDataDate string, numDays int, result *CachedForecast) error {
	return nil
}

func (n *noopForecastCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildForecastKey(lastDataDate string, numDays int) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s|%d", lastDataDate, numDays)))
	return fmt.Sprintf("%s:%s", forecastKeyPrefix, hex.EncodeToString(sum[:]))
}
