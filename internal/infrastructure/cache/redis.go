package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/infrastructure/config"
)

// ErrCacheMiss is returned when the requested key is absent or expired.
var ErrCacheMiss = fmt.Errorf("cache miss")

// Cache wraps Redis with JSON serialization and a stale-copy tier. Every
// Set also writes a long-lived "stale:" twin of the key so callers can
// fall back to the last known value when the upstream feed is down.
type Cache struct {
	client   *redis.Client
	logger   *zap.Logger
	prefix   string
	staleTTL time.Duration
}

func NewCache(cfg config.RedisConfig, logger *zap.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{
		client:   client,
		logger:   logger,
		prefix:   "coinfolio:",
		staleTTL: 24 * time.Hour,
	}, nil
}

// Client exposes the underlying connection for health checks.
func (c *Cache) Client() *redis.Client {
	return c.client
}

// GetJSON reads key and unmarshals it into dest. Returns ErrCacheMiss
// when the key is absent.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("cache get failed: %w", err)
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return fmt.Errorf("cache unmarshal failed: %w", err)
	}
	return nil
}

// SetJSON writes value under key with ttl and refreshes the stale twin.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, c.prefix+key, data, ttl)
	pipe.Set(ctx, c.prefix+"stale:"+key, data, c.staleTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// GetStaleJSON reads the long-lived stale twin of key.
func (c *Cache) GetStaleJSON(ctx context.Context, key string, dest interface{}) error {
	val, err := c.client.Get(ctx, c.prefix+"stale:"+key).Result()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("cache get failed: %w", err)
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return fmt.Errorf("cache unmarshal failed: %w", err)
	}
	return nil
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}
	return c.client.Del(ctx, full...).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
