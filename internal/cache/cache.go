package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nikhilsomani/logsift/pkg/models"
)

// Cache is the hot-path caching interface for classification results,
// keyed by content fingerprint. Implementations must be safe for
// concurrent use. Results are stored without expiry; the backing store
// owns eviction policy, if any.
type Cache interface {
	GetResult(ctx context.Context, fingerprint string) (*models.ClassificationResult, bool, error)
	SetResult(ctx context.Context, fingerprint string, result models.ClassificationResult) error
	Ping(ctx context.Context) error
	IncrWithExpiry(ctx context.Context, key string, expiry time.Duration) (int64, error)
}

// RedisCache implements the Cache interface using go-redis/v9.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new RedisCache from a Redis URL.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) GetResult(ctx context.Context, fingerprint string) (*models.ClassificationResult, bool, error) {
	val, err := c.client.Get(ctx, ResultKey(fingerprint)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var result models.ClassificationResult
	if err := json.Unmarshal(val, &result); err != nil {
		return nil, false, err
	}
	return &result, true, nil
}

func (c *RedisCache) SetResult(ctx context.Context, fingerprint string, result models.ClassificationResult) error {
	val, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, ResultKey(fingerprint), val, 0).Err()
}

func (c *RedisCache) IncrWithExpiry(ctx context.Context, key string, expiry time.Duration) (int64, error) {
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, expiry)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
