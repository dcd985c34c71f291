package sessionbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
	"github.com/redis/go-redis/v9"
)

// RedisCache stores values in redis so every host of the site sees the
// same tokens. Values other than []byte and string are stored as JSON.
type RedisCache struct {
	client redis.UniversalClient
}

var (
	_ interfaces.CacheProvider = (*RedisCache)(nil)
	_ interfaces.TakingCache   = (*RedisCache)(nil)
)

// NewRedisCache wraps an existing client.
func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

// NewRedisCacheFromURL connects using a redis:// URL.
func NewRedisCacheFromURL(url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("sessionbridge: parse redis url: %w", err)
	}
	return NewRedisCache(redis.NewClient(opts)), nil
}

// Ping checks the connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Get(ctx context.Context, key string) (any, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Take reads and deletes key with GETDEL, so only one caller across all
// processes sees the value.
func (c *RedisCache) Take(ctx context.Context, key string) (any, error) {
	data, err := c.client.GetDel(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if value == nil {
		return c.Delete(ctx, key)
	}
	var data []byte
	switch typed := value.(type) {
	case []byte:
		data = typed
	case string:
		data = []byte(typed)
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("sessionbridge: encode cache value: %w", err)
		}
		data = encoded
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
