package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a [RedisCache].
type RedisOptions struct {
	Addr     string
	Password string
	DB       int

	// Prefix namespaces every key this cache writes; Clear only removes keys
	// under it. Defaults to "conceptmap:".
	Prefix string
}

// DefaultRedisPrefix is used when RedisOptions.Prefix is empty.
const DefaultRedisPrefix = "conceptmap:"

// RedisCache stores entries in redis. Transient network failures are retried
// with backoff; a miss is reported as (nil, false, nil).
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to redis and verifies the connection with PING.
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	if opts.Addr == "" {
		return nil, errors.New("redis address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	c := newRedisCache(client, opts.Prefix)
	if err := c.Ping(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return c, nil
}

func newRedisCache(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisCache{client: client, prefix: prefix}
}

// Ping checks connectivity.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", func() error {
		return c.client.Ping(ctx).Err()
	})
}

// Get implements [Cache].
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	var hit bool
	err := c.do(ctx, "get", func() error {
		b, err := c.client.Get(ctx, c.prefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		data, hit = b, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, hit, nil
}

// Set implements [Cache].
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.do(ctx, "set", func() error {
		return c.client.Set(ctx, c.prefix+key, data, ttl).Err()
	})
}

// Delete implements [Cache].
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.do(ctx, "del", func() error {
		return c.client.Del(ctx, c.prefix+key).Err()
	})
}

// Clear deletes every key under the cache prefix using SCAN, so it never
// blocks the server the way KEYS would.
func (c *RedisCache) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		var keys []string
		err := c.do(ctx, "scan", func() error {
			var err error
			keys, cursor, err = c.client.Scan(ctx, cursor, c.prefix+"*", 500).Result()
			return err
		})
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.do(ctx, "del", func() error {
				return c.client.Del(ctx, keys...).Err()
			}); err != nil {
				return err
			}
		}
		if cursor == 0 {
			return nil
		}
	}
}

// Close releases the connection pool.
func (c *RedisCache) Close() error {
	err := c.client.Close()
	if errors.Is(err, redis.ErrClosed) {
		return nil
	}
	return err
}

// do runs op with retries. Context errors and a closed client are returned
// as is; anything else is treated as a transient network failure.
func (c *RedisCache) do(ctx context.Context, name string, op func() error) error {
	err := RetryWithBackoff(ctx, func() error {
		err := op()
		switch {
		case err == nil:
			return nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		case errors.Is(err, redis.ErrClosed):
			return ErrClosed
		default:
			return Retryable(fmt.Errorf("%w: redis %s: %v", ErrNetwork, name, err))
		}
	})
	var re *RetryableError
	if errors.As(err, &re) {
		return re.Err
	}
	return err
}

var (
	_ Cache   = (*RedisCache)(nil)
	_ Clearer = (*RedisCache)(nil)
)
