package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache keeps serialized feed results in Redis.
type RedisCache struct {
	client redis.Cmdable
}

func NewRedisCache(client redis.Cmdable) *RedisCache {
	if client == nil {
		panic("instagram: redis client required")
	}
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]Post, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("instagram: cache get: %w", err)
	}
	var posts []Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, false, fmt.Errorf("instagram: cache decode: %w", err)
	}
	return posts, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, posts []Post, ttl time.Duration) error {
	raw, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("instagram: cache encode: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("instagram: cache set: %w", err)
	}
	return nil
}

var _ Cache = (*RedisCache)(nil)
