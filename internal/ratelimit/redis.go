package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// checkAndIncrementScript returns 1 when the request is counted and 0 when
// the window is already full. The key expires with the window, which is
// what resets the count.
var checkAndIncrementScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current >= tonumber(ARGV[2]) then
	return 0
end
current = redis.call('INCR', KEYS[1])
if current == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return 1
`)

// RedisStore keeps windows in Redis so every API instance shares one count.
type RedisStore struct {
	redis  redis.Scripter
	tracer trace.Tracer
}

// NewRedisStore creates a store over the given client.
func NewRedisStore(client redis.Scripter) *RedisStore {
	if client == nil {
		panic("ratelimit: redis client required")
	}
	return &RedisStore{
		redis:  client,
		tracer: otel.Tracer("eks.internal.ratelimit"),
	}
}

// CheckAndIncrement implements Store.
func (s *RedisStore) CheckAndIncrement(ctx context.Context, key string, length time.Duration, max int) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "ratelimit.redis.check_and_increment")
	defer span.End()
	span.SetAttributes(attribute.Int("ratelimit.max", max))

	windowMS := length.Milliseconds()
	if windowMS < 1 {
		windowMS = 1
	}
	res, err := checkAndIncrementScript.Run(ctx, s.redis, []string{key}, windowMS, max).Int()
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("ratelimit: redis script: %w", err)
	}
	allowed := res == 1
	span.SetAttributes(attribute.Bool("ratelimit.allowed", allowed))
	return allowed, nil
}
