package ratelimit

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore is a Store backed by Redis, letting several bot processes
// sharing one credential converge on the same per-route limits instead of
// each guessing independently. It trades the in-process BucketStore's
// precision for a coarser INCR-and-expire scheme: each window is a Redis
// key that expires on its own, and a process is refused once it observes
// the remote count exhausted rather than racing to retry it.
type RedisStore struct {
	client *redis.Client
	prefix string

	local *BucketStore
}

// NewRedisStore wraps an existing *redis.Client. prefix namespaces the
// keys this store writes, so one Redis instance can back multiple bots.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		local:  NewBucketStore(),
	}
}

func (rs *RedisStore) key(bucket string) string {
	return rs.prefix + ":ratelimit:" + bucket
}

// TryAcquire increments the shared counter for key. If this acquisition
// pushed the count past defaultLimit, the increment is undone (this call
// never consumed a slot) and the caller is told to fail fast for the
// remainder of the shared window instead of every process racing to
// retry the same exhausted bucket at once.
func (rs *RedisStore) TryAcquire(ctx context.Context, key string, defaultLimit int32, defaultPeriod time.Duration) (bool, time.Duration) {
	redisKey := rs.key(key)

	count, err := rs.client.Incr(ctx, redisKey).Result()
	if err != nil {
		// Redis is unavailable: fall back to the local-only limiter
		// rather than letting a coordination outage stop all sends.
		return rs.local.TryAcquire(ctx, key, defaultLimit, defaultPeriod)
	}

	if count == 1 {
		rs.client.Expire(ctx, redisKey, defaultPeriod)
	}

	if int32(count) <= defaultLimit {
		return true, 0
	}

	rs.client.Decr(ctx, redisKey)

	ttl, err := rs.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl <= 0 {
		return true, 0
	}

	return false, ttl
}

// Update is a no-op for RedisStore: the shared window is driven purely by
// TryAcquire's INCR/EXPIRE pair, not by server response headers, since
// those headers are specific to whichever process happened to make the
// call.
func (rs *RedisStore) Update(key string, limit, remaining int32, resetAfter time.Duration) {}
