package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Store manages a named collection of per-route limiters. The REST
// dispatcher looks a bucket up by a key built from the HTTP method and
// route template (Discord's bucket header is not used), checks it before
// sending, and feeds the response headers back in afterward.
type Store interface {
	// TryAcquire claims a slot for key without blocking, creating the
	// bucket with the given defaults if it doesn't exist yet. It reports
	// whether the slot was granted and, if not, how long remains until
	// the window resets, so the caller can fail fast with that duration
	// rather than stall waiting it out.
	TryAcquire(ctx context.Context, key string, defaultLimit int32, defaultPeriod time.Duration) (ok bool, resetIn time.Duration)

	// Update folds a server-advertised limit/remaining/resetAfter triple
	// into the bucket named by key.
	Update(key string, limit, remaining int32, resetAfter time.Duration)
}

// BucketStore is the in-process Store implementation: one DurationLimiter
// per bucket key, guarded by a single RWMutex over the map.
type BucketStore struct {
	buckets map[string]*DurationLimiter
	mu      sync.RWMutex
}

// NewBucketStore returns an empty in-process bucket store.
func NewBucketStore() *BucketStore {
	return &BucketStore{
		buckets: make(map[string]*DurationLimiter),
	}
}

func (bs *BucketStore) get(key string, defaultLimit int32, defaultPeriod time.Duration) *DurationLimiter {
	bs.mu.RLock()
	bucket, ok := bs.buckets[key]
	bs.mu.RUnlock()

	if ok {
		return bucket
	}

	bs.mu.Lock()
	defer bs.mu.Unlock()

	if bucket, ok = bs.buckets[key]; ok {
		return bucket
	}

	bucket = NewDurationLimiter(defaultLimit, defaultPeriod)
	bs.buckets[key] = bucket

	return bucket
}

func (bs *BucketStore) TryAcquire(ctx context.Context, key string, defaultLimit int32, defaultPeriod time.Duration) (bool, time.Duration) {
	return bs.get(key, defaultLimit, defaultPeriod).TryLock()
}

func (bs *BucketStore) Update(key string, limit, remaining int32, resetAfter time.Duration) {
	bucket := bs.get(key, limit, resetAfter)
	bucket.SetLimit(limit)
	bucket.SetAvailable(remaining)
	bucket.SetResetsAt(time.Now().Add(resetAfter).UnixNano())
}
