package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBucketStoreCreatesOnFirstAcquire(t *testing.T) {
	t.Parallel()

	bs := NewBucketStore()
	ctx := context.Background()

	ok, _ := bs.TryAcquire(ctx, "channels/123", 2, time.Minute)
	assert.True(t, ok)

	ok, _ = bs.TryAcquire(ctx, "channels/123", 2, time.Minute)
	assert.True(t, ok)
}

func TestBucketStoreUpdateExhaustsRemaining(t *testing.T) {
	t.Parallel()

	bs := NewBucketStore()

	bs.Update("channels/123", 5, 0, time.Minute)

	ok, resetIn := bs.TryAcquire(context.Background(), "channels/123", 5, time.Minute)
	assert.False(t, ok)
	assert.Greater(t, resetIn, time.Duration(0))
}

func TestBucketStoreIsolatesKeys(t *testing.T) {
	t.Parallel()

	bs := NewBucketStore()

	bs.Update("channels/123", 1, 0, time.Minute)

	ok, _ := bs.TryAcquire(context.Background(), "channels/456", 1, time.Minute)
	assert.True(t, ok)
}

func TestBucketStoreRefusesBeyondDefaultLimit(t *testing.T) {
	t.Parallel()

	bs := NewBucketStore()
	ctx := context.Background()

	ok, _ := bs.TryAcquire(ctx, "guilds/1", 2, time.Minute)
	assert.True(t, ok)

	ok, _ = bs.TryAcquire(ctx, "guilds/1", 2, time.Minute)
	assert.True(t, ok)

	ok, resetIn := bs.TryAcquire(ctx, "guilds/1", 2, time.Minute)
	assert.False(t, ok)
	assert.Greater(t, resetIn, time.Duration(0))
}
