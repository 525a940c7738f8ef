package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDurationLimiterAllowsUpToLimit(t *testing.T) {
	t.Parallel()

	l := NewDurationLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.NoError(t, l.Lock(ctx))
	}
}

func TestDurationLimiterBlocksBeyondLimit(t *testing.T) {
	t.Parallel()

	l := NewDurationLimiter(1, 50*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.NoError(t, l.Lock(context.Background()))

	err := l.Lock(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDurationLimiterResetsWindow(t *testing.T) {
	t.Parallel()

	l := NewDurationLimiter(1, 20*time.Millisecond)
	ctx := context.Background()

	assert.NoError(t, l.Lock(ctx))

	time.Sleep(30 * time.Millisecond)

	assert.NoError(t, l.Lock(ctx))
}

func TestDurationLimiterSetAvailableGatesImmediately(t *testing.T) {
	t.Parallel()

	l := NewDurationLimiter(5, time.Minute)
	l.SetAvailable(0)
	l.SetResetsAt(time.Now().Add(time.Hour).UnixNano())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := l.Lock(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
