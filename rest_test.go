package corvid

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/corvidware/corvid/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func TestBucketKeyKeepsMajorParameterButFoldsTrailingIDs(t *testing.T) {
	// The major parameter (the channel/guild/webhook id right after the
	// resource name) stays literal so distinct channels never share a
	// bucket; ids after that are interchangeable for rate-limit purposes
	// and fold to a single placeholder.
	assert.Equal(t, "GET:channels/123456789012345678/messages", bucketKey("GET", "/channels/123456789012345678/messages"))
	assert.Equal(t, "GET:channels/1/messages/{id}", bucketKey("GET", "/channels/1/messages/2"))
	assert.Equal(t, "GET:gateway/bot", bucketKey("GET", "/gateway/bot"))
}

func TestCheckRateLimitRefusesSynchronouslyAfterServerExhaustion(t *testing.T) {
	rc := newRESTClient(Credential{Type: CredentialBot, Token: "x"}, ratelimit.NewBucketStore())

	key := bucketKey("POST", "/channels/1/messages")

	// Simulate a prior 429 response: no requests remaining, reset ten
	// seconds out.
	rc.buckets.Update(key, 5, 0, 10*time.Second)

	err := rc.checkRateLimit(context.Background(), key)

	var rlErr *RateLimitError
	assert.ErrorAs(t, err, &rlErr)
	assert.False(t, rlErr.Local)
	assert.Greater(t, rlErr.ResetIn, time.Duration(0))
}

func TestCheckRateLimitRefusesLocalBurstIndependentlyOfServerBucket(t *testing.T) {
	rc := newRESTClient(Credential{Type: CredentialBot, Token: "x"}, ratelimit.NewBucketStore())

	key := bucketKey("POST", "/channels/1/messages")
	ctx := context.Background()

	// Seed the server-advertised bucket with plenty of headroom so only
	// the local burst guard can be the one to refuse below.
	rc.buckets.Update(key, 1000, 1000, time.Minute)

	for i := 0; i < ratelimit.BurstLimitSend; i++ {
		assert.NoError(t, rc.checkRateLimit(ctx, key))
	}

	err := rc.checkRateLimit(ctx, key)

	var rlErr *RateLimitError
	assert.ErrorAs(t, err, &rlErr)
	assert.True(t, rlErr.Local)
}

// Mirrors spec.md §8 scenario 4's literal example: a response carries
// X-RateLimit-Remaining: 0 and X-RateLimit-Reset but no Reset-After.
// Parsing only Reset-After here used to silently treat the missing
// header as "resets now", letting the very next call through
// immediately instead of waiting out the real reset.
func TestUpdateBucketUsesAbsoluteResetWhenResetAfterMissing(t *testing.T) {
	rc := newRESTClient(Credential{Type: CredentialBot, Token: "x"}, ratelimit.NewBucketStore())
	key := "POST:channels/{id}/messages"

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	resetAt := time.Now().Add(10 * time.Second)
	resp.Header.Set("X-RateLimit-Limit", "5")
	resp.Header.Set("X-RateLimit-Remaining", "0")
	resp.Header.Set("X-RateLimit-Reset", strconv.FormatFloat(float64(resetAt.UnixNano())/float64(time.Second), 'f', 3, 64))

	rc.updateBucket(key, resp)

	err := rc.checkRateLimit(context.Background(), key)

	var rlErr *RateLimitError
	assert.ErrorAs(t, err, &rlErr)
	assert.False(t, rlErr.Local)
	// Should still be most of the 10s window out, not reset-to-now.
	assert.Greater(t, rlErr.ResetIn, 5*time.Second)
}

func TestUpdateBucketFallsBackToResetAfterWhenResetMissing(t *testing.T) {
	rc := newRESTClient(Credential{Type: CredentialBot, Token: "x"}, ratelimit.NewBucketStore())
	key := "POST:channels/{id}/messages"

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	resp.Header.Set("X-RateLimit-Limit", "5")
	resp.Header.Set("X-RateLimit-Remaining", "0")
	resp.Header.Set("X-RateLimit-Reset-After", "10.0")

	rc.updateBucket(key, resp)

	err := rc.checkRateLimit(context.Background(), key)

	var rlErr *RateLimitError
	assert.ErrorAs(t, err, &rlErr)
	assert.Greater(t, rlErr.ResetIn, 5*time.Second)
}
