package corvid

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/corvidware/corvid/ratelimit"
	gotils_strconv "github.com/savsgio/gotils/strconv"
	"github.com/valyala/fasthttp"
)

const (
	APIVersion = "v10"
	BaseURL    = "https://discord.com/api/" + APIVersion
	UserAgent  = "corvid (https://github.com/corvidware/corvid)"

	// RESTDefaultLimit/Period seed a bucket the first time a route is hit,
	// before any server response has told us the real limit.
	RESTDefaultLimit  = 5
	RESTDefaultPeriod = time.Second
)

// restClient is the REST Dispatcher: every REST call corvid makes funnels
// through Send, which derives a rate-limit bucket key from the route,
// refuses synchronously if either guard says the route is exhausted,
// performs the HTTPS round trip via fasthttp, and folds the response's
// X-RateLimit-* headers back into the bucket before returning.
type restClient struct {
	client     *fasthttp.Client
	credential Credential
	buckets    ratelimit.Store
	burst      *ratelimit.BucketStore
	baseURL    string
}

func newRESTClient(credential Credential, buckets ratelimit.Store) *restClient {
	return &restClient{
		client: &fasthttp.Client{
			Name:                UserAgent,
			MaxIdleConnDuration: 30 * time.Second,
		},
		credential: credential,
		buckets:    buckets,
		// The burst guard is always purely local, even when buckets is a
		// RedisStore coordinating with other processes: it exists to stop
		// a runaway loop in this process from flooding a route, which a
		// shared remote counter doesn't protect against any faster than
		// this process discovering its own mistake.
		burst:   ratelimit.NewBucketStore(),
		baseURL: BaseURL,
	}
}

// bucketKey collapses a route into the key its rate limit bucket is
// shared under: Discord buckets per major parameter (channel/guild/
// webhook id) rather than per exact path, so trailing numeric path
// segments after the first are folded away.
func bucketKey(method, route string) string {
	parts := strings.Split(strings.Trim(route, "/"), "/")

	keyed := make([]string, 0, len(parts))

	for i, p := range parts {
		if i > 1 && isNumeric(p) {
			keyed = append(keyed, "{id}")
			continue
		}

		keyed = append(keyed, p)
	}

	return method + ":" + strings.Join(keyed, "/")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// Send performs a single REST call against route (a path beginning with
// "/", relative to BaseURL) and decodes a JSON response body into out
// when out is non-nil and the response carries a body.
func (rc *restClient) Send(ctx context.Context, method, route string, body []byte, contentType string, out interface{}) error {
	key := bucketKey(method, route)

	if err := rc.checkRateLimit(ctx, key); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()

	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(rc.baseURL + route)
	req.Header.Set("Authorization", rc.credential.AuthorizationHeader())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	if body != nil {
		req.SetBody(body)

		if contentType != "" {
			req.Header.SetContentType(contentType)
		}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		deadline = time.Now().Add(20 * time.Second)
	}

	if err := rc.client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("corvid: request failed: %w", err)
	}

	rc.updateBucket(key, resp)

	status := resp.StatusCode()

	restRequests.WithLabelValues(route, strconv.Itoa(status/100*100)).Inc()

	switch {
	case status == fasthttp.StatusUnauthorized:
		return ErrUnauthorized
	case status == fasthttp.StatusTooManyRequests:
		return NewRestError(req, resp)
	case status >= 400:
		return NewRestError(req, resp)
	case status == fasthttp.StatusNoContent || out == nil:
		return nil
	default:
		return Unmarshal(resp.Body(), out)
	}
}

// SendUnauthenticated performs a REST call the same way Send does, but
// without attaching this client's Authorization header. Webhook
// execution authenticates via the token embedded in its own URL, not the
// bot's credential.
func (rc *restClient) SendUnauthenticated(ctx context.Context, method, route string, body []byte, contentType string, out interface{}) error {
	key := bucketKey(method, route)

	if err := rc.checkRateLimit(ctx, key); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()

	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(rc.baseURL + route)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	if body != nil {
		req.SetBody(body)

		if contentType != "" {
			req.Header.SetContentType(contentType)
		}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		deadline = time.Now().Add(20 * time.Second)
	}

	if err := rc.client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("corvid: request failed: %w", err)
	}

	rc.updateBucket(key, resp)

	status := resp.StatusCode()

	restRequests.WithLabelValues(route, strconv.Itoa(status/100*100)).Inc()

	switch {
	case status == fasthttp.StatusTooManyRequests:
		return NewRestError(req, resp)
	case status >= 400:
		return NewRestError(req, resp)
	case status == fasthttp.StatusNoContent || out == nil:
		return nil
	default:
		return Unmarshal(resp.Body(), out)
	}
}

// checkRateLimit applies both REST guards before any socket I/O happens:
// the server-advertised bucket first (a prior response already told us
// this route is exhausted), then the local burst guard (this process
// alone has sent too many requests to route too quickly). Either refusal
// returns synchronously with no network call made.
func (rc *restClient) checkRateLimit(ctx context.Context, key string) error {
	if ok, resetIn := rc.buckets.TryAcquire(ctx, key, RESTDefaultLimit, RESTDefaultPeriod); !ok {
		return &RateLimitError{Route: key, ResetIn: resetIn}
	}

	if ok, resetIn := rc.burst.TryAcquire(ctx, key, ratelimit.BurstLimitSend, ratelimit.BurstLimitPeriod); !ok {
		return &RateLimitError{Route: key, ResetIn: resetIn, Local: true}
	}

	return nil
}

// updateBucket folds a response's rate-limit headers back into the
// bucket store. X-RateLimit-Reset is the header Discord documents as
// authoritative (absolute epoch seconds the bucket resets at);
// X-RateLimit-Reset-After is read only as a fallback for the (documented
// but not guaranteed) case a response omits Reset entirely, since it
// requires no clock-skew correction against our own `now`.
func (rc *restClient) updateBucket(key string, resp *fasthttp.Response) {
	limitHeader := resp.Header.Peek("X-RateLimit-Limit")
	remainingHeader := resp.Header.Peek("X-RateLimit-Remaining")
	resetHeader := resp.Header.Peek("X-RateLimit-Reset")
	resetAfterHeader := resp.Header.Peek("X-RateLimit-Reset-After")

	if len(limitHeader) == 0 || len(remainingHeader) == 0 {
		return
	}

	limit, err := strconv.ParseInt(gotils_strconv.B2S(limitHeader), 10, 32)
	if err != nil {
		return
	}

	remaining, err := strconv.ParseInt(gotils_strconv.B2S(remainingHeader), 10, 32)
	if err != nil {
		return
	}

	var resetAfter time.Duration

	if len(resetHeader) > 0 {
		if resetEpoch, perr := strconv.ParseFloat(gotils_strconv.B2S(resetHeader), 64); perr == nil {
			resetAfter = time.Until(time.Unix(0, int64(resetEpoch*float64(time.Second))))
		}
	}

	if resetAfter <= 0 && len(resetAfterHeader) > 0 {
		if resetAfterSeconds, perr := strconv.ParseFloat(gotils_strconv.B2S(resetAfterHeader), 64); perr == nil {
			resetAfter = time.Duration(resetAfterSeconds * float64(time.Second))
		}
	}

	if resetAfter < 0 {
		resetAfter = 0
	}

	rc.buckets.Update(key, int32(limit), int32(remaining), resetAfter)
}
