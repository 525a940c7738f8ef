package corvid

import (
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
)

var (
	// ErrUnauthorized is returned when Discord rejects the configured
	// credential outright (HTTP 401).
	ErrUnauthorized = errors.New("corvid: improper token was passed")

	// ErrNotConnected is returned by calls that require an open gateway
	// session when none is open.
	ErrNotConnected = errors.New("corvid: session is not connected")

	// ErrAlreadyConnected is returned by Connect when the session is
	// already open.
	ErrAlreadyConnected = errors.New("corvid: session is already connected")

	// ErrSessionInvalidated describes Discord telling the shard its
	// session can no longer be resumed. No function in this package
	// returns it: the shard handles Invalid Session itself by discarding
	// the session and reconnecting.
	ErrSessionInvalidated = errors.New("corvid: session invalidated, must re-identify")

	// ErrUnsupportedImageType reports unrecognized image bytes. This
	// package has no data-URI helper, and no function in it returns it.
	ErrUnsupportedImageType = errors.New("corvid: unsupported image type given")

	// ErrClosed is returned by session operations after Disconnect has
	// been called, distinguishing "was connected, now deliberately
	// closed" from ErrNotConnected's "never connected at all".
	ErrClosed = errors.New("corvid: session was closed")

	// ErrBadVerb names a nonsensical HTTP verb. No function in this
	// package returns it: Send and SendUnauthenticated pass the verb to
	// the server without checking it.
	ErrBadVerb = errors.New("corvid: bad HTTP verb")

	// ErrSchema is a synchronous, programmer-error response for a
	// malformed or unrecognized request schema descriptor (never reaches
	// the network).
	ErrSchema = errors.New("corvid: malformed request schema")
)

// RestError wraps a non-2xx response from the Discord REST API.
type RestError struct {
	StatusCode   int
	Method       string
	URL          string
	Message      ErrorMessage
	ResponseBody []byte
}

// ErrorMessage is Discord's standard JSON error body shape.
type ErrorMessage struct {
	Message string                 `json:"message"`
	Code    int32                  `json:"code"`
	Errors  map[string]interface{} `json:"errors,omitempty"`
}

// NewRestError builds a RestError from a completed fasthttp request/response
// pair. The response body is best-effort decoded; a body that isn't the
// expected JSON shape still yields a RestError carrying the raw bytes.
func NewRestError(req *fasthttp.Request, resp *fasthttp.Response) *RestError {
	body := append([]byte(nil), resp.Body()...)

	var msg ErrorMessage
	_ = jsoniter.Unmarshal(body, &msg)

	return &RestError{
		StatusCode:   resp.StatusCode(),
		Method:       string(req.Header.Method()),
		URL:          string(req.URI().FullURI()),
		Message:      msg,
		ResponseBody: body,
	}
}

func (r *RestError) Error() string {
	if r.Message.Message != "" {
		return fmt.Sprintf("corvid: %s %s: %d %s", r.Method, r.URL, r.StatusCode, r.Message.Message)
	}

	return fmt.Sprintf("corvid: %s %s: %d", r.Method, r.URL, r.StatusCode)
}

// RateLimited reports whether the response that produced this error was a
// 429 Too Many Requests.
func (r *RestError) RateLimited() bool {
	return r.StatusCode == fasthttp.StatusTooManyRequests
}

// RateLimitError is returned synchronously, with no socket I/O at all,
// when the REST dispatcher already knows route is rate limited before it
// would have sent anything: either a prior server response left no
// requests remaining on the bucket with its reset still ahead, or this
// process alone has already made more local calls to route than the
// burst guard allows. The dispatcher never retries on the caller's
// behalf; Route and ResetIn are exported so a caller can re-queue if it
// wants that behavior.
type RateLimitError struct {
	Route   string
	ResetIn time.Duration
	// Local is true when the burst guard refused the call, false when a
	// server-advertised bucket did.
	Local bool
}

func (e *RateLimitError) Error() string {
	if e.Local {
		return fmt.Sprintf("corvid: locally rate limited on %s, retry in %s", e.Route, e.ResetIn)
	}

	return fmt.Sprintf("corvid: rate limited on %s, retry in %s", e.Route, e.ResetIn)
}

// CloseError wraps an abnormal gateway close so callers can distinguish a
// recoverable disconnect from one that requires a fresh Identify.
type CloseError struct {
	Code      int
	Reason    string
	Permanent bool
}

func (c *CloseError) Error() string {
	return fmt.Sprintf("corvid: gateway closed (%d): %s", c.Code, c.Reason)
}
