package corvid

import (
	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	eventsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corvid_events_received_total",
			Help: "Count of gateway dispatch events received, by event name",
		},
		[]string{"event"},
	)

	gatewayLatency = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "corvid_gateway_latency_seconds",
			Help: "Most recent heartbeat round-trip latency",
		},
	)

	restRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corvid_rest_requests_total",
			Help: "Count of REST requests made, by route and status class",
		},
		[]string{"route", "status"},
	)

	sessionReconnects = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "corvid_session_reconnects_total",
			Help: "Count of gateway reconnects, including resumes",
		},
	)

	stateGuildCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "corvid_state_guild_count",
			Help: "Number of guilds currently mirrored in the session state store",
		},
	)
)

func init() {
	prometheus.MustRegister(
		eventsReceived,
		gatewayLatency,
		restRequests,
		sessionReconnects,
		stateGuildCount,
	)
}

// ServeMetrics starts an ops HTTP surface exposing /healthz and /metrics
// on addr, blocking until the listener fails or the process exits.
// Intended to run in its own goroutine alongside Session.Connect.
func ServeMetrics(addr string) error {
	r := router.New()

	r.GET("/metrics", fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()))
	r.GET("/healthz", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	})

	return fasthttp.ListenAndServe(addr, r.Handler)
}
