// Package metrics exposes Prometheus instruments for the web front end. Every Recorder method is
// safe on a nil receiver so callers never branch on whether metrics are enabled.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fmh"

type Recorder struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
	apiCalls       *prometheus.CounterVec
	apiLatency     *prometheus.HistogramVec
	liveSessions   *prometheus.GaugeVec
	liveEvents     *prometheus.CounterVec
	staleResponses *prometheus.CounterVec
	circuitState   *prometheus.GaugeVec
}

// NewRecorder registers all instruments on a private registry, plus the Go and process collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Recorder{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_calls_total",
			Help:      "Backend API calls, by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_call_duration_seconds",
			Help:      "Backend API call latency.",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 15},
		}, []string{"endpoint"}),
		liveSessions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_sessions",
			Help:      "Open live page sessions.",
		}, []string{"page"}),
		liveEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_events_total",
			Help:      "Browser events received over live sessions.",
		}, []string{"page", "type", "result"}),
		staleResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_responses_total",
			Help:      "Fetch results discarded because a newer request superseded them.",
		}, []string{"component"}),
		circuitState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_open",
			Help:      "1 while the named circuit breaker is not closed.",
		}, []string{"name"}),
	}

	reg.MustRegister(
		r.httpRequests,
		r.httpLatency,
		r.apiCalls,
		r.apiLatency,
		r.liveSessions,
		r.liveEvents,
		r.staleResponses,
		r.circuitState,
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAPICall tracks one backend call. outcome is "ok", "error" or "rejected" (circuit open).
func (r *Recorder) RecordAPICall(endpoint, outcome string, duration time.Duration) {
	if r == nil {
		return
	}
	r.apiCalls.WithLabelValues(endpoint, outcome).Inc()
	if outcome != OutcomeRejected {
		r.apiLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
	}
}

const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
)

func (r *Recorder) LiveSessionOpened(page string) {
	if r == nil {
		return
	}
	r.liveSessions.WithLabelValues(page).Inc()
}

func (r *Recorder) LiveSessionClosed(page string) {
	if r == nil {
		return
	}
	r.liveSessions.WithLabelValues(page).Dec()
}

func (r *Recorder) RecordLiveEvent(page, eventType string, accepted bool) {
	if r == nil {
		return
	}
	result := "accepted"
	if !accepted {
		result = "rejected"
	}
	r.liveEvents.WithLabelValues(page, eventType, result).Inc()
}

func (r *Recorder) RecordStaleResponse(component string) {
	if r == nil {
		return
	}
	r.staleResponses.WithLabelValues(component).Inc()
}

func (r *Recorder) SetCircuitOpen(name string, open bool) {
	if r == nil {
		return
	}
	v := 0.0
	if open {
		v = 1
	}
	r.circuitState.WithLabelValues(name).Set(v)
}
