package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds all Prometheus metric collectors for the Punchcard server.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestSize     *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Time-tracking metrics.
	ClockEventsTotal    *prometheus.CounterVec
	TimerEventsTotal    *prometheus.CounterVec
	ActiveWorkSessions  prometheus.Gauge
	WorkLogDuration     prometheus.Histogram
	WorkSessionDuration prometheus.Histogram

	// Rate limiting metrics.
	RateLimitRejectionsTotal *prometheus.CounterVec

	// Auth metrics.
	AuthFailuresTotal  *prometheus.CounterVec
	AuthSuccessesTotal *prometheus.CounterVec

	// Server lifecycle.
	ServerStartTime prometheus.Gauge
}

// New creates and registers all Prometheus metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "punchcard_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "punchcard_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),

		HTTPRequestSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "punchcard_http_request_size_bytes",
			Help:    "HTTP request size in bytes.",
			Buckets: prometheus.ExponentialBuckets(100, 10, 6),
		}, []string{"method", "path_pattern"}),

		HTTPResponseSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "punchcard_http_response_size_bytes",
			Help:    "HTTP response size in bytes.",
			Buckets: prometheus.ExponentialBuckets(100, 10, 6),
		}, []string{"method", "path_pattern"}),

		ClockEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "punchcard_clock_events_total",
			Help: "Total number of clock-in and clock-out events.",
		}, []string{"event"}),

		TimerEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "punchcard_timer_events_total",
			Help: "Total number of ticket timer start and pause events.",
		}, []string{"event"}),

		ActiveWorkSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "punchcard_active_work_sessions",
			Help: "Number of currently active work sessions.",
		}),

		WorkLogDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "punchcard_work_log_duration_seconds",
			Help:    "Duration of completed work-log intervals in seconds.",
			Buckets: prometheus.ExponentialBuckets(60, 2, 10),
		}),

		WorkSessionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "punchcard_work_session_duration_seconds",
			Help:    "Duration of completed work sessions in seconds.",
			Buckets: prometheus.ExponentialBuckets(60, 2, 12),
		}),

		RateLimitRejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "punchcard_ratelimit_rejections_total",
			Help: "Total number of rate limit rejections.",
		}, []string{"scope"}),

		AuthFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "punchcard_auth_failures_total",
			Help: "Total number of authentication failures.",
		}, []string{"auth_type"}),

		AuthSuccessesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "punchcard_auth_successes_total",
			Help: "Total number of successful authentications.",
		}, []string{"auth_type"}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "punchcard_server_start_time_seconds",
			Help: "Unix timestamp when the server started.",
		}),
	}

	// Register all metrics.
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestSize,
		m.HTTPResponseSize,
		m.ClockEventsTotal,
		m.TimerEventsTotal,
		m.ActiveWorkSessions,
		m.WorkLogDuration,
		m.WorkSessionDuration,
		m.RateLimitRejectionsTotal,
		m.AuthFailuresTotal,
		m.AuthSuccessesTotal,
		m.ServerStartTime,
	)

	// Set server start time.
	m.ServerStartTime.Set(float64(time.Now().Unix()))

	// Register Go runtime and process collectors.
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Registry returns the private Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDBPoolCollector registers a custom DB pool stats collector.
func (m *Metrics) RegisterDBPoolCollector(statFunc DBPoolStatFunc) {
	m.registry.MustRegister(NewDBPoolCollector(statFunc))
}

// IncClockIn records a clock-in event and bumps the active-session gauge.
func (m *Metrics) IncClockIn() {
	m.ClockEventsTotal.WithLabelValues("clock_in").Inc()
	m.ActiveWorkSessions.Inc()
}

// IncClockOut records a clock-out event, lowers the active-session gauge and
// observes the session's duration.
func (m *Metrics) IncClockOut(durationSeconds int64) {
	m.ClockEventsTotal.WithLabelValues("clock_out").Inc()
	m.ActiveWorkSessions.Dec()
	m.WorkSessionDuration.Observe(float64(durationSeconds))
}

// IncTimerStart records a ticket timer start.
func (m *Metrics) IncTimerStart() {
	m.TimerEventsTotal.WithLabelValues("start").Inc()
}

// IncTimerPause records a ticket timer pause and observes the interval length.
func (m *Metrics) IncTimerPause(durationSeconds int64) {
	m.TimerEventsTotal.WithLabelValues("pause").Inc()
	m.WorkLogDuration.Observe(float64(durationSeconds))
}

// IncAuthFailure increments the auth failure counter for the given auth type.
func (m *Metrics) IncAuthFailure(authType string) {
	m.AuthFailuresTotal.WithLabelValues(authType).Inc()
}

// IncAuthSuccess increments the auth success counter for the given auth type.
func (m *Metrics) IncAuthSuccess(authType string) {
	m.AuthSuccessesTotal.WithLabelValues(authType).Inc()
}

// IncRateLimitRejection increments the rate limit rejection counter.
func (m *Metrics) IncRateLimitRejection(scope string) {
	m.RateLimitRejectionsTotal.WithLabelValues(scope).Inc()
}

// ObserveHTTPRequest records one served request across the HTTP metric family.
func (m *Metrics) ObserveHTTPRequest(method, pathPattern string, statusCode int, seconds float64, requestSize, responseSize int64) {
	status := fmt.Sprintf("%d", statusCode)
	m.HTTPRequestsTotal.WithLabelValues(method, pathPattern, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, pathPattern).Observe(seconds)
	if requestSize > 0 {
		m.HTTPRequestSize.WithLabelValues(method, pathPattern).Observe(float64(requestSize))
	}
	m.HTTPResponseSize.WithLabelValues(method, pathPattern).Observe(float64(responseSize))
}
