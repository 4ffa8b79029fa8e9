package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
)

// Metrics owns a private registry with the HTTP and domain collectors
type Metrics struct {
	registry    *prometheus.Registry
	namespace   string
	httpReqCnt  *prometheus.CounterVec
	httpDur     *prometheus.HistogramVec
	httpInfl    *prometheus.GaugeVec
	loginCnt    *prometheus.CounterVec
	snapshotCnt *prometheus.CounterVec
	lastRun     prometheus.Gauge
}

// New builds the collectors under namespace ns
func New(ns string) *Metrics {
	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: prometheus.DefBuckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"}, []string{"route"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl)

	loginCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "auth_logins_total"}, []string{"result"})
	snapshotCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "daily_situation_snapshots_total"}, []string{"result"})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: ns, Name: "daily_situation_last_run_timestamp_seconds"})
	r.MustRegister(loginCnt, snapshotCnt, lastRun)

	return &Metrics{
		registry:    r,
		namespace:   ns,
		httpReqCnt:  httpReqCnt,
		httpDur:     httpDur,
		httpInfl:    httpInfl,
		loginCnt:    loginCnt,
		snapshotCnt: snapshotCnt,
		lastRun:     lastRun,
	}
}

// LoginAttempt counts a login by outcome
func (m *Metrics) LoginAttempt(result string) {
	m.loginCnt.WithLabelValues(result).Inc()
}

// SnapshotsRecorded counts one scheduled daily situation run
func (m *Metrics) SnapshotsRecorded(recorded int, err error) {
	m.snapshotCnt.WithLabelValues("recorded").Add(float64(recorded))
	if err != nil {
		m.snapshotCnt.WithLabelValues("failed").Inc()
	}
	m.lastRun.SetToCurrentTime()
}

// Middleware records count, duration and in-flight requests per route
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.httpInfl.WithLabelValues(route).Inc()
			defer m.httpInfl.WithLabelValues(route).Dec()

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				// The error handler has not written the response yet
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if !c.Response().Committed {
					status = http.StatusInternalServerError
				}
			}
			code := strconv.Itoa(status)
			m.httpReqCnt.WithLabelValues(c.Request().Method, route, code).Inc()
			m.httpDur.WithLabelValues(c.Request().Method, route, code).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
