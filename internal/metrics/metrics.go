// Package metrics exposes Prometheus collectors for the HTTP layer and the
// shop's business events.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cubo"

// Metrics owns a registry so every server (and every test) gets its own.
type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	ordersCreated    prometheus.Counter
	purchasesCreated prometheus.Counter
	payablesPaid     prometheus.Counter
	monthClosings    *prometheus.CounterVec
	stepFailures     *prometheus.CounterVec
	compensations    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"method", "route"}),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Service orders created.",
		}),
		purchasesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_created_total",
			Help:      "Purchases registered.",
		}),
		payablesPaid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payables_paid_total",
			Help:      "Payables moved from pending to paid.",
		}),
		monthClosings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "month_closings_total",
			Help:      "Month-end closings by outcome.",
		}, []string{"success"}),
		stepFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "step_failures_total",
			Help:      "Failed workflow steps by name.",
		}, []string{"step"}),
		compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "compensations_total",
			Help:      "Workflow steps undone after a later failure.",
		}, []string{"step"}),
	}
	m.Registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.ordersCreated,
		m.purchasesCreated,
		m.payablesPaid,
		m.monthClosings,
		m.stepFailures,
		m.compensations,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// Handler returns an HTTP handler exposing the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Instrument records request counts and latency labelled by chi route
// pattern, so /api/orders/7 and /api/orders/8 share a series.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) OrderCreated()    { m.ordersCreated.Inc() }
func (m *Metrics) PurchaseCreated() { m.purchasesCreated.Inc() }
func (m *Metrics) PayablePaid()     { m.payablesPaid.Inc() }

func (m *Metrics) MonthClosed(success bool) {
	m.monthClosings.WithLabelValues(strconv.FormatBool(success)).Inc()
}

// WorkflowOutcome counts failed and compensated steps of one workflow run.
func (m *Metrics) WorkflowOutcome(failed, compensated []string) {
	for _, step := range failed {
		m.stepFailures.WithLabelValues(step).Inc()
	}
	for _, step := range compensated {
		m.compensations.WithLabelValues(step).Inc()
	}
}
