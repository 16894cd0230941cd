package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Business metrics
	ReconciliationsTotal *prometheus.CounterVec
	CreditsAwardedTotal  prometheus.Counter
	SweepTransactions    *prometheus.CounterVec
	SweepDuration        prometheus.Histogram
	GatewayPollsTotal    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reconciler_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status_code"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reconciler_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),

		HTTPRequestsInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "reconciler_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		}),

		ReconciliationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reconciler_reconciliations_total",
			Help: "Reconciliation attempts by entry point and resulting status",
		}, []string{"source", "status"}),

		CreditsAwardedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "reconciler_credits_awarded_total",
			Help: "Total credits awarded to beneficiary accounts",
		}),

		SweepTransactions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reconciler_sweep_transactions_total",
			Help: "Transactions touched by the watchdog sweep, by result",
		}, []string{"result"}),

		SweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "reconciler_sweep_duration_seconds",
			Help:    "Watchdog sweep duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		}),

		GatewayPollsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "reconciler_gateway_polls_total",
			Help: "Gateway status lookups by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) RecordReconciliation(source, status string) {
	m.ReconciliationsTotal.WithLabelValues(source, status).Inc()
}

func (m *Metrics) RecordCreditsAwarded(credits int64) {
	if credits > 0 {
		m.CreditsAwardedTotal.Add(float64(credits))
	}
}

func (m *Metrics) RecordSweep(processed, failed, unresolvable int, duration time.Duration) {
	m.SweepTransactions.WithLabelValues("processed").Add(float64(processed))
	m.SweepTransactions.WithLabelValues("failed").Add(float64(failed))
	m.SweepTransactions.WithLabelValues("unresolvable").Add(float64(unresolvable))
	m.SweepDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordGatewayPoll(result string) {
	m.GatewayPollsTotal.WithLabelValues(result).Inc()
}
