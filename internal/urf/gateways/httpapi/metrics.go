package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus instruments the gateway records into.
// The engine itself stays side-effect free; all observation happens here.
type Metrics struct {
	registry        *prometheus.Registry
	checksTotal     *prometheus.CounterVec
	checkDuration   prometheus.Histogram
	rateLimited     prometheus.Counter
	droppedPatterns prometheus.Gauge
	blockedDomains  prometheus.Gauge
}

// NewMetrics registers the gateway's instruments on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		checksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "urf_checks_total", Help: "URL checks by outcome and reason"},
			[]string{"outcome", "reason"},
		),
		checkDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "urf_check_duration_seconds",
			Help:    "Time spent evaluating one URL",
			Buckets: prometheus.ExponentialBuckets(0.000005, 4, 10),
		}),
		rateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "urf_rate_limited_total", Help: "Requests rejected by the rate limiter"},
		),
		droppedPatterns: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "urf_dropped_patterns", Help: "Policy patterns dropped at engine construction"},
		),
		blockedDomains: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "urf_blocked_domains", Help: "Entries in the blocked-domain set"},
		),
	}
	registry.MustRegister(
		m.checksTotal,
		m.checkDuration,
		m.rateLimited,
		m.droppedPatterns,
		m.blockedDomains,
	)
	return m
}

// ObserveCheck records one decision and its evaluation time in seconds.
func (m *Metrics) ObserveCheck(outcome, reason string, seconds float64) {
	m.checksTotal.WithLabelValues(outcome, reason).Inc()
	m.checkDuration.Observe(seconds)
}

// SetDroppedPatterns records the construction-time pattern drop count.
func (m *Metrics) SetDroppedPatterns(n int) {
	m.droppedPatterns.Set(float64(n))
}

// SetBlockedDomains records the current blocked-set size.
func (m *Metrics) SetBlockedDomains(n uint64) {
	m.blockedDomains.Set(float64(n))
}

// Handler serves the prometheus exposition endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
