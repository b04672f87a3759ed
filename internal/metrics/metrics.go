package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Pipeline metrics
	filingsFetched   prometheus.Counter
	filingsDropped   *prometheus.CounterVec
	qualifyingBuys   prometheus.Counter
	clustersFound    *prometheus.CounterVec
	analystSignals   prometheus.Counter
	scanDuration     prometheus.Histogram
	notifyTotal      *prometheus.CounterVec
	quietStreakGauge prometheus.Gauge
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)

	// Pipeline metrics
	r.filingsFetched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "insiderlog_filings_fetched_total",
			Help: "Total number of filings fetched from the feed",
		},
	)
	r.filingsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insiderlog_filings_dropped_total",
			Help: "Total number of filings dropped before clustering",
		},
		[]string{"reason"},
	)
	r.qualifyingBuys = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "insiderlog_qualifying_buys_total",
			Help: "Total number of purchases that passed the materiality filter",
		},
	)
	r.clustersFound = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insiderlog_clusters_total",
			Help: "Total number of issuer clusters found",
		},
		[]string{"kind"},
	)
	r.analystSignals = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "insiderlog_analyst_signals_total",
			Help: "Total number of qualifying analyst target raises",
		},
	)
	r.scanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "insiderlog_scan_duration_seconds",
			Help:    "End-to-end scan duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)
	r.notifyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insiderlog_notifications_total",
			Help: "Total number of report deliveries attempted",
		},
		[]string{"notifier", "status"},
	)
	r.quietStreakGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "insiderlog_quiet_streak",
			Help: "Consecutive runs with no qualifying insider activity",
		},
	)

	reg.MustRegister(r.filingsFetched)
	reg.MustRegister(r.filingsDropped)
	reg.MustRegister(r.qualifyingBuys)
	reg.MustRegister(r.clustersFound)
	reg.MustRegister(r.analystSignals)
	reg.MustRegister(r.scanDuration)
	reg.MustRegister(r.notifyTotal)
	reg.MustRegister(r.quietStreakGauge)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	r.httpRequestsTotal.WithLabelValues(method, path, statusToString(status)).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordFilingsFetched adds to the fetched-filings counter.
func (r *Registry) RecordFilingsFetched(n int) {
	r.filingsFetched.Add(float64(n))
}

// RecordFilingDropped records a filing dropped for a reason
// ("no_purchase", "below_threshold").
func (r *Registry) RecordFilingDropped(reason string) {
	r.filingsDropped.WithLabelValues(reason).Inc()
}

// RecordQualifyingBuys adds to the materiality-filter pass counter.
func (r *Registry) RecordQualifyingBuys(n int) {
	r.qualifyingBuys.Add(float64(n))
}

// RecordClusters records how many clusters of a kind a run produced
// ("corroborated", "standalone").
func (r *Registry) RecordClusters(kind string, n int) {
	r.clustersFound.WithLabelValues(kind).Add(float64(n))
}

// RecordAnalystSignals adds to the qualifying-signal counter.
func (r *Registry) RecordAnalystSignals(n int) {
	r.analystSignals.Add(float64(n))
}

// RecordScan records one completed scan.
func (r *Registry) RecordScan(duration float64) {
	r.scanDuration.Observe(duration)
}

// RecordNotify records a delivery attempt outcome.
func (r *Registry) RecordNotify(notifier, status string) {
	r.notifyTotal.WithLabelValues(notifier, status).Inc()
}

// SetQuietStreak sets the quiet-streak gauge.
func (r *Registry) SetQuietStreak(n int) {
	r.quietStreakGauge.Set(float64(n))
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
