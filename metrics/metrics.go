// Package metrics exposes Prometheus instrumentation for the processing
// pipeline and the web API. A nil *Metrics disables collection.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Processed          prometheus.Counter
	ProcessSuccesses   prometheus.Counter
	ProcessFailures    prometheus.Counter
	CacheHits          prometheus.Counter
	ProcessingDuration prometheus.Histogram

	HTTPRequests *prometheus.CounterVec
}

func New() *Metrics { return NewWith(prometheus.DefaultRegisterer) }

func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Processed: factory.NewCounter(prometheus.CounterOpts{
			Name: "pitchperfect_processed_total",
			Help: "Total number of processing requests handled",
		}),
		ProcessSuccesses: factory.NewCounter(prometheus.CounterOpts{
			Name: "pitchperfect_process_successes_total",
			Help: "Total number of successful processing requests",
		}),
		ProcessFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "pitchperfect_process_failures_total",
			Help: "Total number of failed processing requests",
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "pitchperfect_cache_hits_total",
			Help: "Total number of processing requests served from cache",
		}),
		ProcessingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pitchperfect_processing_duration_seconds",
			Help:    "End-to-end duration of processing requests",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10), // 0.5s to ~4 minutes
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pitchperfect_http_requests_total",
			Help: "Total number of HTTP requests served by the UI shell",
		}, []string{"method", "endpoint", "status"}),
	}
}

func (m *Metrics) RecordProcess(success bool, seconds float64) {
	if m == nil {
		return
	}
	m.Processed.Inc()
	if success {
		m.ProcessSuccesses.Inc()
	} else {
		m.ProcessFailures.Inc()
	}
	m.ProcessingDuration.Observe(seconds)
}

func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

func (m *Metrics) RecordHTTPRequest(method, endpoint, status string) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, endpoint, status).Inc()
}
