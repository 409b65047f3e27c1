package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordProcess(t *testing.T) {
	m := NewWith(prometheus.NewRegistry())

	m.RecordProcess(true, 1.5)
	m.RecordProcess(false, 0.2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Processed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProcessSuccesses))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProcessFailures))
}

func TestRecordCacheHit(t *testing.T) {
	m := NewWith(prometheus.NewRegistry())
	m.RecordCacheHit()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits))
}

func TestRecordHTTPRequest(t *testing.T) {
	m := NewWith(prometheus.NewRegistry())
	m.RecordHTTPRequest("GET", "/api/voices", "200")
	m.RecordHTTPRequest("GET", "/api/voices", "200")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/voices", "200")))
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordProcess(true, 1)
		m.RecordCacheHit()
		m.RecordHTTPRequest("GET", "/", "200")
	})
}
