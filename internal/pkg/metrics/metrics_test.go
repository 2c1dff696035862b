package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveBackendCall(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveBackendCall("domains.list", 200, time.Now())
	m.ObserveBackendCall("domains.list", 200, time.Now())
	m.ObserveBackendCall("domains.list", 0, time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BackendRequests.WithLabelValues("domains.list", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendRequests.WithLabelValues("domains.list", "0")))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveBackendCall("x", 500, time.Now())
		m.IncrementEditorOutcome("domain", "saved")
		m.IncrementDuplicateSubmission()
		m.IncrementStaleResult()
	})
}
