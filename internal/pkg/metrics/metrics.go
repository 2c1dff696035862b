package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the console.
// Tracks backend calls, editor outcomes and duplicate form submissions.
type Metrics struct {
	BackendRequests     *prometheus.CounterVec
	BackendDuration     *prometheus.HistogramVec
	EditorOutcomes      *prometheus.CounterVec
	DuplicateSubmission prometheus.Counter
	StaleResults        prometheus.Counter
}

// New creates a new Metrics instance registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BackendRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "erpconsole_backend_requests_total",
			Help: "Backend calls by operation and response status (0 when no response)",
		}, []string{"operation", "status"}),
		BackendDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "erpconsole_backend_request_duration_seconds",
			Help:    "Duration of backend calls by operation",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
		EditorOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "erpconsole_editor_outcomes_total",
			Help: "Record editor submissions by record kind and outcome",
		}, []string{"kind", "outcome"}),
		DuplicateSubmission: factory.NewCounter(prometheus.CounterOpts{
			Name: "erpconsole_duplicate_submissions_total",
			Help: "Form posts rejected because their submission id was already used",
		}),
		StaleResults: factory.NewCounter(prometheus.CounterOpts{
			Name: "erpconsole_stale_editor_results_total",
			Help: "Editor results dropped because the dialog had been reopened",
		}),
	}
}

// ObserveBackendCall records one backend call. Call with time.Now() at the start.
func (m *Metrics) ObserveBackendCall(operation string, status int, start time.Time) {
	if m == nil {
		return
	}
	m.BackendRequests.WithLabelValues(operation, strconv.Itoa(status)).Inc()
	m.BackendDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// IncrementEditorOutcome records how an editor submission ended.
func (m *Metrics) IncrementEditorOutcome(kind, outcome string) {
	if m == nil {
		return
	}
	m.EditorOutcomes.WithLabelValues(kind, outcome).Inc()
}

// IncrementDuplicateSubmission records a rejected resubmission.
func (m *Metrics) IncrementDuplicateSubmission() {
	if m == nil {
		return
	}
	m.DuplicateSubmission.Inc()
}

// IncrementStaleResult records a dropped late result.
func (m *Metrics) IncrementStaleResult() {
	if m == nil {
		return
	}
	m.StaleResults.Inc()
}
