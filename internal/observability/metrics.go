package observability

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for grading activity. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	essaysScored      *prometheus.CounterVec
	bandScores        *prometheus.HistogramVec
	componentDuration *prometheus.HistogramVec
	collaboratorFails *prometheus.CounterVec
	degradedSignals   *prometheus.CounterVec
}

var (
	defaultMetricsOnce sync.Once
	sharedMetrics      *Metrics
)

// DefaultMetrics returns the metrics registered with the global Prometheus registry.
// Collectors are created once so repeated construction does not panic.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		sharedMetrics = MustNewMetrics(prometheus.DefaultRegisterer)
	})
	return sharedMetrics
}

// MustNewMetrics constructs a Metrics instance using the provided registerer.
// Tests should pass a fresh prometheus.NewRegistry(). Registration errors other than
// an identical collector already being present panic.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		essaysScored: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "essay_grader",
				Name:      "essays_scored_total",
				Help:      "Essays graded, by task type and outcome.",
			},
			[]string{"task_type", "status"},
		),
		bandScores: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "essay_grader",
				Name:      "band_score",
				Help:      "Distribution of band scores per component.",
				Buckets:   prometheus.LinearBuckets(1, 0.5, 17),
			},
			[]string{"component"},
		),
		componentDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "essay_grader",
				Name:      "component_duration_seconds",
				Help:      "Time spent in each component analyzer.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"component"},
		),
		collaboratorFails: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "essay_grader",
				Name:      "collaborator_failures_total",
				Help:      "Model or embedding calls that failed and were replaced by a neutral signal.",
			},
			[]string{"operation"},
		),
		degradedSignals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "essay_grader",
				Name:      "degraded_components_total",
				Help:      "Component results computed from at least one neutral signal.",
			},
			[]string{"component"},
		),
	}

	m.essaysScored = register(reg, m.essaysScored)
	m.bandScores = register(reg, m.bandScores)
	m.componentDuration = register(reg, m.componentDuration)
	m.collaboratorFails = register(reg, m.collaboratorFails)
	m.degradedSignals = register(reg, m.degradedSignals)
	return m
}

// register registers c, reusing an equivalent collector that is already registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// IncEssaysScored counts one graded essay.
func (m *Metrics) IncEssaysScored(taskType, status string) {
	if m == nil {
		return
	}
	m.essaysScored.WithLabelValues(taskType, status).Inc()
}

// ObserveBand records a band for a component ("overall" for the final band).
func (m *Metrics) ObserveBand(component string, band float64) {
	if m == nil {
		return
	}
	m.bandScores.WithLabelValues(component).Observe(band)
}

// ObserveComponentDuration records the time spent in a component analyzer.
func (m *Metrics) ObserveComponentDuration(component string, d time.Duration) {
	if m == nil {
		return
	}
	m.componentDuration.WithLabelValues(component).Observe(d.Seconds())
}

// IncCollaboratorFailure counts a recovered collaborator failure.
func (m *Metrics) IncCollaboratorFailure(operation string) {
	if m == nil {
		return
	}
	m.collaboratorFails.WithLabelValues(operation).Inc()
}

// IncDegraded counts a component result built on a neutral signal.
func (m *Metrics) IncDegraded(component string) {
	if m == nil {
		return
	}
	m.degradedSignals.WithLabelValues(component).Inc()
}
