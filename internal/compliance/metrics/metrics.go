package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the compliance module.
type Metrics struct {
	// Check outcomes: allowed vs blocked
	CheckOutcome *prometheus.CounterVec

	// Violations by code
	Violations *prometheus.CounterVec

	// Full check latency including data access
	CheckLatency prometheus.Histogram
}

// New creates a new Metrics instance with all compliance module metrics registered.
func New() *Metrics {
	return &Metrics{
		CheckOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "greenlane_compliance_checks_total",
			Help: "Total compliance check outcomes",
		}, []string{"outcome"}), // outcome: "allowed", "blocked"

		Violations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "greenlane_compliance_violations_total",
			Help: "Total violations emitted by code",
		}, []string{"code"}),

		CheckLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "greenlane_compliance_check_duration_seconds",
			Help:    "Duration of full compliance evaluation including data access",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// ObserveCheck records one completed check.
func (m *Metrics) ObserveCheck(allowed bool, d time.Duration) {
	if m != nil {
		outcome := "blocked"
		if allowed {
			outcome = "allowed"
		}
		m.CheckOutcome.WithLabelValues(outcome).Inc()
		m.CheckLatency.Observe(d.Seconds())
	}
}

// IncViolation records one emitted violation.
func (m *Metrics) IncViolation(code string) {
	if m != nil {
		m.Violations.WithLabelValues(code).Inc()
	}
}
