package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// VoteMetrics counts toggle requests per target kind and outcome.
type VoteMetrics struct {
	Toggles  *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewVoteMetrics creates and registers vote metrics on the given registry.
func NewVoteMetrics(reg prometheus.Registerer) *VoteMetrics {
	m := &VoteMetrics{
		Toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vote_toggles_total",
			Help:      "Total number of vote and like toggles, by target and outcome.",
		}, []string{"target", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "vote_toggle_duration_seconds",
			Help:      "Duration of vote and like toggles in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"target"}),
	}

	reg.MustRegister(m.Toggles, m.Duration)
	return m
}

// Observe records one toggle. outcome is the resulting action, or the
// error class when the toggle failed. A nil receiver records nothing.
func (m *VoteMetrics) Observe(target, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.Toggles.WithLabelValues(target, outcome).Inc()
	m.Duration.WithLabelValues(target).Observe(took.Seconds())
}
