package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeBan           = "ban"
	OutcomeNoBan         = "no_ban"
	OutcomeIndeterminate = "indeterminate"
)

type Metrics struct {
	Evaluations   *prometheus.CounterVec
	Bans          *prometheus.CounterVec
	WriteFailures prometheus.Counter
	Duration      prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foodlink_reputation_evaluations_total",
			Help: "Ban evaluations, labeled by outcome",
		}, []string{"outcome"}),
		Bans: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foodlink_reputation_bans_total",
			Help: "Bans applied, labeled by reason",
		}, []string{"reason"}),
		WriteFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "foodlink_reputation_ban_write_failures_total",
			Help: "Ban decisions whose write could not be applied",
		}),
		Duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "foodlink_reputation_evaluation_duration_seconds",
			Help:    "Duration of a ban evaluation including the ban write",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}),
	}
}

func (m *Metrics) ObserveEvaluation(outcome string, start time.Time) {
	m.Evaluations.WithLabelValues(outcome).Inc()
	m.Duration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementBan(reason string) {
	m.Bans.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementWriteFailure() {
	m.WriteFailures.Inc()
}
