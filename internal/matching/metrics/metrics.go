package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Trigger label values.
const (
	TriggerListing = "listing"
	TriggerNeed    = "need"
)

type Metrics struct {
	Runs           *prometheus.CounterVec
	Matches        *prometheus.CounterVec
	LookupFailures *prometheus.CounterVec
	NotifyFailures prometheus.Counter
	Suppressed     prometheus.Counter
	Duration       *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foodlink_matching_runs_total",
			Help: "Matching runs, labeled by the record type that triggered them",
		}, []string{"trigger"}),
		Matches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foodlink_matching_matches_total",
			Help: "Listing/need pairs found within the radius, labeled by priority",
		}, []string{"priority"}),
		LookupFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foodlink_matching_lookup_failures_total",
			Help: "Counterpart lookups that failed and degraded to zero matches",
		}, []string{"trigger"}),
		NotifyFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "foodlink_matching_notify_failures_total",
			Help: "Match notifications that could not be persisted",
		}),
		Suppressed: f.NewCounter(prometheus.CounterOpts{
			Name: "foodlink_matching_suppressed_total",
			Help: "Matches skipped because the pair was already notified",
		}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "foodlink_matching_duration_seconds",
			Help:    "Duration of a matching run including notification writes",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"trigger"}),
	}
}

func (m *Metrics) ObserveRun(trigger string, start time.Time) {
	m.Runs.WithLabelValues(trigger).Inc()
	m.Duration.WithLabelValues(trigger).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementMatch(priority string) {
	m.Matches.WithLabelValues(priority).Inc()
}

func (m *Metrics) IncrementLookupFailure(trigger string) {
	m.LookupFailures.WithLabelValues(trigger).Inc()
}

func (m *Metrics) IncrementNotifyFailure() {
	m.NotifyFailures.Inc()
}

func (m *Metrics) IncrementSuppressed() {
	m.Suppressed.Inc()
}
