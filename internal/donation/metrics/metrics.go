package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ListingsCreated  *prometheus.CounterVec
	NeedsCreated     *prometheus.CounterVec
	RatingsSubmitted prometheus.Counter
	StatusChanges    *prometheus.CounterVec
	MatchesPerRecord *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ListingsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foodlink_listings_created_total",
			Help: "Listings created, labeled by category",
		}, []string{"category"}),
		NeedsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foodlink_needs_created_total",
			Help: "Needs created, labeled by category",
		}, []string{"category"}),
		RatingsSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "foodlink_ratings_submitted_total",
			Help: "Ratings recorded on delivered listings",
		}),
		StatusChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foodlink_status_changes_total",
			Help: "Lifecycle transitions, labeled by record kind and target status",
		}, []string{"kind", "status"}),
		MatchesPerRecord: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "foodlink_matches_per_record",
			Help:    "Matches found when a record was created",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
		}, []string{"kind"}),
	}
}

func (m *Metrics) IncrementListingCreated(category string, matches int) {
	m.ListingsCreated.WithLabelValues(category).Inc()
	m.MatchesPerRecord.WithLabelValues("listing").Observe(float64(matches))
}

func (m *Metrics) IncrementNeedCreated(category string, matches int) {
	m.NeedsCreated.WithLabelValues(category).Inc()
	m.MatchesPerRecord.WithLabelValues("need").Observe(float64(matches))
}

func (m *Metrics) IncrementRating() {
	m.RatingsSubmitted.Inc()
}

func (m *Metrics) IncrementStatusChange(kind, status string) {
	m.StatusChanges.WithLabelValues(kind, status).Inc()
}
