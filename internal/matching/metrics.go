package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchProposalsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_proposals_total",
			Help: "Total number of match proposals created",
		},
	)

	matchAcceptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_accepts_total",
			Help: "Total number of matches accepted",
		},
	)

	matchRejectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_rejects_total",
			Help: "Total number of matches rejected",
		},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_compatibility_scores",
			Help:    "Distribution of snapshotted compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	recommendationsServed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_recommendations_served",
			Help:    "Number of candidates returned per recommendation request",
			Buckets: prometheus.LinearBuckets(0, 5, 11),
		},
	)
)

func RecordProposal() {
	matchProposalsTotal.Inc()
}

func RecordAccept() {
	matchAcceptsTotal.Inc()
}

func RecordReject() {
	matchRejectsTotal.Inc()
}

func RecordCompatibilityScore(score int) {
	compatibilityScores.Observe(float64(score))
}

func RecordRecommendation(count int) {
	recommendationsServed.Observe(float64(count))
}
