package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	LineupsSuggested    *prometheus.CounterVec
	LineupDuration      prometheus.Histogram
	MatchesFinalized    *prometheus.CounterVec
	InvalidScores       prometheus.Counter
	PairStatsIncrements prometheus.Counter
	EventsPublished     prometheus.Counter
	EventsFailed        prometheus.Counter
	StartupTimeSeconds  prometheus.Gauge
}
