package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		LineupsSuggested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courtside_lineups_suggested_total",
			Help: "The total number of lineup suggestions computed, by strategy.",
		}, []string{"strategy"}),
		LineupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "courtside_lineup_duration_seconds",
			Help:    "The duration of a single lineup optimization, including statistics lookups.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		MatchesFinalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courtside_matches_finalized_total",
			Help: "The total number of finalized matches, by outcome.",
		}, []string{"outcome"}),
		InvalidScores: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_invalid_scores_total",
			Help: "The total number of set scores rejected by validation.",
		}),
		PairStatsIncrements: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_pair_stats_increments_total",
			Help: "The total number of pair statistic increments applied.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_events_published_total",
			Help: "The total number of events successfully published.",
		}),
		EventsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_events_failed_total",
			Help: "The total number of events that failed to publish.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "courtside_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.LineupsSuggested,
		s.LineupDuration,
		s.MatchesFinalized,
		s.InvalidScores,
		s.PairStatsIncrements,
		s.EventsPublished,
		s.EventsFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncLineupsSuggested(strategy string) {
	s.LineupsSuggested.WithLabelValues(strategy).Inc()
}

func (s *Service) ObserveLineupDuration(duration float64) {
	s.LineupDuration.Observe(duration)
}

func (s *Service) IncMatchesFinalized(outcome string) {
	s.MatchesFinalized.WithLabelValues(outcome).Inc()
}

func (s *Service) IncInvalidScores() {
	s.InvalidScores.Inc()
}

func (s *Service) AddPairStatsIncrements(count int) {
	s.PairStatsIncrements.Add(float64(count))
}

func (s *Service) IncEventsPublished() {
	s.EventsPublished.Inc()
}

func (s *Service) IncEventsFailed() {
	s.EventsFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
