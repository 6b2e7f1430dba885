package metrics

// Metrics defines the interface for collecting application metrics.
type Metrics interface {
	IncLineupsSuggested(strategy string)
	ObserveLineupDuration(duration float64)
	IncMatchesFinalized(outcome string)
	IncInvalidScores()
	AddPairStatsIncrements(count int)
	IncEventsPublished()
	IncEventsFailed()
	SetStartupTime(duration float64)
}
