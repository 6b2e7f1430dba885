package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_CountersAndHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewService(reg)

	svc.IncLineupsSuggested("greedy")
	svc.IncLineupsSuggested("greedy")
	svc.IncLineupsSuggested("exact")
	svc.IncMatchesFinalized("WIN")
	svc.AddPairStatsIncrements(3)
	svc.IncInvalidScores()

	assert.Equal(t, 2.0, testutil.ToFloat64(svc.LineupsSuggested.WithLabelValues("greedy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.LineupsSuggested.WithLabelValues("exact")))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.MatchesFinalized.WithLabelValues("WIN")))
	assert.Equal(t, 3.0, testutil.ToFloat64(svc.PairStatsIncrements))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.InvalidScores))

	rr := httptest.NewRecorder()
	req, err := http.NewRequest("GET", "/metrics", nil)
	require.NoError(t, err)
	NewMetricsHandler(reg).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "courtside_lineups_suggested_total")
}

func TestMock_IsSafeAndRecords(t *testing.T) {
	m := NewMock()
	m.IncLineupsSuggested("exact")
	m.ObserveLineupDuration(0.01)
	m.IncMatchesFinalized("TIE")
	m.AddPairStatsIncrements(2)
	m.IncEventsPublished()
	m.IncEventsFailed()

	assert.Equal(t, 1, m.LineupsSuggested("exact"))
	assert.Equal(t, []float64{0.01}, m.LineupDurations())
	assert.Equal(t, 1, m.MatchesFinalized("TIE"))
	assert.Equal(t, 2, m.PairStatsIncrements())
	assert.Equal(t, 1, m.EventsPublished())
	assert.Equal(t, 1, m.EventsFailed())
}
