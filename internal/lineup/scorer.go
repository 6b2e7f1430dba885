package lineup

import "github.com/mauv0809/courtside/internal/pairstats"

// Scoring weights. Unknown pairs start at the neutral midpoint.
const (
	WinWeight      = 0.4
	GamesWeight    = 0.3
	FairPlayWeight = 0.3
	NeutralPct     = 50.0
)

// ScorePair computes the desirability of two players sharing a court. stat
// may be nil for a pair that has never played together.
func ScorePair(a, b PlayerRef, stat *pairstats.PairStatistic) PairSuggestion {
	winPct := stat.WinPercentage(NeutralPct)
	gamesPct := stat.GamesPercentage(NeutralPct)
	fairPlay := (a.FairPlayScore + b.FairPlayScore) / 2

	return PairSuggestion{
		Player1:  a,
		Player2:  b,
		Score:    winPct*WinWeight + gamesPct*GamesWeight + fairPlay*FairPlayWeight,
		WinPct:   winPct,
		GamesPct: gamesPct,
		FairPlay: fairPlay,
	}
}
