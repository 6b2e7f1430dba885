package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// SetWinner resolves which side took a regular set. Unfinished sets resolve to
// SideNone. Invalid combinations are not rejected here; run ValidateGames first.
func SetWinner(home, away int) Side {
	switch {
	case home >= gamesToWinSet && home-away >= winningMargin:
		return SideHome
	case away >= gamesToWinSet && away-home >= winningMargin:
		return SideAway
	case home == 7 && away == 6:
		return SideHome
	case home == 6 && away == 7:
		return SideAway
	}
	return SideNone
}

// Winner resolves the set, using the points race for a match tiebreak.
func (s SetScore) Winner() Side {
	if !s.IsMatchTiebreak() {
		return SetWinner(s.HomeGames, s.AwayGames)
	}
	switch {
	case s.HomeGames >= matchTiebreakPoints && s.HomeGames-s.AwayGames >= winningMargin:
		return SideHome
	case s.AwayGames >= matchTiebreakPoints && s.AwayGames-s.HomeGames >= winningMargin:
		return SideAway
	}
	return SideNone
}

// SetsWon counts the sets taken by each side. Unfinished sets count for nobody.
func SetsWon(sets []SetScore) (home, away int) {
	for _, s := range sets {
		switch s.Winner() {
		case SideHome:
			home++
		case SideAway:
			away++
		}
	}
	return home, away
}

// CourtWinner reports whether the home pair took the court. An even split,
// including a court with no finished sets, is reported as not won.
func CourtWinner(sets []SetScore) bool {
	home, away := SetsWon(sets)
	return home > away
}

// CourtDecided reports whether one side has taken two sets of a best-of-3.
func CourtDecided(sets []SetScore) bool {
	home, away := SetsWon(sets)
	return home >= 2 || away >= 2
}

// ResolveCourts fills the Won flag of every court from its sets.
func ResolveCourts(courts []CourtResult) []CourtResult {
	resolved := make([]CourtResult, len(courts))
	for i, c := range courts {
		c.Won = CourtWinner(c.Sets)
		resolved[i] = c
	}
	return resolved
}

func countCourts(courts []CourtResult) (won, lost int) {
	for _, c := range courts {
		if c.Won {
			won++
		} else {
			lost++
		}
	}
	return won, lost
}

// MatchOutcome decides the match by the majority of courts won.
func MatchOutcome(courts []CourtResult) Outcome {
	won, lost := countCourts(courts)
	switch {
	case won > lost:
		return OutcomeWin
	case won < lost:
		return OutcomeLoss
	}
	return OutcomeTie
}

// ScoreSummary renders courts won and lost as "W-L".
func ScoreSummary(courts []CourtResult) string {
	won, lost := countCourts(courts)
	return fmt.Sprintf("%d-%d", won, lost)
}

// Aggregate computes the full match result from courts whose Won flags are set.
func Aggregate(courts []CourtResult) MatchResult {
	won, lost := countCourts(courts)
	return MatchResult{
		Outcome:      MatchOutcome(courts),
		ScoreSummary: ScoreSummary(courts),
		CourtsWon:    won,
		CourtsLost:   lost,
	}
}

// FormatScoreDisplayWithTiebreak renders sets keyed by set number in ascending
// order, e.g. "6-4, 6-7(5), 7-6(3)". The parenthesised number is the losing
// side's tiebreak points and only appears when points were recorded.
func FormatScoreDisplayWithTiebreak(sets map[int]SetScore) string {
	numbers := make([]int, 0, len(sets))
	for n := range sets {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	ordered := make([]SetScore, 0, len(numbers))
	for _, n := range numbers {
		ordered = append(ordered, sets[n])
	}
	return FormatScoreDisplay(ordered)
}

// FormatScoreDisplay renders sets in the order given.
func FormatScoreDisplay(sets []SetScore) string {
	parts := make([]string, 0, len(sets))
	for _, s := range sets {
		part := fmt.Sprintf("%d-%d", s.HomeGames, s.AwayGames)
		if s.HasTiebreakPoints() {
			losing := *s.TiebreakHome
			if *s.TiebreakAway < losing {
				losing = *s.TiebreakAway
			}
			part += fmt.Sprintf("(%d)", losing)
		}
		if s.IsMatchTiebreak() {
			part = "[" + part + "]"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}
