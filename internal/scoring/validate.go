package scoring

import "fmt"

const (
	gamesToWinSet       = 6
	maxGamesInSet       = 7
	tiebreakPointsToWin = 7
	matchTiebreakPoints = 10
	winningMargin       = 2
	setsToWinCourt      = 2
)

// MaxSetsPerCourt is the number of sets in a best-of-three court.
const MaxSetsPerCourt = 3

// ValidateGames reports whether home-away is a final score of a regular set.
// The valid scores are 6-0 through 6-4, 7-5 and 7-6, in either direction.
func ValidateGames(home, away int) bool {
	if home < 0 || away < 0 {
		return false
	}
	if home > maxGamesInSet || away > maxGamesInSet {
		return false
	}
	if home < gamesToWinSet && away < gamesToWinSet {
		return false
	}
	if home >= maxGamesInSet && away >= maxGamesInSet {
		return false
	}
	hi, lo := home, away
	if lo > hi {
		hi, lo = lo, hi
	}
	switch hi {
	case maxGamesInSet:
		// 7-5, or 7-6 after a tiebreak.
		return lo == 5 || lo == 6
	case gamesToWinSet:
		// 6-5 and 6-6 are unfinished; 6-7 is covered above.
		return lo <= 4
	}
	return false
}

// ValidateMatchTiebreak reports whether home-away is a final score of a
// deciding 10-point match tiebreak.
func ValidateMatchTiebreak(home, away int) bool {
	return validTiebreak(home, away, matchTiebreakPoints)
}

// validTiebreak checks a first-to-target, win-by-two points race.
func validTiebreak(home, away, target int) bool {
	if home < 0 || away < 0 {
		return false
	}
	hi, lo := home, away
	if lo > hi {
		hi, lo = lo, hi
	}
	if hi < target || hi-lo < winningMargin {
		return false
	}
	if hi > target {
		return hi-lo == winningMargin
	}
	return true
}

// ValidateSet checks a set entered for a court. The returned error wraps
// ErrInvalidScore and names the offending numbers.
func ValidateSet(s SetScore) error {
	switch s.Kind {
	case "", SetKindRegular, SetKindMatchTiebreak:
	default:
		return fmt.Errorf("%w: unknown set kind %q", ErrInvalidScore, s.Kind)
	}
	if s.IsMatchTiebreak() {
		if !ValidateMatchTiebreak(s.HomeGames, s.AwayGames) {
			return fmt.Errorf("%w: match tiebreak %d-%d", ErrInvalidScore, s.HomeGames, s.AwayGames)
		}
		if s.IsTiebreak || s.TiebreakHome != nil || s.TiebreakAway != nil {
			return fmt.Errorf("%w: match tiebreak %d-%d cannot carry set tiebreak points", ErrInvalidScore, s.HomeGames, s.AwayGames)
		}
		return nil
	}

	if !ValidateGames(s.HomeGames, s.AwayGames) {
		return fmt.Errorf("%w: %d-%d", ErrInvalidScore, s.HomeGames, s.AwayGames)
	}

	sevenSix := (s.HomeGames == 7 && s.AwayGames == 6) || (s.HomeGames == 6 && s.AwayGames == 7)
	if s.IsTiebreak && !sevenSix {
		return fmt.Errorf("%w: %d-%d is not a tiebreak set", ErrInvalidScore, s.HomeGames, s.AwayGames)
	}

	if s.TiebreakHome == nil && s.TiebreakAway == nil {
		return nil
	}
	if !s.HasTiebreakPoints() {
		return fmt.Errorf("%w: tiebreak points need both sides", ErrInvalidScore)
	}
	if !sevenSix {
		return fmt.Errorf("%w: tiebreak points recorded on a %d-%d set", ErrInvalidScore, s.HomeGames, s.AwayGames)
	}
	th, ta := *s.TiebreakHome, *s.TiebreakAway
	if !validTiebreak(th, ta, tiebreakPointsToWin) {
		return fmt.Errorf("%w: tiebreak %d-%d", ErrInvalidScore, th, ta)
	}
	if (th > ta) != (s.HomeGames > s.AwayGames) {
		return fmt.Errorf("%w: tiebreak %d-%d does not match set %d-%d", ErrInvalidScore, th, ta, s.HomeGames, s.AwayGames)
	}
	return nil
}

// ValidateCourt checks a court's sets in set order. No set may follow the one
// that decided the court, and a match tiebreak is only played at one set all.
func ValidateCourt(sets []SetScore) error {
	if len(sets) > MaxSetsPerCourt {
		return fmt.Errorf("%w: %d sets on one court", ErrInvalidScore, len(sets))
	}
	home, away := 0, 0
	for _, s := range sets {
		if home >= setsToWinCourt || away >= setsToWinCourt {
			return fmt.Errorf("%w: a set was played after the court ended %d-%d", ErrInvalidScore, home, away)
		}
		if s.IsMatchTiebreak() && (home != 1 || away != 1) {
			return fmt.Errorf("%w: a match tiebreak needs the court at one set all, not %d-%d", ErrInvalidScore, home, away)
		}
		switch s.Winner() {
		case SideHome:
			home++
		case SideAway:
			away++
		}
	}
	return nil
}

// Normalize fills derived fields: a regular 7-6 set is always a tiebreak set.
func Normalize(s SetScore) SetScore {
	if s.Kind == "" {
		s.Kind = SetKindRegular
	}
	if !s.IsMatchTiebreak() {
		s.IsTiebreak = (s.HomeGames == 7 && s.AwayGames == 6) || (s.HomeGames == 6 && s.AwayGames == 7)
	}
	return s
}
