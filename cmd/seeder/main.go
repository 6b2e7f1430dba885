package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/courtside/internal/config"
	"github.com/mauv0809/courtside/internal/database"
	"github.com/mauv0809/courtside/internal/lineup"
	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/pairstats"
	"github.com/mauv0809/courtside/internal/processor"
	"github.com/mauv0809/courtside/internal/pubsub"
	"github.com/mauv0809/courtside/internal/roster"
	"github.com/mauv0809/courtside/internal/scoring"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	seedTeamID   = "demo-team"
	seedTeamName = "Demo Aces"
	numMatches   = 40
)

var playerNames = []string{
	"Ana Ruiz", "Ben Okafor", "Chloe Martin", "Dmitri Ivanov",
	"Elena Rossi", "Femi Adeyemi", "Grace Kim", "Hugo Blanc",
}

func main() {
	log.Info("Starting database seeder...")
	cfg := config.Load()
	ctx := context.Background()

	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	rosterStore := roster.New(db)
	matchStore := match.New(db)
	stats := pairstats.New(db)
	metricsSvc := metrics.NewService(prometheus.NewRegistry())
	proc := processor.New(matchStore, rosterStore, stats, lineup.NewEngine(stats, nil, metricsSvc), metricsSvc, pubsub.NewNoop())

	if err := rosterStore.UpsertTeam(ctx, roster.Team{ID: seedTeamID, Name: seedTeamName}); err != nil {
		log.Fatalf("Failed to create team: %s", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ids := make([]string, len(playerNames))
	for i, name := range playerNames {
		rating := 3.0 + float64(rng.Intn(5))*0.5
		p := roster.Player{
			ID:            uuid.New().String(),
			TeamID:        seedTeamID,
			FullName:      name,
			NTRPRating:    &rating,
			FairPlayScore: float64(40 + rng.Intn(61)),
		}
		if err := rosterStore.UpsertPlayer(ctx, p); err != nil {
			log.Fatalf("Failed to insert player %s: %s", name, err)
		}
		ids[i] = p.ID
	}
	log.Info("Inserted players", "count", len(ids))

	startTime := time.Now()
	for i := 0; i < numMatches; i++ {
		date := time.Now().AddDate(0, 0, -7*(numMatches-i))
		m, err := matchStore.CreateMatch(ctx, seedTeamID, fmt.Sprintf("Rival Club %d", i%5+1), date)
		if err != nil {
			log.Fatalf("Failed to create match: %s", err)
		}

		order := rng.Perm(len(ids))
		for court := 1; court <= lineup.DefaultCourts; court++ {
			p1, p2 := ids[order[2*court-2]], ids[order[2*court-1]]
			if err := proc.SetCourtLineup(ctx, m.ID, court, p1, p2); err != nil {
				log.Fatalf("Failed to set lineup: %s", err)
			}
			for setNumber, score := range randomCourt(rng) {
				if err := proc.RecordSetScore(ctx, m.ID, court, setNumber+1, score); err != nil {
					log.Fatalf("Failed to record score: %s", err)
				}
			}
		}

		if _, err := proc.FinalizeMatch(ctx, m.ID, false, false); err != nil {
			log.Fatalf("Failed to finalize match %s: %s", m.ID, err)
		}
	}

	log.Info("Seeding complete", "matches", numMatches, "duration", time.Since(startTime))
}

// randomCourt plays sets until one side has two. A deciding third set is a
// match tiebreak half of the time.
func randomCourt(rng *rand.Rand) []scoring.SetScore {
	var sets []scoring.SetScore
	home, away := 0, 0
	for home < 2 && away < 2 {
		var s scoring.SetScore
		if home == 1 && away == 1 && rng.Intn(2) == 0 {
			loser := rng.Intn(9)
			s = scoring.SetScore{HomeGames: 10, AwayGames: loser, Kind: scoring.SetKindMatchTiebreak}
		} else {
			s = randomSet(rng)
		}
		if rng.Intn(2) == 0 {
			s = swap(s)
		}
		if s.Winner() == scoring.SideHome {
			home++
		} else {
			away++
		}
		sets = append(sets, s)
	}
	return sets
}

func randomSet(rng *rand.Rand) scoring.SetScore {
	switch n := rng.Intn(7); {
	case n < 5:
		return scoring.SetScore{HomeGames: 6, AwayGames: n}
	case n == 5:
		return scoring.SetScore{HomeGames: 7, AwayGames: 5}
	default:
		th, ta := 7, rng.Intn(6)
		return scoring.SetScore{HomeGames: 7, AwayGames: 6, TiebreakHome: &th, TiebreakAway: &ta}
	}
}

func swap(s scoring.SetScore) scoring.SetScore {
	s.HomeGames, s.AwayGames = s.AwayGames, s.HomeGames
	s.TiebreakHome, s.TiebreakAway = s.TiebreakAway, s.TiebreakHome
	return s
}
