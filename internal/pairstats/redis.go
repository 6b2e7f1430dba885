package pairstats

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

const (
	fieldMatches     = "matches_together"
	fieldWins        = "wins"
	fieldGamesWon    = "total_games_won"
	fieldGamesPlayed = "total_games_played"

	memberSep = "|"
)

// redisStore keeps one hash per pair and a set of pair keys per team.
type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Store on top of a Redis client. Keys are namespaced with prefix.
func NewRedisStore(client *redis.Client, prefix string) Store {
	if prefix == "" {
		prefix = "courtside"
	}
	return &redisStore{client: client, prefix: prefix}
}

// NewRedisClient parses a redis:// URL into a client.
func NewRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return redis.NewClient(opt), nil
}

func (s *redisStore) pairKey(key PairKey) string {
	return s.prefix + ":pairstats:pair:" + key.String()
}

func (s *redisStore) teamKey(teamID string) string {
	return s.prefix + ":pairstats:team:" + escapeID(teamID)
}

// teamMember encodes a pair as a member of its team set.
func teamMember(key PairKey) string {
	return escapeID(key.Player1ID) + memberSep + escapeID(key.Player2ID)
}

func parseTeamMember(member string) (string, string, error) {
	ids := strings.SplitN(member, memberSep, 2)
	if len(ids) != 2 {
		return "", "", fmt.Errorf("malformed pair member %q", member)
	}
	a, err := unescapeID(ids[0])
	if err != nil {
		return "", "", fmt.Errorf("malformed pair member %q: %w", member, err)
	}
	b, err := unescapeID(ids[1])
	if err != nil {
		return "", "", fmt.Errorf("malformed pair member %q: %w", member, err)
	}
	return a, b, nil
}

func (s *redisStore) Get(ctx context.Context, teamID, playerA, playerB string) (*PairStatistic, error) {
	key, err := NewPairKey(teamID, playerA, playerB)
	if err != nil {
		return nil, err
	}
	fields, err := s.client.HGetAll(ctx, s.pairKey(key)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get pair stats for %s: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return parseHash(key, fields)
}

func (s *redisStore) Increment(ctx context.Context, teamID, playerA, playerB string, won bool, gamesWon, gamesPlayed int) error {
	key, err := NewPairKey(teamID, playerA, playerB)
	if err != nil {
		return err
	}
	if err := validateDelta(gamesWon, gamesPlayed); err != nil {
		return err
	}

	hash := s.pairKey(key)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, hash, fieldMatches, 1)
		pipe.HIncrBy(ctx, hash, fieldWins, int64(boolToInt(won)))
		pipe.HIncrBy(ctx, hash, fieldGamesWon, int64(gamesWon))
		pipe.HIncrBy(ctx, hash, fieldGamesPlayed, int64(gamesPlayed))
		pipe.SAdd(ctx, s.teamKey(key.TeamID), teamMember(key))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to increment pair stats for %s: %w", key, err)
	}
	log.Debug("Incremented pair stats in redis", "pair", key.String(), "won", won)
	return nil
}

func (s *redisStore) ListByTeam(ctx context.Context, teamID string) ([]PairStatistic, error) {
	members, err := s.client.SMembers(ctx, s.teamKey(teamID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list pairs for team %s: %w", teamID, err)
	}

	var stats []PairStatistic
	for _, member := range members {
		a, b, err := parseTeamMember(member)
		if err != nil {
			log.Warn("Skipping malformed pair member", "team", teamID, "error", err)
			continue
		}
		stat, err := s.Get(ctx, teamID, a, b)
		if err != nil {
			return nil, err
		}
		if stat != nil {
			stats = append(stats, *stat)
		}
	}
	sortStats(stats)
	return stats, nil
}

func parseHash(key PairKey, fields map[string]string) (*PairStatistic, error) {
	stat := &PairStatistic{PairKey: key}
	targets := map[string]*int{
		fieldMatches:     &stat.MatchesTogether,
		fieldWins:        &stat.Wins,
		fieldGamesWon:    &stat.TotalGamesWon,
		fieldGamesPlayed: &stat.TotalGamesPlayed,
	}
	for field, target := range targets {
		raw, ok := fields[field]
		if !ok {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s for %s: %w", field, key, err)
		}
		*target = v
	}
	return stat, nil
}
