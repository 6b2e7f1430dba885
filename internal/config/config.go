package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/courtside/internal/lineup"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	cfg, err := FromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

// FromEnv builds the configuration from the process environment.
func FromEnv() (Config, error) {
	getEnv := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		return fallback
	}

	courts, err := strconv.Atoi(getEnv("LINEUP_COURTS", strconv.Itoa(lineup.DefaultCourts)))
	if err != nil {
		return Config{}, fmt.Errorf("LINEUP_COURTS: %w", err)
	}

	cfg := Config{
		DBName:   getEnv("DB_NAME", "courtside.db"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Turso: TursoConfig{
			PrimaryURL: getEnv("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnv("TURSO_AUTH_TOKEN", ""),
		},
		PairStats: PairStatsConfig{
			Backend:  strings.ToLower(getEnv("PAIRSTATS_BACKEND", BackendSQLite)),
			RedisURL: getEnv("REDIS_URL", ""),
			Prefix:   getEnv("REDIS_PREFIX", "courtside"),
		},
		PubSub: PubSubConfig{
			ProjectID: getEnv("GCP_PROJECT", ""),
		},
		Lineup: LineupConfig{
			DefaultStrategy: getEnv("LINEUP_STRATEGY", "greedy"),
			Courts:          courts,
		},
	}
	return cfg, cfg.Validate()
}

// Validate checks that settings which depend on each other are consistent.
func (c Config) Validate() error {
	switch c.PairStats.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.PairStats.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when PAIRSTATS_BACKEND is %s", BackendRedis)
		}
	default:
		return fmt.Errorf("unknown PAIRSTATS_BACKEND %q", c.PairStats.Backend)
	}
	if c.Turso.PrimaryURL != "" && c.Turso.AuthToken == "" {
		return fmt.Errorf("TURSO_AUTH_TOKEN is required with TURSO_PRIMARY_URL")
	}
	if _, err := lineup.ParseStrategy(c.Lineup.DefaultStrategy); err != nil {
		return err
	}
	if c.Lineup.Courts < 1 {
		return fmt.Errorf("LINEUP_COURTS must be at least 1, got %d", c.Lineup.Courts)
	}
	return nil
}
