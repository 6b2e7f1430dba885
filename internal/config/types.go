package config

// Config holds all configuration for the application.
type Config struct {
	DBName    string
	Port      string
	LogLevel  string
	Turso     TursoConfig
	PairStats PairStatsConfig
	PubSub    PubSubConfig
	Lineup    LineupConfig
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// PairStatsConfig selects where pair statistics are kept.
type PairStatsConfig struct {
	Backend  string // sqlite, redis or memory
	RedisURL string
	Prefix   string
}

// PubSubConfig enables match events. Events are dropped when ProjectID is empty.
type PubSubConfig struct {
	ProjectID string
}

type LineupConfig struct {
	DefaultStrategy string
	Courts          int
}

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)
