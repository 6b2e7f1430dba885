package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"DB_NAME", "PORT", "LOG_LEVEL", "TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN",
		"PAIRSTATS_BACKEND", "REDIS_URL", "REDIS_PREFIX", "GCP_PROJECT",
		"LINEUP_STRATEGY", "LINEUP_COURTS",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "courtside.db", cfg.DBName)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendSQLite, cfg.PairStats.Backend)
	assert.Equal(t, "greedy", cfg.Lineup.DefaultStrategy)
	assert.Equal(t, 3, cfg.Lineup.Courts)
	assert.Empty(t, cfg.PubSub.ProjectID)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PAIRSTATS_BACKEND", "Redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("LINEUP_STRATEGY", "exact")
	t.Setenv("LINEUP_COURTS", "5")
	t.Setenv("GCP_PROJECT", "club-project")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.PairStats.Backend)
	assert.Equal(t, "redis://localhost:6379/0", cfg.PairStats.RedisURL)
	assert.Equal(t, "exact", cfg.Lineup.DefaultStrategy)
	assert.Equal(t, 5, cfg.Lineup.Courts)
	assert.Equal(t, "club-project", cfg.PubSub.ProjectID)
}

func TestFromEnv_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{"redis without url", map[string]string{"PAIRSTATS_BACKEND": "redis"}},
		{"unknown backend", map[string]string{"PAIRSTATS_BACKEND": "mongo"}},
		{"unknown strategy", map[string]string{"LINEUP_STRATEGY": "random"}},
		{"courts not a number", map[string]string{"LINEUP_COURTS": "three"}},
		{"zero courts", map[string]string{"LINEUP_COURTS": "0"}},
		{"turso without token", map[string]string{"TURSO_PRIMARY_URL": "libsql://club.turso.io"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
