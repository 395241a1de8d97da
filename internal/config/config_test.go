package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setServerEnv(t *testing.T) {
	t.Setenv("APP_NAME", "skill-gap")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8080")
}

func TestLoad_Defaults(t *testing.T) {
	setServerEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.HTTPPort)
	assert.Equal(t, 0.70, cfg.Matching.MatchThreshold)
	assert.Equal(t, 0.50, cfg.Matching.PartialThreshold)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, 600*time.Second, cfg.Redis.TTL)
	assert.Equal(t, "disable", cfg.Database.DBSSLMode)
	assert.False(t, cfg.Database.Enabled())
	assert.False(t, cfg.Fetch.Headless)
	assert.Equal(t, "body", cfg.Fetch.BodySelector)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("APP_NAME", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("HTTP_PORT", "")

	_, err := Load()
	require.ErrorIs(t, err, errMissingRequiredEnv)
	assert.Contains(t, err.Error(), "APP_NAME")
	assert.Contains(t, err.Error(), "HTTP_PORT")
}

func TestLoadTooling_DoesNotRequireServerKeys(t *testing.T) {
	t.Setenv("APP_NAME", "")
	t.Setenv("HTTP_PORT", "")

	_, err := LoadTooling()
	assert.NoError(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	setServerEnv(t)
	t.Setenv("MATCH_THRESHOLD", "0.75")
	t.Setenv("PARTIAL_THRESHOLD", "0.5")
	t.Setenv("EMBEDDING_TIMEOUT", "45s")
	t.Setenv("REDIS_TTL", "120")
	t.Setenv("FETCH_HEADLESS", "true")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "skillgap")
	t.Setenv("DB_POOL_MAX_CONNS", "8")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0.75, cfg.Matching.MatchThreshold)
	assert.Equal(t, 45*time.Second, cfg.Embedding.Timeout)
	assert.Equal(t, 120*time.Second, cfg.Redis.TTL)
	assert.True(t, cfg.Fetch.Headless)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, int32(8), cfg.Database.PoolMaxConns)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"unparsable float":  {"MATCH_THRESHOLD", "high"},
		"inverted":          {"PARTIAL_THRESHOLD", "0.9"},
		"bad duration":      {"EMBEDDING_TIMEOUT", "soon"},
		"zero workers":      {"BATCH_WORKERS", "0"},
		"threshold above 1": {"MATCH_THRESHOLD", "1.5"},
		"NaN match":         {"MATCH_THRESHOLD", "NaN"},
		"NaN partial":       {"PARTIAL_THRESHOLD", "nan"},
		"infinite match":    {"MATCH_THRESHOLD", "+Inf"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			setServerEnv(t)
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.ErrorIs(t, err, errInvalidEnv)
		})
	}
}
