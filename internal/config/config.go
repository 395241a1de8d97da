package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	Matching  MatchingConfig
	Embedding EmbeddingConfig
	Skills    SkillsConfig
	Fetch     FetchConfig
	Batch     BatchConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

// Enabled reports whether a database is configured. Without one, analyses are
// kept in memory.
func (d DatabaseConfig) Enabled() bool {
	return d.DBHost != "" && d.DBName != ""
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type JWTConfig struct {
	AccessSecret string
	Issuer       string
	AccessTTL    time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type MatchingConfig struct {
	MatchThreshold   float64
	PartialThreshold float64
}

type EmbeddingConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	BatchSize  int
	Timeout    time.Duration
	CacheTTL   time.Duration
}

type SkillsConfig struct {
	AliasTablePath  string
	StrictSubstring bool
}

type FetchConfig struct {
	Headless     bool
	BodySelector string
	UserAgent    string
	Timeout      time.Duration
}

type BatchConfig struct {
	Workers int
	MaxJobs int
	// RateLimit caps job starts per second; 0 disables the limit.
	RateLimit int
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

// Load reads the server configuration. APP_NAME, APP_ENV and HTTP_PORT are required.
func Load() (Config, error) {
	return load(true)
}

// LoadTooling reads the same keys as Load without requiring the server ones.
func LoadTooling() (Config, error) {
	return load(false)
}

func load(requireApp bool) (Config, error) {
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optDefault := func(key, def string) string {
		if v := opt(key); v != "" {
			return v
		}
		return def
	}
	optInt := func(key string, def int) int {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optFloat := func(key string, def float64) float64 {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optBool := func(key string, def bool) bool {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	// Durations accept Go syntax ("45s") or a bare number of seconds.
	optDuration := func(key string, def time.Duration) time.Duration {
		raw := opt(key)
		if raw == "" {
			return def
		}
		if n, err := strconv.Atoi(raw); err == nil {
			return time.Duration(n) * time.Second
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return d
	}

	appKey := opt
	if requireApp {
		appKey = req
	}
	cfg.App = AppConfig{
		AppName:     appKey("APP_NAME"),
		Environment: appKey("APP_ENV"),
		HTTPPort:    appKey("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:                opt("DB_HOST"),
		DBPort:                optDefault("DB_PORT", "5432"),
		DBName:                opt("DB_NAME"),
		DBUser:                opt("DB_USER"),
		DBPassword:            opt("DB_PASSWORD"),
		DBSSLMode:             optDefault("DB_SSL_MODE", "disable"),
		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD", 0),
	}

	cfg.Redis = RedisConfig{
		Enabled:  optBool("REDIS_ENABLED", opt("REDIS_HOST") != ""),
		Host:     optDefault("REDIS_HOST", "localhost"),
		Port:     optDefault("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD"),
		DB:       optInt("REDIS_DB", 0),
		TTL:      optDuration("REDIS_TTL", 600*time.Second),
	}

	cfg.JWT = JWTConfig{
		AccessSecret: opt("JWT_ACCESS_SECRET"),
		Issuer:       optDefault("JWT_ISSUER", "skill-gap"),
		AccessTTL:    optDuration("JWT_ACCESS_TTL", 15*time.Minute),
	}

	cfg.Log = LogConfig{
		Level:  optDefault("LOG_LEVEL", "info"),
		Format: optDefault("LOG_FORMAT", "json"),
	}

	cfg.Matching = MatchingConfig{
		MatchThreshold:   optFloat("MATCH_THRESHOLD", 0.70),
		PartialThreshold: optFloat("PARTIAL_THRESHOLD", 0.50),
	}

	cfg.Embedding = EmbeddingConfig{
		APIKey:     opt("EMBEDDING_API_KEY"),
		BaseURL:    opt("EMBEDDING_BASE_URL"),
		Model:      opt("EMBEDDING_MODEL"),
		Dimensions: optInt("EMBEDDING_DIMENSIONS", 0),
		BatchSize:  optInt("EMBEDDING_BATCH_SIZE", 64),
		Timeout:    optDuration("EMBEDDING_TIMEOUT", 30*time.Second),
		CacheTTL:   optDuration("EMBEDDING_CACHE_TTL", 24*time.Hour),
	}

	cfg.Skills = SkillsConfig{
		AliasTablePath:  opt("SKILL_ALIAS_TABLE"),
		StrictSubstring: optBool("SKILL_STRICT_SUBSTRING", false),
	}

	cfg.Fetch = FetchConfig{
		Headless:     optBool("FETCH_HEADLESS", false),
		BodySelector: optDefault("FETCH_BODY_SELECTOR", "body"),
		UserAgent:    opt("FETCH_USER_AGENT"),
		Timeout:      optDuration("FETCH_TIMEOUT", 20*time.Second),
	}

	cfg.Batch = BatchConfig{
		Workers:   optInt("BATCH_WORKERS", 4),
		MaxJobs:   optInt("BATCH_MAX_JOBS", 20),
		RateLimit: optInt("BATCH_RATE_LIMIT", 0),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}
	if err := cfg.Matching.validate(); err != nil {
		return Config{}, err
	}
	if cfg.Batch.Workers <= 0 {
		return Config{}, fmt.Errorf("%w: BATCH_WORKERS must be positive", errInvalidEnv)
	}
	if cfg.Batch.RateLimit < 0 {
		return Config{}, fmt.Errorf("%w: BATCH_RATE_LIMIT must not be negative", errInvalidEnv)
	}

	return cfg, nil
}

func (m MatchingConfig) validate() error {
	for _, v := range []float64{m.MatchThreshold, m.PartialThreshold} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: thresholds must be finite numbers", errInvalidEnv)
		}
	}
	if m.MatchThreshold <= 0 || m.PartialThreshold <= 0 || m.MatchThreshold > 1 || m.PartialThreshold > 1 {
		return fmt.Errorf("%w: thresholds must be in (0, 1]", errInvalidEnv)
	}
	if m.MatchThreshold <= m.PartialThreshold {
		return fmt.Errorf("%w: MATCH_THRESHOLD must exceed PARTIAL_THRESHOLD", errInvalidEnv)
	}
	return nil
}
