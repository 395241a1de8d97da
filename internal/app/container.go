package app

import (
	"context"
	"fmt"
	"time"

	"skill-gap/internal/config"
	"skill-gap/internal/database"
	"skill-gap/internal/database/migration"
	dbpostgres "skill-gap/internal/database/postgres"
	"skill-gap/internal/domain/analysis"
	"skill-gap/internal/domain/matching"
	"skill-gap/internal/domain/skill"
	"skill-gap/internal/embedding"
	"skill-gap/internal/extraction"
	"skill-gap/internal/fetcher"
	"skill-gap/internal/infrastructure/cache"
	"skill-gap/internal/logger"
	"skill-gap/internal/pkg/jwt"
	"skill-gap/internal/repository"
	"skill-gap/internal/usecase"
	"skill-gap/internal/ws"

	"github.com/rs/zerolog"
)

const (
	hashingDimensions  = 256
	memoryRepoCapacity = 1000
)

// Core is everything an analysis needs without network services: the
// registry, the extractor and the matcher.
type Core struct {
	Registry  *skill.Registry
	Extractor *extraction.Extractor
	Embedder  embedding.Provider
	Matcher   *matching.Matcher
}

func NewCore(cfg config.Config, vc embedding.VectorCache, log zerolog.Logger) (*Core, error) {
	table := skill.DefaultTable()
	if path := cfg.Skills.AliasTablePath; path != "" {
		t, err := skill.LoadTableYAML(path)
		if err != nil {
			return nil, err
		}
		table = t
		log.Info().Str("path", path).Int("skills", len(t)).Msg("alias table loaded")
	}
	reg, err := skill.NewRegistry(table)
	if err != nil {
		return nil, fmt.Errorf("alias table: %w", err)
	}

	var opts []extraction.Option
	if cfg.Skills.StrictSubstring {
		opts = append(opts, extraction.WithStrictSubstring())
	}

	embedder := NewEmbedder(cfg.Embedding, vc, logger.Component(log, "embedding"))
	return &Core{
		Registry:  reg,
		Extractor: extraction.New(reg, opts...),
		Embedder:  embedder,
		Matcher:   matching.NewMatcher(embedder),
	}, nil
}

// NewEmbedder picks the HTTP embedding API when a key is configured and the
// local hashing embedder otherwise. Vectors are cached when vc is non-nil.
func NewEmbedder(cfg config.EmbeddingConfig, vc embedding.VectorCache, log zerolog.Logger) embedding.Provider {
	var p embedding.Provider = embedding.NewLazy(func() (embedding.Provider, error) {
		if cfg.APIKey == "" {
			log.Info().Msg("no embedding api key, using hashing embedder")
			return embedding.NewHashing(hashingDimensions), nil
		}
		opts := []embedding.HTTPOption{
			embedding.WithBatchSize(cfg.BatchSize),
			embedding.WithLogger(log),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, embedding.WithBaseURL(cfg.BaseURL))
		}
		if cfg.Model != "" {
			opts = append(opts, embedding.WithModel(cfg.Model))
		}
		if cfg.Dimensions > 0 {
			opts = append(opts, embedding.WithDimensions(cfg.Dimensions))
		}
		return embedding.NewHTTPProvider(cfg.APIKey, opts...)
	})
	if vc != nil {
		p = embedding.NewCached(p, vc, cfg.CacheTTL, log)
	}
	return p
}

type Container struct {
	Config config.Config
	Log    zerolog.Logger

	DB    database.DB
	Cache *cache.Redis
	Hub   *ws.Hub
	JWT   jwt.Service

	Core     *Core
	Repo     analysis.Repository
	Skills   *usecase.Skill
	Analyses *usecase.Analysis

	stopHub context.CancelFunc
}

// NewContainer connects the optional backends and wires the use cases.
// Without a database analyses are kept in memory; without redis nothing is
// cached.
func NewContainer(ctx context.Context, cfg config.Config, log zerolog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Log: log}

	c.Cache = cache.NewRedis(cfg.Redis, logger.Component(log, "redis"))

	var vc embedding.VectorCache
	var rc usecase.ReportCache
	if c.Cache.Available() {
		vc, rc = c.Cache, c.Cache
	}

	core, err := NewCore(cfg, vc, log)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Core = core

	if cfg.Database.Enabled() {
		if err := c.openDatabase(ctx); err != nil {
			_ = c.Close()
			return nil, err
		}
		c.Repo = repository.NewPostgresAnalysisRepository(c.DB)
	} else {
		log.Info().Msg("no database configured, keeping analyses in memory")
		c.Repo = repository.NewMemoryAnalysisRepository(memoryRepoCapacity)
	}

	if cfg.JWT.AccessSecret != "" {
		c.JWT = jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.Issuer, cfg.JWT.AccessTTL)
	}

	hubCtx, stop := context.WithCancel(context.Background())
	c.stopHub = stop
	c.Hub = ws.NewHub(logger.Component(log, "ws"))
	go c.Hub.Run(hubCtx)

	c.Skills = usecase.NewSkillUsecase(core.Extractor)
	c.Analyses = usecase.NewAnalysisUsecase(usecase.AnalysisDeps{
		Extractor: core.Extractor,
		Matcher:   core.Matcher,
		Repo:      c.Repo,
		Cache:     rc,
		Fetcher: fetcher.New(cfg.Fetch.Headless, fetcher.Options{
			BodySelector: cfg.Fetch.BodySelector,
			UserAgent:    cfg.Fetch.UserAgent,
			Timeout:      cfg.Fetch.Timeout,
		}),
		Notifier:       ws.NewNotifier(c.Hub),
		EmbeddingModel: embedding.ModelName(core.Embedder),
		Log:            logger.Component(log, "analysis"),
	}, usecase.AnalysisConfig{
		Thresholds: matching.Thresholds{
			Match:   cfg.Matching.MatchThreshold,
			Partial: cfg.Matching.PartialThreshold,
		},
		EmbeddingTimeout: cfg.Embedding.Timeout,
		BatchWorkers:     cfg.Batch.Workers,
		MaxBatchJobs:     cfg.Batch.MaxJobs,
		BatchRateLimit:   cfg.Batch.RateLimit,
		CacheTTL:         cfg.Redis.TTL,
	})

	return c, nil
}

func (c *Container) openDatabase(ctx context.Context) error {
	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connCtx, c.Config.Database, logger.Component(c.Log, "postgres"))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	c.DB = db

	n, err := migration.Runner{Log: logger.Component(c.Log, "migration")}.Run(ctx, db.SQLDB())
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	c.Log.Info().Int("applied", n).Msg("migrations up to date")
	return nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.stopHub != nil {
		c.stopHub()
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
