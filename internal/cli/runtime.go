package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"terminal-quiz/internal/app"
	"terminal-quiz/internal/config"
	"terminal-quiz/internal/content"
	"terminal-quiz/internal/infra/file"
	"terminal-quiz/internal/infra/memory"
	"terminal-quiz/internal/infra/postgres"
	"terminal-quiz/internal/infra/redis"
	"terminal-quiz/internal/logger"
)

// runtime is the wired application for one command invocation.
type runtime struct {
	cfg      config.Config
	logger   *zap.Logger
	store    *content.Store
	bank     *app.QuestionBank
	resolver *app.TopicResolver

	pool  *pgxpool.Pool
	redis *goredis.Client
}

type runtimeOptions struct {
	sample bool // serve the built-in sample content instead of configured sources
}

func loadConfig(path string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}
	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

func newRuntime(ctx context.Context, path string, opts runtimeOptions) (*runtime, error) {
	cfg, log, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, logger: log}

	source, err := rt.source(ctx, opts)
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.store, err = content.NewStore(source,
		content.WithCacheSize(cfg.Content.CacheSize),
		content.WithLogger(log),
	)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.bank = app.NewQuestionBank(rt.store)
	rt.resolver = app.NewTopicResolver(rt.store, rt.bank)
	return rt, nil
}

func (rt *runtime) source(ctx context.Context, opts runtimeOptions) (content.Source, error) {
	var (
		source content.Source
		err    error
	)
	switch {
	case opts.sample:
		source = memory.SampleSource()
	case rt.cfg.Postgres.URL != "":
		rt.pool, err = pgxpool.Connect(ctx, rt.cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		source = postgres.NewSource(rt.pool)
		rt.logger.Debug("using postgres content source")
	default:
		source, err = file.NewSource(rt.cfg.Content.DataDir, rt.cfg.Content.ConfigDir)
		if err != nil {
			return nil, err
		}
		rt.logger.Debug("using file content source",
			zap.String("data_dir", rt.cfg.Content.DataDir),
			zap.String("config_dir", rt.cfg.Content.ConfigDir),
		)
	}

	if rt.cfg.Redis.Addr == "" || opts.sample {
		return source, nil
	}
	rt.redis, err = redis.Connect(ctx, rt.cfg.Redis.Addr, rt.cfg.Redis.Password, rt.cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	return redis.NewCachedSource(rt.redis, source, rt.cfg.Redis.TTL, rt.logger), nil
}

// engine builds a session engine; seed 0 keeps the configured seed.
func (rt *runtime) engine(seed int64) (*app.Engine, error) {
	policy, err := app.ParseCountPolicy(rt.cfg.Session.CountPolicy)
	if err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = rt.cfg.Session.Seed
	}
	return app.NewEngine(rt.resolver, rt.bank,
		app.WithCountPolicy(policy),
		app.WithSeed(seed),
		app.WithLogger(rt.logger),
	), nil
}

func (rt *runtime) Close() {
	if rt.redis != nil {
		rt.redis.Close()
	}
	if rt.pool != nil {
		rt.pool.Close()
	}
	_ = rt.logger.Sync()
}
