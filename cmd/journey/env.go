package main

import (
	"context"
	"errors"
	"fmt"

	"journey/internal/config"
	"journey/internal/goal"
	"journey/internal/logger"
	"journey/internal/storage"
	"journey/internal/streak"
)

// env is everything a command needs once flags are parsed.
type env struct {
	opts *rootOptions
	cfg  *config.Config
	log  *logger.Logger
	kv   storage.KV
}

// openEnv loads configuration, starts logging and opens storage.
func openEnv(ctx context.Context, opts *rootOptions) (*env, error) {
	cfg, err := config.LoadFrom(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
	}
	if opts.backend != "" {
		cfg.Storage.Backend = opts.backend
	}
	if opts.debug {
		cfg.Log.Debug = true
	}

	lg, err := logger.New(logger.Config{
		DataDir: cfg.GetDataDir(),
		Level:   cfg.Log.Level,
		Debug:   cfg.Log.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("starting logger: %w", err)
	}

	kv, err := storage.Open(ctx, storage.Options{
		Backend:    cfg.Storage.Backend,
		DataDir:    cfg.GetDataDir(),
		SQLitePath: cfg.GetSQLitePath(),
		Redis: storage.RedisOptions{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
			Prefix:   cfg.Storage.Redis.Prefix,
		},
		Logger: lg.Logger,
	})
	if err != nil {
		_ = lg.Close()
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	lg.Debug("environment ready", "backend", cfg.Storage.Backend, "data_dir", cfg.GetDataDir())
	return &env{opts: opts, cfg: cfg, log: lg, kv: kv}, nil
}

// Close releases storage and the log file.
func (e *env) Close() error {
	return errors.Join(e.kv.Close(), e.log.Close())
}

// activeGoal returns the tracked goal with a hint when there is none yet.
func (e *env) activeGoal(ctx context.Context) (goal.Definition, error) {
	def, err := storage.LoadActiveGoal(ctx, e.kv)
	if errors.Is(err, storage.ErrNoActiveGoal) {
		return goal.Definition{}, fmt.Errorf("%w: run 'journey goal new' to set one", err)
	}
	return def, err
}

// engine builds the streak engine for def over the configured store.
func (e *env) engine(ctx context.Context, def goal.Definition) *streak.Engine {
	store := storage.NewGoalStore(e.kv, def.ID,
		storage.WithStoreLocation(e.opts.loc),
		storage.WithStoreLogger(e.log.Logger),
		storage.WithStoreContext(ctx),
	)
	return streak.New(def, store,
		streak.WithClock(e.opts.now),
		streak.WithLocation(e.opts.loc),
		streak.WithStaleAfter(e.cfg.Streak.StaleAfter),
		streak.WithLogger(e.log.Logger),
	)
}

// withEngine opens the environment and the active goal's engine, runs fn and
// closes everything.
func withEngine(ctx context.Context, opts *rootOptions, fn func(*env, *streak.Engine) error) error {
	e, err := openEnv(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	def, err := e.activeGoal(ctx)
	if err != nil {
		return err
	}
	return fn(e, e.engine(ctx, def))
}
