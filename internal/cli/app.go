package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/stanza/internal/logging"
	"github.com/aretw0/stanza/internal/runtime"
	"github.com/aretw0/stanza/pkg/adapters/file"
	"github.com/aretw0/stanza/pkg/adapters/memory"
	"github.com/aretw0/stanza/pkg/adapters/redis"
	"github.com/aretw0/stanza/pkg/adapters/remote"
	"github.com/aretw0/stanza/pkg/choice"
	"github.com/aretw0/stanza/pkg/config"
	"github.com/aretw0/stanza/pkg/observability"
	"github.com/aretw0/stanza/pkg/ports"
	"github.com/aretw0/stanza/pkg/session"
	"github.com/aretw0/stanza/pkg/verse"
	"github.com/prometheus/client_golang/prometheus"
)

// App bundles the components every stanza command runs on.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Loader   ports.ChainLoader
	Engine   *runtime.Engine
	Sessions *session.Manager
	Metrics  *observability.Metrics

	closers []func() error
}

// NewApp assembles loader, store, engine and metrics from cfg.
// A nil logger is built from cfg.Log and writes to Stderr.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		var err error
		if logger, err = newLogger(cfg.Log); err != nil {
			return nil, err
		}
	}

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Loader:  newLoader(cfg.Chains),
		Metrics: observability.NewMetrics(prometheus.NewRegistry()),
	}

	rng := choice.Global
	if cfg.Engine.Seed != 0 {
		rng = choice.Seeded(cfg.Engine.Seed)
	}
	hooks := observability.Combine(app.Metrics.Hooks(), observability.LogHooks(logger))

	app.Engine = runtime.NewEngine(app.Loader,
		runtime.WithPool(cfg.Pool),
		runtime.WithRand(rng),
		runtime.WithAttribution(verse.PolicyFor(cfg.Engine.Attribution)),
		runtime.WithLifecycleHooks(hooks),
		runtime.WithLogger(logger),
		runtime.WithCompletionDepth(cfg.Engine.CompletionDepth),
		runtime.WithEarlyCompletion(cfg.Engine.EarlyMaxKeys, cfg.Engine.EarlyMinWords),
	)

	sessions, err := app.newSessions(cfg.Store)
	if err != nil {
		return nil, err
	}
	app.Sessions = sessions
	return app, nil
}

func newLogger(cfg config.LogConfig) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(os.Stderr, level, format), nil
}

// newLoader picks the remote host when a URL is set, the chain directory otherwise.
func newLoader(cfg config.ChainsConfig) ports.ChainLoader {
	switch {
	case cfg.URL != "":
		var opts []remote.Option
		if cfg.Timeout > 0 {
			opts = append(opts, remote.WithTimeout(cfg.Timeout))
		}
		return remote.NewLoader(cfg.URL, opts...)
	case cfg.Dir != "":
		return file.NewLoader(cfg.Dir)
	default:
		return memory.NewLoader(nil)
	}
}

func (a *App) newSessions(cfg config.StoreConfig) (*session.Manager, error) {
	opts := []session.Option{
		session.WithLogger(a.Logger),
		session.WithLockTTL(cfg.LockTTL),
	}

	var store ports.StateStore
	switch cfg.Kind {
	case config.StoreMemory, "":
		store = memory.NewStore()
	case config.StoreFile:
		store = file.NewStore(cfg.Path)
	case config.StoreRedis:
		prefix := cfg.Redis.Prefix
		if prefix == "" {
			prefix = redis.DefaultPrefix
		}
		rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		a.closers = append(a.closers, rs.Close)
		store = rs
		opts = append(opts, session.WithLocker(redis.NewLocker(rs.Client(), prefix)))
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
	}
	return session.NewManager(store, opts...), nil
}

// StartWatch purges cached chains as chain files change, when enabled.
func (a *App) StartWatch(ctx context.Context) error {
	if !a.Config.Chains.Watch {
		return nil
	}
	if err := a.Engine.Watch(ctx); err != nil {
		return fmt.Errorf("watch chains: %w", err)
	}
	a.Logger.Info("Watching chains", "dir", a.Config.Chains.Dir)
	return nil
}

// Close releases store connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
