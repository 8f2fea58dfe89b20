package main

import (
	"context"
	"fmt"

	"github.com/kickinn/kickinn-api/internal/config"
	"github.com/kickinn/kickinn-api/internal/db"
	"github.com/kickinn/kickinn-api/internal/fitscore"
	"github.com/kickinn/kickinn-api/internal/llm"
	"github.com/kickinn/kickinn-api/internal/logging"
	"github.com/kickinn/kickinn-api/internal/metrics"
	"go.uber.org/zap"
)

// store is what every backend offers the commands.
type store interface {
	fitscore.Store
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close()
}

// openStore connects to the configured backend. SQLite applies its schema on open.
func openStore(ctx context.Context, cfg *config.Config) (store, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		return db.OpenSQLite(ctx, cfg.SQLitePath)
	default:
		return db.Connect(ctx, cfg.DatabaseURL)
	}
}

// app bundles the collaborators built from one Config.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   store
	llm     llm.Client
	metrics *metrics.Manager
	service *fitscore.Service
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store, err)
	}

	client, err := llm.NewClient(ctx, cfg.LLM())
	if err != nil {
		st.Close()
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}

	m := metrics.NewManager(metrics.WithMetricsEnabled(cfg.MetricsEnabled))

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   st,
		llm:     client,
		metrics: m,
		service: fitscore.NewService(st, client, logger, m),
	}, nil
}

func (a *app) Close() {
	if err := a.llm.Close(); err != nil {
		a.logger.Warn("failed to close llm client", zap.Error(err))
	}
	a.store.Close()
	_ = a.logger.Sync()
}
