package main

import (
	"fmt"

	"github.com/kickinn/kickinn-api/internal/config"
	"github.com/kickinn/kickinn-api/internal/server"
	"github.com/kickinn/kickinn-api/internal/server/ratelimit"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var (
		port    int
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  `Start an HTTP server that exposes the fit-score endpoints, /health and /metrics.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			return runServe(cmd, cfg, migrate)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (overrides KICKINN_PORT)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply database migrations before serving")
	return cmd
}

func runServe(cmd *cobra.Command, cfg *config.Config, migrate bool) error {
	ctx := cmd.Context()

	jwtConfig, err := cfg.JWT()
	if err != nil {
		return err
	}

	rateConfig, err := ratelimit.LoadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if migrate {
		if err := a.store.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}

	srv, err := server.New(server.Config{Port: cfg.Port}, server.Deps{
		Service: a.service,
		Store:   a.store,
		JWT:     server.NewJWTService(jwtConfig),
		Limiter: ratelimit.NewLimiter(rateConfig),
		Metrics: a.metrics,
		Logger:  a.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	a.logger.Info("kickinn api configured",
		zap.String("store", cfg.Store),
		zap.String("llm_provider", cfg.LLMProvider),
		zap.String("model", a.llm.Model()),
		zap.Bool("metrics", cfg.MetricsEnabled))

	return srv.Start(ctx)
}
