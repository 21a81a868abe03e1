package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jonathan/essay-grader/internal/config"
	"github.com/jonathan/essay-grader/internal/observability"
	"github.com/jonathan/essay-grader/internal/server"
	"github.com/jonathan/essay-grader/internal/server/ratelimit"
)

var (
	servePort      int
	serveNoStorage bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for scoring essays and browsing stored submissions.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, else 8080)")
	serveCmd.Flags().BoolVar(&serveNoStorage, "no-storage", false, "Score without persisting submissions even when a database is configured")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Port = servePort
	}

	srv, cleanup, err := buildServer(cmd.Context(), cfg, !serveNoStorage)
	if err != nil {
		return err
	}
	defer cleanup()

	return srv.Start()
}

// buildServer wires the grader, the optional submission store and the rate limiter
// into a server. Storage is attached only when withStorage is set and a database
// URL is configured.
func buildServer(ctx context.Context, cfg *config.Config, withStorage bool) (*server.Server, func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := observability.NewLogger(cfg.Log)
	metrics := observability.DefaultMetrics()

	g, closeGrader, err := newGrader(ctx, cfg, logger, metrics)
	if err != nil {
		return nil, nil, err
	}
	cleanup := closeGrader

	deps := server.Deps{
		Scorer:   g,
		Logger:   logger,
		Gatherer: prometheus.DefaultGatherer,
	}
	if withStorage && cfg.DatabaseURL != "" {
		database, err := connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			closeGrader()
			return nil, nil, err
		}
		deps.Store = database
		cleanup = func() {
			database.Close()
			closeGrader()
		}
	} else {
		logger.Warn("submission storage disabled; scored essays will not be persisted")
	}

	limits := ratelimit.LoadConfig()
	limits.EndpointConfigs = ratelimit.ScoringEndpointConfigs(cfg.RateLimit, cfg.RateBurst)

	srv, err := server.New(server.Config{
		Port:           cfg.Port,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      limits,
	}, deps)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create server: %w", err)
	}
	return srv, cleanup, nil
}
