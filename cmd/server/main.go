// Package main is the entry point of the Spark site backend.
//
// main only wires things together:
//  1. read configuration (environment, optional .env)
//  2. build dependencies: logger, SQLite store, change feed, analytics,
//     signup pipeline, hackathon service, live leaderboard
//  3. run the HTTP server and the background loops until SIGINT/SIGTERM
//
// All behaviour lives in internal/.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/analytics"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/changefeed"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/config"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/handler"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/leaderboard"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/repository/sqlite"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/server"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/service"
	"github.com/Reginald-Ch/konov-spark-learn-sub000/internal/signup"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger(stdout, cfg)

	// --- SQLite ---
	if dir := filepath.Dir(cfg.DBPath); cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating database directory %s: %w", dir, err)
		}
	}
	feed := changefeed.New()
	db, err := sqlite.New(cfg.DBPath, feed)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	logger.Info("connected to sqlite", slog.String("path", cfg.DBPath))

	if cfg.SeedDemo {
		n, err := db.SeedDemo(ctx, time.Now())
		if err != nil {
			return fmt.Errorf("seeding demo data: %w", err)
		}
		logger.Info("demo data", slog.Int("hackathons_created", n))
	}

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// --- Components ---
	recorder, err := analytics.NewRecorder(analytics.Options{
		Window:     cfg.AnalyticsWindow,
		File:       cfg.AnalyticsFile,
		Registerer: reg,
	}, logger.With(slog.String("component", "analytics")))
	if err != nil {
		return fmt.Errorf("creating analytics recorder: %w", err)
	}

	pipeline := signup.NewPipeline(db, recorder, logger.With(slog.String("component", "signup")))
	hackathons := service.NewHackathonService(db, pipeline, logger.With(slog.String("component", "hackathons")))

	live, err := leaderboard.NewLive(db, feed, logger.With(slog.String("component", "leaderboard")), reg)
	if err != nil {
		return fmt.Errorf("creating leaderboard: %w", err)
	}

	// --- HTTP Server ---
	srv := server.New(server.Config{
		Addr:        cfg.HTTPAddr,
		CORSOrigins: cfg.CORSOrigins,
	}, server.Deps{
		Signups:     pipeline,
		Hackathons:  hackathons,
		Leaderboard: live,
		Analytics:   recorder,
		Checks: map[string]handler.Checker{
			"sqlite": handler.CheckFunc(func(ctx context.Context) error { return db.Ping() }),
		},
		Metrics: reg,
	}, logger)

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	g.Go(func() error {
		return live.Run(gctx)
	})

	g.Go(func() error {
		return recorder.Run(gctx)
	})

	return g.Wait()
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
