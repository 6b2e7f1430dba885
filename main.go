package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/config"
	"github.com/mauv0809/courtside/internal/database"
	server "github.com/mauv0809/courtside/internal/http"
	"github.com/mauv0809/courtside/internal/lineup"
	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/pairstats"
	"github.com/mauv0809/courtside/internal/processor"
	"github.com/mauv0809/courtside/internal/pubsub"
	"github.com/mauv0809/courtside/internal/roster"
)

func main() {
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warn("Unknown log level, keeping default", "level", cfg.LogLevel)
	}

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	stats, statsTeardown, err := newPairStatsStore(cfg.PairStats, db)
	if err != nil {
		log.Fatalf("Failed to initialize pair statistics store: %s", err)
	}
	defer statsTeardown()

	ctx := context.Background()
	var events pubsub.PubSubClient
	if cfg.PubSub.ProjectID != "" {
		events, err = pubsub.New(ctx, cfg.PubSub.ProjectID)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
	} else {
		log.Info("GCP_PROJECT not set, match events are not published")
		events = pubsub.NewNoop()
	}
	defer events.Close()

	strategy, err := lineup.ParseStrategy(cfg.Lineup.DefaultStrategy)
	if err != nil {
		log.Fatalf("Invalid lineup strategy: %s", err)
	}

	rosterStore := roster.New(db)
	matchStore := match.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	engine := lineup.NewEngine(stats, strategy, metricsSvc)
	proc := processor.New(matchStore, rosterStore, stats, engine, metricsSvc, events)

	s := server.NewServer(
		rosterStore,
		matchStore,
		stats,
		proc,
		metricsSvc,
		metricsHandler,
		cfg,
	)

	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds(), "pair_stats", cfg.PairStats.Backend, "strategy", strategy.Name())

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}

// newPairStatsStore picks the statistics backend. The sqlite store shares the
// main database.
func newPairStatsStore(cfg config.PairStatsConfig, db *sql.DB) (pairstats.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendRedis:
		client, err := pairstats.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, err
		}
		teardown := func() {
			if err := client.Close(); err != nil {
				log.Error("Failed to close redis client", "error", err)
			}
		}
		return pairstats.NewRedisStore(client, cfg.Prefix), teardown, nil
	case config.BackendMemory:
		log.Warn("Pair statistics are kept in memory and lost on restart")
		return pairstats.NewMemoryStore(), func() {}, nil
	}
	return pairstats.New(db), func() {}, nil
}
