package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	v1 "github.com/lidanthedev/Mirrarr/internal/api/v1"
	"github.com/lidanthedev/Mirrarr/internal/config"
	"github.com/lidanthedev/Mirrarr/internal/download"
	"github.com/lidanthedev/Mirrarr/internal/events"
	"github.com/lidanthedev/Mirrarr/internal/metadata"
	"github.com/lidanthedev/Mirrarr/internal/migrations"
	"github.com/lidanthedev/Mirrarr/internal/search"
	"github.com/lidanthedev/Mirrarr/internal/server"
	"github.com/lidanthedev/Mirrarr/internal/source"
	"github.com/lidanthedev/Mirrarr/internal/source/dirlist"
	"github.com/lidanthedev/Mirrarr/internal/tmdb"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 200 { // Only capture first WriteHeader call
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// watchEvents mirrors bus traffic into the log: every event at debug, final
// failures at warn so they stand out without grepping the event table.
func watchEvents(ctx context.Context, bus *events.Bus, log *slog.Logger) {
	all := bus.SubscribeAll(64)
	failures := bus.Subscribe(events.EventDownloadFailed, 16)
	defer bus.Unsubscribe(all)
	defer bus.Unsubscribe(failures)

	for {
		select {
		case e, ok := <-all:
			if !ok {
				return
			}
			log.Debug("event", "type", e.EventType(), "entity", e.EntityType(), "id", e.EntityID())
		case e, ok := <-failures:
			if !ok {
				return
			}
			failed, isFailed := e.(*events.DownloadFailed)
			if isFailed {
				log.Warn("download failed", "id", e.EntityID(), "reason", failed.Reason, "attempt", failed.Attempt)
			}
		case <-ctx.Done():
			return
		}
	}
}

func runServer(configPath string) error {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Create logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	// Ensure database directory exists
	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	// Run migrations
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// === Metadata ===
	tmdbClient := tmdb.NewClient(cfg.TMDB.APIKey)
	cache := metadata.NewCache(db)
	catalog := metadata.NewService(tmdbClient, cache, logger.With("component", "metadata"))

	// === Sources ===
	registry := source.NewRegistry()
	for name, src := range cfg.Sources.Dirlist {
		proxy := src.Proxy
		if proxy == "" {
			proxy = cfg.Downloads.Proxy
		}
		adapter, err := dirlist.New(dirlist.Config{
			Name:       name,
			URL:        src.URL,
			MoviesPath: src.MoviesPath,
			TVPath:     src.TVPath,
			Proxy:      proxy,
		}, logger)
		if err != nil {
			return fmt.Errorf("source %s: %w", name, err)
		}
		if err := registry.Register(adapter); err != nil {
			return fmt.Errorf("source %s: %w", name, err)
		}
	}

	aggregator := search.NewAggregator(registry, catalog, cfg.SourceTimeout(), logger.With("component", "search"))

	// === Events ===
	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, logger.With("component", "bus"))
	defer bus.Close()

	// === Downloads ===
	transferer := download.NewHTTPTransferer(cfg.Downloads.Dir, cfg.Downloads.Proxy, logger)
	queue := download.NewQueue(transferer, bus, logger)

	runner := server.NewRunner(queue, eventLog, cache, server.Config{
		Workers: cfg.Downloads.Workers,
	}, logger)

	// === HTTP Setup ===
	apiV1, err := v1.New(v1.ServerDeps{
		Catalog:    catalog,
		Sources:    registry,
		Queue:      queue,
		Aggregator: aggregator,
		Policy: search.Policy{
			PreferredSource: cfg.Sources.Preferred,
			QualityLimit:    cfg.Quality.Limit,
		},
		EventLog: eventLog,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}

	mux := http.NewServeMux()
	apiV1.RegisterRoutes(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting",
		"addr", addr,
		"database", cfg.Database.Path,
		"sources", registry.Len(),
		"workers", cfg.Downloads.Workers,
		"downloads_dir", cfg.Downloads.Dir,
		"log_level", cfg.Server.LogLevel,
	)

	// === Background components ===
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runnerDone := make(chan error, 1)
	go func() {
		runnerDone <- runner.Run(ctx)
	}()
	go watchEvents(ctx, bus, logger.With("component", "events"))

	// === HTTP Server ===
	srv := &http.Server{Addr: addr, Handler: logRequests(mux, logger)}

	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig.String())

	// Stop background components; the runner drains in-flight downloads.
	cancel()
	if err := <-runnerDone; err != nil && err != context.Canceled {
		logger.Error("runner error", "error", err)
	}

	// Graceful HTTP shutdown with 30s timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
