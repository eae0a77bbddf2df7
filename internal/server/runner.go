// Package server coordinates the long-running background components.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lidanthedev/Mirrarr/internal/download"
	"github.com/lidanthedev/Mirrarr/internal/events"
	"github.com/lidanthedev/Mirrarr/internal/metadata"
)

const (
	defaultPruneInterval   = time.Hour
	defaultRetainEvents    = 30 * 24 * time.Hour
	defaultShutdownTimeout = 30 * time.Second
)

// Config for the background runner.
type Config struct {
	// Workers is the number of concurrent download workers.
	Workers int
	// PruneInterval is how often expired events and cache entries are removed.
	PruneInterval time.Duration
	// RetainEvents is how long persisted events are kept.
	RetainEvents time.Duration
	// ShutdownTimeout bounds the wait for in-flight downloads on stop.
	ShutdownTimeout time.Duration
}

// Runner manages the background components: download workers and
// periodic pruning of the event log and metadata cache.
type Runner struct {
	queue    *download.Queue
	eventLog *events.EventLog
	cache    *metadata.Cache
	config   Config
	logger   *slog.Logger
}

// NewRunner creates a new runner. The cache may be nil when metadata
// caching is disabled.
func NewRunner(queue *download.Queue, eventLog *events.EventLog, cache *metadata.Cache, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.PruneInterval <= 0 {
		cfg.PruneInterval = defaultPruneInterval
	}
	if cfg.RetainEvents <= 0 {
		cfg.RetainEvents = defaultRetainEvents
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	return &Runner{
		queue:    queue,
		eventLog: eventLog,
		cache:    cache,
		config:   cfg,
		logger:   logger.With("component", "runner"),
	}
}

// Run starts all background components and blocks until the context is
// canceled. In-flight downloads are given ShutdownTimeout to finish.
func (r *Runner) Run(ctx context.Context) error {
	r.queue.Start(r.config.Workers)
	r.logger.Info("workers started", "workers", r.config.Workers)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), r.config.ShutdownTimeout)
		defer cancel()
		if err := r.queue.Shutdown(shutCtx); err != nil {
			return fmt.Errorf("queue shutdown: %w", err)
		}
		r.logger.Info("queue stopped")
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(r.config.PruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				r.prune(ctx)
			}
		}
	})

	return g.Wait()
}

func (r *Runner) prune(ctx context.Context) {
	if n, err := r.eventLog.Prune(ctx, r.config.RetainEvents); err != nil {
		r.logger.Error("event prune failed", "error", err)
	} else if n > 0 {
		r.logger.Info("events pruned", "removed", n)
	}

	if r.cache == nil {
		return
	}
	if n, err := r.cache.Prune(ctx); err != nil {
		r.logger.Error("cache prune failed", "error", err)
	} else if n > 0 {
		r.logger.Info("cache pruned", "removed", n)
	}
}
