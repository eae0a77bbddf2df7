// Package search aggregates download candidates across sources and picks
// the best one according to a ranking policy.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lidanthedev/Mirrarr/internal/media"
	"github.com/lidanthedev/Mirrarr/internal/source"
)

// Lookup resolves media identifiers to full metadata records.
type Lookup interface {
	Movie(ctx context.Context, id int64) (*media.Movie, error)
	Series(ctx context.Context, id int64) (*media.Series, error)
}

// Aggregator fans a fetch out to every registered source in parallel and
// merges whatever comes back. Sources fail independently: an error or
// timeout in one source never affects the others' results.
type Aggregator struct {
	registry *source.Registry
	lookup   Lookup
	timeout  time.Duration
	log      *slog.Logger
}

// NewAggregator creates an aggregator. timeout bounds each individual
// source fetch, not the aggregation as a whole.
func NewAggregator(registry *source.Registry, lookup Lookup, timeout time.Duration, log *slog.Logger) *Aggregator {
	if log == nil {
		log = slog.Default()
	}
	return &Aggregator{
		registry: registry,
		lookup:   lookup,
		timeout:  timeout,
		log:      log.With("component", "search"),
	}
}

// AggregateMovie queries every source for a movie's download candidates.
func (a *Aggregator) AggregateMovie(ctx context.Context, id int64) ([]source.Result, error) {
	movie, err := a.lookup.Movie(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup movie %d: %w", id, err)
	}
	return a.fanOut(ctx, a.registry.All(), func(ctx context.Context, adapter source.Adapter) ([]source.Result, error) {
		return adapter.FetchMovie(ctx, movie)
	}), nil
}

// AggregateEpisode queries every source for one episode's candidates.
func (a *Aggregator) AggregateEpisode(ctx context.Context, id int64, season, episode int) ([]source.Result, error) {
	series, err := a.lookup.Series(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup series %d: %w", id, err)
	}
	return a.fanOut(ctx, a.registry.All(), func(ctx context.Context, adapter source.Adapter) ([]source.Result, error) {
		return adapter.FetchEpisode(ctx, series, season, episode)
	}), nil
}

// MovieFrom queries a single named source for a movie's candidates.
// Returns source.ErrNotRegistered for an unknown source name.
func (a *Aggregator) MovieFrom(ctx context.Context, name string, id int64) ([]source.Result, error) {
	adapter, err := a.registry.Get(name)
	if err != nil {
		return nil, err
	}
	movie, err := a.lookup.Movie(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup movie %d: %w", id, err)
	}
	return a.fetchOne(ctx, adapter, func(ctx context.Context) ([]source.Result, error) {
		return adapter.FetchMovie(ctx, movie)
	})
}

// EpisodeFrom queries a single named source for one episode's candidates.
func (a *Aggregator) EpisodeFrom(ctx context.Context, name string, id int64, season, episode int) ([]source.Result, error) {
	adapter, err := a.registry.Get(name)
	if err != nil {
		return nil, err
	}
	series, err := a.lookup.Series(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup series %d: %w", id, err)
	}
	return a.fetchOne(ctx, adapter, func(ctx context.Context) ([]source.Result, error) {
		return adapter.FetchEpisode(ctx, series, season, episode)
	})
}

// fanOut runs fetch against every adapter in parallel, each under its own
// timeout. Failed sources are logged and dropped; merged results arrive in
// completion order.
func (a *Aggregator) fanOut(ctx context.Context, adapters []source.Adapter, fetch func(context.Context, source.Adapter) ([]source.Result, error)) []source.Result {
	start := time.Now()
	a.log.Debug("aggregation started", "sources", len(adapters))

	results := make(chan []source.Result, len(adapters))
	var wg sync.WaitGroup

	for _, adapter := range adapters {
		wg.Add(1)
		go func(adp source.Adapter) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			fetchStart := time.Now()
			found, err := fetch(fetchCtx, adp)
			if err != nil {
				a.log.Warn("source failed", "source", adp.Name(), "error", err, "duration_ms", time.Since(fetchStart).Milliseconds())
				return
			}
			a.log.Debug("source returned", "source", adp.Name(), "results", len(found), "duration_ms", time.Since(fetchStart).Milliseconds())
			results <- found
		}(adapter)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var merged []source.Result
	for found := range results {
		merged = append(merged, found...)
	}

	a.log.Info("aggregation complete", "sources", len(adapters), "results", len(merged), "duration_ms", time.Since(start).Milliseconds())
	return merged
}

// fetchOne applies the per-source timeout to a single adapter fetch.
func (a *Aggregator) fetchOne(ctx context.Context, adapter source.Adapter, fetch func(context.Context) ([]source.Result, error)) ([]source.Result, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	found, err := fetch(fetchCtx)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", adapter.Name(), err)
	}
	return found, nil
}
