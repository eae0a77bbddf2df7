package v1

import (
	"context"
	"errors"

	"github.com/lidanthedev/Mirrarr/internal/download"
	"github.com/lidanthedev/Mirrarr/internal/events"
	"github.com/lidanthedev/Mirrarr/internal/media"
	"github.com/lidanthedev/Mirrarr/internal/search"
	"github.com/lidanthedev/Mirrarr/internal/source"
)

// Catalog answers metadata queries.
type Catalog interface {
	Search(ctx context.Context, query string, mediaType media.Type) ([]media.SearchResult, error)
	Movie(ctx context.Context, id int64) (*media.Movie, error)
	Series(ctx context.Context, id int64) (*media.Series, error)
	SeasonEpisodes(ctx context.Context, id int64, season int) ([]media.Episode, error)
}

// Aggregator fans searches out across sources.
type Aggregator interface {
	AggregateMovie(ctx context.Context, id int64) ([]source.Result, error)
	AggregateEpisode(ctx context.Context, id int64, season, episode int) ([]source.Result, error)
	MovieFrom(ctx context.Context, name string, id int64) ([]source.Result, error)
	EpisodeFrom(ctx context.Context, name string, id int64, season, episode int) ([]source.Result, error)
}

// DownloadQueue accepts and tracks transfer jobs.
type DownloadQueue interface {
	Submit(job download.Job) (*download.Record, error)
	Status(id string) (*download.Record, error)
	List() []*download.Record
}

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required dependencies
	Catalog Catalog
	Sources *source.Registry
	Queue   DownloadQueue

	// Optional dependencies (nil if not configured)
	Aggregator Aggregator
	Policy     search.Policy
	EventLog   *events.EventLog
	Version    string
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Catalog == nil {
		return errors.New("catalog is required")
	}
	if d.Sources == nil {
		return errors.New("source registry is required")
	}
	if d.Queue == nil {
		return errors.New("download queue is required")
	}
	return nil
}
