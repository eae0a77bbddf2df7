// Package source defines download sources and the registry that holds them.
package source

import (
	"context"

	"github.com/lidanthedev/Mirrarr/internal/media"
)

// Result is a single download candidate produced by a source.
// Results are immutable once returned by an adapter.
type Result struct {
	Title       string `json:"title"`
	Quality     string `json:"quality"` // free-form label, e.g. "1080p BluRay"
	SizeBytes   int64  `json:"size_bytes"`
	DownloadURL string `json:"download_url"`
	SourceID    string `json:"source_id"`
	Filename    string `json:"filename,omitempty"`
	Season      int    `json:"season,omitempty"`
	Episode     int    `json:"episode,omitempty"`
}

// Options are per-source transfer options applied when downloading a
// result from this source.
type Options struct {
	Headers map[string]string `json:"headers,omitempty"`
	Proxy   string            `json:"proxy,omitempty"`
}

// Adapter is a pluggable download source. Each adapter queries one remote
// site and returns candidate results; adapters fail independently and must
// honor context cancellation on every fetch.
type Adapter interface {
	// Name returns the stable identity of this source.
	Name() string

	// FetchMovie returns download candidates for a movie.
	FetchMovie(ctx context.Context, movie *media.Movie) ([]Result, error)

	// FetchEpisode returns download candidates for one episode of a series.
	FetchEpisode(ctx context.Context, series *media.Series, season, episode int) ([]Result, error)

	// Options returns the transfer options downloads from this source need.
	Options() Options
}
