// Package dirlist implements a source adapter for HTTP directory indexes.
//
// Sites serving plain autoindex pages (nginx, Apache) expose movies and
// series as browsable folders; the adapter walks them, fuzzy-matches entry
// names against the requested title, and emits download candidates.
package dirlist

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lidanthedev/Mirrarr/internal/media"
	"github.com/lidanthedev/Mirrarr/internal/source"
	"github.com/lidanthedev/Mirrarr/pkg/title"
)

const (
	listingTTL     = 30 * time.Minute
	defaultTimeout = 30 * time.Second
	userAgent      = "Mozilla/5.0 (compatible; Mirrarr)"
)

// Adapter queries one HTTP directory-listing site.
type Adapter struct {
	name       string
	baseURL    string
	moviesPath string
	tvPath     string
	httpClient *http.Client
	opts       source.Options
	cache      *listingCache
	log        *slog.Logger
}

// Config configures a directory-listing adapter.
type Config struct {
	Name       string
	URL        string
	MoviesPath string // e.g. "/movies"
	TVPath     string // e.g. "/tvs"
	Proxy      string // outbound proxy for both listing and transfer
}

// New creates a directory-listing adapter.
func New(cfg Config, log *slog.Logger) (*Adapter, error) {
	if log == nil {
		log = slog.Default()
	}

	transport := http.DefaultTransport
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("parse proxy: %w", err)
		}
		transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}

	return &Adapter{
		name:       cfg.Name,
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		moviesPath: cfg.MoviesPath,
		tvPath:     cfg.TVPath,
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: transport,
		},
		opts:  source.Options{Proxy: cfg.Proxy, Headers: map[string]string{"User-Agent": userAgent}},
		cache: newListingCache(listingTTL),
		log:   log.With("component", "dirlist", "source", cfg.Name),
	}, nil
}

func (a *Adapter) Name() string { return a.name }

func (a *Adapter) Options() source.Options { return a.opts }

// FetchMovie returns download candidates for a movie. Movies are either
// direct video files under the movies directory or folders containing them.
func (a *Adapter) FetchMovie(ctx context.Context, movie *media.Movie) ([]source.Result, error) {
	entries, err := a.listDirectory(ctx, a.baseURL+a.moviesPath)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	var results []source.Result
	for _, entry := range entries {
		if !title.Matches(entry.Name, movie.Title) {
			continue
		}

		if entry.IsVideo() {
			results = append(results, a.movieResult(movie, entry))
			continue
		}
		if !entry.IsDir {
			continue
		}

		// Folder matching the movie title; take the video files inside.
		files, err := a.listDirectory(ctx, entry.URL)
		if err != nil {
			a.log.Warn("listing movie folder failed", "folder", entry.Name, "error", err)
			continue
		}
		for _, f := range files {
			if f.IsVideo() {
				results = append(results, a.movieResult(movie, f))
			}
		}
	}
	return results, nil
}

// FetchEpisode returns download candidates for one episode of a series.
// Layout: <tv>/<series folder>/<season folder>/<episode files>.
func (a *Adapter) FetchEpisode(ctx context.Context, series *media.Series, season, episode int) ([]source.Result, error) {
	entries, err := a.listDirectory(ctx, a.baseURL+a.tvPath)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}

	var seriesDir *Entry
	for i, entry := range entries {
		if entry.IsDir && title.Matches(entry.Name, series.Title) {
			seriesDir = &entries[i]
			break
		}
	}
	if seriesDir == nil {
		return nil, nil
	}

	seasons, err := a.listDirectory(ctx, seriesDir.URL)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}

	var results []source.Result
	for _, seasonDir := range seasons {
		if !seasonDir.IsDir || !matchesSeason(seasonDir.Name, season) {
			continue
		}
		files, err := a.listDirectory(ctx, seasonDir.URL)
		if err != nil {
			a.log.Warn("listing season folder failed", "folder", seasonDir.Name, "error", err)
			continue
		}
		for _, f := range files {
			if f.IsVideo() && matchesEpisode(f.Name, season, episode) {
				results = append(results, source.Result{
					Title:       fmt.Sprintf("%s S%02dE%02d", series.Title, season, episode),
					Quality:     QualityFromName(f.Name),
					SizeBytes:   f.Size,
					DownloadURL: f.URL,
					SourceID:    a.name,
					Filename:    f.Name,
					Season:      season,
					Episode:     episode,
				})
			}
		}
	}
	return results, nil
}

func (a *Adapter) movieResult(movie *media.Movie, entry Entry) source.Result {
	return source.Result{
		Title:       movie.Title,
		Quality:     QualityFromName(entry.Name),
		SizeBytes:   entry.Size,
		DownloadURL: entry.URL,
		SourceID:    a.name,
		Filename:    entry.Name,
	}
}

// listDirectory fetches and parses one directory index, memoized for the
// cache TTL.
func (a *Adapter) listDirectory(ctx context.Context, target string) ([]Entry, error) {
	if listing, ok := a.cache.get(target); ok {
		return listing, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory request failed: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(target)
	if err != nil {
		return nil, err
	}

	listing := parseListing(string(body), base)
	a.cache.set(target, listing)
	return listing, nil
}

// seasonDirPattern matches "Season 1", "Season 01", "S01", or a bare "1".
var seasonDirPattern = regexp.MustCompile(`(?i)^(?:season[ ._]?|s)?0*(\d{1,2})$`)

func matchesSeason(name string, season int) bool {
	m := seasonDirPattern.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return false
	}
	n, err := strconv.Atoi(m[1])
	return err == nil && n == season
}

// episodePatterns match "S01E05" and "1x05" markers in file names.
var episodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)s0*(\d{1,2})[ ._]?e0*(\d{1,3})`),
	regexp.MustCompile(`(?i)\b0*(\d{1,2})x0*(\d{1,3})\b`),
}

func matchesEpisode(name string, season, episode int) bool {
	for _, p := range episodePatterns {
		if m := p.FindStringSubmatch(name); m != nil {
			s, _ := strconv.Atoi(m[1])
			e, _ := strconv.Atoi(m[2])
			return s == season && e == episode
		}
	}
	return false
}
