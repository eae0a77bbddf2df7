// Package tmdb provides a client for The Movie Database API.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.themoviedb.org"

// searchLimit caps how many hits a single catalog search returns.
const searchLimit = 12

// ErrNotFound is returned when the requested record doesn't exist in TMDB.
var ErrNotFound = errors.New("tmdb: not found")

// Client is a TMDB API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs a GET against path with the given query values and decodes
// the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TMDB API error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// GetMovie fetches movie metadata by TMDB ID.
func (c *Client) GetMovie(ctx context.Context, tmdbID int64) (*Movie, error) {
	var movie Movie
	if err := c.get(ctx, fmt.Sprintf("/3/movie/%d", tmdbID), nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// GetSeries fetches series metadata by TMDB ID, including its season list
// (without per-episode detail; see GetSeasonEpisodes).
func (c *Client) GetSeries(ctx context.Context, tmdbID int64) (*Series, error) {
	var series Series
	if err := c.get(ctx, fmt.Sprintf("/3/tv/%d", tmdbID), nil, &series); err != nil {
		return nil, err
	}
	return &series, nil
}

// GetSeasonEpisodes fetches the episode list for one season of a series.
func (c *Client) GetSeasonEpisodes(ctx context.Context, tmdbID int64, season int) ([]Episode, error) {
	var resp struct {
		Episodes []Episode `json:"episodes"`
	}
	if err := c.get(ctx, fmt.Sprintf("/3/tv/%d/season/%d", tmdbID, season), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Episodes, nil
}

// SearchMovies searches TMDB for movies.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]SearchHit, error) {
	return c.search(ctx, "/3/search/movie", query, "movie")
}

// SearchSeries searches TMDB for TV series.
func (c *Client) SearchSeries(ctx context.Context, query string) ([]SearchHit, error) {
	return c.search(ctx, "/3/search/tv", query, "tv")
}

// SearchMulti searches TMDB for both movies and series.
// Person hits are skipped.
func (c *Client) SearchMulti(ctx context.Context, query string) ([]SearchHit, error) {
	return c.search(ctx, "/3/search/multi", query, "")
}

func (c *Client) search(ctx context.Context, path, query, forcedType string) ([]SearchHit, error) {
	q := url.Values{}
	q.Set("query", query)

	var resp struct {
		Results []SearchHit `json:"results"`
	}
	if err := c.get(ctx, path, q, &resp); err != nil {
		return nil, err
	}

	hits := make([]SearchHit, 0, len(resp.Results))
	for _, hit := range resp.Results {
		if forcedType != "" {
			hit.MediaType = forcedType
		}
		if hit.MediaType != "movie" && hit.MediaType != "tv" {
			continue
		}
		hits = append(hits, hit)
		if len(hits) == searchLimit {
			break
		}
	}
	return hits, nil
}

// yearOf extracts the year from a TMDB date string like "1999-10-15".
func yearOf(date string) string {
	if len(date) < 4 {
		return ""
	}
	if _, err := strconv.Atoi(date[:4]); err != nil {
		return ""
	}
	return date[:4]
}
