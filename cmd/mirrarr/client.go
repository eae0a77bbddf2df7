package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client wraps HTTP calls to the Mirrarr server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Mirrarr API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (c *Client) get(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *Client) post(path string, body any, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// API response types (mirror server types)

type StatusResponse struct {
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Sources       int    `json:"sources"`
	Downloads     int    `json:"downloads"`
	Active        int    `json:"active_downloads"`
}

type CatalogItem struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview,omitempty"`
	MediaType   string  `json:"media_type"`
	ReleaseYear string  `json:"release_year,omitempty"`
	VoteAverage float64 `json:"vote_average,omitempty"`
}

type CatalogSearchResponse struct {
	Results []CatalogItem `json:"results"`
	Total   int           `json:"total"`
}

type MovieResponse struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview,omitempty"`
	ReleaseYear string   `json:"release_year,omitempty"`
	VoteAverage float64  `json:"vote_average,omitempty"`
	Runtime     int      `json:"runtime,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	IMDBID      string   `json:"imdb_id,omitempty"`
}

type SeriesResponse struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Overview     string   `json:"overview,omitempty"`
	ReleaseYear  string   `json:"release_year,omitempty"`
	VoteAverage  float64  `json:"vote_average,omitempty"`
	SeasonCount  int      `json:"number_of_seasons,omitempty"`
	EpisodeCount int      `json:"number_of_episodes,omitempty"`
	Genres       []string `json:"genres,omitempty"`
	Status       string   `json:"status,omitempty"`
}

type EpisodeInfo struct {
	Number  int    `json:"episode_number"`
	Name    string `json:"name"`
	AirDate string `json:"air_date,omitempty"`
	Runtime int    `json:"runtime,omitempty"`
}

type EpisodesResponse struct {
	Episodes []EpisodeInfo `json:"episodes"`
	Total    int           `json:"total"`
}

type SourceInfo struct {
	Name      string `json:"name"`
	Preferred bool   `json:"preferred"`
}

type ListSourcesResponse struct {
	Sources []SourceInfo `json:"sources"`
	Total   int          `json:"total"`
}

type ResultItem struct {
	Title       string `json:"title"`
	Quality     string `json:"quality"`
	SizeBytes   int64  `json:"size_bytes"`
	DownloadURL string `json:"download_url"`
	SourceID    string `json:"source_id"`
	Filename    string `json:"filename,omitempty"`
	Season      int    `json:"season,omitempty"`
	Episode     int    `json:"episode,omitempty"`
}

type ResultsResponse struct {
	Results []ResultItem `json:"results"`
	Total   int          `json:"total"`
}

type SubmitDownloadRequest struct {
	URL      string            `json:"url"`
	Source   string            `json:"source,omitempty"`
	Filename string            `json:"filename,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type DownloadRecord struct {
	ID          string  `json:"id"`
	URL         string  `json:"url"`
	Source      string  `json:"source,omitempty"`
	Status      string  `json:"status"`
	Progress    float64 `json:"progress"`
	SpeedBPS    int64   `json:"speed_bps"`
	ETASeconds  int     `json:"eta_seconds"`
	Speed       string  `json:"speed"`
	ETA         string  `json:"eta"`
	Size        string  `json:"size"`
	Filename    string  `json:"filename,omitempty"`
	Path        string  `json:"path,omitempty"`
	Error       string  `json:"error,omitempty"`
	Attempt     int     `json:"attempt"`
	NextRetryAt *string `json:"next_retry_at,omitempty"`
	AddedAt     string  `json:"added_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type ListDownloadsResponse struct {
	Downloads []DownloadRecord `json:"downloads"`
	Total     int              `json:"total"`
}

type EventInfo struct {
	ID         int64  `json:"id"`
	EventType  string `json:"event_type"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	OccurredAt string `json:"occurred_at"`
}

type ListEventsResponse struct {
	Items []EventInfo `json:"items"`
	Total int         `json:"total"`
}

// API methods

func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get("/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SearchCatalog(query, mediaType string) (*CatalogSearchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	if mediaType != "" {
		params.Set("type", mediaType)
	}

	var resp CatalogSearchResponse
	if err := c.get("/api/v1/search?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Movie(id int64) (*MovieResponse, error) {
	var resp MovieResponse
	if err := c.get(fmt.Sprintf("/api/v1/movie/%d", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Series(id int64) (*SeriesResponse, error) {
	var resp SeriesResponse
	if err := c.get(fmt.Sprintf("/api/v1/series/%d", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SeasonEpisodes(id int64, season int) (*EpisodesResponse, error) {
	var resp EpisodesResponse
	if err := c.get(fmt.Sprintf("/api/v1/series/%d/season/%d", id, season), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Sources() (*ListSourcesResponse, error) {
	var resp ListSourcesResponse
	if err := c.get("/api/v1/sources", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) MovieResults(id int64, src string) (*ResultsResponse, error) {
	path := fmt.Sprintf("/api/v1/movie/%d/results", id)
	if src != "" {
		path += "/" + url.PathEscape(src)
	}
	var resp ResultsResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) MovieBest(id int64) (*ResultItem, error) {
	var resp ResultItem
	if err := c.get(fmt.Sprintf("/api/v1/movie/%d/best", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func episodeParams(season, episode int) string {
	params := url.Values{}
	params.Set("season", fmt.Sprint(season))
	params.Set("episode", fmt.Sprint(episode))
	return params.Encode()
}

func (c *Client) EpisodeResults(id int64, season, episode int, src string) (*ResultsResponse, error) {
	path := fmt.Sprintf("/api/v1/series/%d/results", id)
	if src != "" {
		path += "/" + url.PathEscape(src)
	}
	var resp ResultsResponse
	if err := c.get(path+"?"+episodeParams(season, episode), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) EpisodeBest(id int64, season, episode int) (*ResultItem, error) {
	var resp ResultItem
	path := fmt.Sprintf("/api/v1/series/%d/best?%s", id, episodeParams(season, episode))
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SubmitDownload(req *SubmitDownloadRequest) (*DownloadRecord, error) {
	var resp DownloadRecord
	if err := c.post("/api/v1/downloads", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Downloads() (*ListDownloadsResponse, error) {
	var resp ListDownloadsResponse
	if err := c.get("/api/v1/downloads", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Download(id string) (*DownloadRecord, error) {
	var resp DownloadRecord
	if err := c.get("/api/v1/downloads/"+url.PathEscape(id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DownloadEvents(id string) (*ListEventsResponse, error) {
	var resp ListEventsResponse
	if err := c.get("/api/v1/downloads/"+url.PathEscape(id)+"/events", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Events(limit int) (*ListEventsResponse, error) {
	path := fmt.Sprintf("/api/v1/events?limit=%d", limit)
	var resp ListEventsResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
