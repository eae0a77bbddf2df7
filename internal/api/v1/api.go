// Package v1 implements the native REST API.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/lidanthedev/Mirrarr/internal/download"
	"github.com/lidanthedev/Mirrarr/internal/media"
	"github.com/lidanthedev/Mirrarr/internal/search"
	"github.com/lidanthedev/Mirrarr/internal/source"
	"github.com/lidanthedev/Mirrarr/internal/tmdb"
)

// Server is the v1 API server.
type Server struct {
	deps      ServerDeps
	startedAt time.Time
}

// New creates a new v1 API server.
func New(deps ServerDeps) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	return &Server{deps: deps, startedAt: time.Now()}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Catalog
	mux.HandleFunc("GET /api/v1/search", s.searchCatalog)
	mux.HandleFunc("GET /api/v1/movie/{id}", s.getMovie)
	mux.HandleFunc("GET /api/v1/series/{id}", s.getSeries)
	mux.HandleFunc("GET /api/v1/series/{id}/season/{season}", s.getSeasonEpisodes)

	// Sources & results
	mux.HandleFunc("GET /api/v1/sources", s.listSources)
	mux.HandleFunc("GET /api/v1/movie/{id}/results", s.requireAggregator(s.movieResults))
	mux.HandleFunc("GET /api/v1/movie/{id}/results/{source}", s.requireAggregator(s.movieResultsFrom))
	mux.HandleFunc("GET /api/v1/movie/{id}/best", s.requireAggregator(s.movieBest))
	mux.HandleFunc("GET /api/v1/series/{id}/results", s.requireAggregator(s.episodeResults))
	mux.HandleFunc("GET /api/v1/series/{id}/results/{source}", s.requireAggregator(s.episodeResultsFrom))
	mux.HandleFunc("GET /api/v1/series/{id}/best", s.requireAggregator(s.episodeBest))

	// Downloads
	mux.HandleFunc("POST /api/v1/downloads", s.submitDownload)
	mux.HandleFunc("GET /api/v1/downloads", s.listDownloads)
	mux.HandleFunc("GET /api/v1/downloads/{id}", s.getDownload)
	mux.HandleFunc("GET /api/v1/downloads/{id}/events", s.requireEventLog(s.listDownloadEvents))

	// System
	mux.HandleFunc("GET /api/v1/events", s.requireEventLog(s.listEvents))
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// pathID extracts an integer ID from the URL path.
func pathID(r *http.Request, name string) (int64, error) {
	idStr := r.PathValue(name)
	if idStr == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// queryInt extracts an optional integer from the query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// Catalog handlers

func (s *Server) searchCatalog(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "MISSING_QUERY", "q parameter is required")
		return
	}

	mediaType := media.Type(r.URL.Query().Get("type"))
	switch mediaType {
	case "", media.TypeMovie, media.TypeSeries:
	default:
		writeError(w, http.StatusBadRequest, "INVALID_TYPE", "type must be movie or series")
		return
	}

	results, err := s.deps.Catalog.Search(r.Context(), query, mediaType)
	if err != nil {
		writeError(w, http.StatusBadGateway, "CATALOG_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results, "total": len(results)})
}

func (s *Server) getMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	movie, err := s.deps.Catalog.Movie(r.Context(), id)
	if err != nil {
		s.writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (s *Server) getSeries(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	series, err := s.deps.Catalog.Series(r.Context(), id)
	if err != nil {
		s.writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) getSeasonEpisodes(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	season, err := pathID(r, "season")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_SEASON", err.Error())
		return
	}

	episodes, err := s.deps.Catalog.SeasonEpisodes(r.Context(), id, int(season))
	if err != nil {
		s.writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"episodes": episodes, "total": len(episodes)})
}

func (s *Server) writeCatalogError(w http.ResponseWriter, err error) {
	if errors.Is(err, tmdb.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no such title")
		return
	}
	writeError(w, http.StatusBadGateway, "CATALOG_ERROR", err.Error())
}

// Source & result handlers

func (s *Server) listSources(w http.ResponseWriter, r *http.Request) {
	names := s.deps.Sources.Names()
	items := make([]sourceResponse, len(names))
	for i, name := range names {
		items[i] = sourceResponse{
			Name:      name,
			Preferred: name == s.deps.Policy.PreferredSource,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sources": items, "total": len(items)})
}

func (s *Server) movieResults(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	results, err := s.deps.Aggregator.AggregateMovie(r.Context(), id)
	if err != nil {
		s.writeResultsError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultsResponse{Results: results, Total: len(results)})
}

func (s *Server) movieResultsFrom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	results, err := s.deps.Aggregator.MovieFrom(r.Context(), r.PathValue("source"), id)
	if err != nil {
		s.writeResultsError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultsResponse{Results: results, Total: len(results)})
}

func (s *Server) movieBest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	results, err := s.deps.Aggregator.AggregateMovie(r.Context(), id)
	if err != nil {
		s.writeResultsError(w, err)
		return
	}
	s.writeBest(w, results)
}

// episodeCoords pulls the season and episode query parameters.
func episodeCoords(r *http.Request) (int, int, error) {
	season := queryInt(r, "season", -1)
	episode := queryInt(r, "episode", -1)
	if season < 0 || episode < 0 {
		return 0, 0, errors.New("season and episode parameters are required")
	}
	return season, episode, nil
}

func (s *Server) episodeResults(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	season, episode, err := episodeCoords(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_EPISODE", err.Error())
		return
	}

	results, err := s.deps.Aggregator.AggregateEpisode(r.Context(), id, season, episode)
	if err != nil {
		s.writeResultsError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultsResponse{Results: results, Total: len(results)})
}

func (s *Server) episodeResultsFrom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	season, episode, err := episodeCoords(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_EPISODE", err.Error())
		return
	}

	results, err := s.deps.Aggregator.EpisodeFrom(r.Context(), r.PathValue("source"), id, season, episode)
	if err != nil {
		s.writeResultsError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultsResponse{Results: results, Total: len(results)})
}

func (s *Server) episodeBest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	season, episode, err := episodeCoords(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_EPISODE", err.Error())
		return
	}

	results, err := s.deps.Aggregator.AggregateEpisode(r.Context(), id, season, episode)
	if err != nil {
		s.writeResultsError(w, err)
		return
	}
	s.writeBest(w, results)
}

func (s *Server) writeBest(w http.ResponseWriter, results []source.Result) {
	best, err := s.deps.Policy.SelectBest(results)
	if errors.Is(err, search.ErrNoResults) {
		writeError(w, http.StatusNotFound, "NO_RESULTS", "no result satisfies the quality policy")
		return
	}
	writeJSON(w, http.StatusOK, best)
}

func (s *Server) writeResultsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, source.ErrNotRegistered):
		writeError(w, http.StatusNotFound, "SOURCE_NOT_FOUND", err.Error())
	case errors.Is(err, tmdb.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no such title")
	default:
		writeError(w, http.StatusBadGateway, "SOURCE_ERROR", err.Error())
	}
}

// Download handlers

func (s *Server) submitDownload(w http.ResponseWriter, r *http.Request) {
	var req submitDownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		writeError(w, http.StatusBadRequest, "INVALID_URL", "url must be absolute http or https")
		return
	}

	var opts source.Options
	if req.Source != "" {
		adapter, err := s.deps.Sources.Get(req.Source)
		if err != nil {
			writeError(w, http.StatusNotFound, "SOURCE_NOT_FOUND", err.Error())
			return
		}
		opts = adapter.Options()
	}

	rec, err := s.deps.Queue.Submit(download.Job{
		URL:            req.URL,
		Source:         req.Source,
		Options:        opts,
		CustomFilename: req.Filename,
		Metadata:       req.Metadata,
	})
	if err != nil {
		if errors.Is(err, download.ErrShutdown) {
			writeError(w, http.StatusServiceUnavailable, "SHUTTING_DOWN", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "QUEUE_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) listDownloads(w http.ResponseWriter, r *http.Request) {
	records := s.deps.Queue.List()
	writeJSON(w, http.StatusOK, map[string]any{"downloads": records, "total": len(records)})
}

func (s *Server) getDownload(w http.ResponseWriter, r *http.Request) {
	rec, err := s.deps.Queue.Status(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, download.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "download not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "QUEUE_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// System handlers

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	records := s.deps.Queue.List()
	active := 0
	for _, rec := range records {
		if rec.Status.IsActive() {
			active++
		}
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Version:       s.deps.Version,
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		Sources:       s.deps.Sources.Len(),
		Downloads:     len(records),
		Active:        active,
	})
}
