package main

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Status_Success(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/status").
		ExpectGET().
		RespondJSON(StatusResponse{
			Version:       "1.2.3",
			UptimeSeconds: 3600,
			Sources:       2,
			Downloads:     5,
			Active:        1,
		}).
		Build()
	defer srv.Close()

	client := NewClient(srv.URL)
	resp, err := client.Status()
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, int64(3600), resp.UptimeSeconds)
	assert.Equal(t, 2, resp.Sources)
	assert.Equal(t, 5, resp.Downloads)
	assert.Equal(t, 1, resp.Active)
}

func TestClient_Status_ServerError(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/status").
		ExpectGET().
		RespondError(http.StatusInternalServerError, "database connection failed").
		Build()
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Status()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "database connection failed")
}

func TestClient_SearchCatalog(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/search").
		ExpectGET().
		Handler(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "The Matrix", r.URL.Query().Get("q"))
			assert.Equal(t, "movie", r.URL.Query().Get("type"))
			respondJSON(t, w, CatalogSearchResponse{
				Results: []CatalogItem{
					{ID: 603, Title: "The Matrix", MediaType: "movie", ReleaseYear: "1999", VoteAverage: 8.2},
				},
				Total: 1,
			})
		}).
		Build()
	defer srv.Close()

	client := NewClient(srv.URL)
	resp, err := client.SearchCatalog("The Matrix", "movie")
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, int64(603), resp.Results[0].ID)
	assert.Equal(t, "The Matrix", resp.Results[0].Title)
	assert.Equal(t, "1999", resp.Results[0].ReleaseYear)
}

func TestClient_MovieResults(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/movie/603/results").
		ExpectGET().
		RespondJSON(ResultsResponse{
			Results: []ResultItem{
				{Title: "The Matrix (1999)", Quality: "1080p BluRay", SizeBytes: 8 << 30, SourceID: "vault", DownloadURL: "https://dl.example.com/matrix.mkv"},
			},
			Total: 1,
		}).
		Build()
	defer srv.Close()

	client := NewClient(srv.URL)
	resp, err := client.MovieResults(603, "")
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, "vault", resp.Results[0].SourceID)
	assert.Equal(t, "1080p BluRay", resp.Results[0].Quality)
}

func TestClient_MovieResults_SingleSource(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/movie/603/results/vault").
		ExpectGET().
		RespondJSON(ResultsResponse{Total: 0}).
		Build()
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.MovieResults(603, "vault")
	require.NoError(t, err)
}

func TestClient_EpisodeBest(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/series/1396/best").
		ExpectGET().
		Handler(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "2", r.URL.Query().Get("season"))
			assert.Equal(t, "5", r.URL.Query().Get("episode"))
			respondJSON(t, w, ResultItem{
				Title: "Breaking Bad S02E05", Quality: "2160p REMUX", SourceID: "vault",
			})
		}).
		Build()
	defer srv.Close()

	client := NewClient(srv.URL)
	resp, err := client.EpisodeBest(1396, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, "2160p REMUX", resp.Quality)
}

func TestClient_SubmitDownload(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/downloads").
		ExpectPOST().
		Handler(func(w http.ResponseWriter, r *http.Request) {
			var req SubmitDownloadRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "https://dl.example.com/matrix.mkv", req.URL)
			assert.Equal(t, "vault", req.Source)
			assert.Equal(t, "The Matrix.mkv", req.Filename)

			w.WriteHeader(http.StatusCreated)
			respondJSON(t, w, DownloadRecord{
				ID: "3f2a9c1e-5b4d-4f7e-9c8a-1d2e3f4a5b6c", URL: req.URL, Status: "queued",
			})
		}).
		Build()
	defer srv.Close()

	client := NewClient(srv.URL)
	rec, err := client.SubmitDownload(&SubmitDownloadRequest{
		URL:      "https://dl.example.com/matrix.mkv",
		Source:   "vault",
		Filename: "The Matrix.mkv",
	})
	require.NoError(t, err)
	assert.Equal(t, "queued", rec.Status)
	assert.NotEmpty(t, rec.ID)
}

func TestClient_SubmitDownload_Rejected(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/downloads").
		ExpectPOST().
		RespondError(http.StatusBadRequest, `{"error":"url must be absolute","code":"INVALID_URL"}`).
		Build()
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.SubmitDownload(&SubmitDownloadRequest{URL: "not-a-url"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "INVALID_URL")
}

func TestClient_DownloadEvents(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/downloads/abc-123/events").
		ExpectGET().
		RespondJSON(ListEventsResponse{
			Items: []EventInfo{
				{ID: 1, EventType: "download.queued", EntityType: "download", EntityID: "abc-123", OccurredAt: "2026-08-26T10:00:00Z"},
				{ID: 2, EventType: "download.started", EntityType: "download", EntityID: "abc-123", OccurredAt: "2026-08-26T10:00:01Z"},
			},
			Total: 2,
		}).
		Build()
	defer srv.Close()

	client := NewClient(srv.URL)
	resp, err := client.DownloadEvents("abc-123")
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "download.queued", resp.Items[0].EventType)
}

func TestClient_Sources(t *testing.T) {
	srv := newMockServer(t).
		ExpectPath("/api/v1/sources").
		ExpectGET().
		RespondJSON(ListSourcesResponse{
			Sources: []SourceInfo{
				{Name: "mirror", Preferred: false},
				{Name: "vault", Preferred: true},
			},
			Total: 2,
		}).
		Build()
	defer srv.Close()

	client := NewClient(srv.URL)
	resp, err := client.Sources()
	require.NoError(t, err)
	require.Len(t, resp.Sources, 2)
	assert.True(t, resp.Sources[1].Preferred)
}
