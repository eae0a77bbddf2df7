package dirlist

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lidanthedev/Mirrarr/internal/media"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// indexPage builds an nginx-style autoindex page.
func indexPage(rows ...string) string {
	page := "<html><body><h1>Index of /</h1><hr><pre><a href=\"../\">../</a>\n"
	for _, row := range rows {
		page += row + "\n"
	}
	return page + "</pre><hr></body></html>"
}

func fileRow(name string, size int64) string {
	return fmt.Sprintf(`<a href="%s">%s</a>                02-Jan-2024 10:00 %d`, url.PathEscape(name), name, size)
}

func dirRow(name string) string {
	escaped := url.PathEscape(name)
	return fmt.Sprintf(`<a href="%s/">%s/</a>              02-Jan-2024 10:00 -`, escaped, name)
}

func TestParseListing(t *testing.T) {
	base, _ := url.Parse("https://dl.example.com/movies/")
	entries := parseListing(indexPage(
		fileRow("The.Matrix.1999.1080p.BluRay.mkv", 8000000000),
		dirRow("Inception (2010)"),
	), base)

	require.Len(t, entries, 2, "parent link should be skipped")

	assert.Equal(t, "The.Matrix.1999.1080p.BluRay.mkv", entries[0].Name)
	assert.Equal(t, int64(8000000000), entries[0].Size)
	assert.False(t, entries[0].IsDir)
	assert.True(t, entries[0].IsVideo())
	assert.Equal(t, "https://dl.example.com/movies/The.Matrix.1999.1080p.BluRay.mkv", entries[0].URL)

	assert.Equal(t, "Inception (2010)", entries[1].Name)
	assert.True(t, entries[1].IsDir)
	assert.False(t, entries[1].IsVideo())
}

func TestParseListing_HumanSizes(t *testing.T) {
	base, _ := url.Parse("https://dl.example.com/movies/")
	entries := parseListing(indexPage(
		`<a href="movie.mkv">movie.mkv</a>   02-Jan-2024 10:00  1.5G`,
	), base)

	require.Len(t, entries, 1)
	assert.InDelta(t, 1.5e9, float64(entries[0].Size), 1e8)
}

func TestQualityFromName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"The.Matrix.1999.1080p.BluRay.x264.mkv", "1080p BluRay"},
		{"Movie.2160p.WEB-DL.mkv", "2160p WEB-DL"},
		{"Show.S01E01.720p.HDTV.mkv", "720p HDTV"},
		{"Old.Movie.DVDRip.avi", "DVDRip"},
		{"Something.4K.REMUX.mkv", "2160p REMUX"},
		{"plain-file.mkv", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QualityFromName(tt.name))
		})
	}
}

// newTestServer serves a fake directory tree keyed by path.
func newTestServer(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, page)
	}))
}

func TestAdapter_FetchMovie(t *testing.T) {
	pages := map[string]string{
		"/movies/": indexPage(
			fileRow("The.Matrix.1999.1080p.BluRay.mkv", 8_000_000_000),
			dirRow("The Matrix (1999)"),
			fileRow("Inception.2010.2160p.WEB-DL.mkv", 20_000_000_000),
		),
		"/movies/The Matrix (1999)/": indexPage(
			fileRow("The.Matrix.1999.2160p.REMUX.mkv", 50_000_000_000),
			fileRow("cover.jpg", 150_000),
		),
	}
	server := newTestServer(t, pages)
	defer server.Close()

	adapter, err := New(Config{
		Name:       "vault",
		URL:        server.URL,
		MoviesPath: "/movies/",
		TVPath:     "/tvs/",
	}, testLogger())
	require.NoError(t, err)

	results, err := adapter.FetchMovie(context.Background(), &media.Movie{ID: 603, Title: "The Matrix"})
	require.NoError(t, err)
	require.Len(t, results, 2, "direct file plus folder content; Inception filtered out, cover.jpg skipped")

	assert.Equal(t, "1080p BluRay", results[0].Quality)
	assert.Equal(t, "vault", results[0].SourceID)
	assert.Equal(t, int64(8_000_000_000), results[0].SizeBytes)
	assert.Equal(t, "2160p REMUX", results[1].Quality)
}

func TestAdapter_FetchEpisode(t *testing.T) {
	pages := map[string]string{
		"/tvs/": indexPage(
			dirRow("Breaking Bad"),
			dirRow("Better Call Saul"),
		),
		"/tvs/Breaking Bad/": indexPage(
			dirRow("Season 1"),
			dirRow("Season 2"),
		),
		"/tvs/Breaking Bad/Season 2/": indexPage(
			fileRow("Breaking.Bad.S02E05.1080p.WEB-DL.mkv", 3_000_000_000),
			fileRow("Breaking.Bad.S02E06.1080p.WEB-DL.mkv", 3_100_000_000),
		),
	}
	server := newTestServer(t, pages)
	defer server.Close()

	adapter, err := New(Config{
		Name:       "vault",
		URL:        server.URL,
		MoviesPath: "/movies/",
		TVPath:     "/tvs/",
	}, testLogger())
	require.NoError(t, err)

	results, err := adapter.FetchEpisode(context.Background(), &media.Series{ID: 1396, Title: "Breaking Bad"}, 2, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "Breaking Bad S02E05", results[0].Title)
	assert.Equal(t, 2, results[0].Season)
	assert.Equal(t, 5, results[0].Episode)
	assert.Equal(t, "1080p WEB-DL", results[0].Quality)
}

func TestAdapter_FetchEpisode_UnknownSeries(t *testing.T) {
	server := newTestServer(t, map[string]string{
		"/tvs/": indexPage(dirRow("Some Other Show")),
	})
	defer server.Close()

	adapter, err := New(Config{Name: "vault", URL: server.URL, TVPath: "/tvs/"}, testLogger())
	require.NoError(t, err)

	results, err := adapter.FetchEpisode(context.Background(), &media.Series{Title: "Breaking Bad"}, 1, 1)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMatchesSeason(t *testing.T) {
	assert.True(t, matchesSeason("Season 2", 2))
	assert.True(t, matchesSeason("Season 02", 2))
	assert.True(t, matchesSeason("S02", 2))
	assert.True(t, matchesSeason("2", 2))
	assert.False(t, matchesSeason("Season 12", 2))
	assert.False(t, matchesSeason("Extras", 2))
}

func TestMatchesEpisode(t *testing.T) {
	assert.True(t, matchesEpisode("Show.S02E05.mkv", 2, 5))
	assert.True(t, matchesEpisode("show 2x05.mkv", 2, 5))
	assert.False(t, matchesEpisode("Show.S02E06.mkv", 2, 5))
	assert.False(t, matchesEpisode("Show.S03E05.mkv", 2, 5))
	assert.False(t, matchesEpisode("random.mkv", 2, 5))
}
