package source

import (
	"context"
	"fmt"

	"github.com/lidanthedev/Mirrarr/internal/media"
)

// staticLadder is the fixed quality ladder a Static adapter offers.
var staticLadder = []struct {
	quality string
	size    int64
	slug    string
}{
	{"2160p UHD", 15_728_640_000, "2160p"},
	{"1080p BluRay", 8_388_608_000, "1080p"},
	{"1080p WEB-DL", 4_718_592_000, "1080p-web"},
	{"720p WEB-DL", 2_621_440_000, "720p"},
	{"480p HDTV", 734_003_200, "480p"},
}

// Static is an adapter that fabricates a fixed quality ladder for any
// request. Useful for exercising the full pipeline without a real source.
type Static struct {
	name    string
	baseURL string
}

// NewStatic creates a static adapter serving links under baseURL.
func NewStatic(name, baseURL string) *Static {
	return &Static{name: name, baseURL: baseURL}
}

func (s *Static) Name() string { return s.name }

func (s *Static) Options() Options { return Options{} }

func (s *Static) FetchMovie(ctx context.Context, movie *media.Movie) ([]Result, error) {
	results := make([]Result, 0, len(staticLadder))
	for _, rung := range staticLadder {
		results = append(results, Result{
			Title:       movie.Title,
			Quality:     rung.quality,
			SizeBytes:   rung.size,
			DownloadURL: fmt.Sprintf("%s/movie/%d/%s", s.baseURL, movie.ID, rung.slug),
			SourceID:    s.name,
			Filename:    fmt.Sprintf("%s.%s.mkv", movie.Title, rung.slug),
		})
	}
	return results, nil
}

func (s *Static) FetchEpisode(ctx context.Context, series *media.Series, season, episode int) ([]Result, error) {
	results := make([]Result, 0, len(staticLadder))
	for _, rung := range staticLadder {
		results = append(results, Result{
			Title:       fmt.Sprintf("%s S%02dE%02d", series.Title, season, episode),
			Quality:     rung.quality,
			SizeBytes:   rung.size / 4, // episodes are smaller than movies
			DownloadURL: fmt.Sprintf("%s/tv/%d/s%d/e%d/%s", s.baseURL, series.ID, season, episode, rung.slug),
			SourceID:    s.name,
			Filename:    fmt.Sprintf("%s.S%02dE%02d.%s.mkv", series.Title, season, episode, rung.slug),
			Season:      season,
			Episode:     episode,
		})
	}
	return results, nil
}
