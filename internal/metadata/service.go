package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lidanthedev/Mirrarr/internal/media"
	"github.com/lidanthedev/Mirrarr/internal/tmdb"
)

// Cache TTLs. Search results churn as TMDB reranks; detail records are
// effectively static.
const (
	searchTTL = time.Hour
	detailTTL = 24 * time.Hour
)

// Cache key builders. Every key the service writes comes from one of these,
// so key collisions across record kinds cannot happen by typo.
func movieKey(id int64) string  { return fmt.Sprintf("movie:%d", id) }
func seriesKey(id int64) string { return fmt.Sprintf("series:%d", id) }

func seasonKey(id int64, season int) string {
	return fmt.Sprintf("series:%d:season:%d", id, season)
}

func searchKey(mediaType media.Type, query string) string {
	return fmt.Sprintf("search:%s:%s", mediaType, query)
}

// Service answers catalog queries from the cache first and TMDB second.
// The cache is optional; with a nil cache every call goes to TMDB.
type Service struct {
	tmdb  *tmdb.Client
	cache *Cache
	log   *slog.Logger
}

// NewService creates a metadata service.
func NewService(client *tmdb.Client, cache *Cache, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		tmdb:  client,
		cache: cache,
		log:   log.With("component", "metadata"),
	}
}

// Movie returns full movie metadata by TMDB ID.
func (s *Service) Movie(ctx context.Context, id int64) (*media.Movie, error) {
	key := movieKey(id)

	var movie media.Movie
	if s.cached(ctx, key, &movie) {
		return &movie, nil
	}

	raw, err := s.tmdb.GetMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	result := raw.ToMedia()
	s.store(ctx, key, result, detailTTL)
	return result, nil
}

// Series returns full series metadata by TMDB ID, including seasons.
func (s *Service) Series(ctx context.Context, id int64) (*media.Series, error) {
	key := seriesKey(id)

	var series media.Series
	if s.cached(ctx, key, &series) {
		return &series, nil
	}

	raw, err := s.tmdb.GetSeries(ctx, id)
	if err != nil {
		return nil, err
	}
	result := raw.ToMedia()
	s.store(ctx, key, result, detailTTL)
	return result, nil
}

// SeasonEpisodes returns the episode list for one season of a series.
func (s *Service) SeasonEpisodes(ctx context.Context, id int64, season int) ([]media.Episode, error) {
	key := seasonKey(id, season)

	var episodes []media.Episode
	if s.cached(ctx, key, &episodes) {
		return episodes, nil
	}

	raw, err := s.tmdb.GetSeasonEpisodes(ctx, id, season)
	if err != nil {
		return nil, err
	}
	episodes = make([]media.Episode, 0, len(raw))
	for _, e := range raw {
		episodes = append(episodes, e.ToMedia())
	}
	s.store(ctx, key, episodes, detailTTL)
	return episodes, nil
}

// Search queries the catalog. mediaType restricts the search to "movie" or
// "series"; empty searches both.
func (s *Service) Search(ctx context.Context, query string, mediaType media.Type) ([]media.SearchResult, error) {
	key := searchKey(mediaType, query)

	var results []media.SearchResult
	if s.cached(ctx, key, &results) {
		return results, nil
	}

	var hits []tmdb.SearchHit
	var err error
	switch mediaType {
	case media.TypeMovie:
		hits, err = s.tmdb.SearchMovies(ctx, query)
	case media.TypeSeries:
		hits, err = s.tmdb.SearchSeries(ctx, query)
	default:
		hits, err = s.tmdb.SearchMulti(ctx, query)
	}
	if err != nil {
		return nil, err
	}

	results = make([]media.SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, hit.ToMedia())
	}
	s.store(ctx, key, results, searchTTL)
	return results, nil
}

// cached loads a cache entry into out, reporting whether one was found.
func (s *Service) cached(ctx context.Context, key string, out any) bool {
	return s.cache != nil && s.cache.Get(ctx, key, out)
}

// store writes a cache entry. Failures are logged, not propagated: a dead
// cache degrades to direct TMDB calls.
func (s *Service) store(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		s.log.Warn("write cache entry", "key", key, "error", err)
	}
}
