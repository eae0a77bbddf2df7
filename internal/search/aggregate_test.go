package search

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lidanthedev/Mirrarr/internal/media"
	"github.com/lidanthedev/Mirrarr/internal/source"
	"github.com/lidanthedev/Mirrarr/internal/source/mocks"
)

// stubLookup serves fixed metadata records.
type stubLookup struct {
	movie  *media.Movie
	series *media.Series
	err    error
}

func (s *stubLookup) Movie(context.Context, int64) (*media.Movie, error)   { return s.movie, s.err }
func (s *stubLookup) Series(context.Context, int64) (*media.Series, error) { return s.series, s.err }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMock(t *testing.T, ctrl *gomock.Controller, name string) *mocks.MockAdapter {
	t.Helper()
	m := mocks.NewMockAdapter(ctrl)
	m.EXPECT().Name().Return(name).AnyTimes()
	return m
}

func TestAggregateMovie_MergesAllSources(t *testing.T) {
	ctrl := gomock.NewController(t)
	movie := &media.Movie{ID: 603, Title: "The Matrix"}

	alpha := newMock(t, ctrl, "alpha")
	alpha.EXPECT().FetchMovie(gomock.Any(), movie).Return([]source.Result{
		{Title: "The Matrix", Quality: "1080p BluRay", SourceID: "alpha"},
	}, nil)

	beta := newMock(t, ctrl, "beta")
	beta.EXPECT().FetchMovie(gomock.Any(), movie).Return([]source.Result{
		{Title: "The Matrix", Quality: "2160p REMUX", SourceID: "beta"},
		{Title: "The Matrix", Quality: "720p WEB-DL", SourceID: "beta"},
	}, nil)

	registry := source.NewRegistry()
	require.NoError(t, registry.Register(alpha))
	require.NoError(t, registry.Register(beta))

	agg := NewAggregator(registry, &stubLookup{movie: movie}, time.Second, discardLogger())
	results, err := agg.AggregateMovie(context.Background(), 603)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestAggregateMovie_IsolatesFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	movie := &media.Movie{ID: 603, Title: "The Matrix"}

	broken := newMock(t, ctrl, "broken")
	broken.EXPECT().FetchMovie(gomock.Any(), movie).Return(nil, errors.New("connection refused"))

	healthy := newMock(t, ctrl, "healthy")
	healthy.EXPECT().FetchMovie(gomock.Any(), movie).Return([]source.Result{
		{Title: "The Matrix", Quality: "1080p BluRay", SourceID: "healthy"},
	}, nil)

	registry := source.NewRegistry()
	require.NoError(t, registry.Register(broken))
	require.NoError(t, registry.Register(healthy))

	agg := NewAggregator(registry, &stubLookup{movie: movie}, time.Second, discardLogger())
	results, err := agg.AggregateMovie(context.Background(), 603)
	require.NoError(t, err, "one failing source must not fail the aggregation")
	require.Len(t, results, 1)
	assert.Equal(t, "healthy", results[0].SourceID)
}

func TestAggregateMovie_IsolatesSlowSources(t *testing.T) {
	ctrl := gomock.NewController(t)
	movie := &media.Movie{ID: 603, Title: "The Matrix"}

	slow := newMock(t, ctrl, "slow")
	slow.EXPECT().FetchMovie(gomock.Any(), movie).DoAndReturn(
		func(ctx context.Context, _ *media.Movie) ([]source.Result, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	fast := newMock(t, ctrl, "fast")
	fast.EXPECT().FetchMovie(gomock.Any(), movie).Return([]source.Result{
		{Title: "The Matrix", Quality: "1080p BluRay", SourceID: "fast"},
	}, nil)

	registry := source.NewRegistry()
	require.NoError(t, registry.Register(slow))
	require.NoError(t, registry.Register(fast))

	agg := NewAggregator(registry, &stubLookup{movie: movie}, 20*time.Millisecond, discardLogger())

	start := time.Now()
	results, err := agg.AggregateMovie(context.Background(), 603)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "fast", results[0].SourceID)
	assert.Less(t, time.Since(start), time.Second, "slow source must be cut off by its own timeout")
}

func TestAggregateEpisode(t *testing.T) {
	ctrl := gomock.NewController(t)
	series := &media.Series{ID: 1396, Title: "Breaking Bad"}

	vault := newMock(t, ctrl, "vault")
	vault.EXPECT().FetchEpisode(gomock.Any(), series, 2, 5).Return([]source.Result{
		{Title: "Breaking Bad S02E05", Quality: "1080p WEB-DL", SourceID: "vault", Season: 2, Episode: 5},
	}, nil)

	registry := source.NewRegistry()
	require.NoError(t, registry.Register(vault))

	agg := NewAggregator(registry, &stubLookup{series: series}, time.Second, discardLogger())
	results, err := agg.AggregateEpisode(context.Background(), 1396, 2, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 5, results[0].Episode)
}

func TestAggregateMovie_LookupError(t *testing.T) {
	registry := source.NewRegistry()
	agg := NewAggregator(registry, &stubLookup{err: errors.New("tmdb down")}, time.Second, discardLogger())

	_, err := agg.AggregateMovie(context.Background(), 603)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookup movie 603")
}

func TestMovieFrom(t *testing.T) {
	ctrl := gomock.NewController(t)
	movie := &media.Movie{ID: 603, Title: "The Matrix"}

	vault := newMock(t, ctrl, "vault")
	vault.EXPECT().FetchMovie(gomock.Any(), movie).Return([]source.Result{
		{Title: "The Matrix", Quality: "1080p BluRay", SourceID: "vault"},
	}, nil)

	registry := source.NewRegistry()
	require.NoError(t, registry.Register(vault))

	agg := NewAggregator(registry, &stubLookup{movie: movie}, time.Second, discardLogger())

	results, err := agg.MovieFrom(context.Background(), "vault", 603)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	_, err = agg.MovieFrom(context.Background(), "nonesuch", 603)
	assert.ErrorIs(t, err, source.ErrNotRegistered)
}

func TestEpisodeFrom_PropagatesSourceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	series := &media.Series{ID: 1396, Title: "Breaking Bad"}

	vault := newMock(t, ctrl, "vault")
	vault.EXPECT().FetchEpisode(gomock.Any(), series, 1, 1).Return(nil, errors.New("boom"))

	registry := source.NewRegistry()
	require.NoError(t, registry.Register(vault))

	agg := NewAggregator(registry, &stubLookup{series: series}, time.Second, discardLogger())

	_, err := agg.EpisodeFrom(context.Background(), "vault", 1396, 1, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source vault")
}
