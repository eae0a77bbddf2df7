package tmdb

import "github.com/lidanthedev/Mirrarr/internal/media"

// Image URL prefixes for the standard TMDB CDN sizes used by the UI layer.
const (
	posterBase   = "https://image.tmdb.org/t/p/w500"
	backdropBase = "https://image.tmdb.org/t/p/w780"
)

// Movie is the raw TMDB movie payload.
type Movie struct {
	ID           int64   `json:"id"`
	IMDBID       string  `json:"imdb_id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"` // "1999-10-15"
	PosterPath   string  `json:"poster_path"`  // "/abc123.jpg"
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	Runtime      int     `json:"runtime"` // minutes
	Genres       []Genre `json:"genres"`
}

// Series is the raw TMDB TV series payload.
type Series struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Overview     string   `json:"overview"`
	FirstAirDate string   `json:"first_air_date"`
	PosterPath   string   `json:"poster_path"`
	BackdropPath string   `json:"backdrop_path"`
	VoteAverage  float64  `json:"vote_average"`
	SeasonCount  int      `json:"number_of_seasons"`
	EpisodeCount int      `json:"number_of_episodes"`
	Seasons      []Season `json:"seasons"`
	Genres       []Genre  `json:"genres"`
	Status       string   `json:"status"`
}

// Season is the raw TMDB season payload.
type Season struct {
	SeasonNumber int    `json:"season_number"`
	Name         string `json:"name"`
	EpisodeCount int    `json:"episode_count"`
	AirDate      string `json:"air_date"`
	Overview     string `json:"overview"`
}

// Episode is the raw TMDB episode payload.
type Episode struct {
	EpisodeNumber int    `json:"episode_number"`
	Name          string `json:"name"`
	Overview      string `json:"overview"`
	AirDate       string `json:"air_date"`
	Runtime       int    `json:"runtime"`
}

// Genre is a TMDB genre entry.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SearchHit is one row of a TMDB search response. Movies carry "title" and
// "release_date"; series carry "name" and "first_air_date".
type SearchHit struct {
	ID           int64   `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
}

// ToMedia converts the raw movie payload to a catalog record.
func (m *Movie) ToMedia() *media.Movie {
	genres := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		genres = append(genres, g.Name)
	}
	return &media.Movie{
		ID:          m.ID,
		Title:       m.Title,
		Overview:    m.Overview,
		PosterURL:   imageURL(posterBase, m.PosterPath),
		BackdropURL: imageURL(backdropBase, m.BackdropPath),
		ReleaseDate: m.ReleaseDate,
		ReleaseYear: yearOf(m.ReleaseDate),
		VoteAverage: m.VoteAverage,
		Runtime:     m.Runtime,
		Genres:      genres,
		IMDBID:      m.IMDBID,
	}
}

// ToMedia converts the raw series payload to a catalog record.
func (s *Series) ToMedia() *media.Series {
	genres := make([]string, 0, len(s.Genres))
	for _, g := range s.Genres {
		genres = append(genres, g.Name)
	}
	seasons := make([]media.Season, 0, len(s.Seasons))
	for _, season := range s.Seasons {
		seasons = append(seasons, media.Season{
			Number:       season.SeasonNumber,
			Name:         season.Name,
			EpisodeCount: season.EpisodeCount,
			AirDate:      season.AirDate,
			Overview:     season.Overview,
		})
	}
	return &media.Series{
		ID:           s.ID,
		Title:        s.Name,
		Overview:     s.Overview,
		PosterURL:    imageURL(posterBase, s.PosterPath),
		BackdropURL:  imageURL(backdropBase, s.BackdropPath),
		FirstAirDate: s.FirstAirDate,
		ReleaseYear:  yearOf(s.FirstAirDate),
		VoteAverage:  s.VoteAverage,
		SeasonCount:  s.SeasonCount,
		EpisodeCount: s.EpisodeCount,
		Seasons:      seasons,
		Genres:       genres,
		Status:       s.Status,
	}
}

// ToMedia converts the raw episode payload to a catalog record.
func (e Episode) ToMedia() media.Episode {
	return media.Episode{
		Number:   e.EpisodeNumber,
		Name:     e.Name,
		Overview: e.Overview,
		AirDate:  e.AirDate,
		Runtime:  e.Runtime,
	}
}

// ToMedia converts a search hit to a catalog search result.
func (h SearchHit) ToMedia() media.SearchResult {
	title, date := h.Title, h.ReleaseDate
	mediaType := media.TypeMovie
	if h.MediaType == "tv" {
		title, date = h.Name, h.FirstAirDate
		mediaType = media.TypeSeries
	}
	return media.SearchResult{
		ID:          h.ID,
		Title:       title,
		Overview:    h.Overview,
		PosterURL:   imageURL(posterBase, h.PosterPath),
		BackdropURL: imageURL(backdropBase, h.BackdropPath),
		MediaType:   mediaType,
		ReleaseYear: yearOf(date),
		VoteAverage: h.VoteAverage,
	}
}

func imageURL(base, path string) string {
	if path == "" {
		return ""
	}
	return base + path
}
