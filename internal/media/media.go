// Package media defines the catalog records for movies and TV series.
package media

// Type distinguishes movies from series in search results.
type Type string

const (
	TypeMovie  Type = "movie"
	TypeSeries Type = "series"
)

// Movie is a movie catalog record with full metadata.
type Movie struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview,omitempty"`
	PosterURL   string   `json:"poster_url,omitempty"`
	BackdropURL string   `json:"backdrop_url,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	ReleaseYear string   `json:"release_year,omitempty"`
	VoteAverage float64  `json:"vote_average,omitempty"`
	Runtime     int      `json:"runtime,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	IMDBID      string   `json:"imdb_id,omitempty"`
}

// Series is a TV series catalog record including its seasons.
type Series struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Overview     string   `json:"overview,omitempty"`
	PosterURL    string   `json:"poster_url,omitempty"`
	BackdropURL  string   `json:"backdrop_url,omitempty"`
	FirstAirDate string   `json:"first_air_date,omitempty"`
	ReleaseYear  string   `json:"release_year,omitempty"`
	VoteAverage  float64  `json:"vote_average,omitempty"`
	SeasonCount  int      `json:"number_of_seasons,omitempty"`
	EpisodeCount int      `json:"number_of_episodes,omitempty"`
	Seasons      []Season `json:"seasons,omitempty"`
	Genres       []string `json:"genres,omitempty"`
	Status       string   `json:"status,omitempty"` // e.g. "Returning Series", "Ended"
}

// Season is one season of a series.
type Season struct {
	Number       int       `json:"season_number"`
	Name         string    `json:"name"`
	EpisodeCount int       `json:"episode_count"`
	Episodes     []Episode `json:"episodes,omitempty"`
	AirDate      string    `json:"air_date,omitempty"`
	Overview     string    `json:"overview,omitempty"`
}

// Episode is one episode within a season.
type Episode struct {
	Number   int    `json:"episode_number"`
	Name     string `json:"name"`
	Overview string `json:"overview,omitempty"`
	AirDate  string `json:"air_date,omitempty"`
	Runtime  int    `json:"runtime,omitempty"`
}

// SearchResult is a lightweight catalog search hit.
type SearchResult struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview,omitempty"`
	PosterURL   string  `json:"poster_url,omitempty"`
	BackdropURL string  `json:"backdrop_url,omitempty"`
	MediaType   Type    `json:"media_type"`
	ReleaseYear string  `json:"release_year,omitempty"`
	VoteAverage float64 `json:"vote_average,omitempty"`
}
