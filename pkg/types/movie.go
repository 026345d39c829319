// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for popcorn: the movie
// records read from OMDb, the watched records the user owns, and the
// configuration structs loaded by the CLI.
package types

// SearchResultItem is one entry of an OMDb search response. It is read-only
// and never mutated after the search client produces it.
type SearchResultItem struct {
	// ID is the IMDb identifier (e.g. "tt0372784").
	ID string `json:"id" yaml:"id"`

	Title string `json:"title" yaml:"title"`

	// Year is kept as text: OMDb returns ranges like "2008–2013" for series.
	Year string `json:"year" yaml:"year"`

	PosterURL string `json:"posterUrl" yaml:"poster_url"`
}

// MovieDetail is the full metadata for one identifier.
type MovieDetail struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Year      string `json:"year" yaml:"year"`
	PosterURL string `json:"posterUrl" yaml:"poster_url"`

	// Runtime is the free-text runtime as returned ("148 min" or "N/A").
	Runtime string `json:"runtime" yaml:"runtime"`

	// RuntimeMinutes is the leading integer of Runtime, 0 when not numeric.
	RuntimeMinutes int `json:"runtimeMinutes" yaml:"runtime_minutes"`

	// ExternalRating is the IMDb rating, 0 when OMDb reports "N/A".
	ExternalRating float64 `json:"externalRating" yaml:"external_rating"`

	Plot     string `json:"plot" yaml:"plot"`
	Released string `json:"released" yaml:"released"`
	Actors   string `json:"actors" yaml:"actors"`
	Director string `json:"director" yaml:"director"`
	Genre    string `json:"genre" yaml:"genre"`
}

// WatchedRecord is a rated movie in the user's watched list. The JSON keys
// are the persisted storage format and must stay stable.
type WatchedRecord struct {
	ID             string  `json:"imdbID" yaml:"id"`
	Title          string  `json:"title" yaml:"title"`
	Year           string  `json:"year" yaml:"year"`
	PosterURL      string  `json:"poster" yaml:"poster_url"`
	ExternalRating float64 `json:"imdbRating" yaml:"external_rating"`
	RuntimeMinutes int     `json:"runtime" yaml:"runtime_minutes"`

	// UserRating is the user's own score, 1 through 10.
	UserRating int `json:"userRating" yaml:"user_rating"`
}

// NewWatchedRecord combines a loaded detail with the user's rating.
func NewWatchedRecord(d MovieDetail, userRating int) WatchedRecord {
	return WatchedRecord{
		ID:             d.ID,
		Title:          d.Title,
		Year:           d.Year,
		PosterURL:      d.PosterURL,
		ExternalRating: d.ExternalRating,
		RuntimeMinutes: d.RuntimeMinutes,
		UserRating:     userRating,
	}
}
