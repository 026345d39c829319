// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package omdb is the client for the OMDb movie database. It issues the
// search (s=) and detail (i=) requests and maps the wire format to
// types.SearchResultItem and types.MovieDetail.
package omdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/popcorn/internal/httputil"
	"github.com/pdiddy/popcorn/pkg/types"
)

const (
	// DefaultBaseURL is the public OMDb endpoint.
	DefaultBaseURL = "https://www.omdbapi.com/"

	// DefaultAPIKey is the fixed key the application ships with.
	DefaultAPIKey = "5e1ac1dc"

	notAvailable = "N/A"
)

// APIError is an application-level failure: OMDb answered 200 with
// Response "False". Message is OMDb's Error text (e.g. "Movie not found!").
type APIError struct {
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Client queries OMDb.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	APIKey    string
	UserAgent string
}

// New returns a client for cfg. Empty BaseURL and APIKey fall back to the
// defaults.
func New(client *http.Client, cfg types.OMDbConfig) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	key := cfg.APIKey
	if key == "" {
		key = DefaultAPIKey
	}
	return &Client{
		HTTP:      client,
		BaseURL:   base,
		APIKey:    key,
		UserAgent: cfg.UserAgent,
	}
}

// Search returns the items matching query in upstream order. A successful
// response with no Search array yields an empty, non-nil slice.
func (c *Client) Search(ctx context.Context, query string) ([]types.SearchResultItem, error) {
	var sr searchResponse
	if err := httputil.GetJSON(ctx, c.HTTP, c.url("s", query), c.UserAgent, &sr); err != nil {
		return nil, fmt.Errorf("OMDb search %q: %w", query, err)
	}
	if isFalse(sr.Response) {
		return nil, &APIError{Message: sr.Error}
	}

	items := make([]types.SearchResultItem, 0, len(sr.Search))
	for _, m := range sr.Search {
		items = append(items, types.SearchResultItem{
			ID:        m.ImdbID,
			Title:     m.Title,
			Year:      m.Year,
			PosterURL: m.Poster,
		})
	}
	return items, nil
}

// Detail returns the full metadata for one IMDb identifier.
func (c *Client) Detail(ctx context.Context, id string) (types.MovieDetail, error) {
	var dr detailResponse
	if err := httputil.GetJSON(ctx, c.HTTP, c.url("i", id), c.UserAgent, &dr); err != nil {
		return types.MovieDetail{}, fmt.Errorf("OMDb detail %s: %w", id, err)
	}
	if isFalse(dr.Response) {
		return types.MovieDetail{}, &APIError{Message: dr.Error}
	}

	movieID := dr.ImdbID
	if movieID == "" {
		movieID = id
	}
	return types.MovieDetail{
		ID:             movieID,
		Title:          dr.Title,
		Year:           dr.Year,
		PosterURL:      dr.Poster,
		Runtime:        dr.Runtime,
		RuntimeMinutes: ParseRuntime(dr.Runtime),
		ExternalRating: ParseRating(dr.ImdbRating),
		Plot:           dr.Plot,
		Released:       dr.Released,
		Actors:         dr.Actors,
		Director:       dr.Director,
		Genre:          dr.Genre,
	}, nil
}

func (c *Client) url(param, value string) string {
	params := url.Values{
		"apikey": {c.APIKey},
		param:    {value},
	}
	sep := "?"
	if strings.Contains(c.BaseURL, "?") {
		sep = "&"
	}
	return c.BaseURL + sep + params.Encode()
}

// ParseRuntime returns the leading integer of a runtime such as "148 min".
// Anything not starting with a number ("N/A", "") yields 0.
func ParseRuntime(runtime string) int {
	fields := strings.Fields(runtime)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseRating parses an imdbRating value; "N/A" yields 0.
func ParseRating(rating string) float64 {
	rating = strings.TrimSpace(rating)
	if rating == "" || rating == notAvailable {
		return 0
	}
	f, err := strconv.ParseFloat(rating, 64)
	if err != nil {
		return 0
	}
	return f
}

func isFalse(response string) bool {
	return strings.EqualFold(response, "False")
}

// OMDb API JSON structures.
type searchResponse struct {
	Response string        `json:"Response"`
	Error    string        `json:"Error"`
	Search   []searchMovie `json:"Search"`
	Total    string        `json:"totalResults"`
}

type searchMovie struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

type detailResponse struct {
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	ImdbRating string `json:"imdbRating"`
	ImdbID     string `json:"imdbID"`
}
