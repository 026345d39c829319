// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package omdbtest runs a fake OMDb endpoint for tests.
package omdbtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"

	"github.com/pdiddy/popcorn/internal/omdb"
	"github.com/pdiddy/popcorn/pkg/types"
)

// Movie is a fake catalogue entry. Fields mirror the OMDb detail payload.
type Movie struct {
	ID         string
	Title      string
	Year       string
	Poster     string
	Runtime    string
	ImdbRating string
	Plot       string
	Released   string
	Actors     string
	Director   string
	Genre      string
}

// Server answers s= from Searches and i= from Movies. A query with no entry
// in Searches gets Response "False" with Error "Movie not found!".
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	searches map[string][]string
	movies   map[string]Movie
	gates    map[string]chan struct{}
	status   int

	requests atomic.Int32
}

// New starts a fake server. Close it with Close.
func New() *Server {
	s := &Server{
		searches: make(map[string][]string),
		movies:   make(map[string]Movie),
		gates:    make(map[string]chan struct{}),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// AddMovie registers m for detail lookups.
func (s *Server) AddMovie(m Movie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movies[m.ID] = m
}

// AddSearch makes query return the given movie IDs, which must be added
// with AddMovie.
func (s *Server) AddSearch(query string, ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches[query] = ids
}

// Hold blocks responses for the given s= or i= value until the returned
// release func is called or the request is cancelled.
func (s *Server) Hold(value string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.gates[value] = ch
	s.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// FailWith makes every request answer with status until reset with 0.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Requests returns the number of requests served so far.
func (s *Server) Requests() int { return int(s.requests.Load()) }

// Config returns an OMDb config pointed at the fake server.
func (s *Server) Config() types.OMDbConfig {
	return types.OMDbConfig{BaseURL: s.URL + "/", APIKey: "test-key"}
}

// Client returns an OMDb client pointed at the fake server.
func (s *Server) Client() *omdb.Client {
	return omdb.New(s.Server.Client(), s.Config())
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.requests.Add(1)
	q := r.URL.Query()
	query, id := q.Get("s"), q.Get("i")

	s.mu.Lock()
	status := s.status
	gate := s.gates[query+id]
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	if status != 0 {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if query != "" {
		json.NewEncoder(w).Encode(s.search(query))
		return
	}
	json.NewEncoder(w).Encode(s.detail(id))
}

func (s *Server) search(query string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, ok := s.searches[query]
	if !ok {
		return map[string]any{"Response": "False", "Error": "Movie not found!"}
	}
	list := make([]map[string]string, 0, len(ids))
	for _, id := range ids {
		m := s.movies[id]
		list = append(list, map[string]string{
			"Title": m.Title, "Year": m.Year, "imdbID": m.ID, "Type": "movie", "Poster": m.Poster,
		})
	}
	return map[string]any{"Response": "True", "Search": list}
}

func (s *Server) detail(id string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.movies[id]
	if !ok {
		return map[string]any{"Response": "False", "Error": "Incorrect IMDb ID."}
	}
	return map[string]any{
		"Response":   "True",
		"Title":      m.Title,
		"Year":       m.Year,
		"Poster":     m.Poster,
		"Runtime":    m.Runtime,
		"imdbRating": m.ImdbRating,
		"Plot":       m.Plot,
		"Released":   m.Released,
		"Actors":     m.Actors,
		"Director":   m.Director,
		"Genre":      m.Genre,
		"imdbID":     m.ID,
	}
}

// Batman and BatmanBegins are sample entries shared by tests.
var (
	Batman = Movie{
		ID: "tt0096895", Title: "Batman", Year: "1989", Poster: "https://img/batman.jpg",
		Runtime: "126 min", ImdbRating: "7.5", Plot: "The Dark Knight of Gotham City begins his war on crime.",
		Released: "23 Jun 1989", Actors: "Michael Keaton, Jack Nicholson", Director: "Tim Burton", Genre: "Action, Adventure",
	}
	BatmanBegins = Movie{
		ID: "tt0372784", Title: "Batman Begins", Year: "2005", Poster: "https://img/begins.jpg",
		Runtime: "140 min", ImdbRating: "8.2", Plot: "After witnessing his parents' death, Bruce learns the art of fighting.",
		Released: "15 Jun 2005", Actors: "Christian Bale, Michael Caine", Director: "Christopher Nolan", Genre: "Action, Crime, Drama",
	}
)

// NewBatman returns a server preloaded with a two-item "batman" search.
func NewBatman() *Server {
	s := New()
	s.AddMovie(Batman)
	s.AddMovie(BatmanBegins)
	s.AddSearch("batman", Batman.ID, BatmanBegins.ID)
	return s
}
