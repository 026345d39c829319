// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/gorilla/mux"

	"github.com/pdiddy/popcorn/internal/app"
	"github.com/pdiddy/popcorn/internal/httputil"
	"github.com/pdiddy/popcorn/internal/omdb"
	"github.com/pdiddy/popcorn/internal/search"
	"github.com/pdiddy/popcorn/internal/watched"
	"github.com/pdiddy/popcorn/pkg/types"
)

// SearchResponse is the body of GET /api/search.
type SearchResponse struct {
	Query   string                   `json:"query"`
	Results []types.SearchResultItem `json:"results"`
}

// AddRequest is the body of POST /api/watched.
type AddRequest struct {
	ID         string `json:"imdbID"`
	UserRating int    `json:"userRating"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) routeAPI(r *mux.Router) {
	r.HandleFunc("/search", s.apiSearch).Methods(http.MethodGet)
	r.HandleFunc("/movies/{id}", s.apiMovie).Methods(http.MethodGet)
	r.HandleFunc("/watched", s.apiWatchedList).Methods(http.MethodGet)
	r.HandleFunc("/watched", s.apiWatchedAdd).Methods(http.MethodPost)
	r.HandleFunc("/watched/summary", s.apiWatchedSummary).Methods(http.MethodGet)
	r.HandleFunc("/watched/{id}", s.apiWatchedDelete).Methods(http.MethodDelete)
}

func (s *Server) apiSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if utf8.RuneCountInString(q) < search.MinQueryLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("query must be at least %d characters", search.MinQueryLength))
		return
	}
	results, err := s.search.Search(r.Context(), q)
	if err != nil {
		s.fetchFailed(w, r, err, search.FetchFailedMessage)
		return
	}
	if results == nil {
		results = []types.SearchResultItem{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Query: q, Results: results})
}

func (s *Server) apiMovie(w http.ResponseWriter, r *http.Request) {
	d, err := s.detail.Detail(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fetchFailed(w, r, err, "could not load movie details")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) apiWatchedList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Watched().List())
}

func (s *Server) apiWatchedSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Watched().Summary())
}

func (s *Server) apiWatchedAdd(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "body must be a JSON object with imdbID and userRating")
		return
	}
	rec, err := app.AddRated(r.Context(), s.detail, s.app.Watched(), req.ID, req.UserRating)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, rec)
	case errors.Is(err, watched.ErrInvalidRecord):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.fetchFailed(w, r, err, "could not add movie")
	}
}

func (s *Server) apiWatchedDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.app.Watched().Contains(id) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s is not in the watched list", id))
		return
	}
	if err := s.app.DeleteWatched(r.Context(), id); err != nil {
		s.logger.Printf("%s delete %s: %v", RequestID(r.Context()), id, err)
		writeError(w, http.StatusInternalServerError, "could not update the watched list")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fetchFailed maps an OMDb failure: application errors are 404 with OMDb's
// message, everything else is 502 with fallback.
func (s *Server) fetchFailed(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var apiErr *omdb.APIError
	if errors.As(err, &apiErr) {
		writeError(w, http.StatusNotFound, apiErr.Message)
		return
	}
	if httputil.IsCanceled(err) {
		return
	}
	s.logger.Printf("%s %s: %v", RequestID(r.Context()), r.URL.Path, err)
	writeError(w, http.StatusBadGateway, fallback)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
