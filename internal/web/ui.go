// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pdiddy/popcorn/internal/app"
	"github.com/pdiddy/popcorn/internal/keys"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("page.html").
	Funcs(template.FuncMap{"stars": newStarsData}).
	ParseFS(templateFS, "templates/page.html"))

// starsData feeds the "stars" partial: Action is the route prefix the star
// buttons post to.
type starsData struct {
	Action string
	Rating app.RatingSnapshot
}

func newStarsData(action string, r app.RatingSnapshot) starsData {
	return starsData{Action: action, Rating: r}
}

func (s *Server) routeUI(r *mux.Router) {
	r.HandleFunc("/", s.handlePage).Methods(http.MethodGet)
	r.HandleFunc("/search", s.handleSearch).Methods(http.MethodPost)
	r.HandleFunc("/movies/{id}/select", s.handleSelect).Methods(http.MethodPost)
	r.HandleFunc("/detail/close", s.post(s.app.CloseDetail)).Methods(http.MethodPost)
	r.HandleFunc("/detail/hover", s.postValue(s.app.HoverRating)).Methods(http.MethodPost)
	r.HandleFunc("/detail/leave", s.post(s.app.LeaveRating)).Methods(http.MethodPost)
	r.HandleFunc("/detail/rating", s.postValue(s.app.Rate)).Methods(http.MethodPost)
	r.HandleFunc("/detail/confirm", s.handleConfirm).Methods(http.MethodPost)
	r.HandleFunc("/mood/hover", s.postValue(s.app.HoverMood)).Methods(http.MethodPost)
	r.HandleFunc("/mood/leave", s.post(s.app.LeaveMood)).Methods(http.MethodPost)
	r.HandleFunc("/mood/rating", s.postValue(s.app.RateMood)).Methods(http.MethodPost)
	r.HandleFunc("/watched/{id}/delete", s.handleDelete).Methods(http.MethodPost)
	r.HandleFunc("/panels/{index}/toggle", s.handleToggle).Methods(http.MethodPost)
	r.HandleFunc("/keys", s.handleKey).Methods(http.MethodPost)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, s.app.View()); err != nil {
		s.logger.Printf("rendering page: %v", err)
		http.Error(w, "rendering page failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.wait(r, s.app.SetQuery(r.FormValue("query")))
	back(w, r)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	s.wait(r, s.app.Select(mux.Vars(r)["id"]))
	back(w, r)
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	err := s.app.ConfirmRating(r.Context())
	switch {
	case err == nil:
	case errors.Is(err, app.ErrNoSelection), errors.Is(err, app.ErrNotLoaded), errors.Is(err, app.ErrNoRating):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	default:
		s.logger.Printf("confirm rating: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	back(w, r)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.app.DeleteWatched(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.logger.Printf("delete watched: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	back(w, r)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		http.Error(w, "unknown panel", http.StatusNotFound)
		return
	}
	done, err := s.app.TogglePanel(i)
	if err != nil {
		http.Error(w, "unknown panel", http.StatusNotFound)
		return
	}
	s.wait(r, done)
	back(w, r)
}

// handleKey receives key presses forwarded by the page script.
func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	key := keys.Key(r.FormValue("key"))
	if key == "" {
		http.Error(w, "missing key", http.StatusBadRequest)
		return
	}
	focused, _ := strconv.ParseBool(r.FormValue("focused"))
	s.app.HandleKey(keys.Event{Key: key, InputFocused: focused})
	back(w, r)
}

func (s *Server) post(f func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f()
		back(w, r)
	}
}

func (s *Server) postValue(f func(int)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(r.FormValue("value"))
		if err != nil {
			http.Error(w, "value must be a number", http.StatusBadRequest)
			return
		}
		f(n)
		back(w, r)
	}
}

func back(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
