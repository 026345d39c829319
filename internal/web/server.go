// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web serves the popcorn page and its JSON API over HTTP. The page
// is rendered on the server from app.View; user events arrive as form
// posts that answer with a redirect back to the page.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/pdiddy/popcorn/internal/app"
	"github.com/pdiddy/popcorn/internal/detail"
	"github.com/pdiddy/popcorn/internal/search"
)

// DefaultSettle is how long a UI post waits for the fetch it started
// before redirecting. A slower fetch shows the loading state instead.
const DefaultSettle = 500 * time.Millisecond

// Options configure a Server.
type Options struct {
	App    *app.App
	Search search.Fetcher
	Detail detail.Fetcher
	Logger *log.Logger

	// AllowedOrigins are the CORS origins for /api. Empty allows all.
	AllowedOrigins []string

	// Settle overrides DefaultSettle. Negative disables waiting.
	Settle time.Duration
}

// Server routes requests to the app.
type Server struct {
	app     *app.App
	search  search.Fetcher
	detail  detail.Fetcher
	logger  *log.Logger
	settle  time.Duration
	handler http.Handler
}

// New builds the router.
func New(o Options) *Server {
	logger := o.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	settle := o.Settle
	if settle == 0 {
		settle = DefaultSettle
	}
	s := &Server{
		app:    o.App,
		search: o.Search,
		detail: o.Detail,
		logger: logger,
		settle: settle,
	}

	r := mux.NewRouter()
	r.Use(requestID, s.logRequests)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.routeUI(r)
	s.routeAPI(r.PathPrefix("/api").Subrouter())

	origins := o.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	withCORS := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(r)

	s.handler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if strings.HasPrefix(req.URL.Path, "/api/") {
			withCORS.ServeHTTP(w, req)
			return
		}
		r.ServeHTTP(w, req)
	})
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Print("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// wait blocks until done closes, the settle time passes, or the request
// goes away.
func (s *Server) wait(r *http.Request, done <-chan struct{}) {
	if s.settle < 0 {
		return
	}
	t := time.NewTimer(s.settle)
	defer t.Stop()
	select {
	case <-done:
	case <-t.C:
	case <-r.Context().Done():
	}
}
