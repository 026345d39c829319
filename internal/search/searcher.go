// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search drives the movie search lifecycle: every query change
// cancels the request in flight and only the most recent request may
// update the visible state.
package search

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"unicode/utf8"

	"github.com/pdiddy/popcorn/internal/httputil"
	"github.com/pdiddy/popcorn/internal/omdb"
	"github.com/pdiddy/popcorn/pkg/types"
)

// MinQueryLength is the shortest query that issues a request.
const MinQueryLength = 3

// FetchFailedMessage is shown for every failure that is not an OMDb
// application error.
const FetchFailedMessage = "Something went wrong with fetching movies!"

// Fetcher runs one search request. *omdb.Client implements it.
type Fetcher interface {
	Search(ctx context.Context, query string) ([]types.SearchResultItem, error)
}

// Phase is the search state.
type Phase int

const (
	// PhaseIdle means the query is too short and no request was issued.
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a snapshot of the searcher.
type State struct {
	Query   string
	Phase   Phase
	Results []types.SearchResultItem

	// Message is the user-visible error, set only in PhaseFailed.
	Message string
}

// Searcher owns the request for the current query.
type Searcher struct {
	fetcher Fetcher
	base    context.Context
	logger  *log.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	state  State
}

// New returns an idle searcher. Requests run under contexts derived from
// ctx; cancelling ctx aborts whatever is in flight.
func New(ctx context.Context, f Fetcher, logger *log.Logger) *Searcher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Searcher{fetcher: f, base: ctx, logger: logger}
}

// SetQuery replaces the query. The previous request, if any, is cancelled
// before anything else happens. The returned channel is closed once the
// request for q has settled; for a query shorter than MinQueryLength it is
// already closed.
func (s *Searcher) SetQuery(q string) <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	done := make(chan struct{})

	if utf8.RuneCountInString(q) < MinQueryLength {
		s.state = State{Query: q, Phase: PhaseIdle}
		close(done)
		return done
	}

	ctx, cancel := context.WithCancel(s.base)
	s.cancel = cancel
	s.state = State{Query: q, Phase: PhaseLoading, Results: s.state.Results}

	go s.run(ctx, s.gen, q, done)
	return done
}

func (s *Searcher) run(ctx context.Context, gen uint64, q string, done chan struct{}) {
	defer close(done)

	results, err := s.fetcher.Search(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		s.logger.Printf("search %q superseded, response discarded", q)
		return
	}
	s.cancel = nil

	if err != nil {
		if httputil.IsCanceled(err) {
			s.logger.Printf("search %q cancelled", q)
			s.state = State{Query: q, Phase: PhaseIdle}
			return
		}
		s.logger.Printf("search %q failed: %v", q, err)
		s.state = State{Query: q, Phase: PhaseFailed, Message: failureMessage(err)}
		return
	}

	if results == nil {
		results = []types.SearchResultItem{}
	}
	s.state = State{Query: q, Phase: PhaseReady, Results: results}
}

// Search runs one request synchronously and maps errors the same way
// SetQuery does. It is used from the CLI where no supersession happens.
func Search(ctx context.Context, f Fetcher, q string) State {
	if utf8.RuneCountInString(q) < MinQueryLength {
		return State{Query: q, Phase: PhaseIdle}
	}
	results, err := f.Search(ctx, q)
	if err != nil {
		if httputil.IsCanceled(err) {
			return State{Query: q, Phase: PhaseIdle}
		}
		return State{Query: q, Phase: PhaseFailed, Message: failureMessage(err)}
	}
	if results == nil {
		results = []types.SearchResultItem{}
	}
	return State{Query: q, Phase: PhaseReady, Results: results}
}

// State returns a snapshot of the current state.
func (s *Searcher) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if s.state.Results != nil {
		st.Results = make([]types.SearchResultItem, len(s.state.Results))
		copy(st.Results, s.state.Results)
	}
	return st
}

// Close cancels the request in flight. Its completion is discarded.
func (s *Searcher) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	if s.state.Phase == PhaseLoading {
		s.state.Phase = PhaseIdle
	}
}

func failureMessage(err error) string {
	var apiErr *omdb.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return FetchFailedMessage
}
