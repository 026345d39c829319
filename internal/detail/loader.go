// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package detail loads full movie metadata for the selected identifier and
// holds the page title while a movie is shown.
package detail

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"github.com/pdiddy/popcorn/internal/httputil"
	"github.com/pdiddy/popcorn/internal/omdb"
	"github.com/pdiddy/popcorn/pkg/types"
)

// Fetcher loads one movie. *omdb.Client implements it.
type Fetcher interface {
	Detail(ctx context.Context, id string) (types.MovieDetail, error)
}

// State is a snapshot of the loader.
type State struct {
	// ID is the selected identifier, empty when nothing is selected.
	ID      string
	Loading bool
	Detail  types.MovieDetail

	// Message is the user-visible failure, empty on success.
	Message string
}

// Loaded reports whether a detail is ready for ID. A fetch that was
// cancelled leaves ID set with no Detail and is not loaded.
func (s State) Loaded() bool {
	return s.ID != "" && !s.Loading && s.Message == "" && s.Detail.ID != ""
}

// Loader fetches the detail for one identifier at a time.
type Loader struct {
	fetcher Fetcher
	base    context.Context
	title   *Title
	logger  *log.Logger

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	release func()
	state   State
	done    chan struct{}
}

// NewLoader returns a loader with nothing selected. title may be nil.
func NewLoader(ctx context.Context, f Fetcher, title *Title, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	closed := make(chan struct{})
	close(closed)
	return &Loader{fetcher: f, base: ctx, title: title, logger: logger, done: closed}
}

// Select loads id. Selecting the id already selected does nothing and
// returns the channel of its fetch. Otherwise any previous fetch is
// cancelled, the title scope is released, and the returned channel closes
// when the new fetch settles.
func (l *Loader) Select(id string) <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	if id == l.state.ID && id != "" {
		return l.done
	}
	l.resetLocked()
	if id == "" {
		return l.done
	}

	ctx, cancel := context.WithCancel(l.base)
	l.cancel = cancel
	l.state = State{ID: id, Loading: true}
	done := make(chan struct{})
	l.done = done

	go l.run(ctx, l.gen, id, done)
	return done
}

func (l *Loader) run(ctx context.Context, gen uint64, id string, done chan struct{}) {
	defer close(done)

	d, err := l.fetcher.Detail(ctx, id)

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.gen {
		return
	}
	l.cancel = nil

	if err != nil {
		if httputil.IsCanceled(err) {
			l.logger.Printf("detail %s cancelled", id)
			l.state = State{ID: id}
			return
		}
		l.logger.Printf("detail %s failed: %v", id, err)
		l.state = State{ID: id, Message: failureMessage(err)}
		return
	}

	l.state = State{ID: id, Detail: d}
	if d.Title != "" && l.title != nil {
		l.release = l.title.Scope(d.Title)
	}
}

// Clear drops the selection, cancelling its fetch and releasing the title.
func (l *Loader) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resetLocked()
}

// State returns a snapshot.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Loader) resetLocked() {
	l.gen++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	if l.release != nil {
		l.release()
		l.release = nil
	}
	l.state = State{}
	closed := make(chan struct{})
	close(closed)
	l.done = closed
}

func failureMessage(err error) string {
	var apiErr *omdb.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return "Could not load movie details: " + apiErr.Message
	}
	return "Could not load movie details."
}
