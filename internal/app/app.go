// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package app composes the search client, the detail loader, the watched
// list and the rating controls into one application state, and renders it
// to a View. User events arrive as method calls; Render is a pure function
// of a Snapshot.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/pdiddy/popcorn/internal/detail"
	"github.com/pdiddy/popcorn/internal/keys"
	"github.com/pdiddy/popcorn/internal/rating"
	"github.com/pdiddy/popcorn/internal/search"
	"github.com/pdiddy/popcorn/internal/watched"
	"github.com/pdiddy/popcorn/pkg/types"
)

// Panel indexes.
const (
	PanelResults = iota
	PanelWatched
	panelCount
)

// MovieRatingMax is the scale of the rating given in the detail pane.
const MovieRatingMax = 10

// MoodMessages label the five-star movie-night rating in the summary box.
var MoodMessages = []string{"Terrible", "Bad", "Okay", "Good", "Amazing"}

var (
	ErrNoSelection = errors.New("no movie selected")
	ErrNotLoaded   = errors.New("movie details not loaded")
	ErrNoRating    = errors.New("no rating given")
)

// Deps are the collaborators of an App.
type Deps struct {
	Search  search.Fetcher
	Detail  detail.Fetcher
	Watched *watched.Store
	Logger  *log.Logger
}

// App is the application state for one user session.
type App struct {
	ctx     context.Context
	cancel  context.CancelFunc
	logger  *log.Logger
	title   *detail.Title
	bus     *keys.Bus
	search  *search.Searcher
	details *detail.Loader
	watched *watched.Store

	unsubSearchBox func()

	mu          sync.Mutex
	query       string
	selected    string
	userRating  *rating.Input
	mood        *rating.Input
	panels      [panelCount]bool
	focusSearch bool
	unsubEscape func()
}

// New builds an App. Fetches run under contexts derived from ctx.
func New(ctx context.Context, d Deps) *App {
	logger := d.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	ctx, cancel := context.WithCancel(ctx)
	title := detail.NewTitle()

	a := &App{
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
		title:       title,
		bus:         keys.NewBus(),
		search:      search.New(ctx, d.Search, logger),
		details:     detail.NewLoader(ctx, d.Detail, title, logger),
		watched:     d.Watched,
		mood:        rating.New(rating.Config{Max: len(MoodMessages), Messages: MoodMessages}),
		focusSearch: true,
	}
	for i := range a.panels {
		a.panels[i] = true
	}
	// The search box lives as long as the app.
	a.unsubSearchBox = a.bus.Subscribe(a.onSearchBoxKey)
	return a
}

// Close cancels outstanding fetches and drops all key subscriptions.
func (a *App) Close() {
	a.mu.Lock()
	a.closeDetailLocked()
	a.mu.Unlock()

	a.unsubSearchBox()
	a.search.Close()
	a.cancel()
}

// SetQuery replaces the search text. A changed query closes the detail
// view. The returned channel closes when the resulting search settles.
func (a *App) SetQuery(q string) <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.setQueryLocked(q)
}

func (a *App) setQueryLocked(q string) <-chan struct{} {
	if q == a.query {
		done := make(chan struct{})
		close(done)
		return done
	}
	a.closeDetailLocked()
	a.query = q
	return a.search.SetQuery(q)
}

// Select opens the detail view for id. Selecting the open movie again does
// nothing. The returned channel closes when the detail has loaded.
func (a *App) Select(id string) <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()

	if id == "" {
		a.closeDetailLocked()
		return closedChan()
	}
	if id == a.selected {
		if !a.panels[PanelWatched] {
			return closedChan()
		}
		return a.details.Select(id)
	}

	a.unmountDetailLocked()
	a.selected = id
	if !a.panels[PanelWatched] {
		return closedChan()
	}
	return a.mountDetailLocked()
}

// mountDetailLocked shows the selected movie: a fresh rating control
// starting at the stored rating, the Escape handler, and the fetch.
func (a *App) mountDetailLocked() <-chan struct{} {
	initial := 0
	if rec, ok := a.watched.Get(a.selected); ok {
		initial = rec.UserRating
	}
	a.userRating = rating.New(rating.Config{Max: MovieRatingMax, Default: initial})
	if a.unsubEscape == nil {
		a.unsubEscape = a.bus.Subscribe(a.onDetailKey)
	}
	return a.details.Select(a.selected)
}

// unmountDetailLocked drops the detail view's rating, Escape handler,
// fetch and title but keeps the selection.
func (a *App) unmountDetailLocked() {
	a.userRating = nil
	a.details.Clear()
	if a.unsubEscape != nil {
		a.unsubEscape()
		a.unsubEscape = nil
	}
}

func closedChan() <-chan struct{} {
	done := make(chan struct{})
	close(done)
	return done
}

// CloseDetail returns the side pane to the watched summary.
func (a *App) CloseDetail() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closeDetailLocked()
}

func (a *App) closeDetailLocked() {
	a.selected = ""
	a.unmountDetailLocked()
}

// HoverRating previews n on the open movie's rating.
func (a *App) HoverRating(n int) {
	a.withRating(func(in *rating.Input) { in.Hover(n) })
}

// LeaveRating ends the preview.
func (a *App) LeaveRating() {
	a.withRating(func(in *rating.Input) { in.Leave() })
}

// Rate commits n as the open movie's rating.
func (a *App) Rate(n int) {
	a.withRating(func(in *rating.Input) { in.Click(n) })
}

func (a *App) withRating(f func(*rating.Input)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.userRating != nil {
		f(a.userRating)
	}
}

// HoverMood, LeaveMood and RateMood drive the summary box's five-star
// control. It is presentational and never persisted.
func (a *App) HoverMood(n int) { a.withMood(func(in *rating.Input) { in.Hover(n) }) }

func (a *App) LeaveMood() { a.withMood(func(in *rating.Input) { in.Leave() }) }

func (a *App) RateMood(n int) { a.withMood(func(in *rating.Input) { in.Click(n) }) }

func (a *App) withMood(f func(*rating.Input)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	f(a.mood)
}

// ConfirmRating writes the open movie with its committed rating to the
// watched list, replacing an earlier entry, and closes the detail view.
func (a *App) ConfirmRating(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.selected == "" {
		return ErrNoSelection
	}
	st := a.details.State()
	if st.ID != a.selected || !st.Loaded() {
		return ErrNotLoaded
	}
	if a.userRating == nil || a.userRating.Rating() == 0 {
		return ErrNoRating
	}

	rec := types.NewWatchedRecord(st.Detail, a.userRating.Rating())
	rec.ID = a.selected
	if err := a.watched.Add(ctx, rec); err != nil {
		return fmt.Errorf("adding %s to watched list: %w", rec.ID, err)
	}
	a.logger.Printf("watched %s rated %d", rec.ID, rec.UserRating)
	a.closeDetailLocked()
	return nil
}

// DeleteWatched removes id from the watched list.
func (a *App) DeleteWatched(ctx context.Context, id string) error {
	if err := a.watched.Remove(ctx, id); err != nil {
		return fmt.Errorf("removing %s from watched list: %w", id, err)
	}
	return nil
}

// TogglePanel collapses or expands panel i. Collapsing the side panel
// unmounts an open detail view, reverting the title and dropping its
// Escape handler; expanding it mounts the view again with a fresh fetch.
// The returned channel closes when that fetch settles.
func (a *App) TogglePanel(i int) (<-chan struct{}, error) {
	if i < 0 || i >= panelCount {
		return nil, fmt.Errorf("no panel %d", i)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.panels[i] = !a.panels[i]
	if i != PanelWatched || a.selected == "" {
		return closedChan(), nil
	}
	if a.panels[i] {
		return a.mountDetailLocked(), nil
	}
	a.unmountDetailLocked()
	return closedChan(), nil
}

// HandleKey dispatches a key press to the current subscribers.
func (a *App) HandleKey(e keys.Event) {
	a.bus.Dispatch(e)
}

// onSearchBoxKey clears and refocuses the search box on Enter when the
// input is not already focused.
func (a *App) onSearchBoxKey(e keys.Event) {
	if e.Key != keys.Enter || e.InputFocused {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.setQueryLocked("")
	a.closeDetailLocked()
	a.focusSearch = true
}

// onDetailKey is subscribed while a detail view is open.
func (a *App) onDetailKey(e keys.Event) {
	if e.Key != keys.Escape {
		return
	}
	a.CloseDetail()
}

// Snapshot captures the state Render needs. A pending focus request is
// consumed by the snapshot that reports it.
func (a *App) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := Snapshot{
		Title:       a.title.Get(),
		Query:       a.query,
		Search:      a.search.State(),
		Selected:    a.selected,
		Watched:     a.watched.List(),
		Mood:        ratingSnapshot(a.mood),
		Panels:      a.panels,
		FocusSearch: a.focusSearch,
	}
	a.focusSearch = false

	if a.selected != "" {
		snap.Detail = a.details.State()
		snap.UserRating = ratingSnapshot(a.userRating)
	}
	return snap
}

// View renders the current state.
func (a *App) View() View {
	return Render(a.Snapshot())
}

// Watched exposes the store for the JSON API.
func (a *App) Watched() *watched.Store { return a.watched }

// EscapeSubscribed reports whether the detail view's Escape handler is live.
func (a *App) EscapeSubscribed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.unsubEscape != nil
}

func ratingSnapshot(in *rating.Input) RatingSnapshot {
	if in == nil {
		return RatingSnapshot{}
	}
	return RatingSnapshot{
		Max:     in.Max(),
		Rating:  in.Rating(),
		Display: in.Display(),
		Label:   in.Label(),
		Stars:   in.Stars(),
	}
}
