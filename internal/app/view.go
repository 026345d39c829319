// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package app

import (
	"strconv"

	"github.com/pdiddy/popcorn/internal/detail"
	"github.com/pdiddy/popcorn/internal/rating"
	"github.com/pdiddy/popcorn/internal/search"
	"github.com/pdiddy/popcorn/internal/watched"
	"github.com/pdiddy/popcorn/pkg/types"
)

// Placeholder is shown in the result pane before anything is searched.
const Placeholder = "Insert text in searchbox to see the result here ..."

// Snapshot is the application state at one instant.
type Snapshot struct {
	Title       string
	Query       string
	Search      search.State
	Selected    string
	Detail      detail.State
	UserRating  RatingSnapshot
	Watched     []types.WatchedRecord
	Mood        RatingSnapshot
	Panels      [panelCount]bool
	FocusSearch bool
}

// RatingSnapshot is the rendered state of a rating control.
type RatingSnapshot struct {
	Max     int
	Rating  int
	Display int
	Label   string
	Stars   []rating.Star
}

// ResultsMode selects what the result pane shows.
type ResultsMode int

const (
	ResultsPlaceholder ResultsMode = iota
	ResultsLoading
	ResultsError
	ResultsList
)

// SideMode selects what the second pane shows.
type SideMode int

const (
	SideSummary SideMode = iota
	SideDetail
)

// View is everything the page renders.
type View struct {
	Title       string
	Query       string
	FocusSearch bool
	NumResults  int

	// Refresh asks the page to reload while a fetch is in flight.
	Refresh bool

	Results ResultsPane
	Side    SidePane
	Panels  [panelCount]PanelView
}

// PanelView is one collapsible box.
type PanelView struct {
	Index       int
	Open        bool
	ToggleLabel string
}

// ResultsPane is the first box.
type ResultsPane struct {
	Mode        ResultsMode
	Placeholder string
	Error       string
	Items       []types.SearchResultItem
}

// SidePane is the second box.
type SidePane struct {
	Mode    SideMode
	Summary SummaryView
	Mood    RatingSnapshot
	Watched []WatchedRow
	Detail  DetailView
}

// SummaryView holds the formatted aggregates.
type SummaryView struct {
	Count             int
	AvgExternalRating string
	AvgUserRating     string
	AvgRuntime        string
}

// WatchedRow is one watched list item.
type WatchedRow struct {
	types.WatchedRecord
	RuntimeLabel string
}

// DetailView is the movie detail pane.
type DetailView struct {
	ID      string
	Loading bool
	Error   string
	Movie   types.MovieDetail

	Rating      RatingSnapshot
	Watched     bool
	ShowButton  bool
	ButtonLabel string
}

// Render derives the View from s. It has no side effects.
func Render(s Snapshot) View {
	v := View{
		Title:       s.Title,
		Query:       s.Query,
		FocusSearch: s.FocusSearch,
		NumResults:  len(s.Search.Results),
		Refresh:     s.Search.Phase == search.PhaseLoading || (s.Selected != "" && s.Detail.Loading),
		Results:     renderResults(s),
		Side:        renderSide(s),
	}
	for i, open := range s.Panels {
		label := "+"
		if open {
			label = "–"
		}
		v.Panels[i] = PanelView{Index: i, Open: open, ToggleLabel: label}
	}
	return v
}

func renderResults(s Snapshot) ResultsPane {
	switch {
	case s.Query == "":
		return ResultsPane{Mode: ResultsPlaceholder, Placeholder: Placeholder}
	case s.Search.Phase == search.PhaseLoading:
		return ResultsPane{Mode: ResultsLoading}
	case s.Search.Phase == search.PhaseFailed:
		return ResultsPane{Mode: ResultsError, Error: s.Search.Message}
	default:
		return ResultsPane{Mode: ResultsList, Items: s.Search.Results}
	}
}

func renderSide(s Snapshot) SidePane {
	if s.Selected == "" {
		sum := watched.Summarize(s.Watched)
		rows := make([]WatchedRow, len(s.Watched))
		for i, r := range s.Watched {
			rows[i] = WatchedRow{WatchedRecord: r, RuntimeLabel: runtimeLabel(r.RuntimeMinutes)}
		}
		return SidePane{
			Mode: SideSummary,
			Summary: SummaryView{
				Count:             sum.Count,
				AvgExternalRating: formatNumber(sum.AvgExternalRating),
				AvgUserRating:     formatNumber(sum.AvgUserRating),
				AvgRuntime:        formatNumber(sum.AvgRuntime),
			},
			Mood:    s.Mood,
			Watched: rows,
		}
	}

	isWatched := false
	for _, r := range s.Watched {
		if r.ID == s.Selected {
			isWatched = true
			break
		}
	}
	rated := s.UserRating.Rating > 0

	d := DetailView{
		ID:         s.Selected,
		Loading:    s.Detail.Loading,
		Error:      s.Detail.Message,
		Movie:      s.Detail.Detail,
		Rating:     s.UserRating,
		Watched:    isWatched,
		ShowButton: rated || isWatched,
	}
	if rated && !isWatched {
		d.ButtonLabel = "+ Add to list"
	} else {
		d.ButtonLabel = "Change rating"
	}
	return SidePane{Mode: SideDetail, Detail: d}
}

func runtimeLabel(minutes int) string {
	if minutes <= 0 {
		return "N/A"
	}
	return strconv.Itoa(minutes) + " min"
}

// formatNumber prints a two-decimal mean without trailing zeros.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Template helpers.

func (p ResultsPane) IsPlaceholder() bool { return p.Mode == ResultsPlaceholder }
func (p ResultsPane) IsLoading() bool     { return p.Mode == ResultsLoading }
func (p ResultsPane) IsError() bool       { return p.Mode == ResultsError }
func (p ResultsPane) IsList() bool        { return p.Mode == ResultsList }
func (p SidePane) IsDetail() bool         { return p.Mode == SideDetail }
