// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/popcorn/internal/detail"
	"github.com/pdiddy/popcorn/internal/search"
	"github.com/pdiddy/popcorn/pkg/types"
)

func TestRenderResultsPriority(t *testing.T) {
	items := []types.SearchResultItem{{ID: "tt1", Title: "One"}}
	tests := []struct {
		name string
		snap Snapshot
		want ResultsMode
	}{
		{"no query", Snapshot{}, ResultsPlaceholder},
		{"no query beats loading", Snapshot{Search: search.State{Phase: search.PhaseLoading}}, ResultsPlaceholder},
		{"loading", Snapshot{Query: "bat", Search: search.State{Phase: search.PhaseLoading, Results: items}}, ResultsLoading},
		{"failed", Snapshot{Query: "bat", Search: search.State{Phase: search.PhaseFailed, Message: "boom"}}, ResultsError},
		{"ready", Snapshot{Query: "bat", Search: search.State{Phase: search.PhaseReady, Results: items}}, ResultsList},
		{"short query", Snapshot{Query: "ba", Search: search.State{Phase: search.PhaseIdle}}, ResultsList},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.snap).Results.Mode)
		})
	}
}

func TestRenderErrorMessage(t *testing.T) {
	v := Render(Snapshot{Query: "xyz", Search: search.State{Phase: search.PhaseFailed, Message: "Movie not found!"}})
	assert.Equal(t, "Movie not found!", v.Results.Error)
	assert.Empty(t, v.Results.Items)
}

func TestRenderSummaryAndRows(t *testing.T) {
	v := Render(Snapshot{Watched: []types.WatchedRecord{
		{ID: "a", ExternalRating: 8.0, RuntimeMinutes: 120, UserRating: 7},
		{ID: "b", ExternalRating: 6.0, RuntimeMinutes: 0, UserRating: 4},
	}})

	assert.Equal(t, SideSummary, v.Side.Mode)
	assert.Equal(t, 2, v.Side.Summary.Count)
	assert.Equal(t, "7", v.Side.Summary.AvgExternalRating)
	assert.Equal(t, "5.5", v.Side.Summary.AvgUserRating)
	assert.Equal(t, "60", v.Side.Summary.AvgRuntime)
	assert.Equal(t, "120 min", v.Side.Watched[0].RuntimeLabel)
	assert.Equal(t, "N/A", v.Side.Watched[1].RuntimeLabel)
}

func TestRenderDetailButton(t *testing.T) {
	base := Snapshot{
		Selected: "tt1",
		Detail:   detail.State{ID: "tt1", Detail: types.MovieDetail{ID: "tt1", Title: "One"}},
	}

	v := Render(base)
	assert.True(t, v.Side.IsDetail())
	assert.False(t, v.Side.Detail.ShowButton)

	rated := base
	rated.UserRating = RatingSnapshot{Max: 10, Rating: 7}
	v = Render(rated)
	assert.True(t, v.Side.Detail.ShowButton)
	assert.Equal(t, "+ Add to list", v.Side.Detail.ButtonLabel)

	watchedToo := rated
	watchedToo.Watched = []types.WatchedRecord{{ID: "tt1", UserRating: 7}}
	v = Render(watchedToo)
	assert.True(t, v.Side.Detail.Watched)
	assert.Equal(t, "Change rating", v.Side.Detail.ButtonLabel)
}

func TestRenderRefresh(t *testing.T) {
	assert.True(t, Render(Snapshot{Query: "bat", Search: search.State{Phase: search.PhaseLoading}}).Refresh)
	assert.True(t, Render(Snapshot{Selected: "tt1", Detail: detail.State{ID: "tt1", Loading: true}}).Refresh)
	assert.False(t, Render(Snapshot{Query: "bat", Search: search.State{Phase: search.PhaseReady}}).Refresh)
}

func TestRenderIsPure(t *testing.T) {
	snap := Snapshot{Query: "bat", Search: search.State{Phase: search.PhaseReady, Results: []types.SearchResultItem{{ID: "tt1"}}}}
	assert.Equal(t, Render(snap), Render(snap))
}
