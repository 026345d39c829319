// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/popcorn/internal/app"
	"github.com/pdiddy/popcorn/internal/omdb/omdbtest"
	"github.com/pdiddy/popcorn/internal/search"
	"github.com/pdiddy/popcorn/internal/storage"
	"github.com/pdiddy/popcorn/internal/watched"
	"github.com/pdiddy/popcorn/pkg/types"
)

type fixture struct {
	srv   *Server
	omdb  *omdbtest.Server
	app   *app.App
	store *watched.Store
}

func newFixture(t *testing.T, settle time.Duration) *fixture {
	t.Helper()
	o := omdbtest.NewBatman()
	t.Cleanup(o.Close)

	store := watched.Open(context.Background(), storage.NewMemory(), nil)
	client := o.Client()
	a := app.New(context.Background(), app.Deps{Search: client, Detail: client, Watched: store})
	t.Cleanup(a.Close)

	s := New(Options{App: a, Search: client, Detail: client, Settle: settle})
	return &fixture{srv: s, omdb: o, app: a, store: store}
}

func (f *fixture) do(t *testing.T, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if method == http.MethodPost && !strings.HasPrefix(target, "/api/") {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) post(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	return f.do(t, http.MethodPost, target, form.Encode())
}

func (f *fixture) page(t *testing.T) string {
	t.Helper()
	rec := f.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func requireRedirect(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestHealth(t *testing.T) {
	f := newFixture(t, 2*time.Second)
	rec := f.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDIsKept(t *testing.T) {
	f := newFixture(t, 2*time.Second)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestPageInitial(t *testing.T) {
	f := newFixture(t, 2*time.Second)
	body := f.page(t)

	assert.Contains(t, body, "<title>usePopcorn</title>")
	assert.Contains(t, body, app.Placeholder)
	assert.Contains(t, body, "autofocus")
	assert.Contains(t, body, "Movies you watched")
	assert.NotContains(t, body, `http-equiv="refresh"`)
}

func TestPageSearch(t *testing.T) {
	f := newFixture(t, 2*time.Second)
	requireRedirect(t, f.post(t, "/search", url.Values{"query": {"batman"}}))

	body := f.page(t)
	assert.Contains(t, body, "Batman Begins")
	assert.Contains(t, body, "Found <strong>2</strong> results")
	assert.Contains(t, body, "/movies/tt0372784/select")
}

func TestPageSearchNotFound(t *testing.T) {
	f := newFixture(t, 2*time.Second)
	requireRedirect(t, f.post(t, "/search", url.Values{"query": {"xyzxyzxyz"}}))
	assert.Contains(t, f.page(t), "Movie not found!")
}

func TestPageLoadingRefreshes(t *testing.T) {
	f := newFixture(t, -1)
	release := f.omdb.Hold("batman")
	defer release()

	requireRedirect(t, f.post(t, "/search", url.Values{"query": {"batman"}}))
	body := f.page(t)
	assert.Contains(t, body, `http-equiv="refresh"`)
	assert.Contains(t, body, "Loading...")
}

func TestPageRateAndConfirm(t *testing.T) {
	f := newFixture(t, 2*time.Second)

	requireRedirect(t, f.post(t, "/movies/tt0096895/select", nil))
	body := f.page(t)
	assert.Contains(t, body, "<title>Movie | Batman</title>")
	assert.Contains(t, body, "Directed by Tim Burton")
	assert.NotContains(t, body, `class="btn-add"`)

	requireRedirect(t, f.post(t, "/detail/rating", url.Values{"value": {"8"}}))
	body = f.page(t)
	assert.Contains(t, body, `<button class="btn-add">&#43; Add to list</button>`)
	assert.Equal(t, "+ Add to list", f.app.View().Side.Detail.ButtonLabel)

	requireRedirect(t, f.post(t, "/detail/confirm", nil))
	list := f.store.List()
	require.Len(t, list, 1)
	assert.Equal(t, 8, list[0].UserRating)

	body = f.page(t)
	assert.Contains(t, body, "<title>usePopcorn</title>")
	assert.Contains(t, body, "/watched/tt0096895/delete")
	assert.Contains(t, body, "126 min")
}

func TestPageHoverPreview(t *testing.T) {
	f := newFixture(t, 2*time.Second)
	requireRedirect(t, f.post(t, "/movies/tt0096895/select", nil))
	requireRedirect(t, f.post(t, "/detail/rating", url.Values{"value": {"3"}}))

	requireRedirect(t, f.post(t, "/detail/hover", url.Values{"value": {"6"}}))
	body := f.page(t)
	assert.Equal(t, 6, strings.Count(body, "★"), "hover fills the provisional stars")
	assert.Contains(t, body, `<span class="label">6</span>`)

	requireRedirect(t, f.post(t, "/detail/leave", nil))
	body = f.page(t)
	assert.Equal(t, 3, strings.Count(body, "★"), "leave reverts to the committed rating")
	assert.Contains(t, body, `<span class="label">3</span>`)
}

func TestPageHoverScriptReloads(t *testing.T) {
	f := newFixture(t, 2*time.Second)
	body := f.page(t)
	assert.Equal(t, 3, strings.Count(body, "location.reload()"), "keys, hover and leave all re-render")
}

func TestPageConfirmWithoutSelection(t *testing.T) {
	f := newFixture(t, 2*time.Second)
	rec := f.post(t, "/detail/confirm", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPageBadValue(t *testing.T) {
	f := newFixture(t, 2*time.Second)
	rec := f.post(t, "/detail/rating", url.Values{"value": {"lots"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPageDelete(t *testing.T) {
	f := newFixture(t, 2*time.Second)
	_, err := app.AddRated(context.Background(), f.omdb.Client(), f.store, "tt0096895", 7)
	require.NoError(t, err)

	requireRedirect(t, f.post(t, "/watched/tt0096895/delete", nil))
	assert.Zero(t, f.store.Len())
}

func TestPageTogglePanel(t *testing.T) {
	f := newFixture(t, 2*time.Second)

	requireRedirect(t, f.post(t, "/panels/1/toggle", nil))
	assert.NotContains(t, f.page(t), "Movies you watched")

	assert.Equal(t, http.StatusNotFound, f.post(t, "/panels/7/toggle", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.post(t, "/panels/x/toggle", nil).Code)
}

func TestPageToggleSidePanelWithDetail(t *testing.T) {
	f := newFixture(t, 2*time.Second)
	requireRedirect(t, f.post(t, "/movies/tt0096895/select", nil))

	requireRedirect(t, f.post(t, "/panels/1/toggle", nil))
	assert.Contains(t, f.page(t), "<title>usePopcorn</title>")

	requireRedirect(t, f.post(t, "/panels/1/toggle", nil))
	body := f.page(t)
	assert.Contains(t, body, "<title>Movie | Batman</title>")
	assert.Contains(t, body, "Directed by Tim Burton")
}

func TestPageKeys(t *testing.T) {
	f := newFixture(t, 2*time.Second)
	requireRedirect(t, f.post(t, "/search", url.Values{"query": {"batman"}}))
	requireRedirect(t, f.post(t, "/movies/tt0096895/select", nil))

	requireRedirect(t, f.post(t, "/keys", url.Values{"key": {"Escape"}, "focused": {"false"}}))
	assert.False(t, f.app.View().Side.IsDetail())

	requireRedirect(t, f.post(t, "/keys", url.Values{"key": {"Enter"}, "focused": {"true"}}))
	assert.Equal(t, "batman", f.app.View().Query)

	requireRedirect(t, f.post(t, "/keys", url.Values{"key": {"Enter"}}))
	assert.Empty(t, f.app.View().Query)

	assert.Equal(t, http.StatusBadRequest, f.post(t, "/keys", nil).Code)
}

func TestPageMood(t *testing.T) {
	f := newFixture(t, 2*time.Second)
	requireRedirect(t, f.post(t, "/mood/rating", url.Values{"value": {"4"}}))
	assert.Contains(t, f.page(t), "Good")
}

func TestAPISearch(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		fail   int
		status int
		errMsg string
		count  int
	}{
		{name: "results", query: "batman", status: http.StatusOK, count: 2},
		{name: "short query", query: "ba", status: http.StatusBadRequest, errMsg: "query must be at least 3 characters"},
		{name: "not found", query: "xyzxyzxyz", status: http.StatusNotFound, errMsg: "Movie not found!"},
		{name: "upstream failure", query: "batman", fail: http.StatusInternalServerError, status: http.StatusBadGateway, errMsg: search.FetchFailedMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 2*time.Second)
			f.omdb.FailWith(tt.fail)

			rec := f.do(t, http.MethodGet, "/api/search?q="+url.QueryEscape(tt.query), "")
			require.Equal(t, tt.status, rec.Code)
			if tt.errMsg != "" {
				assert.Equal(t, tt.errMsg, decodeError(t, rec))
				return
			}
			var resp SearchResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.query, resp.Query)
			assert.Len(t, resp.Results, tt.count)
		})
	}
}

func TestAPIMovie(t *testing.T) {
	f := newFixture(t, 2*time.Second)

	rec := f.do(t, http.MethodGet, "/api/movies/tt0372784", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var d types.MovieDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, "Batman Begins", d.Title)
	assert.Equal(t, 140, d.RuntimeMinutes)

	rec = f.do(t, http.MethodGet, "/api/movies/tt404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Incorrect IMDb ID.", decodeError(t, rec))
}

func TestAPIWatched(t *testing.T) {
	f := newFixture(t, 2*time.Second)

	rec := f.do(t, http.MethodGet, "/api/watched", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/api/watched", `{"imdbID":"tt0372784","userRating":9}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created types.WatchedRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Batman Begins", created.Title)
	assert.Equal(t, 9, created.UserRating)

	rec = f.do(t, http.MethodGet, "/api/watched/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sum watched.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, 1, sum.Count)
	assert.InDelta(t, 8.2, sum.AvgExternalRating, 1e-9)
	assert.InDelta(t, 140, sum.AvgRuntime, 1e-9)

	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/api/watched/tt0372784", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodDelete, "/api/watched/tt0372784", "").Code)
	assert.Zero(t, f.store.Len())
}

func TestAPIWatchedAddErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed body", `{`, http.StatusBadRequest},
		{"missing id", `{"userRating":5}`, http.StatusBadRequest},
		{"rating too high", `{"imdbID":"tt0096895","userRating":11}`, http.StatusBadRequest},
		{"unknown movie", `{"imdbID":"tt404","userRating":5}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 2*time.Second)
			rec := f.do(t, http.MethodPost, "/api/watched", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, decodeError(t, rec))
			assert.Zero(t, f.store.Len())
		})
	}
}

func TestAPICORS(t *testing.T) {
	f := newFixture(t, 2*time.Second)

	req := httptest.NewRequest(http.MethodGet, "/api/watched", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://example.com")
	rec = httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e.Error
}
