// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package app

import (
	"context"
	"fmt"

	"github.com/pdiddy/popcorn/internal/detail"
	"github.com/pdiddy/popcorn/internal/watched"
	"github.com/pdiddy/popcorn/pkg/types"
)

// AddRated fetches the detail for id and stores it with userRating. It is
// the non-interactive path behind the CLI and the JSON API. The rating is
// checked before anything is fetched.
func AddRated(ctx context.Context, f detail.Fetcher, store *watched.Store, id string, userRating int) (types.WatchedRecord, error) {
	if id == "" || userRating < 1 || userRating > watched.MaxUserRating {
		return types.WatchedRecord{}, fmt.Errorf("%w: id %q rating %d", watched.ErrInvalidRecord, id, userRating)
	}
	d, err := f.Detail(ctx, id)
	if err != nil {
		return types.WatchedRecord{}, fmt.Errorf("loading %s: %w", id, err)
	}
	rec := types.NewWatchedRecord(d, userRating)
	rec.ID = id
	if err := store.Add(ctx, rec); err != nil {
		return types.WatchedRecord{}, err
	}
	return rec, nil
}
