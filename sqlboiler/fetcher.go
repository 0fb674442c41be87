// Package sqlboiler adapts SQLBoiler queries to the paging.Fetcher interface.
//
// The fetcher is ORM-specific but strategy-agnostic: it turns FetchParams
// into query mods through a builder function (CursorToQueryMods for keyset
// pagination) and hands them to caller-supplied query functions. Listing
// filters are closed over by those functions, so the fetcher never sees them.
//
// Example usage:
//
//	filter := []qm.QueryMod{qm.Where("videos.visibility = ?", "public")}
//
//	fetcher := sqlboiler.NewFetcher(
//	    func(ctx context.Context, mods ...qm.QueryMod) ([]*models.VideoListItem, error) {
//	        return models.VideoListing(append(filter, mods...)...).All(ctx, db)
//	    },
//	    func(ctx context.Context, mods ...qm.QueryMod) (int64, error) {
//	        return models.VideoListing(filter...).Count(ctx, db)
//	    },
//	    sqlboiler.CursorToQueryMods,
//	)
//
//	page, err := keyset.FetchPage(ctx, fetcher, schema, 20, cursor)
package sqlboiler

import (
	"context"

	"github.com/aarondl/sqlboiler/v4/queries/qm"
	"github.com/friendsofgo/errors"

	"github.com/nrfta/tubepage"
)

// QueryFunc executes a SQLBoiler query and returns results.
//
// Type parameter T is the row type (e.g., *models.VideoListItem).
type QueryFunc[T any] func(ctx context.Context, mods ...qm.QueryMod) ([]T, error)

// CountFunc executes a SQLBoiler count query.
type CountFunc func(ctx context.Context, mods ...qm.QueryMod) (int64, error)

// Fetcher implements paging.Fetcher[T] for SQLBoiler queries.
type Fetcher[T any] struct {
	queryFunc   QueryFunc[T]
	countFunc   CountFunc
	queryModsFn func(paging.FetchParams) []qm.QueryMod
}

// NewFetcher creates a new SQLBoiler fetcher.
//
// Parameters:
//   - queryFunc: runs the listing query with the given mods appended to its filter
//   - countFunc: counts rows matching the filter; nil disables counting
//   - queryModsFn: converts FetchParams to QueryMods, usually CursorToQueryMods
func NewFetcher[T any](
	queryFunc QueryFunc[T],
	countFunc CountFunc,
	queryModsFn func(paging.FetchParams) []qm.QueryMod,
) *Fetcher[T] {
	return &Fetcher[T]{
		queryFunc:   queryFunc,
		countFunc:   countFunc,
		queryModsFn: queryModsFn,
	}
}

// Fetch retrieves items from the database using SQLBoiler query mods.
func (f *Fetcher[T]) Fetch(ctx context.Context, params paging.FetchParams) ([]T, error) {
	rows, err := f.queryFunc(ctx, f.queryModsFn(params)...)
	if err != nil {
		return nil, errors.Wrap(err, "sqlboiler: query")
	}
	return rows, nil
}

// Count returns the number of rows matching the bound filter. Cursor and
// limit are ignored. It returns 0 when no CountFunc was given.
func (f *Fetcher[T]) Count(ctx context.Context, params paging.FetchParams) (int64, error) {
	if f.countFunc == nil {
		return 0, nil
	}
	n, err := f.countFunc(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "sqlboiler: count")
	}
	return n, nil
}
