// Package paging defines the building blocks shared by every list endpoint:
// page arguments, page results, the storage-facing Fetcher abstraction and
// cursor encoding contracts.
//
// The keyset engine lives in the keyset sub-package and the SQLBoiler
// adapter in the sqlboiler sub-package.
package paging

import "context"

// Paginator is implemented by every pagination strategy.
//
// Type parameter T is the item type being paginated (e.g. *models.VideoListItem).
type Paginator[T any] interface {
	// Paginate executes pagination and returns a page of results.
	// The PageArgs contain the page size (First) and cursor position (After).
	Paginate(ctx context.Context, args *PageArgs) (*Page[T], error)
}

// Page represents a single page of paginated results.
type Page[T any] struct {
	// Nodes contains the items for this page, never more than the requested limit.
	Nodes []T

	// PageInfo contains pagination metadata (hasNextPage, cursors, total count).
	PageInfo *PageInfo

	// Metadata provides observability information about the fetch.
	Metadata Metadata
}

// Metadata provides observability and debugging information about pagination execution.
type Metadata struct {
	// Strategy identifies which pagination strategy was used. Always "keyset" today.
	Strategy string

	// QueryTimeMs is the total time spent executing the store query.
	QueryTimeMs int64

	// ItemsExamined is the number of rows returned by the store, including the
	// extra look-ahead row.
	ItemsExamined int
}

// Fetcher abstracts the data store. Implementations apply the caller's filter,
// the cursor boundary, the ordering and the row limit carried in FetchParams.
//
// The filter itself is opaque to paginators: it is bound into the Fetcher by
// whoever constructs it.
//
// Example implementation:
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
type Fetcher[T any] interface {
	// Fetch retrieves items from storage based on the given parameters.
	Fetch(ctx context.Context, params FetchParams) ([]T, error)

	// Count returns the total number of items matching the bound filter,
	// ignoring cursor and limit. Return 0 if counting is not supported.
	Count(ctx context.Context, params FetchParams) (int64, error)
}

// FetchParams contains all parameters needed to fetch a page of data.
type FetchParams struct {
	// Limit is the maximum number of rows to fetch. Keyset pagination always
	// asks for one row more than the page size.
	Limit int

	// Cursor is the boundary position. Nil means the first page.
	Cursor *CursorPosition

	// OrderBy specifies the total order of results: sort key(s) first,
	// tie-break key(s) last.
	OrderBy []Sort
}

// Sort represents a sort directive for query results.
type Sort struct {
	// Column is the SQL column or expression to sort by. Expressions such as
	// aggregate subqueries are allowed.
	Column string `json:"column"`

	// Desc indicates descending order. False means ascending.
	Desc bool `json:"desc"`
}

// CursorPosition is a decoded cursor: the sort and tie-break values of the
// last item on the previous page.
//
// Example for ordering by (videos.updated_at DESC, videos.id DESC):
//
//	CursorPosition{
//	    Values: map[string]any{
//	        "videos.updated_at": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
//	        "videos.id":         "0b3c…",
//	    },
//	}
//
// This translates to:
//
//	WHERE videos.updated_at < $1 OR (videos.updated_at = $2 AND videos.id < $3)
type CursorPosition struct {
	// Values maps column names (or expressions) to their typed values.
	Values map[string]any
}

// CursorEncoder converts items into opaque cursor tokens and tokens back into
// positions.
type CursorEncoder[T any] interface {
	// Encode creates an opaque cursor token from an item.
	Encode(item T) (*string, error)

	// Decode extracts the cursor position from an opaque token.
	// It returns ErrInvalidCursor when the token is malformed.
	Decode(cursor string) (*CursorPosition, error)
}
