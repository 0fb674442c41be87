// Package keyset implements keyset (cursor) pagination.
//
// Keyset pagination uses the key values of the last item of a page as the
// boundary of the next one, instead of an OFFSET. Every page costs the same
// regardless of depth, and inserts or deletes that sort after an already
// served page do not shift it.
//
// The engine is parametric over the entity type and its keys:
//
//	schema := keyset.NewSchema[*Video](keyset.DESC).
//	    SortKey("videos.updated_at", "updatedAt", keyset.Time, func(v *Video) any { return v.UpdatedAt }).
//	    TieBreak("videos.id", "id", keyset.UUID, func(v *Video) any { return v.ID })
//
//	page, err := keyset.FetchPage(ctx, fetcher, schema, 20, cursor)
//
// For a cursor (p, t) the store is asked for
//
//	WHERE <filter> AND (key < p OR (key = p AND tie < t))
//	ORDER BY key DESC, tie DESC
//	LIMIT limit+1
//
// and the extra row only signals that another page exists.
//
// Consistency: cursors are stateless. Replaying a cursor over unchanged data
// returns the same page. Rows inserted between the cursor and rows already
// served are not returned by later pages; this is inherent to keyset
// pagination and is not compensated for. A cursor whose row was deleted
// remains valid because the boundary is a pure comparison.
//
// Filters are bound into the Fetcher by the caller and are not part of the
// cursor. Reusing a cursor under a different filter, sort key or direction
// stitches together pages of different result sets; the engine does not
// detect this.
package keyset

import (
	"context"
	"sync"
	"time"

	"github.com/friendsofgo/errors"

	"github.com/nrfta/tubepage"
)

const strategyName = "keyset"

// Paginator is a paging.Paginator over a Fetcher and a Schema. It validates
// page arguments, decodes the After cursor and delegates to FetchPage.
type Paginator[T any] struct {
	fetcher paging.Fetcher[T]
	schema  *Schema[T]
	config  *paging.PageConfig
}

// New creates a keyset paginator.
//
// Example usage:
//
//	paginator := keyset.New(fetcher, schema, paging.WithMaxSize(100))
//	page, err := paginator.Paginate(ctx, paging.NewPageArgs(20, token))
func New[T any](
	fetcher paging.Fetcher[T],
	schema *Schema[T],
	opts ...paging.PaginateOption,
) *Paginator[T] {
	return &Paginator[T]{
		fetcher: fetcher,
		schema:  schema,
		config:  paging.ApplyPaginateOptions(opts...),
	}
}

// Paginate implements paging.Paginator.
//
// It returns an error matching paging.ErrInvalidPageSize when First is out
// of range and paging.ErrInvalidCursor when After cannot be decoded.
func (p *Paginator[T]) Paginate(ctx context.Context, args *paging.PageArgs) (*paging.Page[T], error) {
	if err := p.config.Validate(args); err != nil {
		return nil, err
	}

	cursor, err := p.DecodeCursor(args.GetAfter())
	if err != nil {
		return nil, err
	}

	return FetchPage(ctx, p.fetcher, p.schema, p.config.EffectiveLimit(args), cursor)
}

// DecodeCursor decodes an After token. Nil or empty means the first page.
func (p *Paginator[T]) DecodeCursor(after *string) (*paging.CursorPosition, error) {
	if after == nil || *after == "" {
		return nil, nil
	}
	return p.schema.Encoder().Decode(*after)
}

// FetchPage returns the page that follows cursor (or the first page when
// cursor is nil) in the order defined by schema.
//
// It asks the fetcher for limit+1 rows. When more than limit rows come back
// the page is trimmed to limit and NextCursor encodes the keys of its last
// item; otherwise NextCursor is nil. An empty store yields an empty page,
// not an error. Fetcher errors are wrapped and returned.
func FetchPage[T any](
	ctx context.Context,
	fetcher paging.Fetcher[T],
	schema *Schema[T],
	limit int,
	cursor *paging.CursorPosition,
) (*paging.Page[T], error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if limit < 1 {
		return nil, &paging.PageSizeError{
			Requested: limit,
			Minimum:   1,
			Maximum:   paging.DefaultMaxPageSize,
		}
	}

	start := time.Now()
	rows, err := fetcher.Fetch(ctx, paging.FetchParams{
		Limit:   limit + 1,
		Cursor:  cursor,
		OrderBy: schema.OrderBy(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "fetch page")
	}
	elapsed := time.Since(start)

	hasNextPage := len(rows) > limit

	items := rows
	if len(items) > limit {
		items = items[:limit]
	}
	if items == nil {
		items = []T{}
	}

	encoder := schema.Encoder()

	var nextCursor *string
	if hasNextPage {
		nextCursor, err = encoder.Encode(items[len(items)-1])
		if err != nil {
			return nil, errors.Wrap(err, "next cursor")
		}
	}

	pageInfo := newPageInfo(ctx, fetcher, encoder, items, cursor, hasNextPage, nextCursor)

	return &paging.Page[T]{
		Nodes:    items,
		PageInfo: &pageInfo,
		Metadata: paging.Metadata{
			Strategy:      strategyName,
			QueryTimeMs:   elapsed.Milliseconds(),
			ItemsExamined: len(rows),
		},
	}, nil
}

// newPageInfo creates PageInfo for keyset pagination.
//   - TotalCount runs fetcher.Count once, on first use
//   - StartCursor/EndCursor encode the first/last items (nil if empty)
//   - NextCursor is EndCursor when there is a next page, nil otherwise
//   - HasPreviousPage is true when a cursor was supplied
func newPageInfo[T any](
	ctx context.Context,
	fetcher paging.Fetcher[T],
	encoder paging.CursorEncoder[T],
	items []T,
	currentCursor *paging.CursorPosition,
	hasNextPage bool,
	nextCursor *string,
) paging.PageInfo {
	totalCount := sync.OnceValues(func() (*int, error) {
		count, err := fetcher.Count(ctx, paging.FetchParams{})
		if err != nil {
			return nil, errors.Wrap(err, "count")
		}
		n := int(count)
		return &n, nil
	})

	return paging.PageInfo{
		TotalCount: totalCount,

		StartCursor: func() (*string, error) {
			if len(items) == 0 {
				return nil, nil
			}
			return encoder.Encode(items[0])
		},

		EndCursor: func() (*string, error) {
			if len(items) == 0 {
				return nil, nil
			}
			return encoder.Encode(items[len(items)-1])
		},

		NextCursor: func() (*string, error) {
			return nextCursor, nil
		},

		HasNextPage: func() (bool, error) {
			return hasNextPage, nil
		},

		HasPreviousPage: func() (bool, error) {
			return currentCursor != nil, nil
		},
	}
}
