package paging

import "fmt"

// Result is the wire shape of a page returned to API clients.
//
//	{
//	  "items": [...],
//	  "nextCursor": "eyJ1cGRhdGVkQXQiOi4uLn0" | null,
//	  "totalCount": 42            // only for listings that count
//	}
//
// Type parameter T is the response item type (e.g. a video DTO).
type Result[T any] struct {
	// Items holds at most limit entries, in page order.
	Items []T `json:"items"`

	// NextCursor is the opaque token for the next page, or null on the last page.
	NextCursor *string `json:"nextCursor"`

	// TotalCount is set only when the caller asked for a total.
	TotalCount *int `json:"totalCount,omitempty"`
}

// ResultOption tunes BuildResult.
type ResultOption func(*resultConfig)

type resultConfig struct {
	withTotal bool
}

// WithTotalCount makes BuildResult resolve PageInfo.TotalCount.
func WithTotalCount() ResultOption {
	return func(c *resultConfig) {
		c.withTotal = true
	}
}

// BuildResult creates a Result from a page, converting each node with transform.
//
// Type parameters:
//   - From: Source type (e.g. *models.VideoListItem)
//   - To: Target type (e.g. an API DTO)
//
// Example usage:
//
//	res, err := paging.BuildResult(page, toVideoDTO, paging.WithTotalCount())
func BuildResult[From any, To any](
	page *Page[From],
	transform func(From) (To, error),
	opts ...ResultOption,
) (*Result[To], error) {
	cfg := &resultConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if page == nil {
		return &Result[To]{Items: []To{}}, nil
	}

	res := &Result[To]{
		Items: make([]To, 0, len(page.Nodes)),
	}

	for i, node := range page.Nodes {
		transformed, err := transform(node)
		if err != nil {
			return nil, fmt.Errorf("transform item at index %d: %w", i, err)
		}
		res.Items = append(res.Items, transformed)
	}

	if page.PageInfo == nil {
		return res, nil
	}

	if page.PageInfo.NextCursor != nil {
		next, err := page.PageInfo.NextCursor()
		if err != nil {
			return nil, fmt.Errorf("next cursor: %w", err)
		}
		res.NextCursor = next
	}

	if cfg.withTotal && page.PageInfo.TotalCount != nil {
		total, err := page.PageInfo.TotalCount()
		if err != nil {
			return nil, fmt.Errorf("total count: %w", err)
		}
		res.TotalCount = total
	}

	return res, nil
}

// Identity is a transform that returns its input unchanged.
func Identity[T any](item T) (T, error) {
	return item, nil
}
