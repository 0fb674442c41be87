package paging

// PageInfo contains metadata about a paginated result set.
// It uses function fields so that expensive values (the total count in
// particular, which needs a separate aggregate query) are only computed
// when a caller asks for them.
type PageInfo struct {
	TotalCount      func() (*int, error)
	HasPreviousPage func() (bool, error)
	HasNextPage     func() (bool, error)
	StartCursor     func() (*string, error)
	EndCursor       func() (*string, error)

	// NextCursor is the token for the following page. It is nil exactly
	// when HasNextPage is false.
	NextCursor func() (*string, error)
}

// NewEmptyPageInfo returns an empty instance of PageInfo.
func NewEmptyPageInfo() *PageInfo {
	return &PageInfo{
		TotalCount:      func() (*int, error) { return nil, nil },
		StartCursor:     func() (*string, error) { return nil, nil },
		EndCursor:       func() (*string, error) { return nil, nil },
		NextCursor:      func() (*string, error) { return nil, nil },
		HasNextPage:     func() (bool, error) { return false, nil },
		HasPreviousPage: func() (bool, error) { return false, nil },
	}
}
