package paging

import (
	"fmt"

	"github.com/friendsofgo/errors"
)

const (
	// DefaultPageSize is the number of items per page when not specified.
	DefaultPageSize = 20

	// DefaultMinPageSize is the smallest page size a caller may request.
	DefaultMinPageSize = 1

	// DefaultMaxPageSize is the largest page size a caller may request.
	DefaultMaxPageSize = 100
)

var (
	// ErrInvalidPageSize is matched by every *PageSizeError.
	ErrInvalidPageSize = errors.New("invalid page size")

	// ErrInvalidCursor is returned when a cursor token cannot be decoded into
	// the key types its schema declares.
	ErrInvalidCursor = errors.New("invalid cursor")
)

// PageConfig holds pagination configuration options.
// Use NewPageConfig() to create a config with defaults,
// then customize using the With* methods.
//
// Example:
//
//	config := paging.NewPageConfig().WithMaxSize(50)
//	if err := config.Validate(args); err != nil {
//	    return nil, err
//	}
//	limit := config.EffectiveLimit(args)
type PageConfig struct {
	// DefaultSize is the page size used when not specified in PageArgs.
	DefaultSize int

	// MinSize is the minimum allowed page size.
	MinSize int

	// MaxSize is the maximum allowed page size.
	MaxSize int
}

// NewPageConfig creates a PageConfig with the defaults:
// - DefaultSize: 20
// - MinSize: 1
// - MaxSize: 100
func NewPageConfig() *PageConfig {
	return &PageConfig{
		DefaultSize: DefaultPageSize,
		MinSize:     DefaultMinPageSize,
		MaxSize:     DefaultMaxPageSize,
	}
}

// WithDefaultSize sets the default page size and returns the config for chaining.
func (c *PageConfig) WithDefaultSize(size int) *PageConfig {
	if size > 0 {
		c.DefaultSize = size
	}
	return c
}

// WithMaxSize sets the maximum page size and returns the config for chaining.
func (c *PageConfig) WithMaxSize(size int) *PageConfig {
	if size > 0 {
		c.MaxSize = size
	}
	return c
}

// bounds returns the configured bounds with zero values replaced by defaults.
func (c *PageConfig) bounds() (defaultSize, minSize, maxSize int) {
	if c == nil {
		c = NewPageConfig()
	}

	defaultSize, minSize, maxSize = c.DefaultSize, c.MinSize, c.MaxSize
	if minSize <= 0 {
		minSize = DefaultMinPageSize
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxPageSize
	}
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if defaultSize > maxSize {
		defaultSize = maxSize
	}
	return defaultSize, minSize, maxSize
}

// EffectiveLimit returns the page size to use.
// - If args is nil or First is nil, returns DefaultSize
// - Otherwise returns First clamped to [MinSize, MaxSize]
//
// Callers that must reject out-of-range sizes call Validate first.
func (c *PageConfig) EffectiveLimit(args *PageArgs) int {
	defaultSize, minSize, maxSize := c.bounds()

	if args == nil || args.First == nil {
		return defaultSize
	}

	switch first := *args.First; {
	case first < minSize:
		return minSize
	case first > maxSize:
		return maxSize
	default:
		return first
	}
}

// Validate rejects a requested page size outside [MinSize, MaxSize].
// A nil First is valid and means "use the default".
func (c *PageConfig) Validate(args *PageArgs) error {
	if args == nil || args.First == nil {
		return nil
	}

	_, minSize, maxSize := c.bounds()
	if *args.First < minSize || *args.First > maxSize {
		return &PageSizeError{
			Requested: *args.First,
			Minimum:   minSize,
			Maximum:   maxSize,
		}
	}

	return nil
}

// PageArgs represents pagination query parameters: the page size (First)
// and the opaque cursor of the previous page (After).
type PageArgs struct {
	First *int    `json:"first,omitempty"`
	After *string `json:"after,omitempty"`
}

// NewPageArgs builds PageArgs from a limit and an optional cursor token.
// An empty cursor means the first page.
func NewPageArgs(limit int, cursor string) *PageArgs {
	args := &PageArgs{First: &limit}
	if cursor != "" {
		args.After = &cursor
	}
	return args
}

// GetFirst returns the requested page size.
func (pa *PageArgs) GetFirst() *int {
	if pa == nil {
		return nil
	}
	return pa.First
}

// GetAfter returns the cursor token of the previous page.
func (pa *PageArgs) GetAfter() *string {
	if pa == nil {
		return nil
	}
	return pa.After
}

// Validate validates the PageArgs using the default PageConfig.
func (pa *PageArgs) Validate() error {
	return NewPageConfig().Validate(pa)
}

// ValidateWith validates the PageArgs using a custom PageConfig.
func (pa *PageArgs) ValidateWith(config *PageConfig) error {
	return config.Validate(pa)
}

// PageSizeError is returned when the requested page size is out of range.
type PageSizeError struct {
	Requested int
	Minimum   int
	Maximum   int
}

func (e *PageSizeError) Error() string {
	return fmt.Sprintf("requested page size %d must be between %d and %d",
		e.Requested, e.Minimum, e.Maximum)
}

// Is makes errors.Is(err, ErrInvalidPageSize) match every PageSizeError.
func (e *PageSizeError) Is(target error) bool {
	return target == ErrInvalidPageSize
}

// PaginateOption configures page size limits for a paginator.
//
// Example:
//
//	paginator := keyset.New(fetcher, schema,
//	    paging.WithMaxSize(100),
//	    paging.WithDefaultSize(25),
//	)
type PaginateOption func(*PageConfig)

// WithMaxSize sets the maximum page size.
func WithMaxSize(size int) PaginateOption {
	return func(c *PageConfig) {
		c.WithMaxSize(size)
	}
}

// WithDefaultSize sets the default page size, used when args.First is nil.
func WithDefaultSize(size int) PaginateOption {
	return func(c *PageConfig) {
		c.WithDefaultSize(size)
	}
}

// WithPageConfig copies every bound from an existing config.
func WithPageConfig(cfg *PageConfig) PaginateOption {
	return func(c *PageConfig) {
		if cfg != nil {
			*c = *cfg
		}
	}
}

// ApplyPaginateOptions applies functional options on top of the defaults.
func ApplyPaginateOptions(opts ...PaginateOption) *PageConfig {
	cfg := NewPageConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
