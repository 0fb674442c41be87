package keyset

import (
	"fmt"

	"github.com/friendsofgo/errors"

	"github.com/nrfta/tubepage"
)

// Direction represents the sort direction of a schema.
type Direction bool

const (
	ASC  Direction = false
	DESC Direction = true
)

func (d Direction) String() string {
	if d == DESC {
		return "DESC"
	}
	return "ASC"
}

// Kind is the value type of a key. It drives cursor encoding and the typed
// decoding that rejects malformed cursors.
type Kind int

const (
	// String keys are compared as text.
	String Kind = iota
	// UUID keys are strings that must parse as a UUID.
	UUID
	// Time keys are timestamps, encoded as RFC 3339 with nanoseconds.
	Time
	// Int keys are 64-bit integers (counts, aggregates).
	Int
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case UUID:
		return "uuid"
	case Time:
		return "time"
	case Int:
		return "int"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// keySpec is a single key of the total order.
type keySpec[T any] struct {
	column    string      // SQL column or expression: "videos.updated_at"
	field     string      // Wire name inside the cursor: "updatedAt"
	kind      Kind        // Value type
	extractor func(T) any // Extract value from item
	tieBreak  bool
}

// Schema defines the total order used by keyset pagination: one or more
// primary sort keys followed by one or more tie-break keys, all in the same
// direction. The tie-break keys together must be unique per row.
//
// A schema is the single source of truth for both the ORDER BY clause and
// the cursor codec, so the two can never disagree.
//
// Example:
//
//	var videoFeed = keyset.NewSchema[*models.VideoListItem](keyset.DESC).
//	    SortKey("videos.updated_at", "updatedAt", keyset.Time, func(v *models.VideoListItem) any { return v.UpdatedAt }).
//	    TieBreak("videos.id", "id", keyset.UUID, func(v *models.VideoListItem) any { return v.ID })
//
// Sort keys may be expressions, e.g. an aggregate subquery:
//
//	SortKey("(SELECT count(*) FROM video_views vv WHERE vv.video_id = videos.id)", "viewCount", keyset.Int, ...)
//
// A Schema is immutable once declared and safe for concurrent use.
type Schema[T any] struct {
	direction Direction
	sortKeys  []*keySpec[T]
	tieBreaks []*keySpec[T]
}

// NewSchema creates an empty Schema ordered in the given direction.
func NewSchema[T any](direction Direction) *Schema[T] {
	return &Schema[T]{direction: direction}
}

// SortKey adds a primary sort key. Values need not be unique.
//
// Parameters:
//   - column: SQL column or expression used in ORDER BY and the boundary predicate
//   - field: name of the value inside the cursor
//   - kind: value type
//   - extractor: returns the key value of an item
func (s *Schema[T]) SortKey(column, field string, kind Kind, extractor func(T) any) *Schema[T] {
	s.sortKeys = append(s.sortKeys, &keySpec[T]{
		column:    column,
		field:     field,
		kind:      kind,
		extractor: extractor,
	})
	return s
}

// TieBreak adds a tie-break key. Call it more than once for a composite key
// (relation tables). Tie-break keys always sort after every sort key,
// whatever the declaration order.
func (s *Schema[T]) TieBreak(column, field string, kind Kind, extractor func(T) any) *Schema[T] {
	s.tieBreaks = append(s.tieBreaks, &keySpec[T]{
		column:    column,
		field:     field,
		kind:      kind,
		extractor: extractor,
		tieBreak:  true,
	})
	return s
}

// Direction returns the schema direction.
func (s *Schema[T]) Direction() Direction {
	return s.direction
}

// keys returns sort keys followed by tie-break keys.
func (s *Schema[T]) keys() []*keySpec[T] {
	keys := make([]*keySpec[T], 0, len(s.sortKeys)+len(s.tieBreaks))
	keys = append(keys, s.sortKeys...)
	return append(keys, s.tieBreaks...)
}

// OrderBy returns the complete ORDER BY directives: sort keys first, then
// tie-break keys, every one in the schema direction.
//
// Example:
//
//	[{videos.updated_at DESC} {videos.id DESC}]
func (s *Schema[T]) OrderBy() []paging.Sort {
	keys := s.keys()
	orderBy := make([]paging.Sort, len(keys))
	for i, key := range keys {
		orderBy[i] = paging.Sort{Column: key.column, Desc: bool(s.direction)}
	}
	return orderBy
}

// Fields returns the cursor field names in key order.
func (s *Schema[T]) Fields() []string {
	keys := s.keys()
	fields := make([]string, len(keys))
	for i, key := range keys {
		fields[i] = key.field
	}
	return fields
}

// Validate checks that the schema describes a usable total order.
func (s *Schema[T]) Validate() error {
	if s == nil {
		return errors.New("keyset: nil schema")
	}
	if len(s.sortKeys) == 0 {
		return errors.New("keyset: schema needs at least one sort key")
	}
	if len(s.tieBreaks) == 0 {
		return errors.New("keyset: schema needs at least one tie-break key")
	}

	columns := make(map[string]struct{})
	fields := make(map[string]struct{})
	for _, key := range s.keys() {
		if key.column == "" || key.field == "" {
			return errors.New("keyset: key column and field must not be empty")
		}
		if key.extractor == nil {
			return errors.Errorf("keyset: key %q has no extractor", key.field)
		}
		if key.kind < String || key.kind > Int {
			return errors.Errorf("keyset: key %q has unknown kind %s", key.field, key.kind)
		}
		if _, dup := columns[key.column]; dup {
			return errors.Errorf("keyset: duplicate key column %q", key.column)
		}
		if _, dup := fields[key.field]; dup {
			return errors.Errorf("keyset: duplicate cursor field %q", key.field)
		}
		columns[key.column] = struct{}{}
		fields[key.field] = struct{}{}
	}

	return nil
}

// MustSchema panics if the schema is invalid. It is meant for package-level
// schema declarations.
func MustSchema[T any](s *Schema[T]) *Schema[T] {
	if err := s.Validate(); err != nil {
		panic(err)
	}
	return s
}

// Encoder returns the cursor codec bound to this schema.
func (s *Schema[T]) Encoder() paging.CursorEncoder[T] {
	return &Codec[T]{schema: s}
}

// Position returns the typed key values of an item, keyed by column.
// It is the position a cursor taken at this item decodes to.
func (s *Schema[T]) Position(item T) (*paging.CursorPosition, error) {
	keys := s.keys()
	values := make(map[string]any, len(keys))
	for _, key := range keys {
		v, err := normalize(key.kind, key.extractor(item))
		if err != nil {
			return nil, errors.Wrapf(err, "key %q", key.field)
		}
		values[key.column] = v
	}
	return &paging.CursorPosition{Values: values}, nil
}

// After reports whether item sorts strictly after pos in the schema order,
// i.e. whether it belongs to a page requested with that cursor. It is the
// in-memory twin of the SQL boundary predicate. A nil pos admits every item.
func (s *Schema[T]) After(item T, pos *paging.CursorPosition) (bool, error) {
	if pos == nil {
		return true, nil
	}

	itemPos, err := s.Position(item)
	if err != nil {
		return false, err
	}

	for _, key := range s.keys() {
		bound, ok := pos.Values[key.column]
		if !ok {
			return false, errors.Wrapf(paging.ErrInvalidCursor, "missing key %q", key.field)
		}

		c := compare(itemPos.Values[key.column], bound)
		if c == 0 {
			continue
		}
		if s.direction == DESC {
			return c < 0, nil
		}
		return c > 0, nil
	}

	// Equal on every key: this is the cursor row itself.
	return false, nil
}
