package keyset

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/friendsofgo/errors"
	"github.com/google/uuid"

	"github.com/nrfta/tubepage"
)

var encoding = base64.RawURLEncoding

// Codec encodes items into opaque cursor tokens and decodes tokens back into
// typed positions. It implements paging.CursorEncoder.
//
// Token format: base64url (no padding) of a JSON object keyed by the
// schema's cursor field names:
//
//	{"updatedAt":"2024-01-01T00:00:00.123456Z","id":"7f1c…"}
//	→ eyJ1cGRhdGVkQXQiOiIyMDI0LTAxLTAxVDAwOjAwOjAwLjEyMzQ1NloiLCJpZCI6IjdmMWPigKYifQ
//
// Decoding is strict: every schema field must be present with a value of the
// declared kind, and no other field is accepted. Any violation yields an
// error matching paging.ErrInvalidCursor.
type Codec[T any] struct {
	schema *Schema[T]
}

// Encode implements paging.CursorEncoder.
func (c *Codec[T]) Encode(item T) (*string, error) {
	keys := c.schema.keys()
	values := make(map[string]any, len(keys))
	for _, key := range keys {
		v, err := normalize(key.kind, key.extractor(item))
		if err != nil {
			return nil, errors.Wrapf(err, "encode cursor key %q", key.field)
		}
		values[key.field] = wireValue(v)
	}

	data, err := json.Marshal(values)
	if err != nil {
		return nil, errors.Wrap(err, "encode cursor")
	}

	token := encoding.EncodeToString(data)
	return &token, nil
}

// EncodePosition turns a decoded position back into a token. It is the
// inverse of Decode.
func (c *Codec[T]) EncodePosition(pos *paging.CursorPosition) (*string, error) {
	if pos == nil {
		return nil, nil
	}

	keys := c.schema.keys()
	values := make(map[string]any, len(keys))
	for _, key := range keys {
		v, ok := pos.Values[key.column]
		if !ok {
			return nil, errors.Errorf("encode cursor: missing key %q", key.field)
		}
		v, err := normalize(key.kind, v)
		if err != nil {
			return nil, errors.Wrapf(err, "encode cursor key %q", key.field)
		}
		values[key.field] = wireValue(v)
	}

	data, err := json.Marshal(values)
	if err != nil {
		return nil, errors.Wrap(err, "encode cursor")
	}

	token := encoding.EncodeToString(data)
	return &token, nil
}

// Decode implements paging.CursorEncoder. The returned position is keyed by
// column, with values typed per key kind (time.Time, int64 or string).
func (c *Codec[T]) Decode(cursor string) (*paging.CursorPosition, error) {
	data, err := encoding.DecodeString(strings.TrimRight(cursor, "="))
	if err != nil {
		return nil, errors.Wrap(paging.ErrInvalidCursor, "not base64url")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil || raw == nil {
		return nil, errors.Wrap(paging.ErrInvalidCursor, "not a JSON object")
	}
	if dec.More() {
		return nil, errors.Wrap(paging.ErrInvalidCursor, "trailing data")
	}

	keys := c.schema.keys()
	if len(raw) != len(keys) {
		return nil, errors.Wrapf(paging.ErrInvalidCursor, "expected fields %v", c.schema.Fields())
	}

	values := make(map[string]any, len(keys))
	for _, key := range keys {
		v, ok := raw[key.field]
		if !ok {
			return nil, errors.Wrapf(paging.ErrInvalidCursor, "missing field %q", key.field)
		}
		typed, err := parseWire(key.kind, v)
		if err != nil {
			return nil, errors.Wrapf(paging.ErrInvalidCursor, "field %q: %s", key.field, err)
		}
		values[key.column] = typed
	}

	return &paging.CursorPosition{Values: values}, nil
}

// normalize converts an extracted value to the canonical Go type of kind:
// time.Time (UTC), int64 or string.
func normalize(kind Kind, v any) (any, error) {
	switch kind {
	case Time:
		switch t := v.(type) {
		case time.Time:
			return t.UTC(), nil
		case *time.Time:
			if t != nil {
				return t.UTC(), nil
			}
		}
	case Int:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case int64:
			return n, nil
		case uint32:
			return int64(n), nil
		}
	case String:
		switch s := v.(type) {
		case string:
			return s, nil
		case fmt.Stringer:
			return s.String(), nil
		}
	case UUID:
		switch id := v.(type) {
		case uuid.UUID:
			return id.String(), nil
		case string:
			parsed, err := uuid.Parse(id)
			if err != nil {
				return nil, err
			}
			return parsed.String(), nil
		}
	}

	return nil, errors.Errorf("value %v (%T) is not a %s", v, v, kind)
}

// wireValue is the JSON representation of a normalized value.
func wireValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339Nano)
	}
	return v
}

// parseWire converts a JSON-decoded value into the canonical type of kind.
func parseWire(kind Kind, v any) (any, error) {
	switch kind {
	case Time:
		s, ok := v.(string)
		if !ok {
			return nil, errors.New("expected a timestamp string")
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, errors.New("expected an RFC 3339 timestamp")
		}
		return t.UTC(), nil

	case Int:
		n, ok := v.(json.Number)
		if !ok {
			return nil, errors.New("expected an integer")
		}
		i, err := n.Int64()
		if err != nil {
			return nil, errors.New("expected an integer")
		}
		return i, nil

	case UUID:
		s, ok := v.(string)
		if !ok {
			return nil, errors.New("expected a uuid string")
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, errors.New("expected a uuid")
		}
		return id.String(), nil

	default:
		s, ok := v.(string)
		if !ok {
			return nil, errors.New("expected a string")
		}
		return s, nil
	}
}

// compare orders two normalized values of the same kind.
func compare(a, b any) int {
	switch x := a.(type) {
	case time.Time:
		y, _ := b.(time.Time)
		return x.Compare(y)
	case int64:
		y, _ := b.(int64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case string:
		y, _ := b.(string)
		return strings.Compare(x, y)
	}
	return 0
}
