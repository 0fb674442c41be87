// Package models holds the row types and query constructors of the listing
// service, written in the shape SQLBoiler generates: a table or listing
// constructor takes query mods and returns a query with All, One, Count and
// Exists finishers.
package models

import (
	"context"
	"database/sql"

	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/aarondl/sqlboiler/v4/drivers"
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/aarondl/sqlboiler/v4/queries/qm"
	"github.com/friendsofgo/errors"
)

var dialect = drivers.Dialect{
	LQ: 0x22,
	RQ: 0x22,

	UseIndexPlaceholders:    true,
	UseLastInsertID:         false,
	UseSchema:               false,
	UseDefaultKeyword:       true,
	UseAutoColumns:          false,
	UseTopClause:            false,
	UseOutputClause:         false,
	UseCaseWhenExistsClause: false,
}

// NewQuery initializes a new Query using the passed in QueryMods.
func NewQuery(mods ...qm.QueryMod) *queries.Query {
	q := &queries.Query{}
	queries.SetDialect(q, &dialect)
	qm.Apply(q, mods...)

	return q
}

// aliased qualifies columns with table and aliases them back to the bare
// column name. Joined selects would otherwise be rewritten to
// "table"."col" as "table.col", which Bind maps to a nested struct.
func aliased(table string, columns ...string) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = table + "." + col + " AS " + col
	}
	return out
}

// Query is a typed select over a table or listing. T is the row type,
// usually a pointer to a struct with boil tags.
type Query[T any] struct {
	*queries.Query
	name string
}

func newQuery[T any](name string, mods ...qm.QueryMod) Query[T] {
	return Query[T]{Query: NewQuery(mods...), name: name}
}

// All returns every row of the query.
func (q Query[T]) All(ctx context.Context, exec boil.ContextExecutor) ([]T, error) {
	var o []T

	err := q.Bind(ctx, exec, &o)
	if err != nil {
		return nil, errors.Wrapf(err, "models: failed to assign all query results to %s slice", q.name)
	}

	return o, nil
}

// One returns a single row. It returns sql.ErrNoRows when nothing matches.
func (q Query[T]) One(ctx context.Context, exec boil.ContextExecutor) (T, error) {
	var o T

	queries.SetLimit(q.Query, 1)

	rows := []T{}
	err := q.Bind(ctx, exec, &rows)
	if err != nil {
		return o, errors.Wrapf(err, "models: failed to execute a one query for %s", q.name)
	}
	if len(rows) == 0 {
		return o, sql.ErrNoRows
	}

	return rows[0], nil
}

// Count returns the number of rows matching the query. The select list is
// replaced by COUNT(*); callers build count queries from filter mods only.
func (q Query[T]) Count(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	var count int64

	queries.SetSelect(q.Query, nil)
	queries.SetCount(q.Query)

	err := q.Query.QueryRowContext(ctx, exec).Scan(&count)
	if err != nil {
		return 0, errors.Wrapf(err, "models: failed to count %s rows", q.name)
	}

	return count, nil
}

// Exists reports whether at least one row matches the query.
func (q Query[T]) Exists(ctx context.Context, exec boil.ContextExecutor) (bool, error) {
	var count int64

	queries.SetSelect(q.Query, nil)
	queries.SetCount(q.Query)
	queries.SetLimit(q.Query, 1)

	err := q.Query.QueryRowContext(ctx, exec).Scan(&count)
	if err != nil {
		return false, errors.Wrapf(err, "models: failed to check if %s exists", q.name)
	}

	return count > 0, nil
}
