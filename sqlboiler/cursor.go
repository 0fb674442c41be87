package sqlboiler

import (
	"fmt"
	"strings"

	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/aarondl/sqlboiler/v4/queries/qm"
	"github.com/aarondl/strmangle"

	"github.com/nrfta/tubepage"
)

// CursorToQueryMods converts FetchParams into SQLBoiler query mods for keyset pagination.
//
// The conversion follows these rules:
//   - Cursor → raw WHERE with the expanded keyset comparison
//   - Limit → qm.Limit(n)
//   - OrderBy → qm.OrderBy("col1 DESC, col2 DESC")
//
// Columns that are plain identifiers ("videos.updated_at") are quoted;
// expressions such as aggregate subqueries are passed through untouched.
// Cursor values must already carry their SQL types (time.Time, int64,
// string), which keyset.Codec guarantees.
//
// Example:
//
//	fetcher := sqlboiler.NewFetcher(
//	    queryFunc,
//	    countFunc,
//	    sqlboiler.CursorToQueryMods,
//	)
//
// Requirements:
//   - A composite index matching the order: CREATE INDEX idx ON videos(updated_at DESC, id DESC)
func CursorToQueryMods(params paging.FetchParams) []qm.QueryMod {
	mods := []qm.QueryMod{}

	if params.Cursor != nil && len(params.OrderBy) > 0 {
		whereClause, args := buildKeysetWhereClause(params.Cursor, params.OrderBy)
		if whereClause != "" {
			mods = append(mods, rawWhereClause(whereClause, args))
		}
	}

	if params.Limit > 0 {
		mods = append(mods, qm.Limit(params.Limit))
	}

	if len(params.OrderBy) > 0 {
		mods = append(mods, qm.OrderBy(buildOrderByClause(params.OrderBy)))
	}

	return mods
}

// buildKeysetWhereClause builds the boundary predicate in expanded form:
//
//	DESC order: col1 < ? OR (col1 = ? AND col2 < ?) OR (col1 = ? AND col2 = ? AND col3 < ?)
//	ASC order:  col1 > ? OR (col1 = ? AND col2 > ?) ...
//
// The operator follows the direction of the first sort; schemas are single
// direction. Returns an empty clause when the cursor lacks an ordered column.
func buildKeysetWhereClause(cursor *paging.CursorPosition, orderBy []paging.Sort) (string, []any) {
	if cursor == nil || len(cursor.Values) == 0 || len(orderBy) == 0 {
		return "", nil
	}

	operator := ">"
	if orderBy[0].Desc {
		operator = "<"
	}

	columns := make([]string, len(orderBy))
	values := make([]any, len(orderBy))
	for i, order := range orderBy {
		val, ok := cursor.Values[order.Column]
		if !ok {
			return "", nil
		}
		columns[i] = quoteColumn(order.Column)
		values[i] = val
	}

	var (
		parts []string
		args  []any
	)
	for i := range columns {
		if i == 0 {
			parts = append(parts, fmt.Sprintf("%s %s ?", columns[0], operator))
			args = append(args, values[0])
			continue
		}

		equal := make([]string, 0, i)
		for j := 0; j < i; j++ {
			equal = append(equal, fmt.Sprintf("%s = ?", columns[j]))
			args = append(args, values[j])
		}
		parts = append(parts, fmt.Sprintf("(%s AND %s %s ?)", strings.Join(equal, " AND "), columns[i], operator))
		args = append(args, values[i])
	}

	return "(" + strings.Join(parts, " OR ") + ")", args
}

// buildOrderByClause renders ORDER BY directives.
func buildOrderByClause(orderBy []paging.Sort) string {
	parts := make([]string, len(orderBy))
	for i, order := range orderBy {
		direction := "ASC"
		if order.Desc {
			direction = "DESC"
		}
		parts[i] = quoteColumn(order.Column) + " " + direction
	}
	return strings.Join(parts, ", ")
}

// quoteColumn double-quotes plain (optionally table-qualified) identifiers.
func quoteColumn(column string) string {
	return strmangle.IdentQuote('"', '"', column)
}

// rawWhereClause appends a WHERE clause and its arguments to the query. The
// clause is parenthesized so it composes with the listing filter.
func rawWhereClause(clause string, args []any) qm.QueryMod {
	return qm.QueryModFunc(func(q *queries.Query) {
		queries.AppendWhere(q, clause, args...)
	})
}
