// Package result defines QueryResult, the uniform envelope every executor
// operation returns: optional column names/attributes, an optional row
// list, and a status message. Grounded on QueryResult and its
// operator<< in original_source/Milestone5/SQLExec.cpp.
package result

import (
	"fmt"
	"strings"

	"github.com/ninanguyen24/sqlcore/internal/schema"
	"github.com/ninanguyen24/sqlcore/internal/value"
)

// QueryResult is the exclusive owner of its Columns/Attributes/Rows; it is
// the only value handed back to callers (spec.md §5).
type QueryResult struct {
	Columns    schema.ColumnNames
	Attributes schema.ColumnAttributes
	Rows       []value.Row
	Message    string
}

// Message builds a QueryResult carrying only a status message, the "no
// data" success shape spec.md §7 describes.
func Message(msg string) *QueryResult {
	return &QueryResult{Message: msg}
}

// Rowset builds a QueryResult for a query that produced rows.
func Rowset(columns schema.ColumnNames, rows []value.Row, msg string) *QueryResult {
	return &QueryResult{Columns: columns, Rows: rows, Message: msg}
}

// String renders the printable form spec.md §4.7 specifies: a header row
// of column names, a '+'-bordered divider with ten dashes per column, one
// line per row, then the trailing message. Grounded on
// original_source/Milestone5/SQLExec.cpp:21-24, which prints a leading and
// trailing "+" around the dashes rather than only separating columns.
func (r *QueryResult) String() string {
	var b strings.Builder
	if len(r.Columns) > 0 {
		b.WriteString(strings.Join(r.Columns, " "))
		b.WriteByte('\n')
		dashes := make([]string, len(r.Columns))
		for i := range dashes {
			dashes[i] = strings.Repeat("-", 10)
		}
		b.WriteByte('+')
		b.WriteString(strings.Join(dashes, "+"))
		b.WriteByte('+')
		b.WriteByte('\n')
		for _, row := range r.Rows {
			vals := make([]string, len(r.Columns))
			for i, col := range r.Columns {
				vals[i] = row[col].String()
			}
			b.WriteString(strings.Join(vals, " "))
			b.WriteByte('\n')
		}
	}
	b.WriteString(r.Message)
	return b.String()
}

// Count returns len(Rows), the row count every DML result reports even
// when the caller only wants the message.
func (r *QueryResult) Count() int { return len(r.Rows) }

// RowsAffectedMessage is the standard "successfully inserted/deleted N
// rows..." message shape used throughout the executor.
func RowsAffectedMessage(verb string, n int, extra string) string {
	plural := "s"
	if n == 1 {
		plural = ""
	}
	if extra != "" {
		return fmt.Sprintf("successfully %s %d row%s %s", verb, n, plural, extra)
	}
	return fmt.Sprintf("successfully %s %d row%s", verb, n, plural)
}
