// Package ddl executes CREATE/DROP TABLE and CREATE/DROP INDEX, keeping
// catalog rows and physical storage atomically consistent via best-effort
// compensation on failure. Grounded on SQLExec::create_table,
// SQLExec::create_index, SQLExec::drop_table, and SQLExec::drop_index in
// original_source/Milestone5/SQLExec.cpp.
package ddl

import (
	"fmt"

	"github.com/ninanguyen24/sqlcore/internal/ast"
	"github.com/ninanguyen24/sqlcore/internal/catalog"
	"github.com/ninanguyen24/sqlcore/internal/result"
	"github.com/ninanguyen24/sqlcore/internal/schema"
	"github.com/ninanguyen24/sqlcore/internal/value"
)

// UnsupportedTypeError is returned when a column declares a data type
// other than INT or TEXT.
type UnsupportedTypeError struct{ Name, DataType string }

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("ddl: column %q has unsupported type %q", e.Name, e.DataType)
}

// SchemaProtectedError is returned by an attempt to drop _tables, _columns,
// or _indices.
type SchemaProtectedError struct{ Name string }

func (e *SchemaProtectedError) Error() string {
	return fmt.Sprintf("ddl: %q is a schema relation and cannot be dropped", e.Name)
}

// UnknownColumnError is returned when CREATE INDEX names a column absent
// from the target relation.
type UnknownColumnError struct{ Table, Column string }

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("ddl: table %q has no column %q", e.Table, e.Column)
}

// CreateTable executes CREATE TABLE(name, columns, if_not_exists). On
// failure at the _columns insertion step or the physical create step, the
// already-inserted _columns rows and the _tables row are deleted (in that
// order) before the original error is returned (spec.md §4.2 step 5).
func CreateTable(cat *catalog.Catalog, stmt *ast.CreateStatement) (*result.QueryResult, error) {
	tHandle, err := cat.Tables().Insert(value.Row{"table_name": value.Text(stmt.Table)})
	if err != nil {
		return nil, fmt.Errorf("StorageError: %w", err)
	}

	var colHandles schema.Handles
	fail := func(cause error) (*result.QueryResult, error) {
		for _, h := range colHandles {
			_ = cat.Columns().Del(h)
		}
		_ = cat.Tables().Del(tHandle)
		return nil, cause
	}

	cols := make(schema.ColumnNames, 0, len(stmt.Columns))
	attrs := make(schema.ColumnAttributes, 0, len(stmt.Columns))
	for _, c := range stmt.Columns {
		var dt schema.DataType
		switch c.DataType {
		case "INT":
			dt = schema.Int
		case "TEXT":
			dt = schema.Text
		default:
			return fail(&UnsupportedTypeError{Name: c.Name, DataType: c.DataType})
		}
		h, err := cat.Columns().Insert(value.Row{
			"table_name":  value.Text(stmt.Table),
			"column_name": value.Text(c.Name),
			"data_type":   value.Text(c.DataType),
		})
		if err != nil {
			return fail(fmt.Errorf("StorageError: %w", err))
		}
		colHandles = append(colHandles, h)
		cols = append(cols, c.Name)
		attrs = append(attrs, schema.ColumnAttribute{DataType: dt})
	}

	rel := cat.NewTable(stmt.Table, cols, attrs)
	var createErr error
	if stmt.IfNotExists {
		createErr = rel.CreateIfNotExists()
	} else {
		createErr = rel.Create()
	}
	if createErr != nil {
		cat.ForgetTable(stmt.Table)
		return fail(fmt.Errorf("StorageError: %w", createErr))
	}

	return result.Message(fmt.Sprintf("created table %s", stmt.Table)), nil
}

// CreateIndex executes CREATE INDEX(name, table, columns, type). It
// pre-checks every named column exists on the table, defaults type to
// "BTREE" (is_unique := type == "BTREE"), inserts one _indices row per
// column in seq_in_index order, then calls index.Create() which bulk-loads
// from the relation. On failure every just-inserted _indices row is
// deleted and the original error re-raised (spec.md §4.2).
func CreateIndex(cat *catalog.Catalog, stmt *ast.CreateStatement) (*result.QueryResult, error) {
	rel, err := cat.GetTable(stmt.IndexTable)
	if err != nil {
		return nil, err
	}
	for _, col := range stmt.IndexColumns {
		found := false
		for _, c := range rel.GetColumnNames() {
			if c == col {
				found = true
				break
			}
		}
		if !found {
			return nil, &UnknownColumnError{Table: stmt.IndexTable, Column: col}
		}
	}

	indexType := stmt.IndexType
	if indexType == "" {
		indexType = "BTREE"
	}
	isUnique := indexType == "BTREE"

	var indexHandles schema.Handles
	fail := func(cause error) (*result.QueryResult, error) {
		for _, h := range indexHandles {
			_ = cat.Indices().Del(h)
		}
		return nil, cause
	}

	for i, col := range stmt.IndexColumns {
		h, err := cat.Indices().Insert(value.Row{
			"table_name":   value.Text(stmt.IndexTable),
			"index_name":   value.Text(stmt.IndexName),
			"seq_in_index": value.Int(int64(i + 1)),
			"column_name":  value.Text(col),
			"index_type":   value.Text(indexType),
			"is_unique":    value.Boolean(isUnique),
		})
		if err != nil {
			return fail(fmt.Errorf("StorageError: %w", err))
		}
		indexHandles = append(indexHandles, h)
	}

	idx, err := cat.NewIndex(stmt.IndexTable, stmt.IndexName, stmt.IndexColumns, isUnique)
	if err != nil {
		return fail(err)
	}
	if err := idx.Create(); err != nil {
		cat.ForgetIndex(stmt.IndexTable, stmt.IndexName)
		return fail(fmt.Errorf("StorageError: %w", err))
	}

	return result.Message(fmt.Sprintf("created index %s on %s", stmt.IndexName, stmt.IndexTable)), nil
}

// DropTable executes DROP TABLE(name): refuses schema relations, drops
// every index on name (and their _indices rows), then deletes _columns
// rows, then drops the physical relation, and finally deletes the _tables
// row (SQLExec::drop_table, original_source/Milestone5/SQLExec.cpp:448-456).
// Every physical/catalog step precedes the _tables delete so a crash
// midway leaves a detectable, not silently dangling, catalog (spec.md
// §4.2).
func DropTable(cat *catalog.Catalog, table string) (*result.QueryResult, error) {
	if catalog.Protected(table) {
		return nil, &SchemaProtectedError{Name: table}
	}

	indexNames, err := cat.GetIndexNames(table)
	if err != nil {
		return nil, fmt.Errorf("StorageError: %w", err)
	}
	for _, name := range indexNames {
		if _, err := DropIndex(cat, table, name); err != nil {
			return nil, err
		}
	}

	colHandles, err := cat.Columns().Select(value.Row{"table_name": value.Text(table)})
	if err != nil {
		return nil, fmt.Errorf("StorageError: %w", err)
	}
	for _, h := range colHandles {
		if err := cat.Columns().Del(h); err != nil {
			return nil, fmt.Errorf("StorageError: %w", err)
		}
	}

	rel, err := cat.GetTable(table)
	if err != nil {
		return nil, err
	}
	if err := rel.Drop(); err != nil {
		return nil, fmt.Errorf("StorageError: %w", err)
	}
	cat.ForgetTable(table)

	tHandles, err := cat.Tables().Select(value.Row{"table_name": value.Text(table)})
	if err != nil {
		return nil, fmt.Errorf("StorageError: %w", err)
	}
	for _, h := range tHandles {
		if err := cat.Tables().Del(h); err != nil {
			return nil, fmt.Errorf("StorageError: %w", err)
		}
	}

	return result.Message(fmt.Sprintf("dropped table %s", table)), nil
}

// DropIndex executes DROP INDEX(table, name): drops the physical index
// file then every matching _indices row. Iterating indices.Select(where)
// is the single path spec.md §9's open question resolves in favor of,
// retiring the duplicate _indices-delete path the source milestones carry.
func DropIndex(cat *catalog.Catalog, table, name string) (*result.QueryResult, error) {
	idx, err := cat.GetIndex(table, name)
	if err != nil {
		return nil, err
	}
	if err := idx.Drop(); err != nil {
		return nil, fmt.Errorf("StorageError: %w", err)
	}
	cat.ForgetIndex(table, name)

	rows, err := cat.Indices().Select(value.Row{"table_name": value.Text(table), "index_name": value.Text(name)})
	if err != nil {
		return nil, fmt.Errorf("StorageError: %w", err)
	}
	for _, h := range rows {
		if err := cat.Indices().Del(h); err != nil {
			return nil, fmt.Errorf("StorageError: %w", err)
		}
	}

	return result.Message(fmt.Sprintf("dropped index %s on %s", name, table)), nil
}
