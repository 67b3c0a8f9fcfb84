// Package dml executes INSERT, DELETE, and SELECT on top of where lowering
// and the plan tree, maintaining every index defined on the affected table.
// Grounded on SQLExec::insert, SQLExec::del, and SQLExec::select in
// original_source/Milestone5/SQLExec.cpp.
package dml

import (
	"fmt"

	"github.com/ninanguyen24/sqlcore/internal/ast"
	"github.com/ninanguyen24/sqlcore/internal/btree"
	"github.com/ninanguyen24/sqlcore/internal/catalog"
	"github.com/ninanguyen24/sqlcore/internal/plan"
	"github.com/ninanguyen24/sqlcore/internal/relation"
	"github.com/ninanguyen24/sqlcore/internal/result"
	"github.com/ninanguyen24/sqlcore/internal/schema"
	"github.com/ninanguyen24/sqlcore/internal/value"
	"github.com/ninanguyen24/sqlcore/internal/where"
)

// UnsupportedLiteralTypeError is returned when an INSERT value expression
// is neither an integer nor a string literal.
type UnsupportedLiteralTypeError struct{ Detail string }

func (e *UnsupportedLiteralTypeError) Error() string {
	return fmt.Sprintf("dml: unsupported literal type: %s", e.Detail)
}

// ColumnCountMismatchError is returned when the positional value list does
// not have exactly as many entries as the column list.
type ColumnCountMismatchError struct{ Columns, Values int }

func (e *ColumnCountMismatchError) Error() string {
	return fmt.Sprintf("dml: %d columns but %d values", e.Columns, e.Values)
}

func allIndexesOf(cat *catalog.Catalog, table string) ([]relation.DbIndex, error) {
	names, err := cat.GetIndexNames(table)
	if err != nil {
		return nil, err
	}
	indexes := make([]relation.DbIndex, 0, len(names))
	for _, name := range names {
		ix, err := cat.GetIndex(table, name)
		if err != nil {
			return nil, err
		}
		indexes = append(indexes, ix)
	}
	return indexes, nil
}

// Insert executes INSERT INTO table [(columns)] VALUES (values). Columns
// defaults to the relation's full declared column list in order. Index
// insertion failures are not rolled back by default (spec.md §4.5); the
// row remains in the relation with the index left inconsistent.
func Insert(cat *catalog.Catalog, stmt *ast.InsertStatement) (*result.QueryResult, error) {
	rel, err := cat.GetTable(stmt.Table)
	if err != nil {
		return nil, err
	}

	cols := stmt.Columns
	if cols == nil {
		cols = rel.GetColumnNames()
	}
	if len(cols) != len(stmt.Values) {
		return nil, &ColumnCountMismatchError{Columns: len(cols), Values: len(stmt.Values)}
	}

	row := value.Row{}
	for i, col := range cols {
		v, err := literalValue(stmt.Values[i])
		if err != nil {
			return nil, err
		}
		row[col] = v
	}

	handle, err := rel.Insert(row)
	if err != nil {
		return nil, fmt.Errorf("StorageError: %w", err)
	}

	indexes, err := allIndexesOf(cat, stmt.Table)
	if err != nil {
		return nil, err
	}
	for _, ix := range indexes {
		if err := ix.Insert(handle); err != nil {
			return nil, err
		}
	}

	return result.Message(result.RowsAffectedMessage("inserted", 1, "")), nil
}

func literalValue(expr ast.Expr) (value.Value, error) {
	switch lit := expr.(type) {
	case *ast.IntLiteral:
		return value.Int(lit.Value), nil
	case *ast.StringLiteral:
		return value.Text(lit.Value), nil
	default:
		return value.Value{}, &UnsupportedLiteralTypeError{Detail: fmt.Sprintf("%T", expr)}
	}
}

// Delete executes DELETE FROM table [WHERE where]. For every matching
// handle, Del is called on every index of the table before the row is
// removed from the relation itself. An index returning
// btree.ErrNotImplemented (the B+Tree always does) keeps its entry.
func Delete(cat *catalog.Catalog, stmt *ast.DeleteStatement) (*result.QueryResult, error) {
	rel, err := cat.GetTable(stmt.Table)
	if err != nil {
		return nil, err
	}

	eq, err := where.Lower(stmt.Where, rel)
	if err != nil {
		return nil, err
	}

	var node plan.Node = &plan.TableScan{Relation: rel}
	if stmt.Where != nil {
		node = &plan.Select{Where: eq, Child: node}
	}
	node = plan.Optimize(node)

	_, handles, err := plan.Pipeline(node)
	if err != nil {
		return nil, fmt.Errorf("StorageError: %w", err)
	}

	indexes, err := allIndexesOf(cat, stmt.Table)
	if err != nil {
		return nil, err
	}

	for _, h := range handles {
		for _, ix := range indexes {
			// spec.md §4.6 permits the B+Tree to leave Del unimplemented;
			// the entry then stays in the index: Lookup on its key still
			// returns the deleted row's handle, and inserting a new row
			// with the same key fails as a duplicate.
			if err := ix.Del(h); err != nil && err != btree.ErrNotImplemented {
				return nil, err
			}
		}
		if err := rel.Del(h); err != nil {
			return nil, fmt.Errorf("StorageError: %w", err)
		}
	}

	return result.Message(result.RowsAffectedMessage("deleted", len(handles), fmt.Sprintf("and %d indices entries", len(handles)*len(indexes)))), nil
}

// Select executes SELECT select_list FROM table [WHERE where]. "*"
// resolves to the full column list.
func Select(cat *catalog.Catalog, stmt *ast.SelectStatement) (*result.QueryResult, error) {
	rel, err := cat.GetTable(stmt.From)
	if err != nil {
		return nil, err
	}

	cols := schema.ColumnNames(stmt.SelectList)
	if cols == nil {
		cols = rel.GetColumnNames()
	}

	eq, err := where.Lower(stmt.Where, rel)
	if err != nil {
		return nil, err
	}

	var node plan.Node = &plan.TableScan{Relation: rel}
	if stmt.Where != nil {
		node = &plan.Select{Where: eq, Child: node}
	}
	node = &plan.Project{Columns: cols, Child: node}
	node = plan.Optimize(node)

	rows, err := plan.Evaluate(node)
	if err != nil {
		return nil, fmt.Errorf("StorageError: %w", err)
	}

	return result.Rowset(cols, rows, result.RowsAffectedMessage("selected", len(rows), "")), nil
}
