// Package where lowers a WHERE-clause expression tree into an equality
// conjunction: a value.Row mapping column name to the literal it must
// equal. Grounded on SQLExec::get_where_conjunction in
// original_source/Milestone5/SQLExec.cpp.
package where

import (
	"fmt"

	"github.com/ninanguyen24/sqlcore/internal/ast"
	"github.com/ninanguyen24/sqlcore/internal/relation"
	"github.com/ninanguyen24/sqlcore/internal/value"
)

// UnsupportedPredicateError is returned for any operator other than AND/=,
// including OR and non-equality comparisons.
type UnsupportedPredicateError struct{ Detail string }

func (e *UnsupportedPredicateError) Error() string {
	return fmt.Sprintf("where: unsupported predicate: %s", e.Detail)
}

// UnknownColumnError is returned when a ColumnRef names a column absent
// from the target relation.
type UnknownColumnError struct{ Name string }

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("where: unknown column %q", e.Name)
}

// UnsupportedLiteralTypeError is returned for any literal kind other than
// int/string (there are none others in the ast package today, but the
// check stays so future literal kinds fail loudly instead of panicking).
type UnsupportedLiteralTypeError struct{ Detail string }

func (e *UnsupportedLiteralTypeError) Error() string {
	return fmt.Sprintf("where: unsupported literal type: %s", e.Detail)
}

// Lower converts expr into an equality conjunction against rel's declared
// columns. A nil expr lowers to an empty (match-everything) row. Duplicate
// equalities on the same column: the later binding replaces the earlier,
// matching the source behavior (spec.md §4.3).
func Lower(expr ast.Expr, rel relation.DbRelation) (value.Row, error) {
	if expr == nil {
		return value.Row{}, nil
	}
	out := value.Row{}
	if err := lower(expr, rel, out); err != nil {
		return nil, err
	}
	return out, nil
}

func lower(expr ast.Expr, rel relation.DbRelation, out value.Row) error {
	bin, ok := expr.(*ast.BinaryExpr)
	if !ok {
		return &UnsupportedPredicateError{Detail: fmt.Sprintf("expected a binary expression, got %T", expr)}
	}

	switch bin.Op {
	case ast.OpAnd:
		if err := lower(bin.Left, rel, out); err != nil {
			return err
		}
		return lower(bin.Right, rel, out)
	case ast.OpEq:
		col, ok := bin.Left.(*ast.ColumnRef)
		if !ok {
			return &UnsupportedPredicateError{Detail: "left side of = must be a column reference"}
		}
		if !hasColumn(rel, col.Name) {
			return &UnknownColumnError{Name: col.Name}
		}
		v, err := literalValue(bin.Right)
		if err != nil {
			return err
		}
		out[col.Name] = v
		return nil
	default:
		return &UnsupportedPredicateError{Detail: "only AND and = are supported"}
	}
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

func hasColumn(rel relation.DbRelation, name string) bool {
	for _, c := range rel.GetColumnNames() {
		if c == name {
			return true
		}
	}
	return false
}
