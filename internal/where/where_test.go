package where

import (
	"path/filepath"
	"testing"

	"github.com/ninanguyen24/sqlcore/internal/ast"
	"github.com/ninanguyen24/sqlcore/internal/schema"
	"github.com/ninanguyen24/sqlcore/internal/storage/heap"
	"github.com/ninanguyen24/sqlcore/internal/value"
)

func newTestRelation(t *testing.T) *heap.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "t")
	cols := schema.ColumnNames{"a", "b"}
	attrs := schema.ColumnAttributes{{DataType: schema.Int}, {DataType: schema.Text}}
	rel := heap.New(path, "t", cols, attrs, 256)
	if err := rel.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return rel
}

func TestLowerNilExprIsEmptyRow(t *testing.T) {
	rel := newTestRelation(t)
	row, err := Lower(nil, rel)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if len(row) != 0 {
		t.Fatalf("expected an empty row, got %v", row)
	}
}

func TestLowerSingleEquality(t *testing.T) {
	rel := newTestRelation(t)
	expr := &ast.BinaryExpr{Op: ast.OpEq, Left: &ast.ColumnRef{Name: "a"}, Right: &ast.IntLiteral{Value: 5}}
	row, err := Lower(expr, rel)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if row["a"].N != 5 {
		t.Fatalf("expected a=5, got %v", row)
	}
}

func TestLowerConjunction(t *testing.T) {
	rel := newTestRelation(t)
	expr := &ast.BinaryExpr{
		Op:   ast.OpAnd,
		Left: &ast.BinaryExpr{Op: ast.OpEq, Left: &ast.ColumnRef{Name: "a"}, Right: &ast.IntLiteral{Value: 1}},
		Right: &ast.BinaryExpr{Op: ast.OpEq, Left: &ast.ColumnRef{Name: "b"}, Right: &ast.StringLiteral{Value: "x"}},
	}
	row, err := Lower(expr, rel)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if row["a"].N != 1 || row["b"].S != "x" {
		t.Fatalf("expected a=1 AND b=x, got %v", row)
	}
}

func TestLowerRejectsOr(t *testing.T) {
	rel := newTestRelation(t)
	expr := &ast.BinaryExpr{Op: ast.OpOther, Left: &ast.ColumnRef{Name: "a"}, Right: &ast.IntLiteral{Value: 1}}
	if _, err := Lower(expr, rel); err == nil {
		t.Fatalf("expected an UnsupportedPredicateError for a non-AND/= operator")
	} else if _, ok := err.(*UnsupportedPredicateError); !ok {
		t.Fatalf("expected *UnsupportedPredicateError, got %T", err)
	}
}

func TestLowerRejectsUnknownColumn(t *testing.T) {
	rel := newTestRelation(t)
	expr := &ast.BinaryExpr{Op: ast.OpEq, Left: &ast.ColumnRef{Name: "ghost"}, Right: &ast.IntLiteral{Value: 1}}
	if _, err := Lower(expr, rel); err == nil {
		t.Fatalf("expected an UnknownColumnError")
	} else if _, ok := err.(*UnknownColumnError); !ok {
		t.Fatalf("expected *UnknownColumnError, got %T", err)
	}
}

func TestLowerLaterBindingWins(t *testing.T) {
	rel := newTestRelation(t)
	expr := &ast.BinaryExpr{
		Op:   ast.OpAnd,
		Left: &ast.BinaryExpr{Op: ast.OpEq, Left: &ast.ColumnRef{Name: "a"}, Right: &ast.IntLiteral{Value: 1}},
		Right: &ast.BinaryExpr{Op: ast.OpEq, Left: &ast.ColumnRef{Name: "a"}, Right: &ast.IntLiteral{Value: 2}},
	}
	row, err := Lower(expr, rel)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if row["a"].N != 2 {
		t.Fatalf("expected the later binding (a=2) to win, got %v", row["a"])
	}
}
