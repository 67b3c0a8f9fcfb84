package scriptrun

import "github.com/ninanguyen24/sqlcore/internal/ast"

// Scenarios names the handful of fixed statements spec.md §8's concrete
// end-to-end scenarios are built from, so rsc.io/script files can run them
// by name through the "stmt" command.
var Scenarios = map[string]ast.Statement{
	"create-t": &ast.CreateStatement{
		Kind:  ast.Table,
		Table: "t",
		Columns: []ast.ColumnDef{
			{Name: "a", DataType: "INT"},
			{Name: "b", DataType: "TEXT"},
		},
	},
	"show-tables": &ast.ShowStatement{Kind: ast.Tables},
	"show-columns-t": &ast.ShowStatement{Kind: ast.Columns, Table: "t"},
	"insert-12-x": &ast.InsertStatement{
		Table:  "t",
		Values: []ast.Expr{&ast.IntLiteral{Value: 12}, &ast.StringLiteral{Value: "x"}},
	},
	"insert-88-y": &ast.InsertStatement{
		Table:  "t",
		Values: []ast.Expr{&ast.IntLiteral{Value: 88}, &ast.StringLiteral{Value: "y"}},
	},
	"select-a-eq-12": &ast.SelectStatement{
		From: "t",
		Where: &ast.BinaryExpr{
			Op:    ast.OpEq,
			Left:  &ast.ColumnRef{Name: "a"},
			Right: &ast.IntLiteral{Value: 12},
		},
	},
	"create-index-i": &ast.CreateStatement{
		Kind:         ast.Index,
		IndexTable:   "t",
		IndexName:    "i",
		IndexColumns: []string{"a"},
	},
	"drop-schema-tables": &ast.DropStatement{Kind: ast.Table, Table: "_tables"},
}
