package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ninanguyen24/sqlcore/internal/ast"
	"github.com/ninanguyen24/sqlcore/internal/config"
	"github.com/ninanguyen24/sqlcore/internal/executor"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the built-in demo statement sequence against a fresh database",
	Long: `demo runs the exact scenarios spec.md documents as concrete end-to-end
examples: create a table, show it, insert rows, select by equality, and
build a unique index. Output is colorized when stdout is a terminal.`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

func printResult(label string, res interface{ String() string }, err error) {
	colorize := term.IsTerminal(int(os.Stdout.Fd()))
	heading := label
	if colorize {
		heading = headingStyle.Render(label)
	}
	fmt.Println(heading)
	if err != nil {
		msg := err.Error()
		if colorize {
			msg = errorStyle.Render(msg)
		}
		fmt.Println(msg)
		return
	}
	fmt.Println(res.String())
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}
	db, err := executor.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Logger.Close()

	statements := []struct {
		label string
		stmt  ast.Statement
	}{
		{"CREATE TABLE t (a INT, b TEXT)", &ast.CreateStatement{
			Kind:  ast.Table,
			Table: "t",
			Columns: []ast.ColumnDef{
				{Name: "a", DataType: "INT"},
				{Name: "b", DataType: "TEXT"},
			},
		}},
		{"SHOW TABLES", &ast.ShowStatement{Kind: ast.Tables}},
		{"SHOW COLUMNS FROM t", &ast.ShowStatement{Kind: ast.Columns, Table: "t"}},
		{`INSERT INTO t VALUES (12, "x")`, &ast.InsertStatement{
			Table:  "t",
			Values: []ast.Expr{&ast.IntLiteral{Value: 12}, &ast.StringLiteral{Value: "x"}},
		}},
		{`INSERT INTO t VALUES (88, "y")`, &ast.InsertStatement{
			Table:  "t",
			Values: []ast.Expr{&ast.IntLiteral{Value: 88}, &ast.StringLiteral{Value: "y"}},
		}},
		{"SELECT * FROM t WHERE a = 12", &ast.SelectStatement{
			From: "t",
			Where: &ast.BinaryExpr{
				Op:    ast.OpEq,
				Left:  &ast.ColumnRef{Name: "a"},
				Right: &ast.IntLiteral{Value: 12},
			},
		}},
		{"CREATE INDEX i ON t (a)", &ast.CreateStatement{
			Kind:         ast.Index,
			IndexTable:   "t",
			IndexName:    "i",
			IndexColumns: []string{"a"},
		}},
		{"SHOW INDEX FROM t", &ast.ShowStatement{Kind: ast.Index, Table: "t"}},
	}

	for _, s := range statements {
		res, err := db.Execute(s.stmt)
		printResult(s.label, res, err)
		fmt.Println()
	}
	return nil
}
