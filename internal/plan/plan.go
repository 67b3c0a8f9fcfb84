// Package plan implements the tiny evaluation plan tree spec.md §4.4
// describes: TableScan -> Select -> Project/ProjectAll, a single
// optimize() rewrite, and two evaluation modes (evaluate, pipeline).
// Plan nodes are tagged variants dispatched by a type switch, per spec.md
// §9's design note, rather than a class hierarchy.
package plan

import (
	"github.com/ninanguyen24/sqlcore/internal/relation"
	"github.com/ninanguyen24/sqlcore/internal/schema"
	"github.com/ninanguyen24/sqlcore/internal/value"
)

// Node is implemented by every plan node kind.
type Node interface{ isNode() }

// TableScan is a leaf yielding every live handle of Relation.
type TableScan struct {
	Relation relation.DbRelation
}

func (*TableScan) isNode() {}

// Select filters Child's handles to those whose row matches Where exactly.
type Select struct {
	Where value.Row
	Child Node
}

func (*Select) isNode() {}

// ProjectAll yields full rows (every column) for Child's handles.
type ProjectAll struct {
	Child Node
}

func (*ProjectAll) isNode() {}

// Project yields Columns-restricted rows for Child's handles.
type Project struct {
	Columns schema.ColumnNames
	Child   Node
}

func (*Project) isNode() {}

// Optimize applies the one rewrite rule spec.md §4.4 allows: a Select
// immediately above a TableScan is replaced by asking the relation to
// perform the equality scan itself. The rule applies wherever that pair
// occurs in the tree (e.g. under a Project); other nodes are rebuilt
// unchanged around their optimized children, and a bare TableScan is
// returned as is. Optimize consumes tree and returns a (possibly new)
// tree; the original is not reused afterward.
func Optimize(n Node) Node {
	switch node := n.(type) {
	case *Select:
		if scan, ok := node.Child.(*TableScan); ok {
			return &pushedScan{relation: scan.Relation, where: node.Where}
		}
		return &Select{Where: node.Where, Child: Optimize(node.Child)}
	case *ProjectAll:
		return &ProjectAll{Child: Optimize(node.Child)}
	case *Project:
		return &Project{Columns: node.Columns, Child: Optimize(node.Child)}
	default:
		return n
	}
}

// pushedScan is the internal node Optimize produces when a Select has been
// folded into its TableScan child; it yields exactly the handles
// relation.Select(where) returns.
type pushedScan struct {
	relation relation.DbRelation
	where    value.Row
}

func (*pushedScan) isNode() {}

// handles evaluates n down to a flat list of live handles, without
// materializing rows. Used by both Evaluate and Pipeline.
func handles(n Node) (relation.DbRelation, schema.Handles, error) {
	switch node := n.(type) {
	case *TableScan:
		hs, err := node.Relation.Select(nil)
		return node.Relation, hs, err
	case *pushedScan:
		hs, err := node.relation.Select(node.where)
		return node.relation, hs, err
	case *Select:
		rel, hs, err := handles(node.Child)
		if err != nil {
			return nil, nil, err
		}
		var out schema.Handles
		for _, h := range hs {
			row, err := rel.Project(h, nil)
			if err != nil {
				return nil, nil, err
			}
			if rowMatches(row, node.Where) {
				out = append(out, h)
			}
		}
		return rel, out, nil
	case *Project:
		return handles(node.Child)
	case *ProjectAll:
		return handles(node.Child)
	default:
		return nil, nil, nil
	}
}

func rowMatches(row, where value.Row) bool {
	for col, want := range where {
		got, ok := row[col]
		if !ok || !got.Equal(want) {
			return false
		}
	}
	return true
}

// Evaluate runs an already-optimized plan to completion, returning rows for
// queries that produce user-visible data (SELECT). Project/ProjectAll nodes
// are expected at the root; for any other root, Evaluate returns one empty
// row per matching handle and no error.
func Evaluate(n Node) ([]value.Row, error) {
	switch node := n.(type) {
	case *Project:
		rel, hs, err := handles(node.Child)
		if err != nil {
			return nil, err
		}
		rows := make([]value.Row, 0, len(hs))
		for _, h := range hs {
			row, err := rel.Project(h, node.Columns)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
		return rows, nil
	case *ProjectAll:
		rel, hs, err := handles(node.Child)
		if err != nil {
			return nil, err
		}
		rows := make([]value.Row, 0, len(hs))
		for _, h := range hs {
			row, err := rel.Project(h, nil)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
		return rows, nil
	default:
		_, hs, err := handles(node)
		if err != nil {
			return nil, err
		}
		rows := make([]value.Row, 0, len(hs))
		for range hs {
			rows = append(rows, value.Row{})
		}
		return rows, nil
	}
}

// Pipeline runs an already-optimized plan, returning the underlying
// relation plus the matching handles directly. Used by mutating statements
// (DELETE) that need handles to drive index and relation deletes rather
// than materialized rows.
func Pipeline(n Node) (relation.DbRelation, schema.Handles, error) {
	return handles(n)
}
