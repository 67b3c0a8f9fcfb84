package ddl

import (
	"testing"

	"github.com/ninanguyen24/sqlcore/internal/ast"
	"github.com/ninanguyen24/sqlcore/internal/catalog"
	"github.com/ninanguyen24/sqlcore/internal/value"
)

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Open(t.TempDir(), 512)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	return cat
}

func TestCreateTableRegistersCatalogRowsAndStorage(t *testing.T) {
	cat := newTestCatalog(t)
	stmt := &ast.CreateStatement{
		Kind:  ast.Table,
		Table: "widgets",
		Columns: []ast.ColumnDef{
			{Name: "id", DataType: "INT"},
			{Name: "name", DataType: "TEXT"},
		},
	}
	if _, err := CreateTable(cat, stmt); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}

	rel, err := cat.GetTable("widgets")
	if err != nil {
		t.Fatalf("GetTable: %v", err)
	}
	if len(rel.GetColumnNames()) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(rel.GetColumnNames()))
	}

	colRows, err := cat.Columns().Select(value.Row{"table_name": value.Text("widgets")})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(colRows) != 2 {
		t.Fatalf("expected 2 _columns rows, got %d", len(colRows))
	}
}

func TestCreateTableCompensatesOnUnsupportedType(t *testing.T) {
	cat := newTestCatalog(t)
	stmt := &ast.CreateStatement{
		Kind:  ast.Table,
		Table: "bad",
		Columns: []ast.ColumnDef{
			{Name: "id", DataType: "INT"},
			{Name: "whatever", DataType: "FLOAT"},
		},
	}
	if _, err := CreateTable(cat, stmt); err == nil {
		t.Fatalf("expected an UnsupportedTypeError")
	} else if _, ok := err.(*UnsupportedTypeError); !ok {
		t.Fatalf("expected *UnsupportedTypeError, got %T", err)
	}

	tRows, err := cat.Tables().Select(value.Row{"table_name": value.Text("bad")})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(tRows) != 0 {
		t.Fatalf("expected the _tables row to be rolled back, found %d", len(tRows))
	}
	colRows, err := cat.Columns().Select(value.Row{"table_name": value.Text("bad")})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(colRows) != 0 {
		t.Fatalf("expected the partial _columns rows to be rolled back, found %d", len(colRows))
	}
}

func TestCreateIndexRejectsUnknownColumn(t *testing.T) {
	cat := newTestCatalog(t)
	CreateTable(cat, &ast.CreateStatement{
		Kind:    ast.Table,
		Table:   "widgets",
		Columns: []ast.ColumnDef{{Name: "id", DataType: "INT"}},
	})

	stmt := &ast.CreateStatement{
		Kind: ast.Index, IndexTable: "widgets", IndexName: "ix", IndexColumns: []string{"ghost"},
	}
	if _, err := CreateIndex(cat, stmt); err == nil {
		t.Fatalf("expected an UnknownColumnError")
	} else if _, ok := err.(*UnknownColumnError); !ok {
		t.Fatalf("expected *UnknownColumnError, got %T", err)
	}
}

func TestCreateIndexThenLookup(t *testing.T) {
	cat := newTestCatalog(t)
	CreateTable(cat, &ast.CreateStatement{
		Kind: ast.Table, Table: "widgets",
		Columns: []ast.ColumnDef{{Name: "id", DataType: "INT"}},
	})
	rel, _ := cat.GetTable("widgets")
	rel.Insert(value.Row{"id": value.Int(7)})

	if _, err := CreateIndex(cat, &ast.CreateStatement{
		Kind: ast.Index, IndexTable: "widgets", IndexName: "ix_id", IndexColumns: []string{"id"},
	}); err != nil {
		t.Fatalf("CreateIndex: %v", err)
	}

	idx, err := cat.GetIndex("widgets", "ix_id")
	if err != nil {
		t.Fatalf("GetIndex: %v", err)
	}
	handles, err := idx.Lookup(value.Row{"id": value.Int(7)})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(handles) != 1 {
		t.Fatalf("expected the bulk-loaded row to be found, got %d handles", len(handles))
	}
}

func TestDropTableRefusesSchemaRelations(t *testing.T) {
	cat := newTestCatalog(t)
	if _, err := DropTable(cat, catalog.TablesName); err == nil {
		t.Fatalf("expected a SchemaProtectedError")
	} else if _, ok := err.(*SchemaProtectedError); !ok {
		t.Fatalf("expected *SchemaProtectedError, got %T", err)
	}
}

func TestDropTableRemovesIndicesColumnsAndRows(t *testing.T) {
	cat := newTestCatalog(t)
	CreateTable(cat, &ast.CreateStatement{
		Kind: ast.Table, Table: "widgets",
		Columns: []ast.ColumnDef{{Name: "id", DataType: "INT"}},
	})
	CreateIndex(cat, &ast.CreateStatement{
		Kind: ast.Index, IndexTable: "widgets", IndexName: "ix_id", IndexColumns: []string{"id"},
	})

	if _, err := DropTable(cat, "widgets"); err != nil {
		t.Fatalf("DropTable: %v", err)
	}

	if _, err := cat.GetTable("widgets"); err == nil {
		t.Fatalf("expected widgets to be gone from the catalog")
	}
	idxRows, err := cat.Indices().Select(value.Row{"table_name": value.Text("widgets")})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(idxRows) != 0 {
		t.Fatalf("expected no remaining _indices rows, got %d", len(idxRows))
	}
	colRows, err := cat.Columns().Select(value.Row{"table_name": value.Text("widgets")})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(colRows) != 0 {
		t.Fatalf("expected no remaining _columns rows, got %d", len(colRows))
	}
}

func TestDropIndexRemovesAllItsRows(t *testing.T) {
	cat := newTestCatalog(t)
	CreateTable(cat, &ast.CreateStatement{
		Kind: ast.Table, Table: "widgets",
		Columns: []ast.ColumnDef{
			{Name: "a", DataType: "INT"},
			{Name: "b", DataType: "INT"},
		},
	})
	CreateIndex(cat, &ast.CreateStatement{
		Kind: ast.Index, IndexTable: "widgets", IndexName: "ix_ab", IndexColumns: []string{"a", "b"},
	})

	if _, err := DropIndex(cat, "widgets", "ix_ab"); err != nil {
		t.Fatalf("DropIndex: %v", err)
	}
	rows, err := cat.Indices().Select(value.Row{"table_name": value.Text("widgets"), "index_name": value.Text("ix_ab")})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected both of ix_ab's _indices rows gone, found %d", len(rows))
	}
}
