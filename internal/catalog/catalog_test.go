package catalog

import (
	"testing"

	"github.com/ninanguyen24/sqlcore/internal/schema"
	"github.com/ninanguyen24/sqlcore/internal/value"
)

func TestOpenBootstrapsSchemaRelations(t *testing.T) {
	cat, err := Open(t.TempDir(), 512)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	names, err := cat.Tables().Select(nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(names) != 3 {
		t.Fatalf("expected the three catalog relations registered in _tables, got %d", len(names))
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	cat1, err := Open(dir, 512)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	// Release the first catalog's file locks, as a process exit would.
	cat1.Tables().Close()
	cat1.Columns().Close()
	cat1.Indices().Close()
	cat2, err := Open(dir, 512)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	rows, err := cat2.Tables().Select(nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("reopening must not duplicate the bootstrap rows, got %d", len(rows))
	}
}

func TestProtected(t *testing.T) {
	for _, name := range []string{TablesName, ColumnsName, IndicesName} {
		if !Protected(name) {
			t.Errorf("%s should be protected", name)
		}
	}
	if Protected("widgets") {
		t.Errorf("widgets should not be protected")
	}
}

func TestNewTableThenGetTableRoundTrips(t *testing.T) {
	cat, err := Open(t.TempDir(), 512)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	cols := schema.ColumnNames{"a", "b"}
	attrs := schema.ColumnAttributes{{DataType: schema.Int}, {DataType: schema.Text}}
	cat.Tables().Insert(value.Row{"table_name": value.Text("widgets")})
	cat.Columns().Insert(value.Row{"table_name": value.Text("widgets"), "column_name": value.Text("a"), "data_type": value.Text("INT")})
	cat.Columns().Insert(value.Row{"table_name": value.Text("widgets"), "column_name": value.Text("b"), "data_type": value.Text("TEXT")})

	rel := cat.NewTable("widgets", cols, attrs)
	if err := rel.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	rel.Insert(value.Row{"a": value.Int(1), "b": value.Text("x")})

	got, err := cat.GetTable("widgets")
	if err != nil {
		t.Fatalf("GetTable: %v", err)
	}
	if got != rel {
		t.Fatalf("GetTable should return the cached relation NewTable created")
	}
}

func TestGetTableUnknown(t *testing.T) {
	cat, err := Open(t.TempDir(), 512)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := cat.GetTable("ghost"); err == nil {
		t.Fatalf("expected an UnknownTableError")
	} else if _, ok := err.(*UnknownTableError); !ok {
		t.Fatalf("expected *UnknownTableError, got %T", err)
	}
}

func TestGetIndexUnknown(t *testing.T) {
	cat, err := Open(t.TempDir(), 512)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := cat.GetIndex("widgets", "ghost"); err == nil {
		t.Fatalf("expected an UnknownIndexError")
	} else if _, ok := err.(*UnknownIndexError); !ok {
		t.Fatalf("expected *UnknownIndexError, got %T", err)
	}
}

func TestIndexColumnsOrdersBySeq(t *testing.T) {
	cat, err := Open(t.TempDir(), 512)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	cat.Indices().Insert(value.Row{
		"table_name": value.Text("widgets"), "index_name": value.Text("ix"),
		"seq_in_index": value.Int(2), "column_name": value.Text("b"),
		"index_type": value.Text("BTREE"), "is_unique": value.Boolean(true),
	})
	cat.Indices().Insert(value.Row{
		"table_name": value.Text("widgets"), "index_name": value.Text("ix"),
		"seq_in_index": value.Int(1), "column_name": value.Text("a"),
		"index_type": value.Text("BTREE"), "is_unique": value.Boolean(true),
	})
	rows, err := cat.Indices().Select(value.Row{"table_name": value.Text("widgets"), "index_name": value.Text("ix")})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	cols, unique, err := cat.indexColumns(rows)
	if err != nil {
		t.Fatalf("indexColumns: %v", err)
	}
	if !unique {
		t.Fatalf("expected unique=true")
	}
	if len(cols) != 2 || cols[0] != "a" || cols[1] != "b" {
		t.Fatalf("expected [a b] ordered by seq_in_index, got %v", cols)
	}
}
