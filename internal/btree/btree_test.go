package btree

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/ninanguyen24/sqlcore/internal/schema"
	"github.com/ninanguyen24/sqlcore/internal/storage/heap"
	"github.com/ninanguyen24/sqlcore/internal/value"
)

func newTestRelation(t *testing.T) *heap.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rel")
	cols := schema.ColumnNames{"id", "label"}
	attrs := schema.ColumnAttributes{{DataType: schema.Int}, {DataType: schema.Text}}
	rel := heap.New(path, "rel", cols, attrs, 512)
	if err := rel.Create(); err != nil {
		t.Fatalf("Create relation: %v", err)
	}
	return rel
}

func TestNewRejectsNonUnique(t *testing.T) {
	rel := newTestRelation(t)
	_, err := New(filepath.Join(t.TempDir(), "idx"), rel, "rel", "idx", schema.ColumnNames{"id"}, false, 512)
	if err != ErrNotUnique {
		t.Fatalf("expected ErrNotUnique, got %v", err)
	}
}

func TestCreateBulkLoadsExistingRows(t *testing.T) {
	rel := newTestRelation(t)
	for i := 0; i < 5; i++ {
		if _, err := rel.Insert(value.Row{"id": value.Int(int64(i)), "label": value.Text("x")}); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	idx, err := New(filepath.Join(t.TempDir(), "idx"), rel, "rel", "idx", schema.ColumnNames{"id"}, true, 512)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := idx.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 5; i++ {
		handles, err := idx.Lookup(value.Row{"id": value.Int(int64(i))})
		if err != nil {
			t.Fatalf("Lookup: %v", err)
		}
		if len(handles) != 1 {
			t.Fatalf("expected exactly one handle for id %d, got %d", i, len(handles))
		}
	}
}

func TestLookupMissingKeyReturnsEmpty(t *testing.T) {
	rel := newTestRelation(t)
	idx, err := New(filepath.Join(t.TempDir(), "idx"), rel, "rel", "idx", schema.ColumnNames{"id"}, true, 512)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := idx.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	handles, err := idx.Lookup(value.Row{"id": value.Int(999)})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(handles) != 0 {
		t.Fatalf("expected no handles, got %d", len(handles))
	}
}

func TestInsertRejectsDuplicateKey(t *testing.T) {
	rel := newTestRelation(t)
	idx, err := New(filepath.Join(t.TempDir(), "idx"), rel, "rel", "idx", schema.ColumnNames{"id"}, true, 512)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := idx.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}

	h1, _ := rel.Insert(value.Row{"id": value.Int(1), "label": value.Text("a")})
	if err := idx.Insert(h1); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	h2, _ := rel.Insert(value.Row{"id": value.Int(1), "label": value.Text("b")})
	if err := idx.Insert(h2); err == nil {
		t.Fatalf("expected a duplicate-key error inserting a second row with id=1")
	}
}

func TestRootSplitsAndHeightGrows(t *testing.T) {
	rel := newTestRelation(t)
	idx, err := New(filepath.Join(t.TempDir(), "idx"), rel, "rel", "idx", schema.ColumnNames{"id"}, true, 128)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := idx.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}

	const n = 1000
	for i := 0; i < n; i++ {
		h, err := rel.Insert(value.Row{"id": value.Int(int64(i)), "label": value.Text(fmt.Sprintf("row-%d", i))})
		if err != nil {
			t.Fatalf("Insert relation row %d: %v", i, err)
		}
		if err := idx.Insert(h); err != nil {
			t.Fatalf("Insert index entry %d: %v", i, err)
		}
	}

	if idx.Height() <= 1 {
		t.Fatalf("expected the root to have split at least once after %d inserts into 128-byte blocks, height=%d", n, idx.Height())
	}

	for _, i := range []int{0, n / 2, n - 1} {
		handles, err := idx.Lookup(value.Row{"id": value.Int(int64(i))})
		if err != nil {
			t.Fatalf("Lookup %d: %v", i, err)
		}
		if len(handles) != 1 {
			t.Fatalf("expected id %d to be found after the tree grew, got %d handles", i, len(handles))
		}
	}
}

func TestOpenRestoresIndexAfterClose(t *testing.T) {
	rel := newTestRelation(t)
	path := filepath.Join(t.TempDir(), "idx")
	idx, err := New(path, rel, "rel", "idx", schema.ColumnNames{"id"}, true, 512)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := idx.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	h, _ := rel.Insert(value.Row{"id": value.Int(42), "label": value.Text("z")})
	if err := idx.Insert(h); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := New(path, rel, "rel", "idx", schema.ColumnNames{"id"}, true, 512)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := reopened.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	handles, err := reopened.Lookup(value.Row{"id": value.Int(42)})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(handles) != 1 {
		t.Fatalf("expected the reopened index to find the previously inserted key")
	}
}

func TestRangeAndDelAreNotImplemented(t *testing.T) {
	rel := newTestRelation(t)
	idx, err := New(filepath.Join(t.TempDir(), "idx"), rel, "rel", "idx", schema.ColumnNames{"id"}, true, 512)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := idx.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := idx.Range(nil, nil); err != ErrNotImplemented {
		t.Fatalf("expected ErrNotImplemented from Range, got %v", err)
	}
	if err := idx.Del(schema.Handle{}); err != ErrNotImplemented {
		t.Fatalf("expected ErrNotImplemented from Del, got %v", err)
	}
}
