// Package relation defines the contract a heap relation exposes to the
// execution core (catalog, DDL, DML, and the B+Tree index all program
// against this interface rather than any concrete storage engine).
package relation

import (
	"github.com/ninanguyen24/sqlcore/internal/schema"
	"github.com/ninanguyen24/sqlcore/internal/value"
)

// DbRelation is the capability set the core requires from a physical
// relation. A catalog relation (_tables, _columns, _indices) and every
// user table implement it identically.
type DbRelation interface {
	// Create materializes the relation's physical storage. It fails if
	// the storage already exists.
	Create() error
	// CreateIfNotExists materializes the relation's storage, succeeding
	// as a no-op if it already exists.
	CreateIfNotExists() error
	// Drop removes the relation's physical storage.
	Drop() error
	// Open makes a previously created relation available for reads and
	// writes.
	Open() error
	// Close releases in-memory resources without touching the file.
	Close() error

	// Insert appends row and returns its handle.
	Insert(row value.Row) (schema.Handle, error)
	// Del removes the record at handle. The handle is invalidated.
	Del(handle schema.Handle) error
	// Update overwrites the record at handle with row. Optional: callers
	// may implement DELETE+INSERT instead; the core never calls it.
	Update(handle schema.Handle, row value.Row) error

	// Select returns the handles of every live row matching where (or
	// every live row, if where is nil). The caller owns the returned
	// list.
	Select(where value.Row) (schema.Handles, error)
	// Project returns the row at handle, restricted to cols (or the full
	// row, if cols is nil).
	Project(handle schema.Handle, cols schema.ColumnNames) (value.Row, error)

	// GetColumnNames returns the relation's declared columns in order.
	GetColumnNames() schema.ColumnNames
	// GetColumnAttributes returns the attributes for cols (or all
	// columns, if cols is nil), in the same order as cols.
	GetColumnAttributes(cols schema.ColumnNames) (schema.ColumnAttributes, error)
	// GetTableName returns the relation's name.
	GetTableName() string
}

// DbIndex is the capability set the core requires from a secondary index.
// The B+Tree implementation (btree.Index) is the only one this repo ships.
type DbIndex interface {
	Create() error
	Drop() error
	Open() error
	Close() error

	// Lookup returns the handles whose key matches keyDict exactly.
	Lookup(keyDict value.Row) (schema.Handles, error)
	// Range is reserved for a future non-equality scan; spec.md places it
	// out of scope and permits ErrNotImplemented.
	Range(min, max value.Row) (schema.Handles, error)
	// Insert adds handle's row to the index.
	Insert(handle schema.Handle) error
	// Del removes handle from the index; spec.md permits ErrNotImplemented.
	Del(handle schema.Handle) error
}

// DbFile is the raw block-file capability a DbRelation (and the B+Tree
// index) is built on. It is the seam between the execution core and the
// storage engine spec.md places out of scope; storage/page and
// storage/heap are this repo's concrete implementation of it.
type DbFile interface {
	Create() error
	Drop() error
	Open() error
	Close() error
	// Get returns the raw bytes of block id.
	Get(blockID uint32) ([]byte, error)
	// Put writes the raw bytes of block id.
	Put(blockID uint32, data []byte) error
	// New appends a new block, returning its id.
	New(data []byte) (uint32, error)
	// BlockIDs returns every allocated block id in the file, ascending.
	BlockIDs() []uint32
}
