package btree

import (
	"github.com/ninanguyen24/sqlcore/internal/relation"
	"github.com/ninanguyen24/sqlcore/internal/schema"
	"github.com/ninanguyen24/sqlcore/internal/storage/page"
	"github.com/ninanguyen24/sqlcore/internal/value"
)

// Index is a unique B+Tree over a composite key drawn from keyColumns of
// the underlying relation. It implements relation.DbIndex. Grounded on
// BTreeIndex in original_source/Milestone6/btree.cpp.
type Index struct {
	rel        relation.DbRelation
	tableName  string
	name       string
	keyColumns schema.ColumnNames
	unique     bool
	profile    []value.Kind
	pageSize   int

	file   *page.File
	closed bool
	stat   *stat
	rootID uint32
}

// New constructs (but does not create or open) a B+Tree index named name
// over rel's keyColumns, stored at path. unique must be true: this
// implementation has no non-unique variant (spec.md §4.6).
func New(path string, rel relation.DbRelation, tableName, name string, keyColumns schema.ColumnNames, unique bool, pageSize int) (*Index, error) {
	if !unique {
		return nil, ErrNotUnique
	}
	profile, err := keyProfileOf(rel, keyColumns)
	if err != nil {
		return nil, err
	}
	return &Index{
		rel:        rel,
		tableName:  tableName,
		name:       name,
		keyColumns: keyColumns,
		unique:     unique,
		profile:    profile,
		pageSize:   pageSize,
		file:       page.NewFile(path, pageSize),
		closed:     true,
	}, nil
}

// Create builds the index file from scratch and bulk-loads it by scanning
// every row currently in the relation (spec.md §4.3's "create() ... builds
// it by scanning the relation").
func (ix *Index) Create() error {
	if err := ix.file.Create(); err != nil {
		return err
	}
	st, err := newStat(ix.pageSize, ix.file, 1, ix.profile)
	if err != nil {
		return err
	}
	root, err := newLeaf(ix.file, ix.profile, ix.pageSize)
	if err != nil {
		return err
	}
	ix.stat = st
	ix.stat.rootID = root.id
	ix.rootID = root.id
	ix.closed = false

	handles, err := ix.rel.Select(nil)
	if err != nil {
		return err
	}
	for _, h := range handles {
		if err := ix.Insert(h); err != nil {
			return err
		}
	}
	return nil
}

// Drop removes the index file.
func (ix *Index) Drop() error {
	ix.closed = true
	return ix.file.Drop()
}

// Open reads BTreeStat and materializes the root, enabling Lookup/Insert.
func (ix *Index) Open() error {
	if err := ix.file.Open(); err != nil {
		return err
	}
	st, err := loadStat(ix.file, ix.pageSize)
	if err != nil {
		return err
	}
	ix.stat = st
	ix.rootID = st.rootID
	ix.profile = st.profile
	ix.closed = false
	return nil
}

// Close disables lookup/insert/delete without touching the file.
func (ix *Index) Close() error {
	ix.closed = true
	return ix.file.Close()
}

// Lookup returns the handle whose key columns equal keyDict's, or an empty
// list if none matches (spec.md §4.3).
func (ix *Index) Lookup(keyDict value.Row) (schema.Handles, error) {
	if ix.closed {
		return nil, ErrClosed
	}
	key := tkey(keyDict, ix.keyColumns)
	h, found, err := ix.lookupFrom(ix.rootID, ix.stat.height, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return schema.Handles{}, nil
	}
	return schema.Handles{h}, nil
}

func (ix *Index) lookupFrom(nodeID uint32, height uint32, key KeyValue) (schema.Handle, bool, error) {
	if height == 1 {
		lf, err := loadLeaf(ix.file, nodeID, ix.profile, ix.pageSize)
		if err != nil {
			return schema.Handle{}, false, err
		}
		h, ok := lf.findEq(key)
		return h, ok, nil
	}
	in, err := loadInterior(ix.file, nodeID, ix.profile, ix.pageSize)
	if err != nil {
		return schema.Handle{}, false, err
	}
	return ix.lookupFrom(in.find(key), height-1, key)
}

// Range is out of scope for this core (spec.md §4.6).
func (ix *Index) Range(min, max value.Row) (schema.Handles, error) {
	return nil, ErrNotImplemented
}

// Insert adds handle's row to the index, splitting nodes as needed and
// growing the tree's height when the root splits.
func (ix *Index) Insert(handle schema.Handle) error {
	if ix.closed {
		return ErrClosed
	}
	row, err := ix.rel.Project(handle, ix.keyColumns)
	if err != nil {
		return err
	}
	key := tkey(row, ix.keyColumns)

	split, err := ix.insertFrom(ix.rootID, ix.stat.height, key, handle)
	if err != nil {
		return err
	}
	if !split.didSplit {
		return nil
	}

	newRoot, err := newInterior(ix.file, ix.profile, ix.pageSize, ix.rootID)
	if err != nil {
		return err
	}
	if _, err := newRoot.insert(split.boundary, split.newBlock); err != nil {
		return err
	}
	ix.rootID = newRoot.id
	ix.stat.rootID = newRoot.id
	ix.stat.height++
	return ix.stat.save(ix.file, ix.pageSize)
}

func (ix *Index) insertFrom(nodeID uint32, height uint32, key KeyValue, handle schema.Handle) (splitResult, error) {
	if height == 1 {
		lf, err := loadLeaf(ix.file, nodeID, ix.profile, ix.pageSize)
		if err != nil {
			return splitResult{}, err
		}
		return lf.insert(key, handle)
	}
	in, err := loadInterior(ix.file, nodeID, ix.profile, ix.pageSize)
	if err != nil {
		return splitResult{}, err
	}
	childID := in.find(key)
	childSplit, err := ix.insertFrom(childID, height-1, key, handle)
	if err != nil {
		return splitResult{}, err
	}
	if !childSplit.didSplit {
		return splitResult{}, nil
	}
	return in.insert(childSplit.boundary, childSplit.newBlock)
}

// Del is out of scope for this core (spec.md §4.6).
func (ix *Index) Del(handle schema.Handle) error {
	return ErrNotImplemented
}

// Height reports the current tree height, mainly for tests asserting the
// root-split invariant (spec.md §8).
func (ix *Index) Height() uint32 {
	if ix.stat == nil {
		return 0
	}
	return ix.stat.height
}
