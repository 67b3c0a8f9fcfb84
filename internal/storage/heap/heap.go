// Package heap is the concrete DbRelation implementation every catalog
// relation and user table sits on: rows packed into fixed-size blocks
// (storage/page) with (block, slot) handles.
package heap

import (
	"fmt"

	"github.com/ninanguyen24/sqlcore/internal/schema"
	"github.com/ninanguyen24/sqlcore/internal/storage/page"
	"github.com/ninanguyen24/sqlcore/internal/value"
)

// Table implements relation.DbRelation over a storage/page.File.
type Table struct {
	name       string
	columns    schema.ColumnNames
	attributes schema.ColumnAttributes
	pageSize   int

	file        *page.File
	opened      bool
	lastBlockID int64 // -1 until at least one block exists
}

// New constructs a heap table named name with the given columns and
// attributes, backed by a block file at path. Create/CreateIfNotExists/Open
// must be called before use.
func New(path, name string, columns schema.ColumnNames, attributes schema.ColumnAttributes, pageSize int) *Table {
	return &Table{
		name:        name,
		columns:     columns,
		attributes:  attributes,
		pageSize:    pageSize,
		file:        page.NewFile(path, pageSize),
		lastBlockID: -1,
	}
}

func (t *Table) Create() error {
	if err := t.file.Create(); err != nil {
		return err
	}
	t.opened = true
	t.lastBlockID = -1
	return nil
}

func (t *Table) CreateIfNotExists() error {
	if err := t.Create(); err != nil {
		if err := t.Open(); err == nil {
			return nil
		}
		return err
	}
	return nil
}

func (t *Table) Drop() error {
	t.opened = false
	return t.file.Drop()
}

func (t *Table) Open() error {
	if err := t.file.Open(); err != nil {
		return err
	}
	t.opened = true
	ids := t.file.BlockIDs()
	t.lastBlockID = int64(len(ids)) - 1
	return nil
}

func (t *Table) Close() error {
	t.opened = false
	return t.file.Close()
}

func (t *Table) GetColumnNames() schema.ColumnNames { return t.columns }

func (t *Table) GetColumnAttributes(cols schema.ColumnNames) (schema.ColumnAttributes, error) {
	if cols == nil {
		return t.attributes, nil
	}
	out := make(schema.ColumnAttributes, 0, len(cols))
	for _, c := range cols {
		idx := t.indexOf(c)
		if idx < 0 {
			return nil, fmt.Errorf("heap: unknown column %q in %s", c, t.name)
		}
		out = append(out, t.attributes[idx])
	}
	return out, nil
}

func (t *Table) GetTableName() string { return t.name }

func (t *Table) indexOf(col string) int {
	for i, c := range t.columns {
		if c == col {
			return i
		}
	}
	return -1
}

func (t *Table) Insert(row value.Row) (schema.Handle, error) {
	data, err := encodeRow(row, t.columns)
	if err != nil {
		return schema.Handle{}, err
	}

	if t.lastBlockID >= 0 {
		raw, err := t.file.Get(uint32(t.lastBlockID))
		if err != nil {
			return schema.Handle{}, err
		}
		p := page.Wrap(raw)
		if slotID, err := p.AddSlot(data); err == nil {
			if err := t.file.Put(uint32(t.lastBlockID), p.Bytes()); err != nil {
				return schema.Handle{}, err
			}
			return schema.Handle{BlockID: uint32(t.lastBlockID), SlotID: uint16(slotID)}, nil
		}
	}

	p := page.New(t.pageSize)
	slotID, err := p.AddSlot(data)
	if err != nil {
		return schema.Handle{}, fmt.Errorf("heap: record too large for page size %d", t.pageSize)
	}
	blockID, err := t.file.New(p.Bytes())
	if err != nil {
		return schema.Handle{}, err
	}
	t.lastBlockID = int64(blockID)
	return schema.Handle{BlockID: blockID, SlotID: uint16(slotID)}, nil
}

func (t *Table) Del(handle schema.Handle) error {
	raw, err := t.file.Get(handle.BlockID)
	if err != nil {
		return err
	}
	p := page.Wrap(raw)
	if err := p.DeleteSlot(int(handle.SlotID)); err != nil {
		return err
	}
	return t.file.Put(handle.BlockID, p.Bytes())
}

func (t *Table) Update(handle schema.Handle, row value.Row) error {
	if err := t.Del(handle); err != nil {
		return err
	}
	_, err := t.Insert(row)
	return err
}

func (t *Table) Project(handle schema.Handle, cols schema.ColumnNames) (value.Row, error) {
	raw, err := t.file.Get(handle.BlockID)
	if err != nil {
		return nil, err
	}
	p := page.Wrap(raw)
	data, live, err := p.Slot(int(handle.SlotID))
	if err != nil {
		return nil, err
	}
	if !live {
		return nil, fmt.Errorf("heap: handle (%d,%d) refers to a deleted row", handle.BlockID, handle.SlotID)
	}
	row, err := decodeRow(data, t.columns)
	if err != nil {
		return nil, err
	}
	if cols == nil {
		return row, nil
	}
	out := make(value.Row, len(cols))
	for _, c := range cols {
		out[c] = row[c]
	}
	return out, nil
}

// Select performs a full block scan, returning the handles of every live
// row matching where (or every live row, if where is nil). This is the
// relation-side equality scan plan.Optimize pushes a Select node down onto.
func (t *Table) Select(where value.Row) (schema.Handles, error) {
	var out schema.Handles
	for _, blockID := range t.file.BlockIDs() {
		raw, err := t.file.Get(blockID)
		if err != nil {
			return nil, err
		}
		p := page.Wrap(raw)
		for slotID := 0; slotID < p.NumSlots(); slotID++ {
			data, live, err := p.Slot(slotID)
			if err != nil {
				return nil, err
			}
			if !live {
				continue
			}
			if where != nil {
				row, err := decodeRow(data, t.columns)
				if err != nil {
					return nil, err
				}
				if !rowMatches(row, where) {
					continue
				}
			}
			out = append(out, schema.Handle{BlockID: blockID, SlotID: uint16(slotID)})
		}
	}
	return out, nil
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
