// Package btree implements a unique B+Tree secondary index: node layout,
// key ordering, equality lookup, and insertion with root-splitting.
// Grounded on _examples/original_source/Milestone6/btree.cpp (the node
// split / insert recursion / tkey projection), reworked as block-identified
// node views over storage/page rather than heap-allocated C++ objects
// (spec.md §9's "B+Tree node identity" design note).
package btree

import (
	"encoding/binary"
	"fmt"

	"github.com/ninanguyen24/sqlcore/internal/schema"
	"github.com/ninanguyen24/sqlcore/internal/value"
)

// KeyValue is the composite key extracted from a row: one value.Value per
// indexed column, in key-column order.
type KeyValue []value.Value

// compare orders two keys of the same profile lexicographically: the
// first differing column decides, using each column's own ordering
// (numeric for INT, byte-wise for TEXT).
func compare(a, b KeyValue) int {
	for i := range a {
		if a[i].Equal(b[i]) {
			continue
		}
		if a[i].Less(b[i]) {
			return -1
		}
		return 1
	}
	return 0
}

func keyProfileOf(rel interface {
	GetColumnAttributes(schema.ColumnNames) (schema.ColumnAttributes, error)
}, keyColumns schema.ColumnNames) ([]value.Kind, error) {
	attrs, err := rel.GetColumnAttributes(keyColumns)
	if err != nil {
		return nil, err
	}
	profile := make([]value.Kind, len(attrs))
	for i, a := range attrs {
		profile[i] = a.DataType.ValueKind()
	}
	return profile, nil
}

// tkey projects the key columns out of a full row, in key-column order.
func tkey(row value.Row, keyColumns schema.ColumnNames) KeyValue {
	k := make(KeyValue, len(keyColumns))
	for i, c := range keyColumns {
		k[i] = row[c]
	}
	return k
}

func encodeKey(k KeyValue, profile []value.Kind) []byte {
	var buf []byte
	for i, v := range k {
		switch profile[i] {
		case value.KindInt:
			b := make([]byte, 8)
			binary.LittleEndian.PutUint64(b, uint64(v.N))
			buf = append(buf, b...)
		case value.KindText:
			lenBuf := make([]byte, 4)
			binary.LittleEndian.PutUint32(lenBuf, uint32(len(v.S)))
			buf = append(buf, lenBuf...)
			buf = append(buf, v.S...)
		case value.KindBoolean:
			if v.B {
				buf = append(buf, 1)
			} else {
				buf = append(buf, 0)
			}
		}
	}
	return buf
}

func decodeKey(data []byte, profile []value.Kind) (KeyValue, int, error) {
	k := make(KeyValue, len(profile))
	pos := 0
	for i, kind := range profile {
		switch kind {
		case value.KindInt:
			if pos+8 > len(data) {
				return nil, 0, fmt.Errorf("btree: truncated int key component")
			}
			k[i] = value.Int(int64(binary.LittleEndian.Uint64(data[pos : pos+8])))
			pos += 8
		case value.KindText:
			if pos+4 > len(data) {
				return nil, 0, fmt.Errorf("btree: truncated text key length")
			}
			n := int(binary.LittleEndian.Uint32(data[pos : pos+4]))
			pos += 4
			if pos+n > len(data) {
				return nil, 0, fmt.Errorf("btree: truncated text key component")
			}
			k[i] = value.Text(string(data[pos : pos+n]))
			pos += n
		case value.KindBoolean:
			if pos >= len(data) {
				return nil, 0, fmt.Errorf("btree: truncated bool key component")
			}
			k[i] = value.Boolean(data[pos] != 0)
			pos++
		}
	}
	return k, pos, nil
}

func encodeHandle(h schema.Handle) []byte {
	b := make([]byte, 6)
	binary.LittleEndian.PutUint32(b[0:4], h.BlockID)
	binary.LittleEndian.PutUint16(b[4:6], h.SlotID)
	return b
}

func decodeHandle(data []byte) (schema.Handle, error) {
	if len(data) < 6 {
		return schema.Handle{}, fmt.Errorf("btree: truncated handle")
	}
	return schema.Handle{
		BlockID: binary.LittleEndian.Uint32(data[0:4]),
		SlotID:  binary.LittleEndian.Uint16(data[4:6]),
	}, nil
}
