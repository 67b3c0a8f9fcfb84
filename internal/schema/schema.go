// Package schema holds the small vocabulary types shared by every layer of
// the execution core: column name/attribute lists and the record handle.
package schema

import "github.com/ninanguyen24/sqlcore/internal/value"

// DataType is the declared type of a column. Only INT and TEXT are
// accepted from DDL; BOOLEAN exists only for catalog columns like
// _indices.is_unique that the core itself defines.
type DataType int

const (
	// Int is a column of 64-bit integers.
	Int DataType = iota
	// Text is a column of strings.
	Text
	// Boolean is a column of bools, used only by catalog-internal schemas.
	Boolean
)

func (d DataType) String() string {
	switch d {
	case Int:
		return "INT"
	case Text:
		return "TEXT"
	case Boolean:
		return "BOOLEAN"
	default:
		return "???"
	}
}

// ValueKind maps a DataType onto the value.Kind that column holds.
func (d DataType) ValueKind() value.Kind {
	switch d {
	case Int:
		return value.KindInt
	case Text:
		return value.KindText
	case Boolean:
		return value.KindBoolean
	default:
		return value.KindText
	}
}

// ColumnAttribute is a column's declared data type. The original source
// tracks nothing else (no length, no nullability) at this layer.
type ColumnAttribute struct {
	DataType DataType
}

// ColumnNames is an ordered list of column identifiers.
type ColumnNames []string

// ColumnAttributes is an ordered list of column attributes, parallel to a
// ColumnNames list of the same length.
type ColumnAttributes []ColumnAttribute

// Handle is the opaque (block, slot) address of a record. It is stable for
// the record's lifetime and invalidated by deletion.
type Handle struct {
	BlockID uint32
	SlotID  uint16
}

// Handles is an owned list of Handle values returned by relation.Select.
type Handles []Handle
