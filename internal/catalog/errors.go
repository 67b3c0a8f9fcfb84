package catalog

import "fmt"

// UnknownTableError reports a lookup of a relation absent from _tables.
type UnknownTableError struct {
	Name string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("catalog: unknown table %q", e.Name)
}

// UnknownIndexError reports a lookup of an index absent from _indices.
type UnknownIndexError struct {
	Table, Index string
}

func (e *UnknownIndexError) Error() string {
	return fmt.Sprintf("catalog: unknown index %q on table %q", e.Index, e.Table)
}
