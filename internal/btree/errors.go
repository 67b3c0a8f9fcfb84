package btree

import "errors"

// ErrNotImplemented is returned by Range and Del: spec.md places range
// scans and index deletion out of scope for this core and explicitly
// permits the B+Tree to return this rather than implement them.
var ErrNotImplemented = errors.New("btree: not implemented")

// ErrNotUnique is returned by New when asked to build a non-unique index;
// this B+Tree implementation only ever supports unique keys.
var ErrNotUnique = errors.New("btree: index must be unique")

// ErrClosed is returned by any operation attempted on a closed index.
var ErrClosed = errors.New("btree: index is closed")
