package btree

import (
	"encoding/binary"
	"fmt"
)

const (
	kindLeaf     byte = 1
	kindInterior byte = 2
)

// pad grows buf to exactly size bytes (the File contract requires writing
// whole blocks) and errors if it is already too big to fit.
func pad(buf []byte, size int) ([]byte, error) {
	if len(buf) > size {
		return nil, fmt.Errorf("btree: node does not fit in a %d-byte block (needs %d)", size, len(buf))
	}
	out := make([]byte, size)
	copy(out, buf)
	return out, nil
}

// checkNodeKind validates that raw (a block just read from file) is
// tagged want, failing loudly on a stat.height/node-layout mismatch
// instead of silently decoding the wrong node shape.
func checkNodeKind(raw []byte, id uint32, want byte) error {
	if len(raw) == 0 {
		return fmt.Errorf("btree: empty block %d", id)
	}
	if raw[0] != want {
		return fmt.Errorf("btree: block %d has node kind %d, want %d", id, raw[0], want)
	}
	return nil
}

func u32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

func putU32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
