// Package page implements the fixed-size block abstraction that heap
// relations and the B+Tree index are built on. spec.md places the storage
// engine below the relation abstraction out of scope except where the core
// touches it directly (B+Tree node layout, handle semantics); this package
// is the minimal concrete stand-in needed to have something to test C9 and
// the heap relation against.
package page

import "errors"

// ErrSlotOutOfRange is returned by Slot/DeleteSlot for an unknown slot id.
var ErrSlotOutOfRange = errors.New("page: slot out of range")

// ErrPageFull is returned by AddSlot when a record would not fit.
var ErrPageFull = errors.New("page: not enough free space")

// header layout (little-endian uint16 fields at the front of every page):
//
//	[0:2]  slot count
//	[2:4]  free space pointer (offset where the next record's bytes begin)
//
// Records follow from offset 4. The slot directory sits at the end of the
// page, 4 bytes per slot (offset(2) + length(2)), slot 0 in the last 4
// bytes and later slots growing backward.
const headerFixed = 4
const slotSize = 4

// Page is one fixed-size block, laid out as a slotted page: a small header,
// records packed from the front, and a slot directory growing backward from
// the end of the block. A slot of (0, 0) is a tombstone: a deleted record
// whose slot id must not be reused (handles must stay stable for the
// record's lifetime, so tombstones are never compacted away).
type Page struct {
	Size int
	buf  []byte
}

// New allocates a zeroed page of the given size.
func New(size int) *Page {
	return &Page{Size: size, buf: make([]byte, size)}
}

// Wrap adapts an existing byte slice (e.g. just read from disk) as a page.
func Wrap(data []byte) *Page {
	p := &Page{Size: len(data), buf: data}
	return p
}

// Bytes returns the page's raw backing array.
func (p *Page) Bytes() []byte { return p.buf }

func (p *Page) numSlots() int {
	return int(le16(p.buf[0:2]))
}

func (p *Page) setNumSlots(n int) {
	putLE16(p.buf[0:2], uint16(n))
}

func (p *Page) freeStart() int {
	v := int(le16(p.buf[2:4]))
	if v == 0 {
		return headerFixed
	}
	return v
}

func (p *Page) setFreeStart(v int) {
	putLE16(p.buf[2:4], uint16(v))
}

func (p *Page) slotOffset(id int) int {
	return p.Size - (id+1)*slotSize
}

// FreeSpace returns the number of bytes available for a new record,
// including the directory entry it would need.
func (p *Page) FreeSpace() int {
	dirEnd := p.slotOffset(p.numSlots() - 1)
	if p.numSlots() == 0 {
		dirEnd = p.Size
	}
	free := dirEnd - p.freeStart() - slotSize
	if free < 0 {
		return 0
	}
	return free
}

// AddSlot appends data as a new record and returns its slot id.
func (p *Page) AddSlot(data []byte) (int, error) {
	if p.FreeSpace() < len(data) {
		return 0, ErrPageFull
	}
	id := p.numSlots()
	off := p.freeStart()
	copy(p.buf[off:off+len(data)], data)
	putLE16(p.buf[p.slotOffset(id):p.slotOffset(id)+2], uint16(off))
	putLE16(p.buf[p.slotOffset(id)+2:p.slotOffset(id)+4], uint16(len(data)))
	p.setFreeStart(off + len(data))
	p.setNumSlots(id + 1)
	return id, nil
}

// Slot returns the bytes stored at slot id, or (nil, false) if the slot is
// a tombstone (deleted) or was never allocated.
func (p *Page) Slot(id int) ([]byte, bool, error) {
	if id < 0 || id >= p.numSlots() {
		return nil, false, ErrSlotOutOfRange
	}
	off := int(le16(p.buf[p.slotOffset(id) : p.slotOffset(id)+2]))
	length := int(le16(p.buf[p.slotOffset(id)+2 : p.slotOffset(id)+4]))
	if off == 0 && length == 0 {
		return nil, false, nil
	}
	out := make([]byte, length)
	copy(out, p.buf[off:off+length])
	return out, true, nil
}

// DeleteSlot tombstones slot id; the slot id itself is never reused.
func (p *Page) DeleteSlot(id int) error {
	if id < 0 || id >= p.numSlots() {
		return ErrSlotOutOfRange
	}
	putLE16(p.buf[p.slotOffset(id):p.slotOffset(id)+2], 0)
	putLE16(p.buf[p.slotOffset(id)+2:p.slotOffset(id)+4], 0)
	return nil
}

// NumSlots returns the number of slot ids ever allocated in this page
// (including tombstoned ones).
func (p *Page) NumSlots() int { return p.numSlots() }

func le16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func putLE16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}
