package btree

import (
	"sort"

	"github.com/ninanguyen24/sqlcore/internal/storage/page"
	"github.com/ninanguyen24/sqlcore/internal/value"
)

type interiorEntry struct {
	boundary KeyValue
	child    uint32
}

// interior stores a leftmost child block id (first) plus an ordered list
// of (boundary, right child) pairs. A key k descends to first if
// k < boundaries[0], else to the child of the largest boundary <= k.
// Grounded on BTreeInterior in original_source/Milestone6/btree.cpp.
type interior struct {
	file     *page.File
	id       uint32
	profile  []value.Kind
	pageSize int
	first    uint32
	entries  []interiorEntry
}

func newInterior(file *page.File, profile []value.Kind, pageSize int, first uint32) (*interior, error) {
	n := &interior{file: file, profile: profile, pageSize: pageSize, first: first}
	buf, err := n.encode(first, nil)
	if err != nil {
		return nil, err
	}
	id, err := file.New(buf)
	if err != nil {
		return nil, err
	}
	n.id = id
	return n, nil
}

func loadInterior(file *page.File, id uint32, profile []value.Kind, pageSize int) (*interior, error) {
	raw, err := file.Get(id)
	if err != nil {
		return nil, err
	}
	if err := checkNodeKind(raw, id, kindInterior); err != nil {
		return nil, err
	}
	n := &interior{file: file, id: id, profile: profile, pageSize: pageSize}
	n.first = u32(raw[1:5])
	count := u32(raw[5:9])
	pos := 9
	for i := uint32(0); i < count; i++ {
		k, consumed, err := decodeKey(raw[pos:], profile)
		if err != nil {
			return nil, err
		}
		pos += consumed
		child := u32(raw[pos : pos+4])
		pos += 4
		n.entries = append(n.entries, interiorEntry{boundary: k, child: child})
	}
	return n, nil
}

func (n *interior) encode(first uint32, entries []interiorEntry) ([]byte, error) {
	buf := make([]byte, 9)
	buf[0] = kindInterior
	putU32(buf[1:5], first)
	putU32(buf[5:9], uint32(len(entries)))
	for _, e := range entries {
		buf = append(buf, encodeKey(e.boundary, n.profile)...)
		b4 := make([]byte, 4)
		putU32(b4, e.child)
		buf = append(buf, b4...)
	}
	return pad(buf, n.pageSize)
}

func (n *interior) save() error {
	buf, err := n.encode(n.first, n.entries)
	if err != nil {
		return err
	}
	return n.file.Put(n.id, buf)
}

// find returns the child block id key descends to.
func (n *interior) find(key KeyValue) uint32 {
	if len(n.entries) == 0 || compare(key, n.entries[0].boundary) < 0 {
		return n.first
	}
	i := sort.Search(len(n.entries), func(i int) bool { return compare(n.entries[i].boundary, key) > 0 })
	return n.entries[i-1].child
}

// insert adds (boundary, child) in order. On overflow the interior splits:
// the middle entry's boundary is promoted to the parent (its child becomes
// the new right interior's "first"), the lower entries stay here, the
// upper entries (excluding the promoted one) move to the new interior.
func (n *interior) insert(boundary KeyValue, child uint32) (splitResult, error) {
	i := sort.Search(len(n.entries), func(i int) bool { return compare(n.entries[i].boundary, boundary) >= 0 })
	candidate := make([]interiorEntry, 0, len(n.entries)+1)
	candidate = append(candidate, n.entries[:i]...)
	candidate = append(candidate, interiorEntry{boundary: boundary, child: child})
	candidate = append(candidate, n.entries[i:]...)

	if _, err := n.encode(n.first, candidate); err == nil {
		n.entries = candidate
		return splitResult{}, n.save()
	}

	mid := len(candidate) / 2
	promoted := candidate[mid]
	lower := candidate[:mid]
	upper := candidate[mid+1:]

	sibling := &interior{file: n.file, profile: n.profile, pageSize: n.pageSize, first: promoted.child, entries: upper}
	buf, err := sibling.encode(promoted.child, upper)
	if err != nil {
		return splitResult{}, err
	}
	newID, err := n.file.New(buf)
	if err != nil {
		return splitResult{}, err
	}
	sibling.id = newID

	n.entries = lower
	if err := n.save(); err != nil {
		return splitResult{}, err
	}

	return splitResult{didSplit: true, newBlock: newID, boundary: promoted.boundary}, nil
}
