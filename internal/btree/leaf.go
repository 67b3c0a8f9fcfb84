package btree

import (
	"sort"

	"github.com/ninanguyen24/sqlcore/internal/schema"
	"github.com/ninanguyen24/sqlcore/internal/storage/page"
	"github.com/ninanguyen24/sqlcore/internal/value"
)

// ErrDuplicateKey is returned by leaf.insert when the key already has an
// entry (the index is unique).
type ErrDuplicateKey struct{ Key KeyValue }

func (e *ErrDuplicateKey) Error() string { return "btree: duplicate key" }

type leafEntry struct {
	key    KeyValue
	handle schema.Handle
}

// leaf stores (key, handle) pairs in strictly ascending key order; unique,
// so no two entries may share a key. Grounded on BTreeLeaf in
// original_source/Milestone6/btree.cpp.
type leaf struct {
	file     *page.File
	id       uint32
	profile  []value.Kind
	pageSize int
	entries  []leafEntry
}

func newLeaf(file *page.File, profile []value.Kind, pageSize int) (*leaf, error) {
	l := &leaf{file: file, profile: profile, pageSize: pageSize}
	buf, err := l.encode(nil)
	if err != nil {
		return nil, err
	}
	id, err := file.New(buf)
	if err != nil {
		return nil, err
	}
	l.id = id
	return l, nil
}

func loadLeaf(file *page.File, id uint32, profile []value.Kind, pageSize int) (*leaf, error) {
	raw, err := file.Get(id)
	if err != nil {
		return nil, err
	}
	if err := checkNodeKind(raw, id, kindLeaf); err != nil {
		return nil, err
	}
	l := &leaf{file: file, id: id, profile: profile, pageSize: pageSize}
	count := u32(raw[1:5])
	pos := 5
	for i := uint32(0); i < count; i++ {
		k, n, err := decodeKey(raw[pos:], profile)
		if err != nil {
			return nil, err
		}
		pos += n
		h, err := decodeHandle(raw[pos:])
		if err != nil {
			return nil, err
		}
		pos += 6
		l.entries = append(l.entries, leafEntry{key: k, handle: h})
	}
	return l, nil
}

func (l *leaf) encode(entries []leafEntry) ([]byte, error) {
	buf := []byte{kindLeaf, 0, 0, 0, 0}
	putU32(buf[1:5], uint32(len(entries)))
	for _, e := range entries {
		buf = append(buf, encodeKey(e.key, l.profile)...)
		buf = append(buf, encodeHandle(e.handle)...)
	}
	return pad(buf, l.pageSize)
}

func (l *leaf) save() error {
	buf, err := l.encode(l.entries)
	if err != nil {
		return err
	}
	return l.file.Put(l.id, buf)
}

// findEq returns the handle for key, if present.
func (l *leaf) findEq(key KeyValue) (schema.Handle, bool) {
	i := sort.Search(len(l.entries), func(i int) bool { return compare(l.entries[i].key, key) >= 0 })
	if i < len(l.entries) && compare(l.entries[i].key, key) == 0 {
		return l.entries[i].handle, true
	}
	return schema.Handle{}, false
}

// splitResult is the Some(new_block_id, smallest_key_in_new_leaf) outcome
// of an overflowing insert, or the zero value when nothing split.
type splitResult struct {
	didSplit  bool
	newBlock  uint32
	boundary  KeyValue
}

// insert places (key, handle) in order. If the resulting leaf still fits in
// one block it is saved in place and (false,...) is returned; otherwise the
// leaf is split: the upper half moves to a new leaf and its smallest key
// becomes the split boundary.
func (l *leaf) insert(key KeyValue, handle schema.Handle) (splitResult, error) {
	i := sort.Search(len(l.entries), func(i int) bool { return compare(l.entries[i].key, key) >= 0 })
	if i < len(l.entries) && compare(l.entries[i].key, key) == 0 {
		return splitResult{}, &ErrDuplicateKey{Key: key}
	}
	candidate := make([]leafEntry, 0, len(l.entries)+1)
	candidate = append(candidate, l.entries[:i]...)
	candidate = append(candidate, leafEntry{key: key, handle: handle})
	candidate = append(candidate, l.entries[i:]...)

	if _, err := l.encode(candidate); err == nil {
		l.entries = candidate
		return splitResult{}, l.save()
	}

	// Overflow: split, moving the upper half to a new right sibling.
	mid := len(candidate) / 2
	lower := candidate[:mid]
	upper := candidate[mid:]

	sibling := &leaf{file: l.file, profile: l.profile, pageSize: l.pageSize, entries: upper}
	buf, err := sibling.encode(upper)
	if err != nil {
		return splitResult{}, err
	}
	newID, err := l.file.New(buf)
	if err != nil {
		return splitResult{}, err
	}
	sibling.id = newID

	l.entries = lower
	if err := l.save(); err != nil {
		return splitResult{}, err
	}

	return splitResult{didSplit: true, newBlock: newID, boundary: upper[0].key}, nil
}
