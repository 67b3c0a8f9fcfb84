package btree

import (
	"fmt"

	"github.com/ninanguyen24/sqlcore/internal/storage/page"
	"github.com/ninanguyen24/sqlcore/internal/value"
)

// statBlock is the reserved block id (spec.md §6: "the B+Tree reserves
// block id STAT for its statistics record").
const statBlock uint32 = 0

// stat is the BTreeStat record: root_id and height (a leaf-only tree has
// height 1), plus the key_profile captured at index creation.
type stat struct {
	rootID  uint32
	height  uint32
	profile []value.Kind
}

func newStat(pageSize int, file *page.File, rootID uint32, profile []value.Kind) (*stat, error) {
	s := &stat{rootID: rootID, height: 1, profile: profile}
	buf, err := s.encode(pageSize)
	if err != nil {
		return nil, err
	}
	id, err := file.New(buf)
	if err != nil {
		return nil, err
	}
	if id != statBlock {
		return nil, fmt.Errorf("btree: stat block must be the first block of a fresh index file, got %d", id)
	}
	return s, nil
}

func loadStat(file *page.File, pageSize int) (*stat, error) {
	raw, err := file.Get(statBlock)
	if err != nil {
		return nil, err
	}
	s := &stat{rootID: u32(raw[0:4]), height: u32(raw[4:8])}
	numCols := int(raw[8])
	s.profile = make([]value.Kind, numCols)
	for i := 0; i < numCols; i++ {
		s.profile[i] = value.Kind(raw[9+i])
	}
	return s, nil
}

func (s *stat) encode(pageSize int) ([]byte, error) {
	buf := make([]byte, 9+len(s.profile))
	putU32(buf[0:4], s.rootID)
	putU32(buf[4:8], s.height)
	buf[8] = byte(len(s.profile))
	for i, k := range s.profile {
		buf[9+i] = byte(k)
	}
	return pad(buf, pageSize)
}

func (s *stat) save(file *page.File, pageSize int) error {
	buf, err := s.encode(pageSize)
	if err != nil {
		return err
	}
	return file.Put(statBlock, buf)
}
