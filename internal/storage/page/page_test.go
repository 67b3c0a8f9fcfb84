package page

import "testing"

func TestAddSlotAndReadBack(t *testing.T) {
	p := New(256)
	id, err := p.AddSlot([]byte("hello"))
	if err != nil {
		t.Fatalf("AddSlot: %v", err)
	}
	data, live, err := p.Slot(id)
	if err != nil {
		t.Fatalf("Slot: %v", err)
	}
	if !live {
		t.Fatalf("freshly added slot should be live")
	}
	if string(data) != "hello" {
		t.Fatalf("Slot returned %q, want %q", data, "hello")
	}
}

func TestDeleteSlotTombstones(t *testing.T) {
	p := New(256)
	id, _ := p.AddSlot([]byte("x"))
	if err := p.DeleteSlot(id); err != nil {
		t.Fatalf("DeleteSlot: %v", err)
	}
	_, live, err := p.Slot(id)
	if err != nil {
		t.Fatalf("Slot after delete: %v", err)
	}
	if live {
		t.Fatalf("deleted slot must report live=false")
	}
	if p.NumSlots() != 1 {
		t.Fatalf("NumSlots should still count the tombstoned slot, got %d", p.NumSlots())
	}
}

func TestAddSlotFailsWhenFull(t *testing.T) {
	p := New(32)
	for i := 0; i < 1000; i++ {
		if _, err := p.AddSlot([]byte("0123456789")); err != nil {
			if err != ErrPageFull {
				t.Fatalf("expected ErrPageFull, got %v", err)
			}
			return
		}
	}
	t.Fatalf("expected the page to fill up within 1000 inserts")
}

func TestWrapRoundTripsBytes(t *testing.T) {
	p := New(128)
	p.AddSlot([]byte("abc"))
	p2 := Wrap(p.Bytes())
	data, live, err := p2.Slot(0)
	if err != nil || !live || string(data) != "abc" {
		t.Fatalf("Wrap did not preserve page contents: data=%q live=%v err=%v", data, live, err)
	}
}

func TestSlotOutOfRange(t *testing.T) {
	p := New(64)
	if _, _, err := p.Slot(0); err != ErrSlotOutOfRange {
		t.Fatalf("expected ErrSlotOutOfRange, got %v", err)
	}
	if err := p.DeleteSlot(5); err != ErrSlotOutOfRange {
		t.Fatalf("expected ErrSlotOutOfRange, got %v", err)
	}
}
