package recorder

import "testing"

func TestInternSameLiteralSameID(t *testing.T) {
	tbl := newInternTable()
	const name Name = "same"
	id1 := tbl.intern(name)
	id2 := tbl.intern(name)
	if id1 != id2 {
		t.Fatalf("same literal interned to different ids: %d != %d", id1, id2)
	}
	if len(tbl.snapshot()) != 1 {
		t.Fatalf("expected exactly one interned name, got %d", len(tbl.snapshot()))
	}
}

func TestInternDistinctLiteralsDistinctIDs(t *testing.T) {
	tbl := newInternTable()
	id1 := tbl.intern(Name("one"))
	id2 := tbl.intern(Name("two"))
	if id1 == id2 {
		t.Fatalf("distinct literals interned to the same id: %d", id1)
	}
}

func TestInternResetClearsTable(t *testing.T) {
	tbl := newInternTable()
	tbl.intern(Name("x"))
	tbl.reset()
	if len(tbl.snapshot()) != 0 {
		t.Fatalf("expected empty table after reset, got %d entries", len(tbl.snapshot()))
	}
}
