package recorder

import "unsafe"

// InternedName is one (id, name) pair a goroutine's recorder has assigned.
// ThreadTraceData carries a slice of these in assignment order so the
// trace builder can emit them as Perfetto interned-data entries.
type InternedName struct {
	ID   uint32
	Name string
}

// internTable assigns small integer ids to Names by the address of their
// backing bytes, so the steady-state cost of referencing an
// already-seen name is a single pointer-keyed map lookup — no string
// comparison, no copy.
type internTable struct {
	ids   map[unsafe.Pointer]uint32
	names []InternedName
}

func newInternTable() internTable {
	return internTable{ids: make(map[unsafe.Pointer]uint32, 64)}
}

// intern returns the id for name, assigning a new one on first sight.
func (t *internTable) intern(name Name) uint32 {
	p := name.ptr()
	if id, ok := t.ids[p]; ok {
		return id
	}
	id := uint32(len(t.names)) + 1
	t.ids[p] = id
	t.names = append(t.names, InternedName{ID: id, Name: string(name)})
	return id
}

// snapshot returns the full set of interned names assigned so far, in
// assignment order. The returned slice is owned by the caller.
func (t *internTable) snapshot() []InternedName {
	out := make([]InternedName, len(t.names))
	copy(out, t.names)
	return out
}

func (t *internTable) reset() {
	t.ids = make(map[unsafe.Pointer]uint32, 64)
	t.names = nil
}
