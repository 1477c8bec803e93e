package recorder

import "unsafe"

// Name is a span or argument name. Callers must only ever construct one
// from a Go string constant (a literal, or a package-level `const`): the
// Go compiler deduplicates identical string constants into the same
// read-only backing array within a single build, giving every static
// name a stable address usable as an interning key. Passing a
// dynamically built string defeats interning (every call looks like a
// cache miss) but is still memory-safe.
type Name string

// ptr returns the address of the string's backing bytes, used as the
// interning key. Two Names built from the same constant in the same binary
// share this address; Names built from distinct dynamic strings do not,
// even if their contents are equal.
func (n Name) ptr() unsafe.Pointer {
	if len(n) == 0 {
		return nil
	}
	return unsafe.Pointer(unsafe.StringData(string(n)))
}
