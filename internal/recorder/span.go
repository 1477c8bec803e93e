package recorder

// Handle identifies an open span so its matching CloseSpan call can find
// the right begin record. It encodes the buffer position of that record.
type Handle struct {
	idx   uint32
	valid bool
}

// Span is a convenience guard returned by Scope that closes itself when
// Close is called, typically via defer, giving a scoped span a
// guaranteed release on every exit path through Go's defer instead of a
// destructor.
type Span struct {
	r *Recorder
	h Handle
}

// Close ends the span. Safe to call on a zero Span (what Scope returns
// for a nil recorder), and on a Span opened while recording was
// disabled: it is then a no-op.
func (s Span) Close() {
	if s.r == nil {
		return
	}
	s.r.CloseSpan(s.h)
}

// Scope opens a span on r and returns a guard whose Close ends it. Typical
// use:
//
//	span := recorder.Scope(rec, "Parsing")
//	defer span.Close()
func Scope(r *Recorder, name Name, args ...Arg) Span {
	if r == nil {
		return Span{}
	}
	return Span{r: r, h: r.OpenSpan(name, args...)}
}
