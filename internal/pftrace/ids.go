package pftrace

import "math/rand"

// idGenerator hands out track uuids and packet sequence ids: each is a
// random value chosen once per builder (so independent capture processes
// whose output is later concatenated into one trace never collide)
// combined with a monotonically increasing counter (so ids handed out
// within one builder never collide with each other). For track uuids the
// random half lives in the upper 32 bits and the counter in the lower
// 32; sequence ids are 32-bit, so they get a random upper 16 bits over a
// 16-bit counter instead.
type idGenerator struct {
	randUpper   uint64
	seqBase     uint32
	nextCounter uint32
	nextSeq     uint32
}

func newIDGenerator(src rand.Source) *idGenerator {
	rnd := rand.New(src)
	return &idGenerator{
		randUpper: uint64(rnd.Uint32()) << 32,
		seqBase:   rnd.Uint32() << 16,
	}
}

func (g *idGenerator) nextTrackUUID() uint64 {
	g.nextCounter++
	return g.randUpper | uint64(g.nextCounter)
}

// nextSequenceID returns a fresh trusted packet sequence id. The builder
// assigns one per thread (plus one for its own descriptor packets) so
// each thread's interned-data ids and event ordering stay scoped to its
// own sequence. Always nonzero: the counter starts at 1 and the zero
// sequence id is reserved on the wire.
func (g *idGenerator) nextSequenceID() uint32 {
	g.nextSeq++
	return g.seqBase | g.nextSeq
}
