package pftrace

import (
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

// decodedMessage is a minimal, test-only protobuf decoder: just enough
// to read back what builder.go wrote and assert on it, without pulling
// in a second schema source of truth. Varint and fixed64 fields collect
// their raw numeric value; bytes fields collect their raw payload.
type decodedMessage struct {
	varint map[int][]uint64
	bytes  map[int][][]byte
}

func decodeMessage(t *testing.T, b []byte) decodedMessage {
	t.Helper()
	m := decodedMessage{varint: map[int][]uint64{}, bytes: map[int][][]byte{}}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			t.Fatalf("bad tag: %v", protowire.ParseError(n))
		}
		b = b[n:]
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				t.Fatalf("bad varint: %v", protowire.ParseError(n))
			}
			b = b[n:]
			m.varint[int(num)] = append(m.varint[int(num)], v)
		case protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				t.Fatalf("bad fixed64: %v", protowire.ParseError(n))
			}
			b = b[n:]
			m.varint[int(num)] = append(m.varint[int(num)], v)
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				t.Fatalf("bad bytes: %v", protowire.ParseError(n))
			}
			b = b[n:]
			cp := append([]byte(nil), v...)
			m.bytes[int(num)] = append(m.bytes[int(num)], cp)
		default:
			t.Fatalf("unsupported wire type %v in test decoder", typ)
		}
	}
	return m
}

func (m decodedMessage) hasVarint(field int) bool { return len(m.varint[field]) > 0 }
func (m decodedMessage) varintAt(field int) uint64 {
	vs := m.varint[field]
	if len(vs) == 0 {
		return 0
	}
	return vs[len(vs)-1]
}
func (m decodedMessage) bytesAt(field int) []byte {
	bs := m.bytes[field]
	if len(bs) == 0 {
		return nil
	}
	return bs[len(bs)-1]
}

// decodeTracePackets splits a fully framed trace byte stream (repeated
// field 1 of the top-level Trace message) into individual TracePacket
// submessages, decoded.
func decodeTracePackets(t *testing.T, data []byte) []decodedMessage {
	t.Helper()
	var out []decodedMessage
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			t.Fatalf("bad top-level tag: %v", protowire.ParseError(n))
		}
		if int(num) != fieldTracePacket || typ != protowire.BytesType {
			t.Fatalf("expected repeated TracePacket field %d, got field %d type %v", fieldTracePacket, num, typ)
		}
		data = data[n:]
		body, n := protowire.ConsumeBytes(data)
		if n < 0 {
			t.Fatalf("bad packet bytes: %v", protowire.ParseError(n))
		}
		data = data[n:]
		out = append(out, decodeMessage(t, body))
	}
	return out
}
