package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/ipskit/internal/buf"
)

// Kind distinguishes the two record payload encodings.
type Kind uint8

const (
	// KindLiteral records carry explicit bytes copied verbatim.
	KindLiteral Kind = iota
	// KindRunLength records repeat a single byte Count times.
	KindRunLength
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindRunLength:
		return "rle"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Record is one overwrite instruction.
type Record struct {
	Offset uint32
	Kind   Kind
	Data   []byte // KindLiteral
	Count  uint16 // KindRunLength
	Value  byte   // KindRunLength
}

// Len returns the number of bytes the record writes.
func (r Record) Len() int {
	if r.Kind == KindRunLength {
		return int(r.Count)
	}
	return len(r.Data)
}

// End returns the exclusive end of the record's byte range.
func (r Record) End() int {
	return int(r.Offset) + r.Len()
}

// Overlaps reports whether r and o write at least one common byte.
func (r Record) Overlaps(o Record) bool {
	if r.Len() == 0 || o.Len() == 0 {
		return false
	}
	return int(r.Offset) < o.End() && int(o.Offset) < r.End()
}

// WriteTo copies the record's bytes into dst, which must be at least Len() long.
func (r Record) WriteTo(dst []byte) {
	if r.Kind == KindRunLength {
		dst = dst[:r.Count]
		for i := range dst {
			dst[i] = r.Value
		}
		return
	}
	copy(dst, r.Data)
}

// Clone returns a copy of r that shares no memory with it.
func (r Record) Clone() Record {
	if r.Data != nil {
		r.Data = append([]byte(nil), r.Data...)
	}
	return r
}

// Materialize returns the bytes the record writes.
func (r Record) Materialize() []byte {
	out := make([]byte, r.Len())
	r.WriteTo(out)
	return out
}

func (r Record) String() string {
	if r.Kind == KindRunLength {
		return fmt.Sprintf("rle: %#02x written to 0x%06X %d times", r.Value, r.Offset, r.Count)
	}
	return fmt.Sprintf("literal: %d bytes written to 0x%06X", len(r.Data), r.Offset)
}

// DecodeNext decodes one record from c. It returns done = true, and no record,
// when the terminator is read. Payload bytes are copied so the record does not
// alias the patch buffer.
func DecodeNext(c *Cursor) (rec Record, done bool, err error) {
	off, err := c.Take(OffsetFieldSize, FieldOffset)
	if err != nil {
		return Record{}, false, err
	}
	if bytes.Equal(off, Terminator) {
		return Record{}, true, nil
	}
	rec.Offset = buf.U24BE(off)

	sz, err := c.Take(SizeFieldSize, FieldSize)
	if err != nil {
		return Record{}, false, err
	}
	size := buf.U16BE(sz)

	if size == 0 {
		cnt, err := c.Take(RLECountFieldSize, FieldRLECount)
		if err != nil {
			return Record{}, false, err
		}
		val, err := c.Take(RLEValueFieldSize, FieldRLEValue)
		if err != nil {
			return Record{}, false, err
		}
		rec.Kind = KindRunLength
		rec.Count = buf.U16BE(cnt)
		rec.Value = val[0]
		return rec, false, nil
	}

	payload, err := c.Take(int(size), FieldPayload)
	if err != nil {
		if re, ok := err.(*RecordError); ok {
			re.Err = ErrInvalidRecordLength
		}
		return Record{}, false, err
	}
	rec.Kind = KindLiteral
	rec.Data = append([]byte(nil), payload...)
	return rec, false, nil
}
