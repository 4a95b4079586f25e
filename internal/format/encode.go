package format

import (
	"fmt"

	"github.com/joshuapare/ipskit/internal/buf"
)

// EncodedLen returns the number of bytes r occupies in a patch.
func EncodedLen(r Record) int {
	if r.Kind == KindRunLength {
		return RLERecordSize
	}
	return RecordHeaderSize + len(r.Data)
}

// ValidateRecord checks that r can be encoded without ambiguity.
func ValidateRecord(r Record) error {
	if r.Offset > MaxOffset {
		return fmt.Errorf("record at 0x%X: %w", r.Offset, ErrOffsetRange)
	}
	if r.Offset == ReservedOffset {
		return fmt.Errorf("record at 0x%06X: %w", r.Offset, ErrReservedOffset)
	}
	switch r.Kind {
	case KindLiteral:
		if len(r.Data) == 0 || len(r.Data) > MaxPayloadSize {
			return fmt.Errorf("record at 0x%06X: literal of %d bytes: %w", r.Offset, len(r.Data), ErrInvalidRecordLength)
		}
	case KindRunLength:
	default:
		return fmt.Errorf("record at 0x%06X: unknown kind %v", r.Offset, r.Kind)
	}
	return nil
}

// AppendHeader appends the magic tag to b.
func AppendHeader(b []byte) []byte {
	return append(b, Magic...)
}

// AppendRecord appends the encoding of r to b.
func AppendRecord(b []byte, r Record) ([]byte, error) {
	if err := ValidateRecord(r); err != nil {
		return b, err
	}
	b = buf.AppendU24BE(b, r.Offset)
	if r.Kind == KindRunLength {
		b = buf.AppendU16BE(b, 0)
		b = buf.AppendU16BE(b, r.Count)
		return append(b, r.Value), nil
	}
	b = buf.AppendU16BE(b, uint16(len(r.Data)))
	return append(b, r.Data...), nil
}

// AppendTerminator appends the end-of-records sentinel to b.
func AppendTerminator(b []byte) []byte {
	return append(b, Terminator...)
}
