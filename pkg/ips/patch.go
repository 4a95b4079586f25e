package ips

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/ipskit/internal/buf"
	"github.com/joshuapare/ipskit/internal/format"
)

// Patch is a decoded IPS container. It is immutable until Apply consumes it.
type Patch struct {
	magic      [format.MagicSize]byte
	records    []Record
	terminator [format.TerminatorSize]byte
	trailing   int
	consumed   bool
}

// Decode parses a complete IPS patch. Records are decoded until the terminator;
// the first framing error aborts the decode and no partial patch is returned.
// Bytes after the terminator are ignored and reported by Trailing.
func Decode(b []byte) (*Patch, error) {
	if !buf.Has(b, 0, format.MagicSize) {
		return nil, fmt.Errorf("decode patch: %d bytes: %w", len(b), ErrMissingHeader)
	}
	if !bytes.Equal(b[:format.MagicSize], format.Magic) {
		return nil, fmt.Errorf("decode patch: tag % X: %w", b[:format.MagicSize], ErrInvalidHeader)
	}

	p := &Patch{}
	copy(p.magic[:], b[:format.MagicSize])

	c := format.NewCursor(b, format.MagicSize)
	for {
		rec, done, err := format.DecodeNext(c)
		if err != nil {
			return nil, fmt.Errorf("decode record %d: %w", len(p.records), err)
		}
		if done {
			break
		}
		p.records = append(p.records, rec)
	}
	copy(p.terminator[:], format.Terminator)
	p.trailing = c.Remaining()
	return p, nil
}

// New builds a patch from records, validating that each one can be encoded.
// Records keep the given order. Literal payloads are copied.
func New(records ...Record) (*Patch, error) {
	for i, r := range records {
		if err := format.ValidateRecord(r); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	p := &Patch{records: cloneRecords(records)}
	copy(p.magic[:], format.Magic)
	copy(p.terminator[:], format.Terminator)
	return p, nil
}

// Encode serializes the patch. For any patch returned by Decode the output is
// byte-identical to the decoded input up to and including the terminator.
func (p *Patch) Encode() ([]byte, error) {
	if p.consumed {
		return nil, ErrPatchConsumed
	}
	size := format.MagicSize + format.TerminatorSize
	for _, r := range p.records {
		size += format.EncodedLen(r)
	}

	out := make([]byte, 0, size)
	out = append(out, p.magic[:]...)
	for i, r := range p.records {
		var err error
		if out, err = format.AppendRecord(out, r); err != nil {
			return nil, fmt.Errorf("encode record %d: %w", i, err)
		}
	}
	return append(out, p.terminator[:]...), nil
}

// WriteFile encodes the patch and writes it to path atomically.
func (p *Patch) WriteFile(path string) error {
	b, err := p.Encode()
	if err != nil {
		return err
	}
	return writeFileAtomic(path, b)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p *Patch) MarshalBinary() ([]byte, error) {
	return p.Encode()
}

// Len returns the number of records.
func (p *Patch) Len() int { return len(p.records) }

// Records returns a copy of the record list in decode order. Literal payloads
// are copied too, so changes to the result never reach the patch.
func (p *Patch) Records() []Record {
	return cloneRecords(p.records)
}

func cloneRecords(recs []Record) []Record {
	if recs == nil {
		return nil
	}
	out := make([]Record, len(recs))
	for i, r := range recs {
		out[i] = r.Clone()
	}
	return out
}

// Trailing returns the number of bytes that followed the terminator.
func (p *Patch) Trailing() int { return p.trailing }

// Consumed reports whether Apply has released the patch.
func (p *Patch) Consumed() bool { return p.consumed }

// Stats summarizes the patch's records.
func (p *Patch) Stats() Stats {
	s := Stats{
		Records:     len(p.records),
		Overlaps:    len(p.Overlaps()),
		EncodedSize: format.MagicSize + format.TerminatorSize,
	}
	for _, r := range p.records {
		if r.Kind == KindRunLength {
			s.RunLength++
		} else {
			s.Literal++
		}
		s.BytesWritten += int64(r.Len())
		s.EncodedSize += format.EncodedLen(r)
		if end := int64(r.End()); end > s.MinTargetSize {
			s.MinTargetSize = end
		}
	}
	return s
}

func (p *Patch) String() string {
	return fmt.Sprintf("header: %s, records: %d, eof: %s", p.magic[:], len(p.records), p.terminator[:])
}

// release hands the records to the caller and marks the patch consumed.
func (p *Patch) release() ([]Record, error) {
	if p.consumed {
		return nil, ErrPatchConsumed
	}
	recs := p.records
	p.records = nil
	p.consumed = true
	return recs, nil
}
