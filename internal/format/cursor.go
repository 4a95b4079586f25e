package format

import "github.com/joshuapare/ipskit/internal/buf"

// Cursor is a forward-only reader over a patch buffer. Positions are absolute
// offsets into the buffer it was created with, so errors can point at the
// exact byte in the patch file.
type Cursor struct {
	b   []byte
	pos int
}

// NewCursor returns a cursor over b positioned at off.
func NewCursor(b []byte, off int) *Cursor {
	if off > len(b) {
		off = len(b)
	}
	return &Cursor{b: b, pos: off}
}

// Pos returns the absolute position of the next unread byte.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.b) - c.pos }

// Take consumes exactly n bytes. On a short read nothing is consumed and a
// *RecordError naming field is returned.
func (c *Cursor) Take(n int, field string) ([]byte, error) {
	out, ok := buf.Slice(c.b, c.pos, n)
	if !ok {
		return nil, &RecordError{
			Field: field,
			Pos:   c.pos,
			Want:  n,
			Have:  c.Remaining(),
			Err:   ErrTruncatedRecord,
		}
	}
	c.pos += n
	return out, nil
}
