package format

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingHeader indicates the input was shorter than the magic tag.
	ErrMissingHeader = errors.New("ips: missing header")
	// ErrInvalidHeader indicates the magic tag did not match.
	ErrInvalidHeader = errors.New("ips: invalid header")
	// ErrTruncatedRecord indicates input ended while a record field was being read.
	ErrTruncatedRecord = errors.New("ips: truncated record")
	// ErrInvalidRecordLength indicates a record's declared length cannot be
	// satisfied (short payload) or encoded (empty or oversized literal).
	ErrInvalidRecordLength = errors.New("ips: invalid record length")
	// ErrOutOfBounds indicates a record writes past the end of the target.
	ErrOutOfBounds = errors.New("ips: record out of bounds")
	// ErrOffsetRange indicates an offset that does not fit in 24 bits.
	ErrOffsetRange = errors.New("ips: offset exceeds 24 bits")
	// ErrReservedOffset indicates a record at 0x454F46, which encodes as "EOF".
	ErrReservedOffset = errors.New("ips: offset collides with terminator")
)

// RecordError describes a record field that could not be read in full.
type RecordError struct {
	Field string // Field being read (FieldOffset, FieldSize, ...)
	Pos   int    // Position in the patch where the field starts
	Want  int    // Bytes required
	Have  int    // Bytes available
	Err   error  // ErrTruncatedRecord or ErrInvalidRecordLength
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	return fmt.Sprintf("%v: %s at 0x%X: need %d bytes, have %d", e.Err, e.Field, e.Pos, e.Want, e.Have)
}

// Unwrap exposes the underlying sentinel. A short payload is both an invalid
// record length and a truncated record.
func (e *RecordError) Unwrap() []error {
	if e.Err == ErrTruncatedRecord {
		return []error{e.Err}
	}
	return []error{e.Err, ErrTruncatedRecord}
}

// BoundsError describes a record whose byte range does not fit the target.
type BoundsError struct {
	Index     int    // Record index in decode order
	Offset    uint32 // Record target offset
	Length    int    // Bytes the record writes
	TargetLen int    // Size of the target buffer
}

// Error implements the error interface.
func (e *BoundsError) Error() string {
	return fmt.Sprintf("%v: record %d writes %d bytes at 0x%06X, target is %d bytes",
		ErrOutOfBounds, e.Index, e.Length, e.Offset, e.TargetLen)
}

// Unwrap returns ErrOutOfBounds.
func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}
