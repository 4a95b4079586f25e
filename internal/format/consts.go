// Package format houses the low-level decoder and encoder for the IPS patch
// container. The goal is to keep framing logic focused and independent from
// the public API so higher-level packages can orchestrate patches in a more
// ergonomic form.
package format

var (
	// Magic is the five-byte tag at the start of every IPS patch.
	// Layout:
	//   0x00  'P' 'A' 'T' 'C' 'H'
	Magic = []byte{'P', 'A', 'T', 'C', 'H'}

	// Terminator is the three-byte sentinel that ends the record stream. It
	// occupies the slot where the next record's offset would be.
	Terminator = []byte{'E', 'O', 'F'}
)

const (
	// MagicSize is the length of the container tag.
	MagicSize = 5

	// TerminatorSize is the length of the end-of-records sentinel.
	TerminatorSize = 3

	// Record field sizes (big-endian throughout).
	//
	//	Offset  Size  Description
	//	------  ----  -------------------------------------------
	//	 0x00    3    target offset
	//	 0x03    2    payload size (0 = run-length record)
	//	 0x05    n    literal payload           (size != 0)
	//	 0x05    2    run-length count          (size == 0)
	//	 0x07    1    run-length fill value     (size == 0)
	OffsetFieldSize   = 3
	SizeFieldSize     = 2
	RLECountFieldSize = 2
	RLEValueFieldSize = 1

	// RecordHeaderSize is the offset+size prefix shared by both record kinds.
	RecordHeaderSize = OffsetFieldSize + SizeFieldSize

	// RLERecordSize is the full encoded size of a run-length record.
	RLERecordSize = RecordHeaderSize + RLECountFieldSize + RLEValueFieldSize

	// MaxOffset is the largest addressable target offset.
	MaxOffset = 1<<24 - 1

	// MaxPayloadSize bounds both literal payload length and run-length count.
	MaxPayloadSize = 1<<16 - 1

	// ReservedOffset is the 24-bit value whose encoding collides with the
	// terminator. A record can never start here.
	ReservedOffset = 0x454F46
)

// Field names reported by RecordError.
const (
	FieldOffset   = "offset"
	FieldSize     = "size"
	FieldPayload  = "payload"
	FieldRLECount = "rle count"
	FieldRLEValue = "rle value"
)
