package ips

import "github.com/joshuapare/ipskit/internal/format"

// Record is one overwrite instruction (re-exported for convenience).
type Record = format.Record

// Kind distinguishes literal and run-length records (re-exported for convenience).
type Kind = format.Kind

// Record kinds.
const (
	KindLiteral   = format.KindLiteral
	KindRunLength = format.KindRunLength
)

// Format limits.
const (
	MaxOffset      = format.MaxOffset
	MaxPayloadSize = format.MaxPayloadSize
	ReservedOffset = format.ReservedOffset
)

// Literal builds a literal record. data is not copied; New copies it.
func Literal(offset uint32, data []byte) Record {
	return Record{Offset: offset, Kind: KindLiteral, Data: data}
}

// RunLength builds a run-length record writing value count times.
func RunLength(offset uint32, count uint16, value byte) Record {
	return Record{Offset: offset, Kind: KindRunLength, Count: count, Value: value}
}

// Overlap names two records of one patch, by decode index, that write at
// least one common byte. Second is applied later and wins.
type Overlap struct {
	First  int `json:"first"`
	Second int `json:"second"`
}

// Conflict names two records from different patches that write at least one
// common byte.
type Conflict struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Stats summarizes a patch.
type Stats struct {
	Records       int   `json:"records"`
	Literal       int   `json:"literal"`
	RunLength     int   `json:"run_length"`
	BytesWritten  int64 `json:"bytes_written"`
	MinTargetSize int64 `json:"min_target_size"`
	Overlaps      int   `json:"overlaps"`
	EncodedSize   int   `json:"encoded_size"`
}
