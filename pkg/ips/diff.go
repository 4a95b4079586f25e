package ips

import (
	"fmt"

	"github.com/joshuapare/ipskit/internal/format"
)

// Diff creates a patch that turns original into modified. Both images must
// have the same length since IPS cannot resize a target.
//
// Differing bytes are grouped into literal records, bridging runs of up to
// MaxGap unchanged bytes. A group that is a single repeated byte of at least
// MinRunLength bytes becomes a run-length record. A group that would start at
// the reserved offset 0x454F46 is widened one byte to the left.
func Diff(original, modified []byte, opts *DiffOptions) (*Patch, error) {
	if len(original) != len(modified) {
		return nil, fmt.Errorf("diff: original is %d bytes, modified is %d bytes: %w",
			len(original), len(modified), ErrSizeMismatch)
	}
	o := opts.withDefaults()

	var recs []Record
	n := len(original)
	for i := 0; i < n; {
		if original[i] == modified[i] {
			i++
			continue
		}

		start, end := i, i+1
		for j := end; j < n && j-start < format.MaxPayloadSize; j++ {
			if original[j] != modified[j] {
				end = j + 1
			} else if j-end+1 > o.MaxGap {
				break
			}
		}

		if start == format.ReservedOffset {
			start--
			if end-start > format.MaxPayloadSize {
				end--
			}
		}
		if start > format.MaxOffset {
			return nil, fmt.Errorf("diff: change at 0x%X: %w", start, ErrOffsetRange)
		}

		recs = append(recs, diffRecord(uint32(start), modified[start:end], o.MinRunLength))
		i = end
	}

	p := &Patch{records: recs}
	copy(p.magic[:], format.Magic)
	copy(p.terminator[:], format.Terminator)
	return p, nil
}

func diffRecord(offset uint32, data []byte, minRun int) Record {
	if len(data) >= minRun && isRun(data) {
		return RunLength(offset, uint16(len(data)), data[0])
	}
	return Literal(offset, append([]byte(nil), data...))
}

func isRun(b []byte) bool {
	for _, c := range b[1:] {
		if c != b[0] {
			return false
		}
	}
	return true
}
