package dirty

import (
	"context"
	"os"
	"sort"

	"github.com/joshuapare/ipskit/internal/image"
)

const (
	// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
	defaultRangeCapacity = 64
)

// FlushMode controls durability guarantees after an in-place apply.
type FlushMode int

const (
	// FlushAuto flushes dirty pages, then fdatasyncs the descriptor.
	FlushAuto FlushMode = iota

	// FlushDataOnly only flushes dirty pages. The caller is responsible for
	// syncing the descriptor later.
	FlushDataOnly

	// FlushFull flushes dirty pages and performs the strongest sync the
	// platform offers (F_FULLFSYNC on darwin).
	FlushFull
)

func (m FlushMode) String() string {
	switch m {
	case FlushAuto:
		return "auto"
	case FlushDataOnly:
		return "data-only"
	case FlushFull:
		return "full"
	default:
		return "unknown"
	}
}

// Range represents a dirty byte range (absolute file offsets).
type Range struct {
	Off int64 // Absolute offset in file
	Len int64 // Length in bytes
}

// End returns the exclusive end offset.
func (r Range) End() int64 { return r.Off + r.Len }

// Tracker accumulates dirty ranges and flushes them efficiently.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Tracker struct {
	im       *image.Image
	ranges   []Range // Dirty data ranges (coalesced at flush time)
	pageSize int64
}

// NewTracker creates a dirty tracker for the given image.
func NewTracker(im *image.Image) *Tracker {
	return &Tracker{
		im:       im,
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: int64(os.Getpagesize()),
	}
}

// Add records a dirty range. Zero-length ranges are ignored.
func (t *Tracker) Add(off, length int) {
	if length <= 0 {
		return
	}
	t.ranges = append(t.ranges, Range{
		Off: int64(off),
		Len: int64(length),
	})
}

// Len returns the number of raw, uncoalesced ranges.
func (t *Tracker) Len() int { return len(t.ranges) }

// Ranges returns the coalesced, page-aligned ranges that a flush would cover.
func (t *Tracker) Ranges() []Range {
	return t.coalesce()
}

// Flush persists every dirty range, then syncs the descriptor unless mode is
// FlushDataOnly. Ranges are cleared only after a successful flush.
//
// The context is checked before each step. If cancelled mid-way some ranges
// may have been flushed while others have not.
func (t *Tracker) Flush(ctx context.Context, mode FlushMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data := t.im.Bytes()
	if len(t.ranges) > 0 && len(data) > 0 {
		if err := t.flushRanges(ctx, data); err != nil {
			return err
		}
	}
	t.Reset()

	if mode == FlushDataOnly {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.sync(mode == FlushFull)
}

// Reset clears all tracked ranges.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// coalesce page-aligns all ranges, sorts them, and merges overlapping/adjacent
// ranges. Ranges are clamped to the image size so the last partial page is
// still covered.
func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}
	limit := t.im.Size()

	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start := (r.Off / t.pageSize) * t.pageSize

		end := r.Off + r.Len
		if end%t.pageSize != 0 {
			end = ((end / t.pageSize) + 1) * t.pageSize
		}
		if end > limit {
			end = limit
		}

		aligned[i] = Range{Off: start, Len: end - start}
	}

	sort.Slice(aligned, func(i, j int) bool {
		return aligned[i].Off < aligned[j].Off
	})

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]
	for _, next := range aligned[1:] {
		if next.Off <= current.End() {
			if next.End() > current.End() {
				current.Len = next.End() - current.Off
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}
