package ips

import (
	"errors"
	"log/slog"

	"github.com/joshuapare/ipskit/internal/buf"
	"github.com/joshuapare/ipskit/internal/dirty"
	"github.com/joshuapare/ipskit/internal/format"
)

// Apply writes every record into t.Data in decode order. See ApplyWithOptions.
func (p *Patch) Apply(t *Target) error {
	return p.ApplyWithOptions(t, nil)
}

// ApplyWithOptions writes every record into t.Data in decode order.
//
// All record ranges are checked against len(t.Data) before the first write.
// If any record does not fit, a *BoundsError for the earliest such record is
// returned and t.Data is left untouched. The patch is consumed either way.
func (p *Patch) ApplyWithOptions(t *Target, opts *ApplyOptions) error {
	recs, err := p.release()
	if err != nil {
		return err
	}
	if t == nil {
		return errors.New("ips: apply to nil target")
	}
	if err := checkBounds(recs, len(t.Data)); err != nil {
		return err
	}
	writeRecords(t.Data, recs, nil, opts.logger())
	return nil
}

// Fits reports whether every record lies inside a target of n bytes, without
// writing anything or consuming the patch. It returns the *BoundsError Apply
// would return for such a target.
func (p *Patch) Fits(n int) error {
	if p.consumed {
		return ErrPatchConsumed
	}
	return checkBounds(p.records, n)
}

// checkBounds returns a *BoundsError for the first record, in decode order,
// whose byte range exceeds n.
func checkBounds(recs []Record, n int) error {
	for i, r := range recs {
		if _, err := buf.CheckRange(n, int(r.Offset), r.Len()); err != nil {
			return &format.BoundsError{
				Index:     i,
				Offset:    r.Offset,
				Length:    r.Len(),
				TargetLen: n,
			}
		}
	}
	return nil
}

// writeRecords materializes each record into dst. Ranges must already have
// been checked. tracker may be nil.
func writeRecords(dst []byte, recs []Record, tracker dirty.DirtyTracker, log *slog.Logger) {
	log.Debug("applying patch", "records", len(recs), "target_len", len(dst))
	for i, r := range recs {
		r.WriteTo(dst[r.Offset:r.End()])
		if tracker != nil {
			tracker.Add(int(r.Offset), r.Len())
		}
		log.Debug("record applied",
			"index", i,
			"kind", r.Kind.String(),
			"offset", r.Offset,
			"len", r.Len())
	}
}
