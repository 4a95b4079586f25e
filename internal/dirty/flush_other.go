//go:build !linux && !freebsd && !darwin

package dirty

import "context"

// flushRanges writes each coalesced range of the heap-backed image back to
// its file.
func (t *Tracker) flushRanges(ctx context.Context, _ []byte) error {
	for _, r := range t.coalesce() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t.im.WriteBack(r.Off, r.Len); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tracker) sync(_ bool) error {
	return t.im.Sync()
}
