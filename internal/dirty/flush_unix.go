//go:build linux || freebsd

package dirty

import (
	"context"

	"golang.org/x/sys/unix"
)

// flushRanges msyncs each coalesced range individually.
func (t *Tracker) flushRanges(ctx context.Context, data []byte) error {
	for _, r := range t.coalesce() {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := r.End()
		if end > int64(len(data)) {
			end = int64(len(data))
		}
		if err := unix.Msync(data[r.Off:end], unix.MS_SYNC); err != nil {
			return err
		}
	}
	return nil
}

// sync performs file descriptor sync. On Linux/FreeBSD fdatasync provides
// sufficient guarantees, so full is ignored.
func (t *Tracker) sync(_ bool) error {
	return unix.Fdatasync(t.im.FD())
}
