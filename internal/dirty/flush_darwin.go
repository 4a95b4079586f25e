//go:build darwin

package dirty

import (
	"context"

	"golang.org/x/sys/unix"
)

// flushRanges flushes the whole mapping. Darwin's msync does not reliably
// honour sub-range flushes of a shared mapping.
func (t *Tracker) flushRanges(_ context.Context, data []byte) error {
	return unix.Msync(data, unix.MS_SYNC)
}

// sync uses F_FULLFSYNC when full is set, fsync otherwise.
func (t *Tracker) sync(full bool) error {
	fd := t.im.FD()
	if full {
		_, err := unix.FcntlInt(uintptr(fd), unix.F_FULLFSYNC, 0)
		return err
	}
	return unix.Fsync(fd)
}
