//go:build linux

package image

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// prefault populates every page of data for writing. MADV_POPULATE_WRITE
// (Linux 5.14+) reports an inaccessible page as EFAULT instead of raising
// SIGBUS; older kernels fall back to touching each page.
func prefault(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	err := unix.Madvise(data, unix.MADV_POPULATE_WRITE)
	if err == nil {
		return nil
	}
	if !errors.Is(err, unix.EINVAL) && !errors.Is(err, unix.ENOSYS) {
		return fmt.Errorf("madvise populate failed: %w", err)
	}
	return touchPages(data)
}
