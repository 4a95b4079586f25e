package image

import (
	"fmt"
	"os"
	"runtime/debug"
)

// Prefault faults in every page of the image so that a mapping made stale by
// a concurrent truncate surfaces as an error here rather than as SIGBUS in
// the middle of a patch.
func (im *Image) Prefault() error {
	if !im.mapped {
		return nil
	}
	if err := prefault(im.data); err != nil {
		return fmt.Errorf("image %s has inaccessible pages: %w", im.path, err)
	}
	return nil
}

// touchPages reads one byte per page with panic-on-fault enabled.
func touchPages(data []byte) (retErr error) {
	if len(data) == 0 {
		return nil
	}
	old := debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(old)

	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				retErr = fmt.Errorf("memory access fault: %w", err)
			} else {
				retErr = fmt.Errorf("memory access fault: %v", r)
			}
		}
	}()

	pageSize := os.Getpagesize()
	var sink byte
	for i := 0; i < len(data); i += pageSize {
		sink ^= data[i]
	}
	sink ^= data[len(data)-1]
	_ = sink
	return nil
}
