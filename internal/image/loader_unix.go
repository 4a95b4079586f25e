//go:build linux || darwin || freebsd

package image

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Open mmaps the image RW so we can mutate in place.
func Open(path string) (*Image, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	sz := st.Size()
	if sz == 0 {
		// mmap rejects zero-length mappings; an empty image has nothing to patch.
		return &Image{f: f, data: []byte{}, path: path}, nil
	}
	if sz > int64(^uint(0)>>1) {
		_ = f.Close()
		return nil, fmt.Errorf("image: file too large to map (%d bytes)", sz)
	}

	data, err := unix.Mmap(
		int(f.Fd()),
		0,
		int(sz),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED,
	)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("mmap failed: %w", err)
	}

	return &Image{
		f:      f,
		data:   data,
		size:   sz,
		mapped: true,
		path:   path,
	}, nil
}

func (im *Image) Close() error {
	var err error
	if im.data != nil && im.mapped {
		err = unix.Munmap(im.data)
	}
	im.data = nil
	if im.f != nil {
		if cerr := im.f.Close(); err == nil {
			err = cerr
		}
		im.f = nil
	}
	return err
}
