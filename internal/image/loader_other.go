//go:build !linux && !darwin && !freebsd

package image

import (
	"io"
	"os"
)

// Open loads the image into memory on platforms without a shared mmap.
func Open(path string) (*Image, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	sz := st.Size()

	buf := make([]byte, sz)
	if _, err := io.ReadFull(f, buf); err != nil {
		f.Close()
		return nil, err
	}

	return &Image{
		f:    f,
		data: buf,
		size: sz,
		path: path,
	}, nil
}

func (im *Image) Close() error {
	var err error
	if im.f != nil {
		err = im.f.Close()
		im.f = nil
	}
	im.data = nil
	return err
}
