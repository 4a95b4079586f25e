// Package image opens a target file read-write for in-place patching. On
// linux, darwin and freebsd the file is memory-mapped shared so writes to
// Bytes() land in the page cache directly; elsewhere it is loaded into a heap
// buffer and dirty ranges are written back explicitly.
package image

import (
	"fmt"
	"os"
)

// Image is an opened target, backed by mmap (unix) or a byte slice (others).
type Image struct {
	f      *os.File
	data   []byte
	size   int64
	mapped bool
	path   string
}

// Bytes returns the writable image contents.
func (im *Image) Bytes() []byte { return im.data }

// Size returns the image length in bytes.
func (im *Image) Size() int64 { return im.size }

// Path returns the path the image was opened from.
func (im *Image) Path() string { return im.path }

// Mapped reports whether Bytes() is a shared memory mapping.
func (im *Image) Mapped() bool { return im.mapped }

// FD returns the underlying file descriptor, or -1 once closed.
func (im *Image) FD() int {
	if im == nil || im.f == nil {
		return -1
	}
	return int(im.f.Fd())
}

// WriteBack writes data[off:off+n] to the file. It is a no-op for mapped
// images, whose pages are flushed with msync instead.
func (im *Image) WriteBack(off, n int64) error {
	if im.mapped {
		return nil
	}
	if im.f == nil {
		return fmt.Errorf("image: write back on closed image %s", im.path)
	}
	if off < 0 || n < 0 || off+n > im.size {
		return fmt.Errorf("image: write back range [%d,%d) outside %d bytes", off, off+n, im.size)
	}
	if _, err := im.f.WriteAt(im.data[off:off+n], off); err != nil {
		return fmt.Errorf("image: write back %s: %w", im.path, err)
	}
	return nil
}

// Sync commits the file's contents to stable storage.
func (im *Image) Sync() error {
	if im.f == nil {
		return fmt.Errorf("image: sync on closed image %s", im.path)
	}
	return im.f.Sync()
}
