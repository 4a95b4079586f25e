//go:build !linux

package image

func prefault(data []byte) error {
	return touchPages(data)
}
