package ips

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joshuapare/ipskit/internal/mmfile"
)

// Target is the image being patched plus its format tag, the original file
// extension without the dot. Applying a patch never changes len(Data) or Ext.
type Target struct {
	Data []byte
	Ext  string
}

// NewTarget wraps data. data is patched in place.
func NewTarget(data []byte, ext string) *Target {
	return &Target{Data: data, Ext: strings.TrimPrefix(ext, ".")}
}

// LoadTarget reads the file at path into a new, writable Target.
func LoadTarget(path string) (*Target, error) {
	data, cleanup, err := mmfile.Map(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read target %s: %w", path, err)
	}
	defer cleanup()

	return &Target{
		Data: append([]byte(nil), data...),
		Ext:  strings.TrimPrefix(filepath.Ext(path), "."),
	}, nil
}

// Len returns the image size in bytes.
func (t *Target) Len() int { return len(t.Data) }

// OutputPath returns the path patched output named name should be written to:
// name with the target's extension appended, unless name already carries it
// or the target has none.
func (t *Target) OutputPath(name string) string {
	if t.Ext == "" || strings.EqualFold(filepath.Ext(name), "."+t.Ext) {
		return name
	}
	return name + "." + t.Ext
}

// Save writes the image to path atomically (temp file, then rename).
func (t *Target) Save(path string) error {
	return writeFileAtomic(path, t.Data)
}

// writeFileAtomic replaces path with data via a temp file and rename. An
// existing file keeps its permissions.
func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode().Perm()
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, mode); err != nil {
		return fmt.Errorf("failed to write temporary file %s: %w", tempPath, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
