package ips

import (
	"io"
	"log/slog"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// ApplyOptions controls in-memory application.
type ApplyOptions struct {
	// Logger receives one debug line per record. If nil, output is discarded.
	Logger *slog.Logger
}

func (o *ApplyOptions) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return discard
	}
	return o.Logger
}

// FileOptions controls ApplyFile and ApplyFiles.
type FileOptions struct {
	// OutputName writes the result to OutputName plus the target's extension
	// (see Target.OutputPath) instead of replacing the target.
	OutputName string

	// CreateBackup copies the target to <target>.bak before modifying it.
	CreateBackup bool

	// InPlace maps the target read-write and patches it directly, flushing
	// only the dirty pages. Incompatible with OutputName.
	InPlace bool

	// FullSync requests the strongest durability the platform offers after
	// an in-place apply (F_FULLFSYNC on darwin).
	FullSync bool

	// Logger receives progress and conflict warnings. If nil, output is discarded.
	Logger *slog.Logger
}

func (o *FileOptions) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return discard
	}
	return o.Logger
}

// DiffOptions controls patch creation.
type DiffOptions struct {
	// MaxGap is the longest run of unchanged bytes merged into a surrounding
	// literal record rather than starting a new record. Zero selects the
	// default; a negative value disables merging.
	// Default: 5 (the size of a record header).
	MaxGap int

	// MinRunLength is the shortest single-byte run emitted as a run-length
	// record. Default: 9.
	MinRunLength int
}

// Diff defaults.
const (
	DefaultMaxGap       = 5
	DefaultMinRunLength = 9
)

func (o *DiffOptions) withDefaults() DiffOptions {
	out := DiffOptions{MaxGap: DefaultMaxGap, MinRunLength: DefaultMinRunLength}
	if o == nil {
		return out
	}
	switch {
	case o.MaxGap > 0:
		out.MaxGap = o.MaxGap
	case o.MaxGap < 0:
		out.MaxGap = 0
	}
	if o.MinRunLength > 0 {
		out.MinRunLength = o.MinRunLength
	}
	return out
}
