package ips

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joshuapare/ipskit/internal/dirty"
	"github.com/joshuapare/ipskit/internal/image"
	"github.com/joshuapare/ipskit/internal/mmfile"
)

// Range is a byte range of the target that an in-place apply flushed.
type Range = dirty.Range

// PatchConflict reports overlapping records between two patch files applied
// to the same target.
type PatchConflict struct {
	First     string     `json:"first"`
	Second    string     `json:"second"`
	Conflicts []Conflict `json:"conflicts"`
}

// Result describes a completed file-level apply.
type Result struct {
	Output    string          `json:"output"`
	Backup    string          `json:"backup,omitempty"`
	InPlace   bool            `json:"in_place"`
	Patches   []Stats         `json:"patches"`
	Conflicts []PatchConflict `json:"conflicts,omitempty"`
	Dirty     []Range         `json:"dirty,omitempty"`
}

// LoadPatch reads and decodes the patch file at path.
func LoadPatch(path string) (*Patch, error) {
	data, cleanup, err := mmfile.Map(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read patch %s: %w", path, err)
	}
	defer cleanup()

	p, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse patch %s: %w", path, err)
	}
	return p, nil
}

// ApplyFile applies one patch file to the target file. See ApplyFiles.
func ApplyFile(ctx context.Context, patchPath, targetPath string, opts *FileOptions) (*Result, error) {
	return ApplyFiles(ctx, []string{patchPath}, targetPath, opts)
}

// ApplyFiles applies patch files to the target file in order.
//
// Every patch is decoded and every record range is checked against the target
// size before anything is written, so a bad patch or a wrong target version
// leaves the target untouched and produces no output file.
//
// By default the result replaces the target atomically. With OutputName it is
// written to Target.OutputPath(OutputName) instead. With InPlace the target is
// mapped read-write and only the dirty pages are flushed.
func ApplyFiles(ctx context.Context, patchPaths []string, targetPath string, opts *FileOptions) (*Result, error) {
	if len(patchPaths) == 0 {
		return nil, errors.New("no patches to apply")
	}
	if opts == nil {
		opts = &FileOptions{}
	}
	if opts.InPlace && opts.OutputName != "" {
		return nil, errors.New("in-place apply cannot write to a separate output")
	}
	log := opts.logger()

	if !fileExists(targetPath) {
		return nil, fmt.Errorf("target file not found: %s", targetPath)
	}

	patches := make([]*Patch, len(patchPaths))
	for i, path := range patchPaths {
		p, err := LoadPatch(path)
		if err != nil {
			return nil, err
		}
		patches[i] = p
	}

	res := &Result{InPlace: opts.InPlace}
	for i, p := range patches {
		res.Patches = append(res.Patches, p.Stats())
		if n := len(p.Overlaps()); n > 0 {
			log.Warn("patch contains overlapping records; later records win",
				"patch", patchPaths[i], "overlaps", n)
		}
		for j := i + 1; j < len(patches); j++ {
			if c := Conflicts(p, patches[j]); len(c) > 0 {
				log.Warn("patches overlap; later patch wins",
					"first", patchPaths[i], "second", patchPaths[j], "records", len(c))
				res.Conflicts = append(res.Conflicts, PatchConflict{
					First:     patchPaths[i],
					Second:    patchPaths[j],
					Conflicts: c,
				})
			}
		}
	}

	st, err := os.Stat(targetPath)
	if err != nil {
		return nil, err
	}
	for i, p := range patches {
		if err := checkBounds(p.records, int(st.Size())); err != nil {
			return nil, fmt.Errorf("patch %s does not fit %s: %w", patchPaths[i], targetPath, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.CreateBackup {
		res.Backup = targetPath + ".bak"
		if err := copyFile(targetPath, res.Backup); err != nil {
			return nil, fmt.Errorf("failed to create backup at %s: %w", res.Backup, err)
		}
		log.Debug("backup created", "path", res.Backup)
	}

	if opts.InPlace {
		return res, applyInPlace(ctx, patches, targetPath, opts, res)
	}
	return res, applyCopy(patches, targetPath, opts, res)
}

func applyCopy(patches []*Patch, targetPath string, opts *FileOptions, res *Result) error {
	log := opts.logger()

	t, err := LoadTarget(targetPath)
	if err != nil {
		return err
	}
	for _, p := range patches {
		if err := p.ApplyWithOptions(t, &ApplyOptions{Logger: log}); err != nil {
			return err
		}
	}

	res.Output = targetPath
	if opts.OutputName != "" {
		res.Output = t.OutputPath(opts.OutputName)
	}
	if err := t.Save(res.Output); err != nil {
		return err
	}
	log.Info("patched image written", "path", res.Output, "bytes", t.Len())
	return nil
}

func applyInPlace(ctx context.Context, patches []*Patch, targetPath string, opts *FileOptions, res *Result) error {
	log := opts.logger()

	im, err := image.Open(targetPath)
	if err != nil {
		return fmt.Errorf("failed to open %s for writing: %w", targetPath, err)
	}
	defer im.Close()
	log.Debug("target opened", "path", im.Path(), "size", im.Size(), "mapped", im.Mapped())

	if err := im.Prefault(); err != nil {
		return err
	}
	data := im.Bytes()
	sets := make([][]Record, len(patches))
	for i, p := range patches {
		recs, err := p.release()
		if err != nil {
			return err
		}
		// The file may have changed size since the pre-check.
		if err := checkBounds(recs, len(data)); err != nil {
			return err
		}
		sets[i] = recs
	}

	// Last point at which cancellation leaves the target untouched.
	if err := ctx.Err(); err != nil {
		return err
	}

	tracker := dirty.NewTracker(im)
	for _, recs := range sets {
		writeRecords(data, recs, tracker, log)
	}

	res.Output = targetPath
	res.Dirty = tracker.Ranges()
	log.Debug("records written", "path", im.Path(), "writes", tracker.Len(), "ranges", len(res.Dirty))

	mode := dirty.FlushAuto
	if opts.FullSync {
		mode = dirty.FlushFull
	}
	// The mapping already holds the patched bytes; a partial flush would leave
	// the file in an unknown state, so the flush ignores cancellation.
	if err := tracker.Flush(context.WithoutCancel(ctx), mode); err != nil {
		return fmt.Errorf("failed to flush %s: %w", im.Path(), err)
	}
	log.Info("patched image flushed", "path", im.Path(), "ranges", len(res.Dirty), "mode", mode.String())
	return im.Close()
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
