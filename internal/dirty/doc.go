// Package dirty provides page-level dirty tracking for in-place patching of
// memory-mapped target images.
//
// # Overview
//
// Every record written into a mapped image marks its byte range dirty. At
// flush time the ranges are rounded out to page boundaries, sorted, and
// merged, so one msync call covers each contiguous run of modified pages.
//
// # Usage
//
//	im, _ := image.Open("game.sfc")
//	defer im.Close()
//	tracker := dirty.NewTracker(im)
//
//	// after writing a record at 0x5000
//	tracker.Add(0x5000, 128)
//
//	if err := tracker.Flush(ctx, dirty.FlushAuto); err != nil {
//	    return err
//	}
//
// # Range Coalescing
//
// Consecutive dirty pages are merged into single ranges:
//
//	Dirty pages: [0, 1, 2, 5, 6] → Ranges: [0x0-0x3000, 0x5000-0x7000]
//
// # Platforms
//
// On linux and freebsd each coalesced range is flushed with msync and the
// descriptor with fdatasync. On darwin the whole mapping is msynced and
// FlushFull upgrades the final sync to F_FULLFSYNC. Elsewhere the image is a
// heap buffer, so the ranges are written back with WriteAt and the file is
// fsynced.
//
// # Thread Safety
//
// Tracker instances are not thread-safe.
package dirty
