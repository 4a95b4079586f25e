/*
Package ips decodes, encodes, creates, and applies IPS binary patches.

An IPS patch is the five-byte tag "PATCH", a stream of records, and the
three-byte terminator "EOF". Each record overwrites a byte range of the target
image, either with literal bytes or with one byte repeated (run-length). The
format never inserts, deletes, or resizes.

# Quick Start

Apply a patch file to a ROM, writing game-patched.sfc next to it:

	res, err := ips.ApplyFile(ctx, "fix.ips", "game.sfc", &ips.FileOptions{
	    OutputName: "game-patched",
	})

# Working With Buffers

	p, err := ips.Decode(patchBytes)
	if err != nil {
	    return err // ErrMissingHeader, ErrInvalidHeader, ErrTruncatedRecord, ...
	}
	t := ips.NewTarget(romBytes, "sfc")
	if err := p.Apply(t); err != nil {
	    return err // ErrOutOfBounds; t.Data is unchanged
	}

A Patch is consumed by Apply: its records are released and any later Apply or
Encode returns ErrPatchConsumed.

# Ordering

Records are applied strictly in the order they were decoded. When two records
overlap, the later one wins for the shared bytes. Overlaps reports such pairs
so callers can warn about them.

# Creating Patches

	p, err := ips.Diff(original, modified, nil)
	b, err := p.Encode()

# Error Handling

Every error wraps one of the exported sentinels, so errors.Is works across the
package. Record framing problems carry a *RecordError naming the field and the
byte position in the patch; range problems carry a *BoundsError naming the
record index, offset, and length.
*/
package ips
