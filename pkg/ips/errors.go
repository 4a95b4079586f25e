package ips

import (
	"errors"

	"github.com/joshuapare/ipskit/internal/format"
)

// Sentinel errors. Decode and Apply errors wrap exactly one of the format
// sentinels; use errors.Is to classify them.
var (
	ErrMissingHeader       = format.ErrMissingHeader
	ErrInvalidHeader       = format.ErrInvalidHeader
	ErrTruncatedRecord     = format.ErrTruncatedRecord
	ErrInvalidRecordLength = format.ErrInvalidRecordLength
	ErrOutOfBounds         = format.ErrOutOfBounds
	ErrOffsetRange         = format.ErrOffsetRange
	ErrReservedOffset      = format.ErrReservedOffset

	// ErrSizeMismatch indicates Diff inputs of different lengths.
	ErrSizeMismatch = errors.New("ips: images differ in size")
	// ErrPatchConsumed indicates a patch was used after Apply released it.
	ErrPatchConsumed = errors.New("ips: patch already applied")
)

// RecordError describes a record field that could not be read in full.
type RecordError = format.RecordError

// BoundsError describes a record whose byte range does not fit the target.
type BoundsError = format.BoundsError
