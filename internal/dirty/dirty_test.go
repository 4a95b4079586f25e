package dirty

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ipskit/internal/image"
)

// setupTestImage creates a zero-filled image of n pages and opens it.
func setupTestImage(t testing.TB, pages int) (*image.Image, func()) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.rom")
	data := make([]byte, pages*os.Getpagesize())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write test image: %v", err)
	}

	im, err := image.Open(path)
	if err != nil {
		t.Fatalf("Failed to open test image: %v", err)
	}
	return im, func() { im.Close() }
}

func TestTracker_PageAlignment(t *testing.T) {
	im, cleanup := setupTestImage(t, 4)
	defer cleanup()
	ps := int64(os.Getpagesize())

	tracker := NewTracker(im)
	tracker.Add(100, 200)

	ranges := tracker.Ranges()
	require.Len(t, ranges, 1)
	assert.Equal(t, int64(0), ranges[0].Off)
	assert.Equal(t, ps, ranges[0].Len)
}

func TestTracker_CoalesceAdjacentAndOverlapping(t *testing.T) {
	im, cleanup := setupTestImage(t, 8)
	defer cleanup()
	ps := os.Getpagesize()

	tracker := NewTracker(im)
	tracker.Add(ps, ps)      // page 1
	tracker.Add(2*ps, ps)    // page 2, adjacent
	tracker.Add(2*ps+10, 20) // inside page 2
	tracker.Add(5*ps+1, ps)  // pages 5-6
	tracker.Add(0, 0)        // ignored

	assert.Equal(t, 4, tracker.Len())
	ranges := tracker.Ranges()
	require.Len(t, ranges, 2)
	assert.Equal(t, Range{Off: int64(ps), Len: int64(2 * ps)}, ranges[0])
	assert.Equal(t, Range{Off: int64(5 * ps), Len: int64(2 * ps)}, ranges[1])
}

func TestTracker_ClampsToImageSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odd.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 100), 0o644))
	im, err := image.Open(path)
	require.NoError(t, err)
	defer im.Close()

	tracker := NewTracker(im)
	tracker.Add(90, 10)

	ranges := tracker.Ranges()
	require.Len(t, ranges, 1)
	assert.Equal(t, int64(100), ranges[0].End())
}

func TestTracker_FlushPersists(t *testing.T) {
	im, cleanup := setupTestImage(t, 2)
	defer cleanup()

	tracker := NewTracker(im)
	copy(im.Bytes()[10:], []byte{0xDE, 0xAD})
	tracker.Add(10, 2)

	require.NoError(t, tracker.Flush(context.Background(), FlushAuto))
	assert.Equal(t, 0, tracker.Len())

	got, err := os.ReadFile(im.Path())
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD}, got[10:12])
}

func TestTracker_FlushModes(t *testing.T) {
	for _, mode := range []FlushMode{FlushAuto, FlushDataOnly, FlushFull} {
		t.Run(mode.String(), func(t *testing.T) {
			im, cleanup := setupTestImage(t, 1)
			defer cleanup()

			tracker := NewTracker(im)
			tracker.Add(0, 1)
			require.NoError(t, tracker.Flush(context.Background(), mode))
		})
	}
}

func TestTracker_Reset(t *testing.T) {
	im, cleanup := setupTestImage(t, 1)
	defer cleanup()

	tracker := NewTracker(im)
	tracker.Add(0, 1)
	tracker.Reset()
	assert.Equal(t, 0, tracker.Len())
	assert.Nil(t, tracker.Ranges())
}
