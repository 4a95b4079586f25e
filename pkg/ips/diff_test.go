package ips_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ipskit/pkg/ips"
)

// roundTrip diffs, encodes, decodes, and applies, returning the patched copy
// of original and the decoded patch's records.
func roundTrip(t *testing.T, original, modified []byte, opts *ips.DiffOptions) ([]byte, []ips.Record) {
	t.Helper()
	p, err := ips.Diff(original, modified, opts)
	require.NoError(t, err)

	enc, err := p.Encode()
	require.NoError(t, err)
	back, err := ips.Decode(enc)
	require.NoError(t, err)
	recs := back.Records()

	out := append([]byte(nil), original...)
	require.NoError(t, back.Apply(ips.NewTarget(out, "")))
	return out, recs
}

func TestDiffIdentical(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	p, err := ips.Diff(data, data, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())

	enc, err := p.Encode()
	require.NoError(t, err)
	assert.Equal(t, []byte("PATCHEOF"), enc)
}

func TestDiffSizeMismatch(t *testing.T) {
	_, err := ips.Diff(make([]byte, 4), make([]byte, 5), nil)
	assert.ErrorIs(t, err, ips.ErrSizeMismatch)
}

func TestDiffNegativeMaxGapDisablesMerging(t *testing.T) {
	original := make([]byte, 16)
	modified := append([]byte(nil), original...)
	modified[4] = 1
	modified[6] = 2

	out, recs := roundTrip(t, original, modified, &ips.DiffOptions{MaxGap: -1})
	assert.Equal(t, modified, out)
	require.Len(t, recs, 2)
	assert.Equal(t, []byte{1}, recs[0].Data)
	assert.Equal(t, uint32(6), recs[1].Offset)

	_, recs = roundTrip(t, original, modified, &ips.DiffOptions{MaxGap: 0})
	require.Len(t, recs, 1, "zero selects the default gap")
}

func TestDiffMergesSmallGaps(t *testing.T) {
	original := make([]byte, 64)
	modified := append([]byte(nil), original...)
	modified[10] = 1
	modified[13] = 2 // gap of 2 unchanged bytes: merged
	modified[40] = 3 // gap of 26: new record

	out, recs := roundTrip(t, original, modified, nil)
	assert.Equal(t, modified, out)
	require.Len(t, recs, 2)
	assert.Equal(t, uint32(10), recs[0].Offset)
	assert.Equal(t, []byte{1, 0, 0, 2}, recs[0].Data)
	assert.Equal(t, uint32(40), recs[1].Offset)
}

func TestDiffEmitsRunLength(t *testing.T) {
	original := make([]byte, 128)
	modified := append([]byte(nil), original...)
	copy(modified[32:], bytes.Repeat([]byte{0xFF}, 20))

	out, recs := roundTrip(t, original, modified, nil)
	assert.Equal(t, modified, out)
	require.Len(t, recs, 1)
	assert.Equal(t, ips.KindRunLength, recs[0].Kind)
	assert.Equal(t, uint16(20), recs[0].Count)
	assert.Equal(t, byte(0xFF), recs[0].Value)

	_, recs = roundTrip(t, original, modified, &ips.DiffOptions{MinRunLength: 64})
	require.Len(t, recs, 1)
	assert.Equal(t, ips.KindLiteral, recs[0].Kind)
}

func TestDiffSplitsLongRuns(t *testing.T) {
	n := ips.MaxPayloadSize*2 + 100
	original := make([]byte, n)
	modified := make([]byte, n)
	for i := range modified {
		modified[i] = byte(i%251) + 1
	}

	out, recs := roundTrip(t, original, modified, nil)
	assert.Equal(t, modified, out)
	require.Len(t, recs, 3)
	for _, r := range recs {
		assert.LessOrEqual(t, r.Len(), ips.MaxPayloadSize)
	}
}

func TestDiffAvoidsReservedOffset(t *testing.T) {
	n := ips.ReservedOffset + 16
	original := make([]byte, n)
	modified := make([]byte, n)
	modified[ips.ReservedOffset] = 0x42
	modified[ips.ReservedOffset+1] = 0x43

	out, recs := roundTrip(t, original, modified, nil)
	assert.True(t, bytes.Equal(modified, out))
	require.Len(t, recs, 1)
	assert.Equal(t, uint32(ips.ReservedOffset-1), recs[0].Offset)
	assert.Equal(t, []byte{0x00, 0x42, 0x43}, recs[0].Data)
}

func TestDiffRandomRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	original := make([]byte, 1<<14)
	rng.Read(original)

	for iter := 0; iter < 20; iter++ {
		modified := append([]byte(nil), original...)
		for k := 0; k < 50; k++ {
			off := rng.Intn(len(modified))
			n := rng.Intn(40)
			if rng.Intn(3) == 0 {
				v := byte(rng.Intn(256))
				for i := off; i < off+n && i < len(modified); i++ {
					modified[i] = v
				}
				continue
			}
			for i := off; i < off+n && i < len(modified); i++ {
				modified[i] = byte(rng.Intn(256))
			}
		}

		out, _ := roundTrip(t, original, modified, nil)
		require.Equal(t, modified, out, "iteration %d", iter)
	}
}
