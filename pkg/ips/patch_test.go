package ips_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ipskit/pkg/ips"
)

// patchBytes frames the given record encodings with the magic tag and terminator.
func patchBytes(records ...[]byte) []byte {
	b := []byte("PATCH")
	for _, r := range records {
		b = append(b, r...)
	}
	return append(b, "EOF"...)
}

func TestDecodeLiteralScenario(t *testing.T) {
	p, err := ips.Decode(patchBytes([]byte{0x00, 0x00, 0x10, 0x00, 0x04, 0xAA, 0xBB, 0xCC, 0xDD}))
	require.NoError(t, err)
	require.Equal(t, 1, p.Len())

	rec := p.Records()[0]
	assert.Equal(t, ips.KindLiteral, rec.Kind)
	assert.Equal(t, uint32(16), rec.Offset)
	assert.Equal(t, 4, rec.Len())
	assert.Equal(t, 0, p.Trailing())
}

func TestDecodeZeroRecords(t *testing.T) {
	p, err := ips.Decode([]byte("PATCHEOF"))
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())
	assert.Empty(t, p.Records())
	assert.Equal(t, "header: PATCH, records: 0, eof: EOF", p.String())
}

func TestDecodeHeaderErrors(t *testing.T) {
	for _, in := range [][]byte{nil, []byte("PAT"), []byte("PATC")} {
		_, err := ips.Decode(in)
		assert.ErrorIs(t, err, ips.ErrMissingHeader, "input %q", in)
	}

	for _, in := range [][]byte{[]byte("patchEOF"), []byte("XXXXXEOF"), {0xFF, 0xFE, 0x00, 0x01, 0x02}} {
		_, err := ips.Decode(in)
		assert.ErrorIs(t, err, ips.ErrInvalidHeader, "input %q", in)
		assert.False(t, errors.Is(err, ips.ErrMissingHeader))
	}
}

func TestDecodeTruncatedAfterRecord(t *testing.T) {
	in := append([]byte("PATCH"), 0x00, 0x00, 0x00, 0x00, 0x02, 0x01, 0x02)

	p, err := ips.Decode(in)
	require.Nil(t, p, "no partial patch on error")
	require.ErrorIs(t, err, ips.ErrTruncatedRecord)

	var re *ips.RecordError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "offset", re.Field)
	assert.Equal(t, len(in), re.Pos)
	assert.Contains(t, err.Error(), "decode record 1")
}

func TestDecodeShortPayload(t *testing.T) {
	_, err := ips.Decode(append([]byte("PATCH"), 0x00, 0x00, 0x00, 0x00, 0x08, 0x01))
	require.ErrorIs(t, err, ips.ErrInvalidRecordLength)
	require.ErrorIs(t, err, ips.ErrTruncatedRecord)

	var re *ips.RecordError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "payload", re.Field)
	assert.Equal(t, 8, re.Want)
	assert.Equal(t, 1, re.Have)
}

func TestDecodeMissingTerminator(t *testing.T) {
	_, err := ips.Decode([]byte("PATCH"))
	require.ErrorIs(t, err, ips.ErrTruncatedRecord)
}

func TestDecodeTrailingBytes(t *testing.T) {
	in := append(patchBytes(), 0x12, 0x34, 0x56)
	p, err := ips.Decode(in)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Trailing())

	out, err := p.Encode()
	require.NoError(t, err)
	assert.Equal(t, in[:len(in)-3], out)
}

func TestEncodeRoundTrip(t *testing.T) {
	cases := map[string][]byte{
		"empty":   patchBytes(),
		"literal": patchBytes([]byte{0x00, 0x00, 0x10, 0x00, 0x04, 0xAA, 0xBB, 0xCC, 0xDD}),
		"rle":     patchBytes([]byte{0x00, 0x00, 0x05, 0x00, 0x00, 0x00, 0x03, 0xFF}),
		"mixed and overlapping": patchBytes(
			[]byte{0x00, 0x00, 0x00, 0x00, 0x02, 0x01, 0x02},
			[]byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x09},
			[]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x42},
			[]byte{0xFF, 0xFF, 0xFF, 0x00, 0x01, 0x7E},
		),
	}

	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			p, err := ips.Decode(in)
			require.NoError(t, err)

			out, err := p.Encode()
			require.NoError(t, err)
			assert.True(t, bytes.Equal(in, out), "round trip mismatch:\n in: % X\nout: % X", in, out)

			m, err := p.MarshalBinary()
			require.NoError(t, err)
			assert.Equal(t, out, m)
		})
	}
}

func TestNewValidatesRecords(t *testing.T) {
	_, err := ips.New(ips.Literal(ips.ReservedOffset, []byte{1}))
	assert.ErrorIs(t, err, ips.ErrReservedOffset)

	_, err = ips.New(ips.Literal(ips.MaxOffset+1, []byte{1}))
	assert.ErrorIs(t, err, ips.ErrOffsetRange)

	_, err = ips.New(ips.Literal(0, nil))
	assert.ErrorIs(t, err, ips.ErrInvalidRecordLength)

	p, err := ips.New(ips.Literal(16, []byte{0xAA}), ips.RunLength(32, 4, 0x00))
	require.NoError(t, err)
	out, err := p.Encode()
	require.NoError(t, err)

	back, err := ips.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, p.Records(), back.Records())
}

func TestRecordsReturnsCopy(t *testing.T) {
	p, err := ips.New(ips.Literal(1, []byte{1}))
	require.NoError(t, err)

	recs := p.Records()
	recs[0].Offset = 99
	assert.Equal(t, uint32(1), p.Records()[0].Offset)
}

func TestRecordsCopiesPayloads(t *testing.T) {
	raw := patchBytes([]byte{0x00, 0x00, 0x01, 0x00, 0x01, 0xAA})
	p, err := ips.Decode(raw)
	require.NoError(t, err)

	p.Records()[0].Data[0] = 0

	assert.Equal(t, []byte{0xAA}, p.Records()[0].Data)
	enc, err := p.Encode()
	require.NoError(t, err)
	assert.Equal(t, raw, enc)
}

func TestNewCopiesPayloads(t *testing.T) {
	data := []byte{1, 2, 3}
	p, err := ips.New(ips.Literal(0, data))
	require.NoError(t, err)

	data[0] = 9

	assert.Equal(t, []byte{1, 2, 3}, p.Records()[0].Data)
}

func TestStats(t *testing.T) {
	p, err := ips.New(
		ips.Literal(0, []byte{1, 2, 3, 4}),
		ips.RunLength(2, 10, 0xFF),
		ips.Literal(100, []byte{9}),
	)
	require.NoError(t, err)

	s := p.Stats()
	assert.Equal(t, 3, s.Records)
	assert.Equal(t, 2, s.Literal)
	assert.Equal(t, 1, s.RunLength)
	assert.Equal(t, int64(15), s.BytesWritten)
	assert.Equal(t, int64(101), s.MinTargetSize)
	assert.Equal(t, 1, s.Overlaps)

	out, err := p.Encode()
	require.NoError(t, err)
	assert.Equal(t, len(out), s.EncodedSize)
}
