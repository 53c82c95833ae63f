package deltabp

import (
	"bytes"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// -----------------------------------------------------------------------------
// Boundary properties
// -----------------------------------------------------------------------------

func TestEncodeEmptyWritesNoBytes(t *testing.T) {
	var buf bytes.Buffer
	err := EncodeI32(&buf, nil, 128, 32)
	assert.NoError(t, err)
	assert.Equal(t, 0, buf.Len())
}

func TestDecodeEmptyInputReturnsZero(t *testing.T) {
	produced, consumed, err := DecodeI32(nil, make([]int32, 4))
	assert.NoError(t, err)
	assert.Equal(t, 0, produced)
	assert.Equal(t, 0, consumed)
}

func TestEncodeSingleValueWritesHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, EncodeI32(&buf, []int32{1000}, 128, 32))

	dst := make([]int32, 1)
	produced, consumed, err := DecodeI32(buf.Bytes(), dst)
	assert.NoError(t, err)
	assert.Equal(t, 1, produced)
	assert.Equal(t, buf.Len(), consumed)
	assert.Equal(t, []int32{1000}, dst)
}

func TestConstantSequenceHasZeroBitWidth(t *testing.T) {
	values := make([]int32, 10)
	var buf bytes.Buffer
	assert.NoError(t, EncodeI32(&buf, values, 8, 8))

	// header(blockSize=8,miniblockCount=1,totalValueCount=10,firstValue=0) +
	// two blocks (9 deltas, 8 per block), each: zigzag(minDelta=0) +
	// 1 bit-width byte (0) + 0 body bytes.
	dst := make([]int32, 10)
	produced, consumed, err := DecodeI32(buf.Bytes(), dst)
	assert.NoError(t, err)
	assert.Equal(t, 10, produced)
	assert.Equal(t, buf.Len(), consumed)
	assert.Equal(t, values, dst)

	// Locate each block's bit-width byte: right after the one-byte
	// zig-zag-encoded minDelta (0 encodes as a single zero byte), and
	// assert it is zero with no body bytes following.
	raw := buf.Bytes()
	// 4 header varints: blockSize=8, miniblockCount=1, totalValueCount=10,
	// firstValue(zigzag 0) -> each is a single byte since all < 128.
	headerLen := 4
	assert.Equal(t, byte(0), raw[headerLen]) // zigzag(minDelta=0) == 0
	assert.Equal(t, byte(0), raw[headerLen+1])
	assert.Equal(t, byte(0), raw[headerLen+2]) // second block: zigzag(minDelta=0)
	assert.Equal(t, byte(0), raw[headerLen+3]) // second block: bit width
	assert.Equal(t, headerLen+4, len(raw))     // no body bytes follow
}

func TestStrictlyIncreasingByConstantStepHasZeroBitWidth(t *testing.T) {
	const k = 7
	values := make([]int32, 20)
	for i := range values {
		values[i] = int32(i) * k
	}
	var buf bytes.Buffer
	assert.NoError(t, EncodeI32(&buf, values, 8, 8))

	dst := make([]int32, len(values))
	produced, consumed, err := DecodeI32(buf.Bytes(), dst)
	assert.NoError(t, err)
	assert.Equal(t, len(values), produced)
	assert.Equal(t, buf.Len(), consumed)
	assert.Equal(t, values, dst)
}

func TestMaxMagnitudeJumpsInt32(t *testing.T) {
	values := []int32{0, math.MaxInt32, math.MinInt32, 0}
	var buf bytes.Buffer
	assert.NoError(t, EncodeI32(&buf, values, 128, 32))

	dst := make([]int32, len(values))
	produced, consumed, err := DecodeI32(buf.Bytes(), dst)
	assert.NoError(t, err)
	assert.Equal(t, len(values), produced)
	assert.Equal(t, buf.Len(), consumed)
	assert.Equal(t, values, dst)
}

func TestMaxMagnitudeJumpsInt64(t *testing.T) {
	values := []int64{math.MinInt64, math.MaxInt64}
	var buf bytes.Buffer
	assert.NoError(t, EncodeI64(&buf, values, 256, 32))

	dst := make([]int64, len(values))
	produced, consumed, err := DecodeI64(buf.Bytes(), dst)
	assert.NoError(t, err)
	assert.Equal(t, len(values), produced)
	assert.Equal(t, buf.Len(), consumed)
	assert.Equal(t, values, dst)
}

// -----------------------------------------------------------------------------
// Concrete scenarios
// -----------------------------------------------------------------------------

func TestScenario1RoundTrips(t *testing.T) {
	values := []int32{7, 5, 3, 1, 2, 3, 4, 5}
	var buf bytes.Buffer
	assert.NoError(t, EncodeI32(&buf, values, 8, 8))

	dst := make([]int32, len(values))
	produced, consumed, err := DecodeI32(buf.Bytes(), dst)
	assert.NoError(t, err)
	assert.Equal(t, len(values), produced)
	assert.Equal(t, buf.Len(), consumed)
	assert.Equal(t, values, dst)
}

func TestScenario2SingleValueAnyConfig(t *testing.T) {
	for _, cfg := range []struct{ blockSize, miniblockSize int }{
		{128, 32}, {8, 8}, {256, 64},
	} {
		var buf bytes.Buffer
		assert.NoError(t, EncodeI32(&buf, []int32{1000}, cfg.blockSize, cfg.miniblockSize))
		dst := make([]int32, 1)
		produced, _, err := DecodeI32(buf.Bytes(), dst)
		assert.NoError(t, err)
		assert.Equal(t, 1, produced)
		assert.Equal(t, []int32{1000}, dst)
	}
}

func TestScenario3EmptyInputProducesEmptyStream(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, EncodeI32(&buf, []int32{}, 128, 32))
	assert.Equal(t, 0, buf.Len())
}

func TestScenario5TenZerosRoundTrip(t *testing.T) {
	values := make([]int32, 10)
	var buf bytes.Buffer
	assert.NoError(t, EncodeI32(&buf, values, 8, 8))
	dst := make([]int32, 10)
	produced, consumed, err := DecodeI32(buf.Bytes(), dst)
	assert.NoError(t, err)
	assert.Equal(t, 10, produced)
	assert.Equal(t, buf.Len(), consumed)
	assert.Equal(t, values, dst)
}

func TestScenario6Range128BlockSize128MiniBlockSize32(t *testing.T) {
	values := make([]int32, 128)
	for i := range values {
		values[i] = int32(i)
	}
	var buf bytes.Buffer
	assert.NoError(t, EncodeI32(&buf, values, 128, 32))

	dst := make([]int32, 128)
	produced, consumed, err := DecodeI32(buf.Bytes(), dst)
	assert.NoError(t, err)
	assert.Equal(t, 128, produced)
	assert.Equal(t, buf.Len(), consumed)
	assert.Equal(t, values, dst)

	// header(blockSize=128,miniblockCount=4,totalValueCount=128,firstValue=0)
	// + one block: zigzag(minDelta=1) (1 byte) + 4 bit-width bytes (all 0)
	// + 0 body bytes, since every delta equals minDelta.
	raw := buf.Bytes()
	headerLen := 6 // blockSize=128 and totalValueCount=128 need 2 bytes each (0x80,0x01); the other two fields are 1 byte each
	_ = headerLen
	// Recompute header length directly instead of hard-coding varint widths.
	var hdr []byte
	n, _ := decodeHeaderLenForTest(raw)
	hdr = raw[:n]
	_ = hdr
	assert.Equal(t, n+1+4, len(raw))
}

// decodeHeaderLenForTest walks the four header varints and returns the
// number of bytes they occupy, without depending on any unexported
// decoder internals beyond the varint package also used in production.
func decodeHeaderLenForTest(buf []byte) (int, error) {
	pos := 0
	for i := 0; i < 3; i++ {
		_, n := readUvarintInt(buf[pos:])
		if n <= 0 {
			return 0, errors.New("short header")
		}
		pos += n
	}
	_, n := readUvarintInt(buf[pos:]) // zigzag firstValue is still ULEB128-shaped
	if n <= 0 {
		return 0, errors.New("short header")
	}
	pos += n
	return pos, nil
}

// -----------------------------------------------------------------------------
// Round-trip property tests
// -----------------------------------------------------------------------------

func TestRoundTripRandomSequencesInt32(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	configs := []struct{ blockSize, miniblockSize int }{
		{128, 32}, {8, 8}, {256, 32}, {32, 8},
	}
	for _, cfg := range configs {
		for _, n := range []int{0, 1, 2, 7, 8, 9, 127, 128, 129, 500} {
			values := make([]int32, n)
			for i := range values {
				values[i] = rng.Int31() - rng.Int31()
			}
			var buf bytes.Buffer
			err := EncodeI32(&buf, values, cfg.blockSize, cfg.miniblockSize)
			assert.NoError(t, err)

			dst := make([]int32, n)
			produced, consumed, err := DecodeI32(buf.Bytes(), dst)
			assert.NoError(t, err)
			assert.Equal(t, n, produced)
			assert.Equal(t, buf.Len(), consumed)
			assert.Equal(t, values, dst)
		}
	}
}

func TestRoundTripRandomSequencesInt64(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, n := range []int{0, 1, 2, 31, 32, 33, 300} {
		values := make([]int64, n)
		for i := range values {
			values[i] = rng.Int63() - rng.Int63()
		}
		var buf bytes.Buffer
		assert.NoError(t, EncodeI64(&buf, values, 256, 32))

		dst := make([]int64, n)
		produced, consumed, err := DecodeI64(buf.Bytes(), dst)
		assert.NoError(t, err)
		assert.Equal(t, n, produced)
		assert.Equal(t, buf.Len(), consumed)
		assert.Equal(t, values, dst)
	}
}

func TestRoundTripMonotonicTimestamps(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	values := make([]int64, 1000)
	ts := int64(1_700_000_000_000)
	for i := range values {
		ts += rng.Int63n(50)
		values[i] = ts
	}
	var buf bytes.Buffer
	assert.NoError(t, EncodeI64(&buf, values, 256, 64))

	dst := make([]int64, len(values))
	produced, consumed, err := DecodeI64(buf.Bytes(), dst)
	assert.NoError(t, err)
	assert.Equal(t, len(values), produced)
	assert.Equal(t, buf.Len(), consumed)
	assert.Equal(t, values, dst)
}

// -----------------------------------------------------------------------------
// Destination shorter than the page (not fatal)
// -----------------------------------------------------------------------------

func TestDestinationSmallerThanTotalFillsWhatItCan(t *testing.T) {
	values := make([]int32, 50)
	for i := range values {
		values[i] = int32(i * 3)
	}
	var buf bytes.Buffer
	assert.NoError(t, EncodeI32(&buf, values, 8, 8))

	dst := make([]int32, 10)
	produced, _, err := DecodeI32(buf.Bytes(), dst)
	assert.NoError(t, err)
	assert.Equal(t, 10, produced)
	assert.Equal(t, values[:10], dst)
}

// -----------------------------------------------------------------------------
// InvalidConfig
// -----------------------------------------------------------------------------

func TestInvalidConfigRejectedBeforeAnyWrite(t *testing.T) {
	tests := []struct {
		name                    string
		blockSize, miniblockSize int
	}{
		{"zero block size", 0, 8},
		{"negative block size", -8, 8},
		{"zero miniblock size", 8, 0},
		{"miniblock not multiple of 8", 8, 3},
		{"block not multiple of miniblock", 10, 8},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := EncodeI32(&buf, []int32{1, 2, 3}, tc.blockSize, tc.miniblockSize)
			var ic *InvalidConfig
			assert.ErrorAs(t, err, &ic)
			assert.Equal(t, 0, buf.Len())
		})
	}
}

// -----------------------------------------------------------------------------
// Malformed
// -----------------------------------------------------------------------------

func TestDecodeMalformedTruncatedHeader(t *testing.T) {
	_, _, err := DecodeI32([]byte{0x80}, make([]int32, 4)) // continuation bit set, no following byte
	var m *Malformed
	assert.ErrorAs(t, err, &m)
}

// An empty, non-nil slice is an empty page, not a malformed header.
func TestDecodeEmptyNonNilInputReturnsZero(t *testing.T) {
	produced, consumed, err := DecodeI32([]byte{}, make([]int32, 4))
	assert.NoError(t, err)
	assert.Equal(t, 0, produced)
	assert.Equal(t, 0, consumed)
}

func TestDecodeMalformedBitWidthTooLarge(t *testing.T) {
	values := make([]int32, 16)
	var buf bytes.Buffer
	assert.NoError(t, EncodeI32(&buf, values, 8, 8))

	raw := buf.Bytes()
	headerLen, err := decodeHeaderLenForTest(raw)
	assert.NoError(t, err)
	// byte right after the zig-zag minDelta is the sole bit-width byte.
	raw[headerLen+1] = 33 // > 32, invalid for int32

	dst := make([]int32, 16)
	_, _, decErr := DecodeI32(raw, dst)
	var m *Malformed
	assert.ErrorAs(t, decErr, &m)
}

func TestDecodeMalformedBlockSizeNotMultipleOfMiniblockCount(t *testing.T) {
	var hdr []byte
	hdr = appendUvarintForTest(hdr, 10) // blockSize
	hdr = appendUvarintForTest(hdr, 3)  // miniblockCount (10 % 3 != 0)
	hdr = appendUvarintForTest(hdr, 5)  // totalValueCount
	hdr = appendUvarintForTest(hdr, 0)  // zigzag firstValue == 0

	dst := make([]int32, 5)
	_, _, err := DecodeI32(hdr, dst)
	var m *Malformed
	assert.ErrorAs(t, err, &m)
}

func appendUvarintForTest(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// -----------------------------------------------------------------------------
// SinkError
// -----------------------------------------------------------------------------

type failingWriter struct{ calls int }

func (f *failingWriter) Write(p []byte) (int, error) {
	f.calls++
	return 0, errors.New("boom")
}

func TestEncodeSinkErrorIsWrapped(t *testing.T) {
	w := &failingWriter{}
	err := EncodeI32(w, []int32{1, 2, 3}, 8, 8)
	var se *SinkError
	assert.ErrorAs(t, err, &se)
	assert.True(t, w.calls > 0)
}
