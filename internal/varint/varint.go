// Package varint implements the two LEB128 variants that the
// DELTA_BINARY_PACKED wire format relies on: plain unsigned LEB128
// (ULEB128) for counts, and zig-zag signed LEB128 for values that can be
// negative (minDelta, the first value in a page).
//
// The unsigned codec is a thin wrapper around encoding/binary's
// Uvarint/AppendUvarint. The zig-zag transform is the standard
// (n<<1)^(n>>(W-1)) mapping, implemented for both 32- and 64-bit widths.
package varint

import "encoding/binary"

// AppendUvarint appends the ULEB128 encoding of v to dst and returns the
// extended slice.
func AppendUvarint(dst []byte, v uint64) []byte {
	return binary.AppendUvarint(dst, v)
}

// Uvarint decodes a ULEB128 value from the front of buf. It mirrors
// encoding/binary.Uvarint's contract: n == 0 means buf is too short to
// hold a complete value, n < 0 means the value overflowed 64 bits (the
// encoding consumed more than the 10 bytes a uint64 can need).
func Uvarint(buf []byte) (v uint64, n int) {
	return binary.Uvarint(buf)
}

// AppendZigZag32 zig-zag encodes v and appends its ULEB128 form to dst.
func AppendZigZag32(dst []byte, v int32) []byte {
	return binary.AppendUvarint(dst, uint64(zigzagEncode32(v)))
}

// ZigZag32 decodes a zig-zag ULEB128-encoded int32 from the front of buf.
func ZigZag32(buf []byte) (v int32, n int) {
	u, n := binary.Uvarint(buf)
	if n <= 0 {
		return 0, n
	}
	return zigzagDecode32(uint32(u)), n
}

// AppendZigZag64 zig-zag encodes v and appends its ULEB128 form to dst.
func AppendZigZag64(dst []byte, v int64) []byte {
	return binary.AppendUvarint(dst, zigzagEncode64(v))
}

// ZigZag64 decodes a zig-zag ULEB128-encoded int64 from the front of buf.
func ZigZag64(buf []byte) (v int64, n int) {
	u, n := binary.Uvarint(buf)
	if n <= 0 {
		return 0, n
	}
	return zigzagDecode64(u), n
}

// zigzagEncode32 maps a signed 32-bit integer to an unsigned one so that
// values of small magnitude (positive or negative) encode to small
// ULEB128 byte counts: (n << 1) ^ (n >> 31).
func zigzagEncode32(v int32) uint32 {
	return uint32(uint32(v<<1) ^ uint32(v>>31))
}

// zigzagDecode32 reverses zigzagEncode32.
func zigzagDecode32(v uint32) int32 {
	return int32((v >> 1) ^ uint32(-(int32(v & 1))))
}

// zigzagEncode64 is zigzagEncode32 widened to 64 bits.
func zigzagEncode64(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}

// zigzagDecode64 reverses zigzagEncode64.
func zigzagDecode64(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}
