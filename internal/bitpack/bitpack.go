// Package bitpack implements the little-endian 8-value bit-packing
// primitive that Parquet's DELTA_BINARY_PACKED and plain bit-packed
// encodings both build on: pack (or unpack) exactly 8 integers into (or
// out of) bitWidth bytes, with values occupying consecutive bit
// positions starting at bit 0 of the first byte.
//
// The addressing follows the scheme a DELTA_BINARY_PACKED decoder needs
// for bit index i of value k: byte = (k*bitWidth+i)/8, bitInByte =
// (k*bitWidth+i)%8.
package bitpack

// MaxWidth is the largest bit width this package supports, matching the
// 64-bit lane width DecodeI64/EncodeI64 operate on.
const MaxWidth = 64

// Pack8ValuesLE packs the 8 values of src into dst[:bitWidth], each value
// occupying bitWidth consecutive bits starting where the previous value's
// bits ended. dst must have length >= bitWidth. Only the low bitWidth
// bits of each src value are packed; higher bits are ignored, so stale
// lanes left over from a wider miniblock cannot spill into other lanes.
//
// bitWidth == 0 packs nothing: dst is untouched and the values are
// implicitly all zero on unpack.
func Pack8ValuesLE(src *[8]uint64, dst []byte, bitWidth int) {
	if bitWidth == 0 {
		return
	}
	out := dst[:bitWidth]
	for i := range out {
		out[i] = 0
	}
	for k, v := range src {
		base := k * bitWidth
		for b := 0; b < bitWidth; b++ {
			if v&(1<<uint(b)) == 0 {
				continue
			}
			pos := base + b
			out[pos/8] |= 1 << uint(pos%8)
		}
	}
}

// Unpack8ValuesLE unpacks bitWidth bytes of src into the 8 values of dst.
// src must have length >= bitWidth. bitWidth == 0 writes all zeros.
func Unpack8ValuesLE(src []byte, dst *[8]uint64, bitWidth int) {
	if bitWidth == 0 {
		for k := range dst {
			dst[k] = 0
		}
		return
	}
	in := src[:bitWidth]
	for k := range dst {
		base := k * bitWidth
		var v uint64
		for b := 0; b < bitWidth; b++ {
			pos := base + b
			bit := (in[pos/8] >> uint(pos%8)) & 1
			v |= uint64(bit) << uint(b)
		}
		dst[k] = v
	}
}
