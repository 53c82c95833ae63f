// Package deltabp implements a bit-exact codec for Parquet's
// DELTA_BINARY_PACKED integer encoding.
//
// The encoding compresses monotonic-friendly streams of signed 32- or
// 64-bit integers (timestamps, row keys, run lengths) by storing the
// first value verbatim and every later value as a bit-packed delta from
// its predecessor. Deltas are grouped into fixed-capacity blocks; each
// block carries one minimum delta and is split into miniblocks that each
// pick their own bit width, so runs of near-constant deltas collapse to
// a handful of bytes.
//
// EncodeI32/EncodeI64 and DecodeI32/DecodeI64 are the codec's entry
// points; PageReaderI32/PageReaderI64 add random access over a page
// decoded with them. Both codec directions are pure, synchronous, and allocate only buffers
// scoped to the call: there is no package-level mutable state, so
// distinct calls on distinct inputs/outputs are safe to run
// concurrently. The wire format is produced and consumed exactly as
// specified for Parquet, so output from this package decodes correctly
// in any other conforming Parquet implementation and vice versa.
//
// This package does not implement the Parquet file container, page
// compression, or schema machinery; it is the column-encoding primitive
// those layers call into.
package deltabp
