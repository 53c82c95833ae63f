package deltabp

import (
	"io"
	"math/bits"

	"github.com/Akron/deltabp-go/internal/bitpack"
	"github.com/Akron/deltabp-go/internal/varint"
)

// EncodeI32 writes values to w as a DELTA_BINARY_PACKED page.
//
// It writes zero bytes when values is empty. Otherwise it writes the
// page header (block size, miniblock count, total value count, and the
// zig-zagged first value) followed by zero or more block records.
// blockSize and miniblockSize must satisfy the invariants checked by
// validateConfig; violating them is a programmer error reported via
// InvalidConfig before anything is written. Any failure from w surfaces
// wrapped in SinkError.
func EncodeI32(w io.Writer, values []int32, blockSize, miniblockSize int) error {
	if err := validateConfig(blockSize, miniblockSize); err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}

	miniblockCount := blockSize / miniblockSize
	sink := &sinkWriter{w: w}

	var hdr []byte
	hdr = varint.AppendUvarint(hdr, uint64(blockSize))
	hdr = varint.AppendUvarint(hdr, uint64(miniblockCount))
	hdr = varint.AppendUvarint(hdr, uint64(len(values)))
	hdr = varint.AppendZigZag32(hdr, values[0])
	sink.write(hdr)

	if len(values) > 1 {
		buf := make([]int32, 0, blockSize)
		var minDelta int32
		prev := values[0]
		for _, v := range values[1:] {
			delta := v - prev // wraps on overflow, matching two's-complement arithmetic
			prev = v
			if len(buf) == 0 || delta < minDelta {
				minDelta = delta
			}
			buf = append(buf, delta)
			if len(buf) == blockSize {
				flushBlockI32(sink, buf, minDelta, miniblockCount, miniblockSize)
				buf = buf[:0]
			}
		}
		if len(buf) > 0 {
			flushBlockI32(sink, buf, minDelta, miniblockCount, miniblockSize)
		}
	}

	if sink.err != nil {
		return &SinkError{Err: sink.err}
	}
	return nil
}

// flushBlockI32 emits one block record for a (possibly partial) buffer
// of deltas. bitWidths for miniblocks past the end of buf are left at
// their zero value; an implementation is free to emit zero bytes for
// unused miniblocks, since decoders never read past totalValueCount.
func flushBlockI32(sink *sinkWriter, deltas []int32, minDelta int32, miniblockCount, miniblockSize int) {
	sink.write(varint.AppendZigZag32(nil, minDelta))

	n := len(deltas)
	adjusted := make([]uint32, n)
	for i, d := range deltas {
		adjusted[i] = uint32(d - minDelta)
	}

	bitWidths := make([]byte, miniblockCount)
	for m := 0; m < miniblockCount; m++ {
		start := m * miniblockSize
		if start >= n {
			continue
		}
		end := start + miniblockSize
		if end > n {
			end = n
		}
		var max uint32
		for _, v := range adjusted[start:end] {
			if v > max {
				max = v
			}
		}
		bitWidths[m] = byte(bits.Len32(max))
	}
	sink.write(bitWidths)

	var scratch [8]uint64
	out := make([]byte, 32) // bitWidth <= 32, so 32 bytes always suffices
	for m := 0; m < miniblockCount; m++ {
		bw := int(bitWidths[m])
		if bw == 0 {
			continue
		}
		start := m * miniblockSize
		end := start + miniblockSize
		if end > n {
			end = n
		}
		for off := start; off < start+miniblockSize; off += 8 {
			for k := 0; k < 8; k++ {
				idx := off + k
				if idx < end {
					scratch[k] = uint64(adjusted[idx])
				}
				// idx >= end: leave scratch[k] as whatever the previous
				// pack left there. Those bits lie past totalValueCount
				// and decoders never read them back out.
			}
			bitpack.Pack8ValuesLE(&scratch, out, bw)
			sink.write(out[:bw])
		}
	}
}

