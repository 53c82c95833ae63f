package deltabp

import (
	"io"
	"math/bits"

	"github.com/Akron/deltabp-go/internal/bitpack"
	"github.com/Akron/deltabp-go/internal/varint"
)

// EncodeI64 is EncodeI32 for 64-bit values. See EncodeI32 for the
// contract; the two are kept as separate, concretely-typed
// implementations rather than one generic function.
func EncodeI64(w io.Writer, values []int64, blockSize, miniblockSize int) error {
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
	hdr = varint.AppendZigZag64(hdr, values[0])
	sink.write(hdr)

	if len(values) > 1 {
		buf := make([]int64, 0, blockSize)
		var minDelta int64
		prev := values[0]
		for _, v := range values[1:] {
			delta := v - prev // wraps on overflow, matching two's-complement arithmetic
			prev = v
			if len(buf) == 0 || delta < minDelta {
				minDelta = delta
			}
			buf = append(buf, delta)
			if len(buf) == blockSize {
				flushBlockI64(sink, buf, minDelta, miniblockCount, miniblockSize)
				buf = buf[:0]
			}
		}
		if len(buf) > 0 {
			flushBlockI64(sink, buf, minDelta, miniblockCount, miniblockSize)
		}
	}

	if sink.err != nil {
		return &SinkError{Err: sink.err}
	}
	return nil
}

// flushBlockI64 is flushBlockI32 for 64-bit deltas.
func flushBlockI64(sink *sinkWriter, deltas []int64, minDelta int64, miniblockCount, miniblockSize int) {
	sink.write(varint.AppendZigZag64(nil, minDelta))

	n := len(deltas)
	adjusted := make([]uint64, n)
	for i, d := range deltas {
		adjusted[i] = uint64(d - minDelta)
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
		var max uint64
		for _, v := range adjusted[start:end] {
			if v > max {
				max = v
			}
		}
		bitWidths[m] = byte(bits.Len64(max))
	}
	sink.write(bitWidths)

	var scratch [8]uint64
	out := make([]byte, 64) // bitWidth <= 64, so 64 bytes always suffices
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
					scratch[k] = adjusted[idx]
				}
			}
			bitpack.Pack8ValuesLE(&scratch, out, bw)
			sink.write(out[:bw])
		}
	}
}
