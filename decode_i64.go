package deltabp

import (
	"github.com/Akron/deltabp-go/internal/bitpack"
	"github.com/Akron/deltabp-go/internal/varint"
)

// DecodeI64 is DecodeI32 for 64-bit values. See DecodeI32 for the full
// contract.
func DecodeI64(src []byte, dst []int64) (produced, consumed int, err error) {
	if len(src) == 0 {
		return 0, 0, nil
	}

	pos := 0

	blockSize, n := readUvarintInt(src[pos:])
	if n <= 0 {
		return 0, pos, &Malformed{Offset: pos, Reason: "reading block size"}
	}
	pos += n

	miniblockCount, n := readUvarintInt(src[pos:])
	if n <= 0 {
		return 0, pos, &Malformed{Offset: pos, Reason: "reading miniblock count"}
	}
	pos += n

	totalValueCount, n := readUvarintInt(src[pos:])
	if n <= 0 {
		return 0, pos, &Malformed{Offset: pos, Reason: "reading total value count"}
	}
	pos += n

	firstValue, n := varint.ZigZag64(src[pos:])
	if n <= 0 {
		return 0, pos, &Malformed{Offset: pos, Reason: "reading first value"}
	}
	pos += n

	if totalValueCount == 0 {
		return 0, pos, nil
	}
	if len(dst) > 0 {
		dst[0] = firstValue
		produced = 1
	}
	if totalValueCount == 1 || produced == len(dst) {
		return produced, pos, nil
	}
	if miniblockCount <= 0 || blockSize <= 0 || blockSize%miniblockCount != 0 {
		return produced, pos, &Malformed{Offset: pos, Reason: "blockSize is not a multiple of miniblockCount"}
	}
	miniblockSize := blockSize / miniblockCount

	current := firstValue
	var raw [8]uint64

	for produced < totalValueCount && produced < len(dst) && pos < len(src) {
		minDelta, n := varint.ZigZag64(src[pos:])
		if n <= 0 {
			break // truncated block header: stop and return what we have
		}
		pos += n

		avail := len(src) - pos
		readCount := miniblockCount
		if avail < readCount {
			readCount = avail
		}
		bitWidths := make([]byte, miniblockCount)
		copy(bitWidths, src[pos:pos+readCount])
		pos += readCount

		for m := 0; m < miniblockCount; m++ {
			if produced == totalValueCount || produced == len(dst) {
				break
			}
			bw := int(bitWidths[m])
			if bw > 64 {
				return produced, pos, &Malformed{Offset: pos, Reason: "bit width exceeds 64"}
			}

			if bw == 0 {
				for i := 0; i < miniblockSize && produced < totalValueCount && produced < len(dst); i++ {
					dst[produced] = current
					produced++
					current += minDelta
				}
				continue
			}

			vi := 0
			for vi < miniblockSize {
				if pos+bw > len(src) {
					return produced, pos, nil // truncated miniblock body
				}
				bitpack.Unpack8ValuesLE(src[pos:pos+bw], &raw, bw)
				pos += bw
				for k := 0; k < 8 && vi < miniblockSize; k++ {
					if produced < totalValueCount && produced < len(dst) {
						dst[produced] = current
						produced++
						current += minDelta + int64(raw[k])
					}
					vi++
				}
			}
		}
	}

	return produced, pos, nil
}
