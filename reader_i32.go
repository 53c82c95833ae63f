package deltabp

import (
	"errors"
	"slices"
)

// PageReaderI32 provides random access over a fully decoded
// DELTA_BINARY_PACKED page of 32-bit values. A PageReaderI32 is not safe
// for concurrent use; create one per goroutine that needs to read the
// same page.
type PageReaderI32 struct {
	values []int32

	pos   int
	count int

	// sorted is true when every value in the page is >= its predecessor,
	// discovered once during Load by scanning the decoded values rather
	// than inferred from any encoding flag: the wire format carries no
	// such flag, since deltas may be negative.
	sorted bool

	loaded bool
}

// ErrPageNotLoaded is returned when a read operation is attempted before Load.
var ErrPageNotLoaded = errors.New("deltabp: reader not loaded")

// ErrPagePositionOutOfRange is returned by Get when pos is outside [0, Len()).
var ErrPagePositionOutOfRange = errors.New("deltabp: position out of range")

// NewPageReaderI32 creates an empty PageReaderI32 that must be loaded with
// Load before use.
func NewPageReaderI32() *PageReaderI32 {
	return &PageReaderI32{}
}

// Load decodes a single DELTA_BINARY_PACKED page from buf and resets the
// reader's position to the start. It may be called repeatedly to reuse
// the reader's backing array across pages.
func (r *PageReaderI32) Load(buf []byte) error {
	_, totalValueCount, _, err := peekHeaderI32(buf)
	if err != nil {
		return err
	}

	if cap(r.values) < totalValueCount {
		r.values = make([]int32, totalValueCount)
	} else {
		r.values = r.values[:totalValueCount]
	}

	produced, _, err := DecodeI32(buf, r.values)
	if err != nil {
		return err
	}
	r.values = r.values[:produced]

	r.sorted = true
	for i := 1; i < len(r.values); i++ {
		if r.values[i] < r.values[i-1] {
			r.sorted = false
			break
		}
	}

	r.count = len(r.values)
	r.pos = 0
	r.loaded = true
	return nil
}

// peekHeaderI32 parses just enough of buf to learn totalValueCount ahead
// of allocating a destination slice for DecodeI32.
func peekHeaderI32(buf []byte) (blockSize, totalValueCount int, consumed int, err error) {
	if len(buf) == 0 {
		return 0, 0, 0, nil
	}

	pos := 0
	blockSize, n := readUvarintInt(buf[pos:])
	if n <= 0 {
		return 0, 0, pos, &Malformed{Offset: pos, Reason: "reading block size"}
	}
	pos += n

	_, n = readUvarintInt(buf[pos:])
	if n <= 0 {
		return 0, 0, pos, &Malformed{Offset: pos, Reason: "reading miniblock count"}
	}
	pos += n

	totalValueCount, n = readUvarintInt(buf[pos:])
	if n <= 0 {
		return 0, 0, pos, &Malformed{Offset: pos, Reason: "reading total value count"}
	}
	pos += n

	return blockSize, totalValueCount, pos, nil
}

// IsLoaded reports whether the reader has been loaded with a page.
func (r *PageReaderI32) IsLoaded() bool {
	return r.loaded
}

// Len returns the number of values in the loaded page.
func (r *PageReaderI32) Len() int {
	return r.count
}

// Pos returns the current position for sequential iteration via Next.
func (r *PageReaderI32) Pos() int {
	return r.pos
}

// Reset rewinds the reader to the beginning for sequential iteration.
func (r *PageReaderI32) Reset() {
	r.pos = 0
}

// Get returns the value at pos.
func (r *PageReaderI32) Get(pos int) (int32, error) {
	if !r.loaded {
		return 0, ErrPageNotLoaded
	}
	if pos < 0 || pos >= r.count {
		return 0, ErrPagePositionOutOfRange
	}
	return r.values[pos], nil
}

// GetSafe returns the value at pos and whether pos was in range.
func (r *PageReaderI32) GetSafe(pos int) (int32, bool) {
	v, err := r.Get(pos)
	return v, err == nil
}

// Next returns the next value in iteration order along with its
// position, advancing the cursor. ok is false once the page is
// exhausted or the reader has not been loaded.
func (r *PageReaderI32) Next() (value int32, pos int, ok bool) {
	if !r.loaded || r.pos >= r.count {
		return 0, 0, false
	}
	value = r.values[r.pos]
	pos = r.pos
	r.pos++
	return value, pos, true
}

// SkipTo advances to and returns the first value >= req at or after the
// current position. For a page whose values turned out to be
// monotonically non-decreasing, this uses binary search; otherwise it
// falls back to a linear scan.
func (r *PageReaderI32) SkipTo(req int32) (value int32, pos int, ok bool) {
	if !r.loaded || r.pos >= r.count {
		return 0, 0, false
	}
	if r.sorted {
		return r.skipToBinarySearch(req)
	}
	return r.skipToLinear(req)
}

func (r *PageReaderI32) skipToBinarySearch(req int32) (value int32, pos int, ok bool) {
	search := r.values[r.pos:]
	idx, _ := slices.BinarySearch(search, req)
	absPos := r.pos + idx
	if absPos >= r.count {
		r.pos = r.count
		return 0, 0, false
	}
	r.pos = absPos + 1
	return r.values[absPos], absPos, true
}

func (r *PageReaderI32) skipToLinear(req int32) (value int32, pos int, ok bool) {
	for r.pos < r.count {
		v := r.values[r.pos]
		p := r.pos
		r.pos++
		if v >= req {
			return v, p, true
		}
	}
	return 0, 0, false
}

// Decode copies every decoded value into dst, growing it if needed, and
// returns the (possibly reallocated) slice.
func (r *PageReaderI32) Decode(dst []int32) []int32 {
	if !r.loaded {
		return nil
	}
	if cap(dst) < r.count {
		dst = make([]int32, r.count)
	} else {
		dst = dst[:r.count]
	}
	copy(dst, r.values)
	return dst
}

// IsSorted reports whether every value in the page is >= its
// predecessor, discovered during Load.
func (r *PageReaderI32) IsSorted() bool {
	return r.sorted
}
