package deltabp

import "slices"

// PageReaderI64 is PageReaderI32 for 64-bit values. See PageReaderI32 for
// the full contract.
type PageReaderI64 struct {
	values []int64

	pos   int
	count int

	sorted bool
	loaded bool
}

// NewPageReaderI64 creates an empty PageReaderI64 that must be loaded
// with Load before use.
func NewPageReaderI64() *PageReaderI64 {
	return &PageReaderI64{}
}

// Load decodes a single DELTA_BINARY_PACKED page from buf and resets the
// reader's position to the start.
func (r *PageReaderI64) Load(buf []byte) error {
	_, totalValueCount, _, err := peekHeaderI64(buf)
	if err != nil {
		return err
	}

	if cap(r.values) < totalValueCount {
		r.values = make([]int64, totalValueCount)
	} else {
		r.values = r.values[:totalValueCount]
	}

	produced, _, err := DecodeI64(buf, r.values)
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

func peekHeaderI64(buf []byte) (blockSize, totalValueCount int, consumed int, err error) {
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
func (r *PageReaderI64) IsLoaded() bool {
	return r.loaded
}

// Len returns the number of values in the loaded page.
func (r *PageReaderI64) Len() int {
	return r.count
}

// Pos returns the current position for sequential iteration via Next.
func (r *PageReaderI64) Pos() int {
	return r.pos
}

// Reset rewinds the reader to the beginning for sequential iteration.
func (r *PageReaderI64) Reset() {
	r.pos = 0
}

// Get returns the value at pos.
func (r *PageReaderI64) Get(pos int) (int64, error) {
	if !r.loaded {
		return 0, ErrPageNotLoaded
	}
	if pos < 0 || pos >= r.count {
		return 0, ErrPagePositionOutOfRange
	}
	return r.values[pos], nil
}

// GetSafe returns the value at pos and whether pos was in range.
func (r *PageReaderI64) GetSafe(pos int) (int64, bool) {
	v, err := r.Get(pos)
	return v, err == nil
}

// Next returns the next value in iteration order along with its
// position, advancing the cursor.
func (r *PageReaderI64) Next() (value int64, pos int, ok bool) {
	if !r.loaded || r.pos >= r.count {
		return 0, 0, false
	}
	value = r.values[r.pos]
	pos = r.pos
	r.pos++
	return value, pos, true
}

// SkipTo advances to and returns the first value >= req at or after the
// current position.
func (r *PageReaderI64) SkipTo(req int64) (value int64, pos int, ok bool) {
	if !r.loaded || r.pos >= r.count {
		return 0, 0, false
	}
	if r.sorted {
		return r.skipToBinarySearch(req)
	}
	return r.skipToLinear(req)
}

func (r *PageReaderI64) skipToBinarySearch(req int64) (value int64, pos int, ok bool) {
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

func (r *PageReaderI64) skipToLinear(req int64) (value int64, pos int, ok bool) {
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
func (r *PageReaderI64) Decode(dst []int64) []int64 {
	if !r.loaded {
		return nil
	}
	if cap(dst) < r.count {
		dst = make([]int64, r.count)
	} else {
		dst = dst[:r.count]
	}
	copy(dst, r.values)
	return dst
}

// IsSorted reports whether every value in the page is >= its
// predecessor, discovered during Load.
func (r *PageReaderI64) IsSorted() bool {
	return r.sorted
}
