package deltabp

import "io"

// validateConfig checks the block/miniblock invariants every encoder
// relies on:
//
//  1. blockSize and miniblockSize are positive, and blockSize is a
//     multiple of miniblockSize.
//  2. miniblockSize is a multiple of 8 (required for Pack8ValuesLE /
//     Unpack8ValuesLE, which operate 8 values at a time).
func validateConfig(blockSize, miniblockSize int) error {
	if blockSize <= 0 {
		return &InvalidConfig{Reason: "blockSize must be positive"}
	}
	if miniblockSize <= 0 {
		return &InvalidConfig{Reason: "miniblockSize must be positive"}
	}
	if miniblockSize%8 != 0 {
		return &InvalidConfig{Reason: "miniblockSize must be a multiple of 8"}
	}
	if blockSize%miniblockSize != 0 {
		return &InvalidConfig{Reason: "blockSize must be a multiple of miniblockSize"}
	}
	return nil
}

// sinkWriter wraps an io.Writer so the encoder can write a sequence of
// small buffers and check for a failure once at the end, instead of
// threading an error return through every call.
type sinkWriter struct {
	w   io.Writer
	err error
}

func (s *sinkWriter) write(p []byte) {
	if s.err != nil || len(p) == 0 {
		return
	}
	_, s.err = s.w.Write(p)
}
