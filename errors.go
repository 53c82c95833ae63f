package deltabp

import "fmt"

// InvalidConfig is returned by EncodeI32/EncodeI64 when blockSize or
// miniblockSize violate their invariants: both must be positive,
// miniblockSize must be a multiple of 8, and blockSize must be a
// multiple of miniblockSize. It is reported eagerly, before any byte
// reaches the sink.
type InvalidConfig struct {
	Reason string
}

func (e *InvalidConfig) Error() string {
	return "deltabp: invalid config: " + e.Reason
}

// Malformed is returned by DecodeI32/DecodeI64 when the input cannot be
// parsed as a DELTA_BINARY_PACKED page: a varint overflows, a
// miniblock's bit width exceeds the type's width, or the input ends
// mid-header. Offset is the byte position within the input where the
// problem was detected.
type Malformed struct {
	Offset int
	Reason string
}

func (e *Malformed) Error() string {
	return fmt.Sprintf("deltabp: malformed input at offset %d: %s", e.Offset, e.Reason)
}

// SinkError wraps an error returned by the caller-supplied io.Writer
// during EncodeI32/EncodeI64. Once the header has been written
// successfully, the encoder commits to finishing the stream unless the
// sink itself fails, in which case that failure is reported verbatim
// through this wrapper.
type SinkError struct {
	Err error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("deltabp: sink error: %v", e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}
