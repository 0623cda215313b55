// Package chunk implements the bounded leaf buffer used by the rope's
// leaf nodes.
//
// A Chunk owns up to LeafCap bytes of valid UTF-8 text plus a cached
// newline count. It generalizes the teacher's 64-byte bitmap-indexed
// chunk to the 1024-byte leaf capacity this engine requires: at that
// size a single machine word can no longer address every byte offset,
// so boundary queries are answered by decoding around the offset
// instead of consulting a precomputed bitmap.
package chunk

import (
	"unicode/utf8"
)

const (
	// LeafCap is the maximum chunk payload length in bytes.
	LeafCap = 1024
	// MinOccupancy is half of LeafCap; rope rebalancing does not consult it.
	MinOccupancy = LeafCap / 2
)

// Chunk stores text and a cached newline count for fast local metrics.
//
// The chunk is immutable by convention: editing operations return a new Chunk.
type Chunk struct {
	text     []byte
	newlines uint32
}

// New creates a chunk from UTF-8 text.
//
// Returns an error if the text is not valid UTF-8 or exceeds LeafCap bytes.
func New(text string) (Chunk, error) {
	if !utf8.ValidString(text) {
		return Chunk{}, ErrInvalidUTF8
	}
	if len(text) > LeafCap {
		return Chunk{}, ErrChunkTooLarge
	}
	buf := make([]byte, len(text))
	copy(buf, text)
	return Chunk{text: buf, newlines: countNewlines(buf)}, nil
}

// NewBytes creates a chunk from UTF-8 bytes.
//
// Returns an error if the bytes are not valid UTF-8 or exceed LeafCap bytes.
//
// Important for file ingestion: callers should split raw input only at UTF-8
// rune boundaries before calling NewBytes for each chunk. This constructor
// validates UTF-8 and will reject byte slices that start/end in the middle of
// a multi-byte rune.
func NewBytes(text []byte) (Chunk, error) {
	if !utf8.Valid(text) {
		return Chunk{}, ErrInvalidUTF8
	}
	if len(text) > LeafCap {
		return Chunk{}, ErrChunkTooLarge
	}
	buf := make([]byte, len(text))
	copy(buf, text)
	return Chunk{text: buf, newlines: countNewlines(buf)}, nil
}

func countNewlines(text []byte) uint32 {
	var n uint32
	for _, b := range text {
		if b == '\n' {
			n++
		}
	}
	return n
}

// Len returns the text length in bytes.
func (c Chunk) Len() int {
	return len(c.text)
}

// IsEmpty reports whether the chunk has no bytes.
func (c Chunk) IsEmpty() bool {
	return len(c.text) == 0
}

// Lines returns the cached newline count. Invariant: always equal to
// the number of '\n' bytes in the chunk's text.
func (c Chunk) Lines() uint64 {
	return uint64(c.newlines)
}

// String returns the chunk text.
func (c Chunk) String() string {
	return string(c.text)
}

// Bytes returns the chunk's backing byte slice. Callers must not mutate it.
func (c Chunk) Bytes() []byte {
	return c.text
}

// IsCharBoundary reports whether offset is a UTF-8 boundary inside this chunk.
func (c Chunk) IsCharBoundary(offset int) bool {
	if offset == c.Len() {
		return true
	}
	if offset < 0 || offset > c.Len() {
		return false
	}
	return utf8.RuneStart(c.text[offset])
}

// Slice returns a new chunk holding the bytes in [start,end).
func (c Chunk) Slice(start, end int) (Chunk, error) {
	if start < 0 || end < start || end > c.Len() {
		return Chunk{}, ErrIndexOutOfBounds
	}
	if !c.IsCharBoundary(start) || !c.IsCharBoundary(end) {
		return Chunk{}, ErrNotCharBoundary
	}
	buf := make([]byte, end-start)
	copy(buf, c.text[start:end])
	return Chunk{text: buf, newlines: countNewlines(buf)}, nil
}

// SplitAt splits a chunk into left/right chunks at byte offset mid.
func (c Chunk) SplitAt(mid int) (Chunk, Chunk, error) {
	left, err := c.Slice(0, mid)
	if err != nil {
		return Chunk{}, Chunk{}, err
	}
	right, err := c.Slice(mid, c.Len())
	if err != nil {
		return Chunk{}, Chunk{}, err
	}
	return left, right, nil
}

// Append returns a new chunk with other appended.
//
// The boolean is false if the append would exceed LeafCap; in that case, the
// original chunk is returned unchanged.
func (c Chunk) Append(other Chunk) (Chunk, bool) {
	if other.IsEmpty() {
		return c, true
	}
	total := c.Len() + other.Len()
	if total > LeafCap {
		return c, false
	}
	buf := make([]byte, total)
	copy(buf, c.text)
	copy(buf[c.Len():], other.text)
	return Chunk{text: buf, newlines: c.newlines + other.newlines}, true
}
