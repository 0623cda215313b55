/*
Package rope implements the engine's text storage: a persistent balanced
binary tree over UTF-8 byte sequences.

A Rope references chunks of text (see package chunk), which are considered
immutable. Chunks are shared between ropes. Edit-like operations such as
Insert, Delete, and Slice are non-destructive: they return new Rope values
and leave the input rope untouched.

All positional APIs operate on byte offsets, never rune or grapheme
indexes — callers needing grapheme navigation convert at the document
layer.

Typical usage:

	r := rope.FromString("Hello World")
	r2, _ := r.Insert(5, ",")
	s, _ := r2.Slice(0, r2.Len())
*/
package rope

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rope'.
func tracer() tracing.Trace {
	return tracing.Select("rope")
}

// Error is the package error type.
type Error string

func (e Error) Error() string {
	return string(e)
}

// ErrIndexOutOfBounds is flagged whenever a rope position is
// greater than the length of the rope.
const ErrIndexOutOfBounds = Error("index out of bounds")

// ErrNotCharBoundary signals an offset that falls inside a UTF-8 code point.
const ErrNotCharBoundary = Error("offset is not a char boundary")

// ErrBuilderCompleted signals that a Builder has already produced its rope
// and it is illegal to append further fragments.
const ErrBuilderCompleted = Error("forbidden to append fragments; builder has been completed")

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
