/*
Package document composes a rope, a paragraph index, per-paragraph block
metadata, and style spans into the engine's editable document: it applies
edit operations and emits an EditResult describing what changed.

Paragraph identity is a stable, monotonically assigned 64-bit id that
survives edits: a split keeps the original id on its left half; a merge
retires the right-hand id. Style spans travel with their paragraph and
are transformed in lock-step with every insert/delete.
*/
package document

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'document'.
func tracer() tracing.Trace {
	return tracing.Select("document")
}

// Error is the package error type.
type Error string

func (e Error) Error() string {
	return string(e)
}

// ErrUnknownParagraph signals an operation referencing a paragraph id not
// present in the document. Per spec.md §7, most call sites handle this by
// silent fallback rather than surfacing the error.
const ErrUnknownParagraph = Error("unknown paragraph id")

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
