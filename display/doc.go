/*
Package display turns a document, a layout state, a viewport and a
cursor/selection into a DisplayList: an ordered set of absolute-
positioned text runs, list markers, and a caret, ready to be encoded
into the flat render buffer (spec.md §4.I).
*/
package display

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'display'.
func tracer() tracing.Trace {
	return tracing.Select("display")
}
