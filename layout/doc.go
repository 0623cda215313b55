/*
Package layout turns document text and block metadata into incremental,
paginated visual layout (spec.md §4.G/§4.H): a line breaker that wraps
paragraph text by extended grapheme cluster, and a LayoutState that
tracks a dirty set of paragraphs, re-runs the breaker only where needed,
paginates the result, and caches per-paragraph Y offsets.
*/
package layout

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'layout'.
func tracer() tracing.Trace {
	return tracing.Select("layout")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}

// IndentWidth is the per-level horizontal indent applied to list items,
// in logical pixels. spec.md §4.G references an INDENT_WIDTH constant
// without pinning its value; 24px matches the teacher's console/line
// formatting scale for nested structure and is used consistently by both
// the line breaker (effective width) and the display builder (marker
// position).
const IndentWidth = 24.0

// SpacingUnit is the pixel size of one spec.md "spacing_after" unit.
const SpacingUnit = 16.0
