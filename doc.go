/*
Package scriven is the façade over the editor engine: a Document (rope +
paragraph index + block metadata), an undo Stack, and a layout State,
wired together into the small set of operations a host embedder drives
(spec.md §6 "External Interfaces").
*/
package scriven

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'scriven'.
func tracer() tracing.Trace {
	return tracing.Select("scriven")
}
