/*
Package font implements the engine's pluggable font-metrics table: a map
from FontId to FontMetrics used by the line breaker (component G) to
measure cluster widths and line heights without ever shaping or
rasterizing glyphs.
*/
package font

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("font")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
