package font

// ID identifies a font within a Library. Id 0 is the always-present
// default font.
type ID uint32

// DefaultID is the always-present default font.
const DefaultID ID = 0

// Metrics holds everything the line breaker needs to measure text for one
// font: the line height, the per-character width table for the ASCII
// range, and a fallback width for anything outside it.
type Metrics struct {
	LineHeight   float64
	CharWidths   [128]float64
	DefaultWidth float64
}

// Width returns the width of ch: the ASCII table entry if ch is ASCII,
// else DefaultWidth.
func (m Metrics) Width(ch rune) float64 {
	if ch >= 0 && ch < 128 {
		return m.CharWidths[ch]
	}
	return m.DefaultWidth
}

// Library is a value type owned by LayoutState mapping font ids to their
// metrics. Host code may mutate it only between layout runs (spec.md §5).
type Library struct {
	metrics map[ID]Metrics
}

// NewLibrary creates a library pre-populated with a default font (id 0)
// of the given metrics.
func NewLibrary(defaultMetrics Metrics) *Library {
	lib := &Library{metrics: make(map[ID]Metrics)}
	lib.Set(DefaultID, defaultMetrics)
	return lib
}

// Set registers or replaces the metrics for id.
func (lib *Library) Set(id ID, m Metrics) {
	lib.metrics[id] = m
}

// Lookup returns the metrics for id. Missing ids silently fall back to the
// default font (spec.md §7); a debug assertion fires if the default font
// itself is absent.
func (lib *Library) Lookup(id ID) Metrics {
	if m, ok := lib.metrics[id]; ok {
		return m
	}
	m, ok := lib.metrics[DefaultID]
	if !ok {
		tracer().Errorf("font: default font (id 0) missing from library")
	}
	assert(ok, "font: default font (id 0) missing from library")
	return m
}

// DefaultMetrics returns a reasonable built-in default font: 20px line
// height and monospace-ish metrics matching the spec's worked examples
// (8px/char).
func DefaultMetrics() Metrics {
	m := Metrics{LineHeight: 20, DefaultWidth: 8}
	for i := range m.CharWidths {
		m.CharWidths[i] = 8
	}
	return m
}
