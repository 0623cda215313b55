package scriven

// LayoutConstraints is the page geometry the layout engine wraps text
// within, all in logical pixels (spec.md §6). Defaults match US Letter
// at 96 DPI.
type LayoutConstraints struct {
	PageWidth    float64
	PageHeight   float64
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64
}

// DefaultLayoutConstraints returns US Letter at 96 DPI with 96px
// margins on every side (816x1056 page, spec.md §6).
func DefaultLayoutConstraints() LayoutConstraints {
	return LayoutConstraints{
		PageWidth:    816,
		PageHeight:   1056,
		MarginTop:    96,
		MarginBottom: 96,
		MarginLeft:   96,
		MarginRight:  96,
	}
}

// ContentWidth is the page width minus the left and right margins.
func (c LayoutConstraints) ContentWidth() float64 {
	return c.PageWidth - c.MarginLeft - c.MarginRight
}

// ContentHeight is the page height minus the top and bottom margins.
func (c LayoutConstraints) ContentHeight() float64 {
	return c.PageHeight - c.MarginTop - c.MarginBottom
}
