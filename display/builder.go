package display

import (
	"github.com/npillmayer/scriven/document"
	"github.com/npillmayer/scriven/font"
	"github.com/npillmayer/scriven/layout"
)

// StyleRun is a per-line style span rebased to line-local byte offsets
// (spec.md §4.I).
type StyleRun struct {
	ByteStartInLine uint64
	ByteLen         uint64
	FontID          font.ID
}

// SelectionSpan is the selection's intersection with one line: a
// half-open UTF-16 code-unit range (for the text layer) plus the
// absolute pixel rectangle it covers (for the geometry layer), per
// spec.md §4.I/§4.J.
type SelectionSpan struct {
	Utf16Start uint32
	Utf16End   uint32
	X          float64
	Width      float64
}

// TextRun is one visible line of text, absolutely positioned.
type TextRun struct {
	X, Y, Height float64
	Text         string
	Kind         document.BlockKind
	Selection    *SelectionSpan
	Styles       []StyleRun
}

// ListMarker is a bullet/ordinal glyph positioned to the left of a list
// item's first line.
type ListMarker struct {
	X, Y float64
	Text string
}

// Caret is the blinking insertion point, emitted at most once per page.
type Caret struct {
	X, Y, Height float64
	Utf16InLine  uint32
}

// DisplayPage holds every item visible on one page.
type DisplayPage struct {
	PageIndex int
	Bounds    [4]float64 // x, y, width, height
	TextRuns  []TextRun
	Markers   []ListMarker
	Caret     *Caret
}

// DisplayList is the full output of Build: the layout version it was
// produced from, and one DisplayPage per page overlapping the viewport.
type DisplayList struct {
	Version document.Version
	Pages   []DisplayPage
}

// Build walks the pages of st that overlap [viewportY, viewportY+viewportHeight),
// and for each one emits TextRuns (one per visual line), ListMarkers (one
// per list item's first line), and at most one Caret, per spec.md §4.I.
//
// BuildDisplayList is a free function here rather than a layout.State
// method (as spec.md §4.H's wording might suggest) specifically to avoid
// an import cycle: display depends on layout's types, so layout cannot
// depend back on display (see DESIGN.md).
func Build(doc *document.Document, st *layout.State, pageHeight, marginLeft float64, viewportY, viewportHeight float64, cursor document.DocPosition, selection *document.Selection) DisplayList {
	pages := st.Pages()
	out := DisplayList{Version: st.LayoutVersion()}
	cmp := doc.ComparePositions

	for _, page := range pages {
		pageY := float64(page.PageIndex) * pageHeight
		if pageY+pageHeight <= viewportY || pageY >= viewportY+viewportHeight {
			continue
		}
		out.Pages = append(out.Pages, buildPage(doc, st, page, pageY, pageHeight, marginLeft, cursor, selection, cmp))
	}
	return out
}

func buildPage(doc *document.Document, st *layout.State, page layout.PageLayout, pageY, pageHeight, marginLeft float64, cursor document.DocPosition, selection *document.Selection, cmp func(a, b document.DocPosition) int) DisplayPage {
	dp := DisplayPage{PageIndex: page.PageIndex, Bounds: [4]float64{0, pageY, st.ContentWidth, pageHeight}}

	paras := paragraphsBetween(doc, page.StartPara, page.EndPara)
	caretEmitted := false

	for pi, paraID := range paras {
		pl, ok := st.ParagraphLayout(paraID)
		if !ok {
			continue
		}
		meta, _ := doc.BlockMeta(paraID)
		baseY, _ := st.ParagraphY(paraID)

		startLine := 0
		endLine := len(pl.Lines) - 1
		if pi == 0 {
			startLine = page.StartLine
		}
		if pi == len(paras)-1 {
			endLine = page.EndLine
		}

		y := baseY
		for li := 0; li < len(pl.Lines); li++ {
			lineHeight := pl.Lines[li].Height
			if li < startLine {
				y += lineHeight
				continue
			}
			if li > endLine {
				break
			}
			line := pl.Lines[li]
			text := doc.TextRange(
				doc.PositionToOffset(document.DocPosition{ParaID: paraID, OffsetInPara: line.ByteRangeInPara[0]}),
				doc.PositionToOffset(document.DocPosition{ParaID: paraID, OffsetInPara: line.ByteRangeInPara[1]}),
			)
			x := float64(0)
			if meta.Kind.Tag == document.KindListItem {
				x = layout.IndentFor(meta.Kind)
			}

			run := TextRun{
				X:      x,
				Y:      y,
				Height: line.Height,
				Text:   text,
				Kind:   meta.Kind,
				Styles: lineStyles(meta.Spans, line.ByteRangeInPara),
			}
			if selection != nil {
				run.Selection = lineSelection(doc, st, paraID, line, x, *selection, cmp)
			}
			dp.TextRuns = append(dp.TextRuns, run)

			if li == 0 && meta.Kind.Tag == document.KindListItem {
				dp.Markers = append(dp.Markers, ListMarker{
					X:    marginLeft + float64(meta.Kind.IndentLevel)*layout.IndentWidth - 16,
					Y:    y,
					Text: markerText(meta.Kind.Marker),
				})
			}

			if !caretEmitted && paraID == cursor.ParaID && cursor.OffsetInPara >= line.ByteRangeInPara[0] && cursor.OffsetInPara <= line.ByteRangeInPara[1] {
				dp.Caret = &Caret{
					X:           st.PositionToX(cursor),
					Y:           y,
					Height:      line.Height,
					Utf16InLine: utf16OffsetInLine(doc, paraID, line, cursor.OffsetInPara),
				}
				caretEmitted = true
			}

			y += lineHeight
		}
	}
	return dp
}

// paragraphsBetween returns every paragraph id from startID to endID
// inclusive, in document order.
func paragraphsBetween(doc *document.Document, startID, endID document.ParagraphID) []document.ParagraphID {
	all := doc.Paragraphs()
	var out []document.ParagraphID
	inRange := false
	for _, id := range all {
		if id == startID {
			inRange = true
		}
		if inRange {
			out = append(out, id)
		}
		if id == endID {
			break
		}
	}
	if len(out) == 0 && len(all) > 0 {
		out = []document.ParagraphID{startID}
	}
	return out
}

// lineStyles intersects paragraph-relative style spans with the line's
// byte range and rebases them to line-local offsets (spec.md §4.I).
func lineStyles(spans []document.StyleSpan, lineRange [2]uint64) []StyleRun {
	var out []StyleRun
	lo, hi := lineRange[0], lineRange[1]
	for _, s := range spans {
		start := s.Start
		end := s.End
		if start < lo {
			start = lo
		}
		if end > hi {
			end = hi
		}
		if end <= start {
			continue
		}
		out = append(out, StyleRun{ByteStartInLine: start - lo, ByteLen: end - start, FontID: s.FontID})
	}
	return out
}

func markerText(m document.Marker) string {
	if m.Tag == document.MarkerNumbered {
		return utf16OrdinalText(m.Ordinal) + "."
	}
	return "•"
}

func utf16OrdinalText(n int) string {
	if n <= 0 {
		return "1"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// utf16OffsetInLine counts UTF-16 code units from the line's start up to
// byteOffsetInPara, per spec.md §4.I's "len_utf16 over the byte range
// [line_start, cursor_byte)" rule. Grounded on
// other_examples/fafc2821_dshills-keystorm's utf16ColumnFromString, which
// counts surrogate pairs the same way unicode/utf16.RuneLen does.
func utf16OffsetInLine(doc *document.Document, paraID document.ParagraphID, line layout.LineLayout, byteOffsetInPara uint64) uint32 {
	if byteOffsetInPara > line.ByteRangeInPara[1] {
		byteOffsetInPara = line.ByteRangeInPara[1]
	}
	if byteOffsetInPara < line.ByteRangeInPara[0] {
		byteOffsetInPara = line.ByteRangeInPara[0]
	}
	prefix := doc.TextRange(
		doc.PositionToOffset(document.DocPosition{ParaID: paraID, OffsetInPara: line.ByteRangeInPara[0]}),
		doc.PositionToOffset(document.DocPosition{ParaID: paraID, OffsetInPara: byteOffsetInPara}),
	)
	return utf16Len(prefix)
}

// lineSelection computes the selection's intersection with line, as both
// a UTF-16 code-unit span (for the text layer) and an absolute pixel
// rectangle (for the geometry layer), or nil if the selection does not
// touch this line. runX is the line's own absolute X origin (0, or the
// list-item indent), since layout.State.PositionToX returns a line-local
// coordinate.
func lineSelection(doc *document.Document, st *layout.State, paraID document.ParagraphID, line layout.LineLayout, runX float64, sel document.Selection, cmp func(a, b document.DocPosition) int) *SelectionSpan {
	lo, hi := sel.Ordered(cmp)
	lineLo := document.DocPosition{ParaID: paraID, OffsetInPara: line.ByteRangeInPara[0]}
	lineHi := document.DocPosition{ParaID: paraID, OffsetInPara: line.ByteRangeInPara[1]}
	if cmp(hi, lineLo) <= 0 || cmp(lo, lineHi) >= 0 {
		return nil
	}
	start := lo
	if cmp(start, lineLo) < 0 {
		start = lineLo
	}
	end := hi
	if cmp(end, lineHi) > 0 {
		end = lineHi
	}
	startX := runX + st.PositionToX(start)
	endX := runX + st.PositionToX(end)
	return &SelectionSpan{
		Utf16Start: utf16OffsetInLine(doc, paraID, line, start.OffsetInPara),
		Utf16End:   utf16OffsetInLine(doc, paraID, line, end.OffsetInPara),
		X:          startX,
		Width:      endX - startX,
	}
}

// utf16Len counts UTF-16 code units in s: one per rune, two for runes
// outside the Basic Multilingual Plane (surrogate pairs).
func utf16Len(s string) uint32 {
	n := uint32(0)
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}
