package render

import (
	"github.com/npillmayer/scriven/display"
	"github.com/npillmayer/scriven/document"
)

// Buffer owns the three parallel arrays plus the style array described by
// spec.md §4.J. The host reads u32/f32/text/style in place via raw
// pointers; see Build's doc comment for the prepare/write/finalize
// contract this type enforces.
type Buffer struct {
	u32   []uint32
	f32   []float32
	text  []byte
	style []uint32

	pendingCursor    *cursorRecord
	pendingSelection []selectionRecord
}

type cursorRecord struct {
	pageIndex   uint32
	utf16InLine uint32
	x, y, height float32
}

type selectionRecord struct {
	pageIndex uint32
	x, y, w, h float32
}

// prepare resets the buffer and reserves capacity (spec.md §4.J's "build
// contract" step 2): since the host may hold raw pointers into a
// previous generation's arrays, every Build call produces fresh slices
// rather than mutating in place.
func (b *Buffer) prepare(u32Needed, f32Needed, textNeeded int) {
	const headroom = 16
	b.u32 = make([]uint32, headerLen, headerLen+u32Needed+headroom)
	b.f32 = make([]float32, 0, f32Needed+headroom)
	b.text = make([]byte, 0, textNeeded+headroom)
	b.style = nil
	b.pendingCursor = nil
	b.pendingSelection = nil
}

// U32 returns the u32 array (header + page/line payload).
func (b *Buffer) U32() []uint32 { return b.u32 }

// F32 returns the f32 array.
func (b *Buffer) F32() []float32 { return b.f32 }

// Text returns the concatenated UTF-8 text array.
func (b *Buffer) Text() []byte { return b.text }

// Style returns the style-span array (style_count*3 u32s).
func (b *Buffer) Style() []uint32 { return b.style }

// appendText appends s to the text array and returns its (offset, len).
func (b *Buffer) appendText(s string) (uint32, uint32) {
	off := uint32(len(b.text))
	b.text = append(b.text, s...)
	return off, uint32(len(s))
}

// Build encodes dl into a fresh Buffer, following spec.md §4.J's build
// contract: scan once to size the arrays, prepare with headroom, write
// header placeholders then pages/lines/styles in order, accumulate
// cursor/selection into pending lists, and finalize by writing them at
// the current array ends and stamping their offsets into the header.
func Build(doc *document.Document, dl display.DisplayList) *Buffer {
	b := &Buffer{}
	u32Needed, f32Needed, textNeeded := estimateSizes(dl)
	b.prepare(u32Needed, f32Needed, textNeeded)

	b.u32[hdrMagic] = Magic
	b.u32[hdrSchemaVersion] = SchemaVersion
	b.u32[hdrVersionLo] = uint32(dl.Version)
	b.u32[hdrVersionHi] = uint32(dl.Version >> 32)
	b.u32[hdrPageCount] = uint32(len(dl.Pages))

	for _, page := range dl.Pages {
		b.writePage(page)
	}

	b.finalize()
	return b
}

func estimateSizes(dl display.DisplayList) (u32Needed, f32Needed, textNeeded int) {
	for _, page := range dl.Pages {
		u32Needed += 2 // page_index, line_count
		f32Needed += 3 // y_offset, width, height
		for _, run := range page.TextRuns {
			u32Needed += lineRecordFields
			f32Needed += 2 // x, y
			textNeeded += len(run.Text)
			for range run.Styles {
				u32Needed += 3
			}
		}
		for _, m := range page.Markers {
			textNeeded += len(m.Text)
		}
		if page.Caret != nil {
			f32Needed += 3
		}
	}
	return
}

func (b *Buffer) writePage(page display.DisplayPage) {
	b.u32 = append(b.u32, uint32(page.PageIndex), uint32(len(page.TextRuns)))
	b.f32 = append(b.f32, float32(page.Bounds[1]), float32(page.Bounds[2]), float32(page.Bounds[3]))

	// markers are matched to their owning line by y coincidence: every
	// list item's first visual line has Y equal to exactly one marker.
	markerByY := make(map[float64]display.ListMarker, len(page.Markers))
	for _, m := range page.Markers {
		markerByY[m.Y] = m
	}

	for _, run := range page.TextRuns {
		b.writeLine(page.PageIndex, run, markerByY)
	}

	if page.Caret != nil {
		b.pendingCursor = &cursorRecord{
			pageIndex:   uint32(page.PageIndex),
			utf16InLine: page.Caret.Utf16InLine,
			x:           float32(page.Caret.X),
			y:           float32(page.Caret.Y),
			height:      float32(page.Caret.Height),
		}
	}
}

func (b *Buffer) writeLine(pageIndex int, run display.TextRun, markerByY map[float64]display.ListMarker) {
	textOff, textLen := b.appendText(run.Text)
	b.assertTextBounds(textOff, textLen)
	textUtf16Len := utf16Len(run.Text)

	blockType := blockTypeOf(run.Kind)
	flags := headingFlags(blockType, run.Kind.Level)

	var markerOff, markerLen, markerUtf16Len uint32
	if marker, ok := markerByY[run.Y]; ok {
		markerOff, markerLen = b.appendText(marker.Text)
		b.assertTextBounds(markerOff, markerLen)
		markerUtf16Len = utf16Len(marker.Text)
	}

	selStart, selEnd := noSelection, noSelection
	if run.Selection != nil {
		selStart, selEnd = run.Selection.Utf16Start, run.Selection.Utf16End
		b.pendingSelection = append(b.pendingSelection, selectionRecord{
			pageIndex: uint32(pageIndex),
			x:         float32(run.Selection.X),
			y:         float32(run.Y),
			w:         float32(run.Selection.Width),
			h:         float32(run.Height),
		})
	}

	styleStart := uint32(len(b.style) / 3)
	for _, s := range run.Styles {
		b.style = append(b.style, uint32(s.ByteStartInLine), uint32(s.ByteLen), uint32(s.FontID))
	}

	b.u32 = append(b.u32,
		textOff, textLen, 0, textUtf16Len,
		blockType, flags,
		markerOff, markerLen, 0, markerUtf16Len,
		selStart, selEnd,
		styleStart, uint32(len(run.Styles)),
	)
	b.f32 = append(b.f32, float32(run.X), float32(run.Y))
}

// utf16Len mirrors display's UTF-16 code-unit counting rule (one rune,
// two for non-BMP code points), duplicated here rather than exported
// from display to keep render's only dependency on display limited to
// its exported display.DisplayList/DisplayPage/TextRun shapes.
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

// finalize writes pending cursor/selection records at the arrays'
// current ends, stamps their offsets into the header, and records the
// text array's length. It does no bounds validation itself: writeLine
// checks each text/marker record via assertTextBounds as it is written.
func (b *Buffer) finalize() {
	if b.pendingCursor != nil {
		b.u32[hdrCursorPresent] = 1
		b.u32[hdrU32CursorOffset] = uint32(len(b.u32))
		b.u32 = append(b.u32, b.pendingCursor.pageIndex, b.pendingCursor.utf16InLine)
		b.u32[hdrF32CursorOffset] = uint32(len(b.f32))
		b.f32 = append(b.f32, b.pendingCursor.x, b.pendingCursor.y, b.pendingCursor.height)
	}

	b.u32[hdrSelectionCount] = uint32(len(b.pendingSelection))
	if len(b.pendingSelection) > 0 {
		b.u32[hdrU32SelectionOffset] = uint32(len(b.u32))
		b.u32[hdrF32SelectionOffset] = uint32(len(b.f32))
		for _, s := range b.pendingSelection {
			b.u32 = append(b.u32, s.pageIndex)
			b.f32 = append(b.f32, s.x, s.y, s.w, s.h)
		}
	}

	b.u32[hdrTextBufferLen] = uint32(len(b.text))
}

// assertTextBounds is the check spec.md §4.J step 5 describes, active in
// every build (it panics on failure): every text_offset+text_len (and marker_offset+marker_len)
// must lie within the text array. It is invoked from writeLine at the
// point each record is produced, when the text array's final length is
// already committed to for that record.
func (b *Buffer) assertTextBounds(offset, length uint32) {
	assert(int(offset)+int(length) <= len(b.text), "render: text record out of bounds")
}
