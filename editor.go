package scriven

import (
	"time"

	"github.com/npillmayer/scriven/display"
	"github.com/npillmayer/scriven/document"
	"github.com/npillmayer/scriven/font"
	"github.com/npillmayer/scriven/layout"
	"github.com/npillmayer/scriven/render"
	"github.com/npillmayer/scriven/undo"
)

// Editor is the engine's single entry point: a Document, its undo
// history, its layout cache, and the most recently built render buffer,
// wired together into the operations spec.md §6 names (external
// interfaces).
type Editor struct {
	doc         *document.Document
	constraints LayoutConstraints
	fonts       *font.Library
	layout      *layout.State
	history     *undo.Stack
	cursor      document.Cursor
	selection   *document.Selection
	buffer      *render.Buffer
}

// New creates an empty editor (a single empty paragraph) with the given
// page geometry and the engine's built-in default font.
func New(constraints LayoutConstraints) *Editor {
	return newEditor(document.New(), constraints)
}

// WithText creates an editor whose document is seeded from text (split
// into paragraphs on '\n'), with the given page geometry.
func WithText(text string, constraints LayoutConstraints) *Editor {
	return newEditor(document.FromText(text), constraints)
}

func newEditor(doc *document.Document, constraints LayoutConstraints) *Editor {
	fonts := font.NewLibrary(font.DefaultMetrics())
	e := &Editor{
		doc:         doc,
		constraints: constraints,
		fonts:       fonts,
		layout:      layout.NewState(fonts, constraints.ContentWidth(), constraints.ContentHeight()),
		history:     undo.NewStack(undo.DefaultMaxDepth),
	}
	first := doc.Paragraphs()[0]
	e.cursor.Position = document.DocPosition{ParaID: first, OffsetInPara: 0}
	e.layout.InvalidateAll(doc)
	return e
}

// recordAndApply begins a one-op transaction, computes op's reverse
// before applying it (Delete's reverse must read the about-to-be-removed
// text first), applies it, commits the transaction, invalidates layout
// for the affected paragraphs, and returns the EditResult.
func (e *Editor) recordAndApply(description string, op document.EditOp) document.EditResult {
	e.history.BeginTransaction(description, e.cursor.Position, e.selection, time.Now().UnixNano())
	reverse := e.doc.ComputeReverse(op)
	result := e.doc.ApplyEdit(op)
	e.history.RecordEdit(op, reverse)
	e.history.Commit()
	e.layout.Invalidate(result)
	return result
}

// selectionRange returns the selection's ordered byte offsets, or
// (0,0,false) if there is none or it is empty.
func (e *Editor) selectionRange() (start, end uint64, ok bool) {
	if e.selection == nil || e.selection.IsEmpty() {
		return 0, 0, false
	}
	lo, hi := e.selection.Ordered(e.doc.ComparePositions)
	return e.doc.PositionToOffset(lo), e.doc.PositionToOffset(hi), true
}

// InsertText replaces the current selection (if any) with s, or inserts
// s at the cursor.
func (e *Editor) InsertText(s string) {
	var result document.EditResult
	if start, end, ok := e.selectionRange(); ok {
		result = e.recordAndApply("insert (replacing selection)", document.Transaction(
			document.Delete(start, end),
			document.Insert(start, s),
		))
	} else {
		pos := e.doc.PositionToOffset(e.cursor.Position)
		result = e.recordAndApply("insert", document.Insert(pos, s))
	}
	e.selection = nil
	e.cursor.MoveTo(result.NewCursor, document.Downstream)
}

// Delete removes the current selection, or one grapheme cluster
// backward (backward=true) or forward from the cursor.
func (e *Editor) Delete(backward bool) {
	var start, end uint64
	if s, en, ok := e.selectionRange(); ok {
		start, end = s, en
	} else {
		pos := e.doc.PositionToOffset(e.cursor.Position)
		if backward {
			start, end = e.doc.PrevGraphemeOffset(pos), pos
		} else {
			start, end = pos, e.doc.NextGraphemeOffset(pos)
		}
	}
	result := e.recordAndApply("delete", document.Delete(start, end))
	e.selection = nil
	e.cursor.MoveTo(result.NewCursor, document.Upstream)
}

// InsertParagraph inserts a paragraph break at the cursor (spec.md §6:
// "= insert '\n'").
func (e *Editor) InsertParagraph() {
	e.InsertText("\n")
}

// MoveCursor moves the cursor dh grapheme clusters horizontally and/or
// dv lines vertically (applied independently; a caller wanting pure
// horizontal or vertical motion passes 0 for the other). When extend is
// true the selection grows from its existing anchor (or the current
// position, if there was none); otherwise the selection is cleared and
// the anchor collapses to the new position.
func (e *Editor) MoveCursor(dh, dv int32, extend bool) {
	anchor := e.cursor.Position
	if e.selection != nil {
		anchor = e.selection.Anchor
	}

	newPos := e.cursor.Position
	if dv != 0 {
		e.UpdateLayout()
		if e.cursor.PreferredX == nil {
			e.cursor.SetPreferredX(e.layout.PositionToX(e.cursor.Position))
		}
		if moved, ok := e.layout.MoveCursorVertical(e.doc, e.cursor.Position, int(dv), e.cursor.PreferredX); ok {
			newPos = moved
		}
	}
	if dh != 0 {
		offset := e.doc.PositionToOffset(newPos)
		for i := int32(0); i < dh; i++ {
			offset = e.doc.NextGraphemeOffset(offset)
		}
		for i := int32(0); i > dh; i-- {
			offset = e.doc.PrevGraphemeOffset(offset)
		}
		newPos = e.doc.OffsetToPosition(offset)
	}

	if dh != 0 {
		e.cursor.MoveTo(newPos, document.Downstream)
	} else {
		e.cursor.Position = newPos
	}

	if extend {
		e.selection = &document.Selection{Anchor: anchor, Active: newPos}
	} else {
		e.selection = nil
	}
}

// SelectAll selects the entire document.
func (e *Editor) SelectAll() {
	paras := e.doc.Paragraphs()
	if len(paras) == 0 {
		return
	}
	last := paras[len(paras)-1]
	lastMeta, _ := e.doc.BlockMeta(last)
	e.selection = &document.Selection{
		Anchor: document.DocPosition{ParaID: paras[0], OffsetInPara: 0},
		Active: document.DocPosition{ParaID: last, OffsetInPara: lastMeta.ByteLen},
	}
}

// ClearSelection collapses the selection without moving the cursor.
func (e *Editor) ClearSelection() {
	e.selection = nil
}

// FormatRange applies fontID to [start,end). Formatting is not recorded
// onto the undo stack: ComputeReverse only knows how to invert Insert/
// Delete/Transaction edit ops, not a style change.
func (e *Editor) FormatRange(start, end uint64, fontID font.ID) {
	result := e.doc.FormatRange(start, end, fontID)
	e.layout.Invalidate(result)
}

// Undo reverts the most recent transaction, restoring its saved cursor
// and selection. Returns false if there is nothing to undo.
func (e *Editor) Undo() bool {
	cursor, selection, ok := e.history.Undo(e.doc)
	if !ok {
		return false
	}
	e.cursor.MoveTo(cursor, document.Downstream)
	e.selection = selection
	e.layout.InvalidateAll(e.doc)
	return true
}

// Redo reapplies the most recently undone transaction. Returns false if
// there is nothing to redo.
func (e *Editor) Redo() bool {
	cursor, ok := e.history.Redo(e.doc)
	if !ok {
		return false
	}
	e.cursor.MoveTo(cursor, document.Downstream)
	e.selection = nil
	e.layout.InvalidateAll(e.doc)
	return true
}

// UpdateLayout relays out the document only if the layout cache is
// stale (spec.md §6: "idempotent").
func (e *Editor) UpdateLayout() {
	if e.layout.LayoutVersion() == e.doc.Version() && len(e.layout.Pages()) > 0 {
		return
	}
	e.layout.Relayout(e.doc)
}

// BuildRenderData relays out if needed, builds the display list for the
// given viewport, and encodes it into the flat render buffer accessible
// via the U32/F32/TextBytes/Style accessors below.
func (e *Editor) BuildRenderData(viewportY, viewportHeight float64) {
	e.UpdateLayout()
	dl := display.Build(e.doc, e.layout, e.constraints.PageHeight, e.constraints.MarginLeft, viewportY, viewportHeight, e.cursor.Position, e.selection)
	e.buffer = render.Build(e.doc, dl)
}

// U32 returns the render buffer's u32 array (header + page/line payload).
func (e *Editor) U32() []uint32 {
	if e.buffer == nil {
		return nil
	}
	return e.buffer.U32()
}

// U32Len returns len(U32()).
func (e *Editor) U32Len() int { return len(e.U32()) }

// F32 returns the render buffer's f32 array.
func (e *Editor) F32() []float32 {
	if e.buffer == nil {
		return nil
	}
	return e.buffer.F32()
}

// F32Len returns len(F32()).
func (e *Editor) F32Len() int { return len(e.F32()) }

// TextBytes returns the render buffer's concatenated UTF-8 text array.
func (e *Editor) TextBytes() []byte {
	if e.buffer == nil {
		return nil
	}
	return e.buffer.Text()
}

// TextLen returns len(TextBytes()).
func (e *Editor) TextLen() int { return len(e.TextBytes()) }

// Style returns the render buffer's style-span array.
func (e *Editor) Style() []uint32 {
	if e.buffer == nil {
		return nil
	}
	return e.buffer.Style()
}

// StyleLen returns len(Style()).
func (e *Editor) StyleLen() int { return len(e.Style()) }

// Text returns the full document text.
func (e *Editor) Text() string {
	return e.doc.Text()
}

// PageCount returns the number of pages in the current layout.
func (e *Editor) PageCount() int {
	return len(e.layout.Pages())
}

// CursorParaID returns the paragraph id the cursor currently sits in.
func (e *Editor) CursorParaID() document.ParagraphID {
	return e.cursor.Position.ParaID
}

// CursorOffset returns the cursor's byte offset within its paragraph.
func (e *Editor) CursorOffset() uint64 {
	return e.cursor.Position.OffsetInPara
}

// HasSelection reports whether there is a non-empty selection.
func (e *Editor) HasSelection() bool {
	return e.selection != nil && !e.selection.IsEmpty()
}

// Constraints returns the editor's current page geometry.
func (e *Editor) Constraints() LayoutConstraints {
	return e.constraints
}

// Fonts exposes the font library for host-side registration of
// additional fonts. Per spec.md §5, mutate it only between layout runs.
func (e *Editor) Fonts() *font.Library {
	return e.fonts
}
