package document

import (
	"strings"

	"github.com/npillmayer/scriven/font"
	"github.com/npillmayer/scriven/rope"
)

// Document composes a rope, a paragraph index and per-paragraph block
// metadata into the editable engine core (spec.md §3/§4.C). It owns
// paragraph-identity allocation and the document's logical version clock.
type Document struct {
	text    rope.Rope
	index   *ParagraphIndex
	blocks  map[ParagraphID]*BlockMeta
	ids     idAllocator
	version Version
}

// New creates an empty document with a single empty paragraph.
func New() *Document {
	d := &Document{blocks: map[ParagraphID]*BlockMeta{}}
	id := d.ids.alloc()
	d.index = NewParagraphIndex(id, 0)
	d.blocks[id] = &BlockMeta{Kind: Paragraph(), StartOffset: 0, ByteLen: 0}
	return d
}

// FromText creates a document whose paragraphs are the '\n'-separated
// segments of s, all in the plain Paragraph block kind with no style spans.
func FromText(s string) *Document {
	d := &Document{blocks: map[ParagraphID]*BlockMeta{}}
	segments := strings.Split(s, "\n")
	start := uint64(0)
	var prevID ParagraphID
	for i, seg := range segments {
		id := d.ids.alloc()
		length := uint64(len(seg))
		d.blocks[id] = &BlockMeta{Kind: Paragraph(), StartOffset: start, ByteLen: length}
		if i == 0 {
			d.index = NewParagraphIndex(id, length)
		} else {
			d.index.InsertAfter(prevID, id, start, length)
		}
		prevID = id
		start += length + 1
	}
	d.text = rope.FromString(s)
	return d
}

// Version returns the document's current logical clock value.
func (d *Document) Version() Version {
	return d.version
}

// Len returns the document's total byte length, including paragraph
// separators.
func (d *Document) Len() uint64 {
	return d.text.Len()
}

// Text returns the full document text.
func (d *Document) Text() string {
	return d.text.String()
}

// TextRange returns the text in [start,end), clamped to the document's
// bounds.
func (d *Document) TextRange(start, end uint64) string {
	if end > d.text.Len() {
		end = d.text.Len()
	}
	if start > end {
		start = end
	}
	s, err := d.text.Slice(start, end)
	if err != nil {
		return ""
	}
	return s
}

// ParagraphText returns the text of one paragraph, or "" if id is unknown
// (spec.md §7 default fallback).
func (d *Document) ParagraphText(id ParagraphID) string {
	span, ok := d.index.Span(id)
	if !ok {
		return ""
	}
	return d.TextRange(span.Start, span.End())
}

// BlockMeta returns the block metadata for id.
func (d *Document) BlockMeta(id ParagraphID) (BlockMeta, bool) {
	b, ok := d.blocks[id]
	if !ok {
		return BlockMeta{}, false
	}
	return *b, true
}

// Paragraphs returns every paragraph id in document order.
func (d *Document) Paragraphs() []ParagraphID {
	return d.index.Iter()
}

// PositionToOffset resolves a DocPosition to an absolute byte offset. A
// stale paragraph id (removed by an edit the caller hasn't observed yet)
// falls back to offset 0 per spec.md §7.
func (d *Document) PositionToOffset(pos DocPosition) uint64 {
	span, ok := d.index.Span(pos.ParaID)
	if !ok {
		return 0
	}
	off := pos.OffsetInPara
	if off > span.ByteLen {
		off = span.ByteLen
	}
	return span.Start + off
}

// OffsetToPosition resolves an absolute byte offset to a DocPosition,
// clamping offset to the document's bounds and to the owning paragraph's
// length when the offset falls within a separator.
func (d *Document) OffsetToPosition(offset uint64) DocPosition {
	if offset > d.text.Len() {
		offset = d.text.Len()
	}
	id, start := d.index.ParaAtOffset(offset)
	span, _ := d.index.Span(id)
	offInPara := offset - start
	if offInPara > span.ByteLen {
		offInPara = span.ByteLen
	}
	return DocPosition{ParaID: id, OffsetInPara: offInPara}
}

// ComparePositions orders two DocPositions: by paragraph sequence order
// first, then by offset within a shared paragraph. Suitable as the cmp
// argument to Selection.Ordered/Contains.
func (d *Document) ComparePositions(a, b DocPosition) int {
	if a.ParaID == b.ParaID {
		switch {
		case a.OffsetInPara < b.OffsetInPara:
			return -1
		case a.OffsetInPara > b.OffsetInPara:
			return 1
		default:
			return 0
		}
	}
	ai := d.index.SequencePosition(a.ParaID)
	bi := d.index.SequencePosition(b.ParaID)
	switch {
	case ai < bi:
		return -1
	case ai > bi:
		return 1
	default:
		return 0
	}
}

// ApplyEdit applies op, bumping the document's version by exactly one for
// this top-level call regardless of how many leaf ops a Transaction
// contains (spec.md §4.C/§9).
func (d *Document) ApplyEdit(op EditOp) EditResult {
	d.version++
	result := d.applyOp(op)
	for id, b := range d.blocks {
		if span, ok := d.index.Span(id); ok {
			b.StartOffset = span.Start
		}
	}
	result.Version = d.version
	return result
}

func (d *Document) applyOp(op EditOp) EditResult {
	switch op.Tag {
	case OpInsert:
		return d.insertText(op.Position, op.Text)
	case OpDelete:
		return d.deleteRange(op.Start, op.End)
	case OpTransaction:
		var result EditResult
		for _, child := range op.Ops {
			mergeResults(&result, d.applyOp(child))
		}
		return result
	default:
		return EditResult{}
	}
}

// ComputeReverse builds the EditOp that undoes op. For a Delete, the
// caller MUST call this before applying op, since it reads the text about
// to be removed.
func (d *Document) ComputeReverse(op EditOp) EditOp {
	switch op.Tag {
	case OpInsert:
		return Delete(op.Position, op.Position+uint64(len(op.Text)))
	case OpDelete:
		return Insert(op.Start, d.TextRange(op.Start, op.End))
	case OpTransaction:
		reversed := make([]EditOp, len(op.Ops))
		for i, child := range op.Ops {
			reversed[len(op.Ops)-1-i] = d.ComputeReverse(child)
		}
		return Transaction(reversed...)
	default:
		return EditOp{}
	}
}

// FormatRange applies fontID to every byte in [start,end), splitting and
// merging affected paragraphs' style spans, and bumps the version once.
func (d *Document) FormatRange(start, end uint64, fontID font.ID) EditResult {
	d.version++
	if end > d.text.Len() {
		end = d.text.Len()
	}
	var affected []ParagraphID
	for _, id := range d.index.IterFrom(start) {
		span, ok := d.index.Span(id)
		if !ok || span.Start >= end {
			break
		}
		lo := uint64(0)
		if start > span.Start {
			lo = start - span.Start
		}
		hi := span.ByteLen
		if end < span.End() {
			hi = end - span.Start
		}
		if hi <= lo {
			continue
		}
		block := d.blocks[id]
		block.Spans = formatRange(block.Spans, lo, hi, fontID)
		affected = append(affected, id)
	}
	return EditResult{Version: d.version, AffectedParagraphs: affected}
}

// insertText implements spec.md §4.C's insert algorithm: locate the host
// paragraph, insert into the rope, then either extend the host (no
// newlines in the inserted text) or split it into fresh paragraphs at
// every newline.
func (d *Document) insertText(position uint64, text string) EditResult {
	if text == "" {
		return EditResult{NewCursor: d.OffsetToPosition(position)}
	}
	hostID, hostStart := d.index.ParaAtOffset(position)
	hostSpan, _ := d.index.Span(hostID)
	host := d.blocks[hostID]
	offsetInPara := position - hostStart

	newRope, err := d.text.Insert(position, text)
	assert(err == nil, "insertText: rope insert failed")
	d.text = newRope

	newlineIdxs := newlineOffsets(text)
	result := EditResult{}

	if len(newlineIdxs) == 0 {
		host.ByteLen = hostSpan.ByteLen + uint64(len(text))
		host.Spans = onInsert(host.Spans, offsetInPara, uint64(len(text)))
		d.index.UpdateLength(hostID, host.ByteLen)
		d.index.UpdateLengthsAfter(hostStart+1, int64(len(text)))
		result.AffectedParagraphs = []ParagraphID{hostID}
		result.NewCursor = DocPosition{ParaID: hostID, OffsetInPara: offsetInPara + uint64(len(text))}
		if host.Kind.Tag == KindListItem {
			d.renumberList(host.Kind.ListID)
		}
		return result
	}

	// Existing paragraphs strictly after the host shift by the full
	// inserted length, independent of how many new paragraphs we split
	// the host's own content into.
	d.index.UpdateLengthsAfter(hostStart+1, int64(len(text)))

	expandedSpans := onInsert(host.Spans, offsetInPara, uint64(len(text)))
	combinedLen := hostSpan.ByteLen + uint64(len(text))

	type segment struct {
		length uint64
		spans  []StyleSpan
	}
	var segments []segment
	remaining := expandedSpans
	cursor := uint64(0)
	for _, idx := range newlineIdxs {
		abs := offsetInPara + uint64(idx)
		before, after := cutAtSeparator(remaining, abs-cursor)
		segments = append(segments, segment{length: abs - cursor, spans: before})
		remaining = after
		cursor = abs + 1
	}
	segments = append(segments, segment{length: combinedLen - cursor, spans: remaining})

	// Host keeps the first segment and its id.
	host.ByteLen = segments[0].length
	host.Spans = segments[0].spans
	d.index.UpdateLength(hostID, host.ByteLen)

	created := make([]ParagraphID, 0, len(segments)-1)
	prevID := hostID
	runningStart := hostStart + segments[0].length + 1
	for _, seg := range segments[1:] {
		newID := d.ids.alloc()
		d.index.InsertAfter(prevID, newID, runningStart, seg.length)
		d.blocks[newID] = &BlockMeta{Kind: host.Kind, StartOffset: runningStart, ByteLen: seg.length, Spans: seg.spans}
		created = append(created, newID)
		prevID = newID
		runningStart += seg.length + 1
	}

	result.AffectedParagraphs = []ParagraphID{hostID}
	result.CreatedParagraphs = created
	lastID := hostID
	lastLen := segments[0].length
	if len(created) > 0 {
		lastID = created[len(created)-1]
		lastLen = segments[len(segments)-1].length
	}
	result.NewCursor = DocPosition{ParaID: lastID, OffsetInPara: lastLen}
	if host.Kind.Tag == KindListItem {
		d.renumberList(host.Kind.ListID)
	}
	return result
}

// deleteRange implements spec.md §4.C's delete algorithm: same-paragraph
// deletions shrink one paragraph's spans in place; cross-paragraph
// deletions merge the surviving prefix of the start paragraph with the
// surviving suffix of the end paragraph, retiring every paragraph in
// between (and the end paragraph itself).
func (d *Document) deleteRange(start, end uint64) EditResult {
	if end > d.text.Len() {
		end = d.text.Len()
	}
	if start >= end {
		return EditResult{NewCursor: d.OffsetToPosition(start)}
	}

	startID, startParaStart := d.index.ParaAtOffset(start)
	endID, endParaStart := d.index.ParaAtOffset(end)

	newRope, err := d.text.Delete(start, end)
	assert(err == nil, "deleteRange: rope delete failed")
	d.text = newRope

	offsetInStart := start - startParaStart

	if startID == endID {
		startSpan, _ := d.index.Span(startID)
		offsetInEnd := end - startParaStart
		if offsetInEnd > startSpan.ByteLen {
			offsetInEnd = startSpan.ByteLen
		}
		block := d.blocks[startID]
		block.Spans = onDelete(block.Spans, offsetInStart, offsetInEnd)
		block.ByteLen = startSpan.ByteLen - (end - start)
		d.index.UpdateLength(startID, block.ByteLen)
		d.index.UpdateLengthsAfter(startParaStart+1, -int64(end-start))
		if block.Kind.Tag == KindListItem {
			d.renumberList(block.Kind.ListID)
		}
		return EditResult{
			AffectedParagraphs: []ParagraphID{startID},
			NewCursor:          DocPosition{ParaID: startID, OffsetInPara: offsetInStart},
		}
	}

	endSpan, _ := d.index.Span(endID)
	offsetInEnd := end - endParaStart

	startBlock := d.blocks[startID]
	endBlock := d.blocks[endID]

	survivingEnd := onDelete(endBlock.Spans, 0, offsetInEnd)
	mergedSpans := appendStyles(onDelete(startBlock.Spans, offsetInStart, startBlock.ByteLen), survivingEnd, offsetInStart)
	newStartLen := offsetInStart + (endSpan.ByteLen - offsetInEnd)

	var deleted []ParagraphID
	between := make([]ParagraphID, 0)
	for id, ok := d.index.Next(startID); ok && id != endID; id, ok = d.index.Next(id) {
		between = append(between, id)
	}

	d.index.UpdateLengthsAfter(startParaStart+1, -int64(end-start))

	for _, id := range between {
		delete(d.blocks, id)
		d.index.Remove(id)
		deleted = append(deleted, id)
	}
	delete(d.blocks, endID)
	d.index.Remove(endID)
	deleted = append(deleted, endID)

	startBlock.ByteLen = newStartLen
	startBlock.Spans = mergedSpans
	d.index.UpdateLength(startID, newStartLen)

	if startBlock.Kind.Tag == KindListItem {
		d.renumberList(startBlock.Kind.ListID)
	}

	return EditResult{
		AffectedParagraphs: []ParagraphID{startID},
		DeletedParagraphs:  deleted,
		NewCursor:          DocPosition{ParaID: startID, OffsetInPara: offsetInStart},
	}
}

// renumberList reassigns consecutive ordinals to every numbered list item
// sharing listID, in document order (supplemented feature, see
// SPEC_FULL.md's "list numbering renumber-on-edit" decision).
func (d *Document) renumberList(listID uint64) {
	ordinal := 1
	for _, id := range d.index.Iter() {
		block, ok := d.blocks[id]
		if !ok || block.Kind.Tag != KindListItem || block.Kind.ListID != listID {
			continue
		}
		if block.Kind.Marker.Tag != MarkerNumbered {
			continue
		}
		block.Kind.Marker.Ordinal = ordinal
		ordinal++
	}
}

// newlineOffsets returns the byte offsets of every '\n' in text.
func newlineOffsets(text string) []int {
	var out []int
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			out = append(out, i)
		}
	}
	return out
}

// cutAtSeparator splits spans at byte offset pos like splitStylesAt, but
// additionally drops the one-byte separator itself from the "after" half
// (paragraph separators are not part of either paragraph's content).
func cutAtSeparator(spans []StyleSpan, pos uint64) (before, after []StyleSpan) {
	b, a := splitStylesAt(spans, pos)
	return b, dropLeadingByte(a)
}

func dropLeadingByte(spans []StyleSpan) []StyleSpan {
	out := make([]StyleSpan, 0, len(spans))
	for _, s := range spans {
		if s.End <= 1 {
			continue
		}
		start := s.Start
		if start > 0 {
			start--
		}
		end := s.End - 1
		if end > start {
			out = append(out, StyleSpan{Start: start, End: end, FontID: s.FontID})
		}
	}
	return out
}
