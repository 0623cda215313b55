package document

import "sort"

// ParagraphSpan is the index's view of one paragraph's location.
type ParagraphSpan struct {
	Start  uint64
	ByteLen uint64
}

// End returns Start+ByteLen.
func (s ParagraphSpan) End() uint64 {
	return s.Start + s.ByteLen
}

// ParagraphIndex maps byte offsets to paragraph identity and back, via
// three coupled structures (spec.md §3/§4.B):
//
//   - an ordered sequence of ids, for first/next/prev/iterate;
//   - id -> (start_byte, byte_len);
//   - a sorted-by-start slice, for "which paragraph holds byte X".
//
// Invariants: (P1) starts strictly increasing in sequence order; (P2)
// start[k+1] = start[k] + byte_len[k] + 1; (P3) union of paragraph byte
// ranges plus separators equals the rope length; (P4) at least one
// paragraph exists, possibly empty.
//
// The sorted-by-start structure is kept as a plain slice with binary
// search rather than an order-statistic tree: paragraph counts remain
// modest for the documents this engine targets (spec.md §4.B explicitly
// allows this trade-off).
type ParagraphIndex struct {
	sequence []ParagraphID
	byID     map[ParagraphID]ParagraphSpan
	byStart  []startEntry
}

type startEntry struct {
	start uint64
	id    ParagraphID
}

// NewParagraphIndex creates an index holding a single paragraph.
func NewParagraphIndex(id ParagraphID, byteLen uint64) *ParagraphIndex {
	idx := &ParagraphIndex{
		sequence: []ParagraphID{id},
		byID:     map[ParagraphID]ParagraphSpan{id: {Start: 0, ByteLen: byteLen}},
		byStart:  []startEntry{{start: 0, id: id}},
	}
	return idx
}

// Len returns the number of paragraphs.
func (idx *ParagraphIndex) Len() int {
	return len(idx.sequence)
}

// Span returns the span for id.
func (idx *ParagraphIndex) Span(id ParagraphID) (ParagraphSpan, bool) {
	s, ok := idx.byID[id]
	return s, ok
}

// InsertAfter inserts a new paragraph immediately after predecessor in
// sequence order.
func (idx *ParagraphIndex) InsertAfter(predecessor, id ParagraphID, start, byteLen uint64) {
	pos := idx.sequenceIndexOf(predecessor)
	assert(pos >= 0, "InsertAfter: predecessor not found")
	idx.sequence = append(idx.sequence, 0)
	copy(idx.sequence[pos+2:], idx.sequence[pos+1:])
	idx.sequence[pos+1] = id
	idx.byID[id] = ParagraphSpan{Start: start, ByteLen: byteLen}
	idx.insertStartEntry(start, id)
}

// Remove deletes a paragraph from the index. The id is never reused.
func (idx *ParagraphIndex) Remove(id ParagraphID) {
	pos := idx.sequenceIndexOf(id)
	assert(pos >= 0, "Remove: id not found")
	idx.sequence = append(idx.sequence[:pos], idx.sequence[pos+1:]...)
	span := idx.byID[id]
	delete(idx.byID, id)
	idx.removeStartEntry(span.Start, id)
}

// UpdateLength sets a new byte length for id.
func (idx *ParagraphIndex) UpdateLength(id ParagraphID, newLen uint64) {
	span, ok := idx.byID[id]
	assert(ok, "UpdateLength: id not found")
	span.ByteLen = newLen
	idx.byID[id] = span
}

// UpdateLengthsAfter shifts the starts of every paragraph whose start is
// >= offset by delta (positive on insert, negative on delete).
func (idx *ParagraphIndex) UpdateLengthsAfter(offset uint64, delta int64) {
	for _, id := range idx.sequence {
		span := idx.byID[id]
		if span.Start >= offset {
			span.Start = shiftOffset(span.Start, delta)
			idx.byID[id] = span
		}
	}
	idx.rebuildByStart()
}

func shiftOffset(start uint64, delta int64) uint64 {
	if delta >= 0 {
		return start + uint64(delta)
	}
	d := uint64(-delta)
	if d > start {
		return 0
	}
	return start - d
}

func (idx *ParagraphIndex) rebuildByStart() {
	entries := make([]startEntry, 0, len(idx.byID))
	for id, span := range idx.byID {
		entries = append(entries, startEntry{start: span.Start, id: id})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].start < entries[j].start })
	idx.byStart = entries
}

// ParaAtOffset returns the paragraph with the largest start <= o.
func (idx *ParagraphIndex) ParaAtOffset(o uint64) (ParagraphID, uint64) {
	if len(idx.byStart) == 0 {
		return 0, 0
	}
	i := sort.Search(len(idx.byStart), func(i int) bool {
		return idx.byStart[i].start > o
	})
	i--
	if i < 0 {
		i = 0
	}
	return idx.byStart[i].id, idx.byStart[i].start
}

// First returns the first paragraph id in sequence order.
func (idx *ParagraphIndex) First() ParagraphID {
	assert(len(idx.sequence) > 0, "paragraph index empty (violates P4)")
	return idx.sequence[0]
}

// Last returns the last paragraph id in sequence order.
func (idx *ParagraphIndex) Last() ParagraphID {
	assert(len(idx.sequence) > 0, "paragraph index empty (violates P4)")
	return idx.sequence[len(idx.sequence)-1]
}

// Next returns the paragraph following id, and false if id is last.
func (idx *ParagraphIndex) Next(id ParagraphID) (ParagraphID, bool) {
	pos := idx.sequenceIndexOf(id)
	if pos < 0 || pos+1 >= len(idx.sequence) {
		return 0, false
	}
	return idx.sequence[pos+1], true
}

// Prev returns the paragraph preceding id, and false if id is first.
func (idx *ParagraphIndex) Prev(id ParagraphID) (ParagraphID, bool) {
	pos := idx.sequenceIndexOf(id)
	if pos <= 0 {
		return 0, false
	}
	return idx.sequence[pos-1], true
}

// Iter returns the paragraph ids in sequence order.
func (idx *ParagraphIndex) Iter() []ParagraphID {
	out := make([]ParagraphID, len(idx.sequence))
	copy(out, idx.sequence)
	return out
}

// IterFrom returns paragraph ids in sequence order starting from the
// paragraph containing byte offset.
func (idx *ParagraphIndex) IterFrom(offset uint64) []ParagraphID {
	id, _ := idx.ParaAtOffset(offset)
	pos := idx.sequenceIndexOf(id)
	if pos < 0 {
		return nil
	}
	out := make([]ParagraphID, len(idx.sequence)-pos)
	copy(out, idx.sequence[pos:])
	return out
}

// SequencePosition returns id's index in sequence order, or -1 if absent.
// Useful for ordering two DocPositions that belong to different paragraphs.
func (idx *ParagraphIndex) SequencePosition(id ParagraphID) int {
	return idx.sequenceIndexOf(id)
}

func (idx *ParagraphIndex) sequenceIndexOf(id ParagraphID) int {
	for i, existing := range idx.sequence {
		if existing == id {
			return i
		}
	}
	return -1
}

func (idx *ParagraphIndex) insertStartEntry(start uint64, id ParagraphID) {
	i := sort.Search(len(idx.byStart), func(i int) bool { return idx.byStart[i].start >= start })
	idx.byStart = append(idx.byStart, startEntry{})
	copy(idx.byStart[i+1:], idx.byStart[i:])
	idx.byStart[i] = startEntry{start: start, id: id}
}

func (idx *ParagraphIndex) removeStartEntry(start uint64, id ParagraphID) {
	for i, e := range idx.byStart {
		if e.id == id {
			idx.byStart = append(idx.byStart[:i], idx.byStart[i+1:]...)
			return
		}
	}
	_ = start
}
