package document

import (
	"bufio"
	"strings"

	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/segment"
)

// graphemeWindow bounds how much surrounding text a single grapheme-
// boundary query decodes. Extended grapheme clusters are short (a base
// character plus a handful of combining marks/modifiers), so a window
// this size always contains the true boundary while avoiding a full
// document scan for every cursor step.
const graphemeWindow = 256

// NextGraphemeOffset returns the offset of the next extended grapheme
// cluster boundary strictly after offset, operating on the full document
// text (spec.md §9's "Open question — grapheme handling across paragraph
// boundaries" is resolved here: document-wide, not per-paragraph, so
// cursor motion is continuous across paragraph separators).
func (d *Document) NextGraphemeOffset(offset uint64) uint64 {
	total := d.text.Len()
	if offset >= total {
		return total
	}
	lo := d.snapBoundaryBackward(subClamp(offset, graphemeWindow))
	hi := d.snapBoundaryForward(addClamp(offset, graphemeWindow, total), total)
	window, err := d.text.Slice(lo, hi)
	if err != nil {
		return total
	}
	boundary := nextBoundaryIn(window, int(offset-lo))
	return lo + uint64(boundary)
}

// PrevGraphemeOffset returns the offset of the extended grapheme cluster
// boundary immediately before offset.
func (d *Document) PrevGraphemeOffset(offset uint64) uint64 {
	if offset == 0 {
		return 0
	}
	lo := d.snapBoundaryBackward(subClamp(offset, graphemeWindow))
	hi := d.snapBoundaryForward(addClamp(offset, graphemeWindow, d.text.Len()), d.text.Len())
	window, err := d.text.Slice(lo, hi)
	if err != nil {
		return 0
	}
	boundary := prevBoundaryIn(window, int(offset-lo))
	return lo + uint64(boundary)
}

func subClamp(v uint64, delta int) uint64 {
	if v < uint64(delta) {
		return 0
	}
	return v - uint64(delta)
}

func addClamp(v uint64, delta int, max uint64) uint64 {
	r := v + uint64(delta)
	if r > max {
		return max
	}
	return r
}

// snapBoundaryBackward walks offset backward onto a UTF-8 char boundary.
// subClamp's raw byte arithmetic can land mid-rune for any text with
// multi-byte characters near the window edge; a UTF-8 sequence is at most
// 4 bytes, so 3 steps always reach the preceding boundary.
func (d *Document) snapBoundaryBackward(offset uint64) uint64 {
	for i := 0; i < 3 && offset > 0 && !d.text.IsCharBoundary(offset); i++ {
		offset--
	}
	return offset
}

// snapBoundaryForward walks offset forward onto a UTF-8 char boundary,
// the mirror of snapBoundaryBackward for addClamp's window edge.
func (d *Document) snapBoundaryForward(offset, max uint64) uint64 {
	for i := 0; i < 3 && offset < max && !d.text.IsCharBoundary(offset); i++ {
		offset++
	}
	return offset
}

// nextBoundaryIn walks grapheme-cluster boundaries in text and returns the
// first one strictly after offset (or len(text) if none).
func nextBoundaryIn(text string, offset int) int {
	seg := newGraphemeSegmenter(text)
	pos := 0
	for seg.Next() {
		pos += len(seg.Bytes())
		if pos > offset {
			return pos
		}
	}
	return len(text)
}

// prevBoundaryIn walks grapheme-cluster boundaries in text and returns the
// last one strictly before offset (or 0 if none).
func prevBoundaryIn(text string, offset int) int {
	seg := newGraphemeSegmenter(text)
	prev := 0
	pos := 0
	for seg.Next() {
		pos += len(seg.Bytes())
		if pos >= offset {
			return prev
		}
		prev = pos
	}
	return prev
}

// newGraphemeSegmenter constructs a UAX #29 extended-grapheme-cluster
// segmenter over text, following the same segment.NewSegmenter(breaker)
// / segmenter.Init(bufio.NewReader(...)) shape used for UAX #14 line
// breaking elsewhere in this codebase.
func newGraphemeSegmenter(text string) *segment.Segmenter {
	seg := segment.NewSegmenter(grapheme.NewBreaker())
	seg.Init(bufio.NewReader(strings.NewReader(text)))
	return seg
}
