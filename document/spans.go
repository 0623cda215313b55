package document

import (
	"sort"

	"github.com/npillmayer/scriven/font"
)

// StyleSpan is a [Start,End) -> FontID fragment within one paragraph.
// Positions are relative to the paragraph they describe.
//
// Invariants (S1-S4): 0 <= Start < End <= byte_len; spans are disjoint and
// sorted by Start; adjacent spans with identical FontID are merged; gaps
// represent the default font.
type StyleSpan struct {
	Start  uint64
	End    uint64
	FontID font.ID
}

// onInsert transforms a sorted span set for an insertion of length at
// offset, following spec.md §4.C verbatim: a span containing offset in its
// interior (offset > start && offset <= end) grows; a span starting at or
// after offset shifts wholesale; a span entirely before offset is
// untouched.
func onInsert(spans []StyleSpan, offset, length uint64) []StyleSpan {
	out := make([]StyleSpan, len(spans))
	for i, s := range spans {
		switch {
		case offset > s.Start && offset <= s.End:
			s.End += length
		case offset <= s.Start:
			s.Start += length
			s.End += length
		}
		out[i] = s
	}
	return out
}

// onDelete transforms a sorted span set for a deletion of [start,end),
// per spec.md §4.C: spans before start are untouched; spans after end
// shift back by (end-start); spans intersecting the deleted range are
// clipped/shrunk; spans reduced to empty are dropped.
func onDelete(spans []StyleSpan, start, end uint64) []StyleSpan {
	shift := end - start
	out := make([]StyleSpan, 0, len(spans))
	for _, s := range spans {
		switch {
		case s.End <= start:
			out = append(out, s)
		case s.Start >= end:
			out = append(out, StyleSpan{Start: s.Start - shift, End: s.End - shift, FontID: s.FontID})
		default:
			newStart := minU64(s.Start, start)
			var newEnd uint64
			if s.End <= end {
				newEnd = start
			} else {
				newEnd = s.End - shift
			}
			if newEnd > newStart {
				out = append(out, StyleSpan{Start: newStart, End: newEnd, FontID: s.FontID})
			}
		}
	}
	return out
}

func minU64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// splitStylesAt splits a sorted span set at byte offset split (spec.md
// §4.C): spans fully before split stay; spans fully after get offsets
// rebased to 0; a span crossing split duplicates, with the right half
// rebased.
func splitStylesAt(spans []StyleSpan, split uint64) (before, after []StyleSpan) {
	for _, s := range spans {
		switch {
		case s.End <= split:
			before = append(before, s)
		case s.Start >= split:
			after = append(after, StyleSpan{Start: s.Start - split, End: s.End - split, FontID: s.FontID})
		default:
			before = append(before, StyleSpan{Start: s.Start, End: split, FontID: s.FontID})
			after = append(after, StyleSpan{Start: 0, End: s.End - split, FontID: s.FontID})
		}
	}
	return before, after
}

// appendStyles appends other's spans to spans, with every bound in other
// shifted by offsetShift. The caller is responsible for passing the
// correct join point.
func appendStyles(spans []StyleSpan, other []StyleSpan, offsetShift uint64) []StyleSpan {
	out := append([]StyleSpan{}, spans...)
	for _, s := range other {
		out = append(out, StyleSpan{Start: s.Start + offsetShift, End: s.End + offsetShift, FontID: s.FontID})
	}
	return out
}

// formatRange applies fontID to [start,end), per spec.md §4.C: splits
// spans at the range boundaries, drops the interior, inserts one new
// span, re-sorts, then merges adjacent spans sharing a font id.
func formatRange(spans []StyleSpan, start, end uint64, fontID font.ID) []StyleSpan {
	if end <= start {
		return spans
	}
	out := make([]StyleSpan, 0, len(spans)+1)
	for _, s := range spans {
		if s.End <= start || s.Start >= end {
			out = append(out, s)
			continue
		}
		if s.Start < start {
			out = append(out, StyleSpan{Start: s.Start, End: start, FontID: s.FontID})
		}
		if s.End > end {
			out = append(out, StyleSpan{Start: end, End: s.End, FontID: s.FontID})
		}
	}
	out = append(out, StyleSpan{Start: start, End: end, FontID: fontID})
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return mergeAdjacentSpans(out)
}

// mergeAdjacentSpans merges consecutive spans sharing a font id (S3).
func mergeAdjacentSpans(spans []StyleSpan) []StyleSpan {
	if len(spans) == 0 {
		return spans
	}
	out := make([]StyleSpan, 0, len(spans))
	cur := spans[0]
	for _, s := range spans[1:] {
		if s.Start == cur.End && s.FontID == cur.FontID {
			cur.End = s.End
			continue
		}
		out = append(out, cur)
		cur = s
	}
	out = append(out, cur)
	return out
}
