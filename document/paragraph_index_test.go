package document

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestNewParagraphIndexSingleParagraph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "document")
	defer teardown()
	//
	idx := NewParagraphIndex(1, 10)
	if idx.Len() != 1 {
		t.Fatalf("expected 1 paragraph, got %d", idx.Len())
	}
	span, ok := idx.Span(1)
	if !ok || span.Start != 0 || span.ByteLen != 10 {
		t.Fatalf("unexpected span %+v", span)
	}
}

func TestInsertAfterAndSequenceOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "document")
	defer teardown()
	//
	idx := NewParagraphIndex(1, 5)
	idx.InsertAfter(1, 2, 6, 7)
	idx.InsertAfter(2, 3, 14, 3)
	seq := idx.Iter()
	want := []ParagraphID{1, 2, 3}
	if len(seq) != len(want) {
		t.Fatalf("got %v want %v", seq, want)
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("got %v want %v", seq, want)
		}
	}
	if idx.SequencePosition(3) != 2 {
		t.Fatalf("expected sequence position 2, got %d", idx.SequencePosition(3))
	}
}

func TestParaAtOffset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "document")
	defer teardown()
	//
	idx := NewParagraphIndex(1, 5)
	idx.InsertAfter(1, 2, 6, 7)
	id, start := idx.ParaAtOffset(0)
	if id != 1 || start != 0 {
		t.Fatalf("got id=%d start=%d", id, start)
	}
	id, start = idx.ParaAtOffset(6)
	if id != 2 || start != 6 {
		t.Fatalf("got id=%d start=%d", id, start)
	}
	id, start = idx.ParaAtOffset(5) // the separator byte belongs to paragraph 1
	if id != 1 || start != 0 {
		t.Fatalf("got id=%d start=%d", id, start)
	}
}

func TestRemoveRetiresID(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "document")
	defer teardown()
	//
	idx := NewParagraphIndex(1, 5)
	idx.InsertAfter(1, 2, 6, 7)
	idx.Remove(2)
	if idx.Len() != 1 {
		t.Fatalf("expected 1 paragraph after remove, got %d", idx.Len())
	}
	if _, ok := idx.Span(2); ok {
		t.Fatalf("expected removed id to be gone")
	}
}

func TestUpdateLengthsAfterShiftsOnlyLaterStarts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "document")
	defer teardown()
	//
	idx := NewParagraphIndex(1, 5)
	idx.InsertAfter(1, 2, 6, 7)
	idx.UpdateLengthsAfter(1, 3)
	span1, _ := idx.Span(1)
	span2, _ := idx.Span(2)
	if span1.Start != 0 {
		t.Fatalf("paragraph 1 should not shift, got start=%d", span1.Start)
	}
	if span2.Start != 9 {
		t.Fatalf("paragraph 2 should shift to 9, got %d", span2.Start)
	}
}

func TestIterFromStartsAtOwningParagraph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "document")
	defer teardown()
	//
	idx := NewParagraphIndex(1, 5)
	idx.InsertAfter(1, 2, 6, 7)
	idx.InsertAfter(2, 3, 14, 3)
	got := idx.IterFrom(8)
	want := []ParagraphID{2, 3}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestNextPrev(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "document")
	defer teardown()
	//
	idx := NewParagraphIndex(1, 5)
	idx.InsertAfter(1, 2, 6, 7)
	next, ok := idx.Next(1)
	if !ok || next != 2 {
		t.Fatalf("got next=%d ok=%v", next, ok)
	}
	prev, ok := idx.Prev(2)
	if !ok || prev != 1 {
		t.Fatalf("got prev=%d ok=%v", prev, ok)
	}
	if _, ok := idx.Next(2); ok {
		t.Fatalf("expected no successor after last paragraph")
	}
}
