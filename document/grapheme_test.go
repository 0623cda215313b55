package document

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestGraphemeOffsetsSnapToCharBoundaryAcrossWindow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "document")
	defer teardown()
	//
	// 300 copies of a 3-byte CJK rune: 900 bytes total, well over twice
	// graphemeWindow, so offsets near the middle force subClamp/addClamp
	// to land the scan window mid-rune unless snapped.
	text := strings.Repeat("あ", 300)
	d := FromText(text)

	offsets := []uint64{3, 93, 255, 258, 300, 450, 600, 642, 645, 897}
	for _, off := range offsets {
		next := d.NextGraphemeOffset(off)
		if !d.text.IsCharBoundary(next) {
			t.Errorf("NextGraphemeOffset(%d) = %d, not a char boundary", off, next)
		}
		prev := d.PrevGraphemeOffset(off)
		if !d.text.IsCharBoundary(prev) {
			t.Errorf("PrevGraphemeOffset(%d) = %d, not a char boundary", off, prev)
		}
	}
}

func TestGraphemeOffsetsStepByOneRuneInLongMultibyteText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "document")
	defer teardown()
	//
	text := strings.Repeat("あ", 300)
	d := FromText(text)

	// Each rune is its own grapheme cluster, so stepping from any rune
	// boundary lands exactly 3 bytes away in either direction, even when
	// the scan window (offset +/- 256) straddles unrelated rune bounds.
	for _, off := range []uint64{300, 450, 597} {
		if next := d.NextGraphemeOffset(off); next != off+3 {
			t.Errorf("NextGraphemeOffset(%d) = %d, want %d", off, next, off+3)
		}
		if prev := d.PrevGraphemeOffset(off); prev != off-3 {
			t.Errorf("PrevGraphemeOffset(%d) = %d, want %d", off, prev, off-3)
		}
	}
}

// TestGraphemeDeleteSurvivesLongMultibyteText exercises the real failure
// path from a reviewer's bug report: Editor.Delete uses Prev/NextGrapheme-
// Offset results to drive ApplyEdit(Delete(...)), which asserts its
// offsets are char boundaries. A mid-rune window would produce a bogus
// boundary here and panic.
func TestGraphemeDeleteSurvivesLongMultibyteText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "document")
	defer teardown()
	//
	text := strings.Repeat("あ", 300)
	d := FromText(text)

	at := uint64(450)
	prev := d.PrevGraphemeOffset(at)
	result := d.ApplyEdit(Delete(prev, at))
	if want := Version(1); result.Version != want {
		t.Errorf("version = %d, want %d", result.Version, want)
	}
	if got := d.text.Len(); got != uint64(len(text))-3 {
		t.Errorf("rope length after delete = %d, want %d", got, len(text)-3)
	}

	next := d.NextGraphemeOffset(at - 3)
	d.ApplyEdit(Delete(at-3, next))
	if got := d.text.Len(); got != uint64(len(text))-6 {
		t.Errorf("rope length after second delete = %d, want %d", got, len(text)-6)
	}
}

func TestGraphemeOffsetsHandleMixedWidthGraphemeClustersPastWindow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "document")
	defer teardown()
	//
	// Emoji with variation selectors/ZWJ sequences mixed with plain ASCII,
	// repeated past graphemeWindow, to exercise multi-byte, multi-rune
	// grapheme clusters straddling the scan window rather than a single
	// fixed-width rune.
	cluster := "e\U0001F468\u200d\U0001F469\u200d\U0001F467" // "e" + family emoji (ZWJ sequence)
	text := strings.Repeat(cluster, 30)                       // well over 256 bytes
	d := FromText(text)

	mid := uint64(len(text) / 2)
	next := d.NextGraphemeOffset(mid)
	if !d.text.IsCharBoundary(next) {
		t.Errorf("NextGraphemeOffset(%d) = %d, not a char boundary", mid, next)
	}
	prev := d.PrevGraphemeOffset(mid)
	if !d.text.IsCharBoundary(prev) {
		t.Errorf("PrevGraphemeOffset(%d) = %d, not a char boundary", mid, prev)
	}
}
