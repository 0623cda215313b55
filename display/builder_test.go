package display

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/scriven/document"
	"github.com/npillmayer/scriven/font"
	"github.com/npillmayer/scriven/layout"
)

func testLibrary() *font.Library {
	return font.NewLibrary(font.DefaultMetrics())
}

func TestBuildEmitsOneTextRunPerLine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "display")
	defer teardown()
	//
	doc := document.FromText("hello\nworld")
	st := layout.NewState(testLibrary(), 800, 1000)
	st.Relayout(doc)

	cursor := document.DocPosition{ParaID: doc.Paragraphs()[0], OffsetInPara: 0}
	dl := Build(doc, st, 1056, 96, 0, 1056, cursor, nil)
	if len(dl.Pages) != 1 {
		t.Fatalf("expected 1 page in viewport, got %d", len(dl.Pages))
	}
	if len(dl.Pages[0].TextRuns) != 2 {
		t.Fatalf("expected 2 text runs (one per paragraph's single line), got %d", len(dl.Pages[0].TextRuns))
	}
	if dl.Pages[0].TextRuns[0].Text != "hello" || dl.Pages[0].TextRuns[1].Text != "world" {
		t.Errorf("unexpected text run contents: %+v", dl.Pages[0].TextRuns)
	}
}

func TestBuildEmitsCaretOnCursorLine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "display")
	defer teardown()
	//
	doc := document.FromText("hello")
	st := layout.NewState(testLibrary(), 800, 1000)
	st.Relayout(doc)

	cursor := document.DocPosition{ParaID: doc.Paragraphs()[0], OffsetInPara: 3}
	dl := Build(doc, st, 1056, 96, 0, 1056, cursor, nil)
	if dl.Pages[0].Caret == nil {
		t.Fatalf("expected a caret to be emitted")
	}
	if dl.Pages[0].Caret.Utf16InLine != 3 {
		t.Errorf("Caret.Utf16InLine = %d, want 3", dl.Pages[0].Caret.Utf16InLine)
	}
}

func TestBuildEmitsNoListMarkerForPlainParagraph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "display")
	defer teardown()
	//
	doc := document.New()
	doc.ApplyEdit(document.Insert(0, "item one"))
	st := layout.NewState(testLibrary(), 200, 1000)
	st.InvalidateAll(doc)
	st.Relayout(doc)

	cursor := document.DocPosition{ParaID: doc.Paragraphs()[0]}
	dl := Build(doc, st, 1056, 96, 0, 1056, cursor, nil)
	if len(dl.Pages[0].Markers) != 0 {
		t.Errorf("plain paragraph should not emit a list marker, got %d", len(dl.Pages[0].Markers))
	}
}

func TestBuildSkipsPagesOutsideViewport(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "display")
	defer teardown()
	//
	doc := document.FromText("a\nb\nc\nd")
	st := layout.NewState(testLibrary(), 800, 30)
	st.Relayout(doc)
	if len(st.Pages()) < 2 {
		t.Fatalf("expected multiple pages for this setup, got %d", len(st.Pages()))
	}

	cursor := document.DocPosition{ParaID: doc.Paragraphs()[0]}
	dl := Build(doc, st, 30, 96, 1000, 30, cursor, nil)
	if len(dl.Pages) != 0 {
		t.Errorf("expected no pages to overlap a far-away viewport, got %d", len(dl.Pages))
	}
}

func TestLineStylesIntersectsAndRebasesToLineLocal(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "display")
	defer teardown()
	//
	spans := []document.StyleSpan{{Start: 2, End: 8, FontID: 1}}
	out := lineStyles(spans, [2]uint64{5, 10})
	if len(out) != 1 {
		t.Fatalf("expected 1 intersecting style run, got %d", len(out))
	}
	if out[0].ByteStartInLine != 0 || out[0].ByteLen != 3 {
		t.Errorf("got %+v, want start=0 len=3 (intersection [5,8) rebased by 5)", out[0])
	}
}
