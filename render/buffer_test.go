package render

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/scriven/display"
	"github.com/npillmayer/scriven/document"
	"github.com/npillmayer/scriven/font"
	"github.com/npillmayer/scriven/layout"
)

func testLibrary() *font.Library {
	return font.NewLibrary(font.DefaultMetrics())
}

func TestBuildWritesHeaderFields(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "render")
	defer teardown()
	//
	doc := document.FromText("hello\nworld")
	st := layout.NewState(testLibrary(), 800, 1000)
	st.Relayout(doc)
	cursor := document.DocPosition{ParaID: doc.Paragraphs()[0], OffsetInPara: 2}
	dl := display.Build(doc, st, 1056, 96, 0, 1056, cursor, nil)

	buf := Build(doc, dl)
	u32 := buf.U32()
	if u32[hdrMagic] != Magic {
		t.Errorf("magic = %#x, want %#x", u32[hdrMagic], Magic)
	}
	if u32[hdrSchemaVersion] != SchemaVersion {
		t.Errorf("schema version = %d, want %d", u32[hdrSchemaVersion], SchemaVersion)
	}
	if u32[hdrPageCount] != uint32(len(dl.Pages)) {
		t.Errorf("page_count = %d, want %d", u32[hdrPageCount], len(dl.Pages))
	}
	if u32[hdrCursorPresent] != 1 {
		t.Errorf("cursor_present = %d, want 1 (a caret should be on page 0)", u32[hdrCursorPresent])
	}
	if u32[hdrTextBufferLen] != uint32(len(buf.Text())) {
		t.Errorf("text_buffer_len = %d, want %d", u32[hdrTextBufferLen], len(buf.Text()))
	}
}

func TestBuildConcatenatesLineTextIntoTextArray(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "render")
	defer teardown()
	//
	doc := document.FromText("ab\ncd")
	st := layout.NewState(testLibrary(), 800, 1000)
	st.Relayout(doc)
	cursor := document.DocPosition{ParaID: doc.Paragraphs()[0]}
	dl := display.Build(doc, st, 1056, 96, 0, 1056, cursor, nil)

	buf := Build(doc, dl)
	text := string(buf.Text())
	if text != "abcd" {
		t.Errorf("text array = %q, want %q", text, "abcd")
	}
}

func TestBuildRecordsNoSelectionSentinel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "render")
	defer teardown()
	//
	doc := document.FromText("hello")
	st := layout.NewState(testLibrary(), 800, 1000)
	st.Relayout(doc)
	cursor := document.DocPosition{ParaID: doc.Paragraphs()[0]}
	dl := display.Build(doc, st, 1056, 96, 0, 1056, cursor, nil)

	buf := Build(doc, dl)
	u32 := buf.U32()
	// First (only) line record starts right after the 2-field page header.
	lineStart := headerLen + 2
	selStart := u32[lineStart+10]
	selEnd := u32[lineStart+11]
	if selStart != noSelection || selEnd != noSelection {
		t.Errorf("sel_start/sel_end = %d/%d, want sentinel %#x for no selection", selStart, selEnd, noSelection)
	}
}

func TestBlockTypeOpcodes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "render")
	defer teardown()
	//
	if got := blockTypeOf(document.Paragraph()); got != BlockParagraph {
		t.Errorf("Paragraph opcode = %d, want %d", got, BlockParagraph)
	}
	if got := blockTypeOf(document.Heading(2)); got != BlockH2 {
		t.Errorf("Heading(2) opcode = %d, want %d", got, BlockH2)
	}
	if got := blockTypeOf(document.ListItem(1, 0, document.Marker{})); got != BlockListItem {
		t.Errorf("ListItem opcode = %d, want %d", got, BlockListItem)
	}
}
