package layout

import (
	"github.com/npillmayer/scriven/document"
	"github.com/npillmayer/scriven/font"
)

// RenderDiff describes what a Relayout call changed. Patches is a
// supplemented addition (see SPEC_FULL.md): spec.md §4.H calls RenderDiff
// "currently a carrier for the changed-paragraph set", so this gives that
// set a concrete, typed shape (document.ParagraphPatch) instead of a bare
// id list.
type RenderDiff struct {
	Version document.Version
	Patches []document.ParagraphPatch
}

// State owns per-paragraph layouts, the page list, a dirty set, the Y
// offset cache, and the font library used to measure text (spec.md §3
// "LayoutState").
type State struct {
	Fonts         *font.Library
	ContentWidth  float64
	ContentHeight float64

	layouts       map[document.ParagraphID]ParagraphLayout
	dirty         map[document.ParagraphID]bool
	pages         []PageLayout
	yOffset       map[document.ParagraphID]float64
	layoutVersion document.Version
}

// NewState creates an empty layout state for the given font library and
// content box.
func NewState(fonts *font.Library, contentWidth, contentHeight float64) *State {
	return &State{
		Fonts:         fonts,
		ContentWidth:  contentWidth,
		ContentHeight: contentHeight,
		layouts:       map[document.ParagraphID]ParagraphLayout{},
		dirty:         map[document.ParagraphID]bool{},
		yOffset:       map[document.ParagraphID]float64{},
	}
}

// Invalidate marks the paragraphs touched by an EditResult dirty, and
// forgets layout/Y-offset state for any paragraph the edit deleted.
func (s *State) Invalidate(result document.EditResult) {
	for _, id := range result.AffectedParagraphs {
		s.dirty[id] = true
	}
	for _, id := range result.CreatedParagraphs {
		s.dirty[id] = true
	}
	for _, id := range result.DeletedParagraphs {
		delete(s.layouts, id)
		delete(s.yOffset, id)
		delete(s.dirty, id)
	}
}

// InvalidateAll forces every paragraph in doc to be relaid out and forgets
// all cached pagination.
func (s *State) InvalidateAll(doc *document.Document) {
	s.layouts = map[document.ParagraphID]ParagraphLayout{}
	s.yOffset = map[document.ParagraphID]float64{}
	s.pages = nil
	s.dirty = map[document.ParagraphID]bool{}
	for _, id := range doc.Paragraphs() {
		s.dirty[id] = true
	}
}

// ParagraphLayout returns the cached layout for id, if any.
func (s *State) ParagraphLayout(id document.ParagraphID) (ParagraphLayout, bool) {
	pl, ok := s.layouts[id]
	return pl, ok
}

// Pages returns the current page list.
func (s *State) Pages() []PageLayout {
	return s.pages
}

// ParagraphY returns the cached Y offset for id, if any.
func (s *State) ParagraphY(id document.ParagraphID) (float64, bool) {
	y, ok := s.yOffset[id]
	return y, ok
}

// LayoutVersion returns the document version this state's cache is valid
// for; callers should compare it against document.Version() before trusting
// cached layout.
func (s *State) LayoutVersion() document.Version {
	return s.layoutVersion
}

// IndentFor returns the horizontal indent applied to a block kind's
// content, per spec.md §4.G/§4.I.
func IndentFor(kind document.BlockKind) float64 {
	if kind.Tag != document.KindListItem {
		return 0
	}
	return float64(kind.IndentLevel) * IndentWidth
}

// Relayout implements spec.md §4.H's two-phase algorithm: re-run the line
// breaker for every dirty paragraph (and any paragraph still missing a
// layout), repaginate if any height changed, then refresh the Y-offset
// cache and report what changed.
func (s *State) Relayout(doc *document.Document) RenderDiff {
	paginationDirty := len(s.pages) == 0
	var changed []document.ParagraphID

	for id := range s.dirty {
		meta, ok := doc.BlockMeta(id)
		if !ok {
			continue // paragraph was deleted after being marked dirty
		}
		prior, hadPrior := s.layouts[id]
		pl := LayoutParagraph(doc.ParagraphText(id), meta.Spans, meta.Kind, s.ContentWidth, s.Fonts)
		s.layouts[id] = pl
		changed = append(changed, id)
		if !hadPrior || prior.TotalHeight != pl.TotalHeight {
			paginationDirty = true
		}
	}
	s.dirty = map[document.ParagraphID]bool{}

	for _, id := range doc.Paragraphs() {
		if _, ok := s.layouts[id]; ok {
			continue
		}
		meta, _ := doc.BlockMeta(id)
		pl := LayoutParagraph(doc.ParagraphText(id), meta.Spans, meta.Kind, s.ContentWidth, s.Fonts)
		s.layouts[id] = pl
		changed = append(changed, id)
		paginationDirty = true
	}

	if paginationDirty {
		s.pages = Paginate(doc, s.layouts, s.ContentHeight)
	}
	s.recomputeYOffsets(doc)
	s.layoutVersion = doc.Version()

	patches := make([]document.ParagraphPatch, 0, len(changed))
	for _, id := range changed {
		patches = append(patches, document.ParagraphPatch{ID: id, Kind: document.PatchChanged})
	}
	return RenderDiff{Version: s.layoutVersion, Patches: patches}
}

// recomputeYOffsets walks every paragraph in order, assigning
// paragraph_y[id] = y then y += total_height. spec.md §4.H describes an
// incremental variant starting from the earliest changed paragraph; this
// always recomputes the full cache, which is simpler and still correct
// (see DESIGN.md).
func (s *State) recomputeYOffsets(doc *document.Document) {
	y := 0.0
	for _, id := range doc.Paragraphs() {
		s.yOffset[id] = y
		if pl, ok := s.layouts[id]; ok {
			y += pl.TotalHeight
		}
	}
}

// PositionToX returns the X coordinate of pos within its line, or 0 if
// the paragraph has no layout yet.
func (s *State) PositionToX(pos document.DocPosition) float64 {
	pl, ok := s.layouts[pos.ParaID]
	if !ok {
		return 0
	}
	line := lineAtOffset(pl, pos.OffsetInPara)
	if line == nil {
		return 0
	}
	return xForOffset(*line, pos.OffsetInPara)
}

// lineAtOffset returns the line in pl whose byte range contains offset
// (an offset at a line's own end is considered to belong to that line,
// covering the common "cursor at end of paragraph" case).
func lineAtOffset(pl ParagraphLayout, offset uint64) *LineLayout {
	for i := range pl.Lines {
		l := &pl.Lines[i]
		if offset >= l.ByteRangeInPara[0] && offset <= l.ByteRangeInPara[1] {
			return l
		}
	}
	if len(pl.Lines) > 0 {
		return &pl.Lines[len(pl.Lines)-1]
	}
	return nil
}

// xForOffset returns the x of the first cluster with byte_offset >= byte,
// else the line's total width (spec.md §4.H "cluster picking").
func xForOffset(line LineLayout, byteOffsetInPara uint64) float64 {
	target := int(byteOffsetInPara)
	for _, c := range line.Clusters {
		if c.ByteOffset >= target {
			return c.X
		}
	}
	return line.Width
}

// offsetForX picks the cluster minimizing |cluster.x - x|, also
// considering cluster.x+cluster.width as a snap point just past its end.
func offsetForX(line LineLayout, x float64) uint64 {
	if len(line.Clusters) == 0 {
		return line.ByteRangeInPara[0]
	}
	best := line.Clusters[0]
	bestDist := abs(best.X - x)
	bestIsEnd := false
	for _, c := range line.Clusters {
		if d := abs(c.X - x); d < bestDist {
			best, bestDist, bestIsEnd = c, d, false
		}
		if d := abs(c.X + c.Width - x); d < bestDist {
			best, bestDist, bestIsEnd = c, d, true
		}
	}
	if bestIsEnd {
		return uint64(best.ByteOffset) + uint64(clusterByteLen(line, best))
	}
	return uint64(best.ByteOffset)
}

// clusterByteLen approximates a cluster's byte length from the gap to the
// next cluster, or to the line's end for the last cluster.
func clusterByteLen(line LineLayout, c Cluster) int {
	for i, cl := range line.Clusters {
		if cl == c && i+1 < len(line.Clusters) {
			return line.Clusters[i+1].ByteOffset - cl.ByteOffset
		}
	}
	return int(line.ByteRangeInPara[1]) - c.ByteOffset
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// MoveCursorVertical implements spec.md §4.H's vertical motion: move
// delta_lines lines up/down from pos, preserving preferredX across
// consecutive vertical moves, stepping into the neighboring paragraph
// when delta_lines crosses the current paragraph's line count. ok is
// false if there is no such line (e.g. moving up from the first line).
func (s *State) MoveCursorVertical(doc *document.Document, pos document.DocPosition, deltaLines int, preferredX *float64) (document.DocPosition, bool) {
	pl, ok := s.layouts[pos.ParaID]
	if !ok {
		return document.DocPosition{}, false
	}
	curLineIdx := 0
	for i, l := range pl.Lines {
		if pos.OffsetInPara >= l.ByteRangeInPara[0] && pos.OffsetInPara <= l.ByteRangeInPara[1] {
			curLineIdx = i
			break
		}
	}
	targetX := 0.0
	if preferredX != nil {
		targetX = *preferredX
	} else {
		targetX = s.PositionToX(pos)
	}

	targetIdx := curLineIdx + deltaLines
	paraID := pos.ParaID
	for targetIdx < 0 {
		prevID, ok := prevParagraph(doc, paraID)
		if !ok {
			return document.DocPosition{}, false
		}
		prevPL, ok := s.layouts[prevID]
		if !ok || len(prevPL.Lines) == 0 {
			return document.DocPosition{}, false
		}
		paraID = prevID
		pl = prevPL
		targetIdx += len(pl.Lines)
	}
	for targetIdx >= len(pl.Lines) {
		nextID, ok := nextParagraph(doc, paraID)
		if !ok {
			return document.DocPosition{}, false
		}
		nextPL, ok := s.layouts[nextID]
		if !ok || len(nextPL.Lines) == 0 {
			return document.DocPosition{}, false
		}
		targetIdx -= len(pl.Lines)
		paraID = nextID
		pl = nextPL
	}

	line := pl.Lines[targetIdx]
	offset := offsetForX(line, targetX)
	return document.DocPosition{ParaID: paraID, OffsetInPara: offset}, true
}

func prevParagraph(doc *document.Document, id document.ParagraphID) (document.ParagraphID, bool) {
	paras := doc.Paragraphs()
	for i, p := range paras {
		if p == id {
			if i == 0 {
				return 0, false
			}
			return paras[i-1], true
		}
	}
	return 0, false
}

func nextParagraph(doc *document.Document, id document.ParagraphID) (document.ParagraphID, bool) {
	paras := doc.Paragraphs()
	for i, p := range paras {
		if p == id {
			if i+1 >= len(paras) {
				return 0, false
			}
			return paras[i+1], true
		}
	}
	return 0, false
}
