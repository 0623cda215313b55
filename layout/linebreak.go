package layout

import (
	"bufio"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/npillmayer/scriven/document"
	"github.com/npillmayer/scriven/font"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/segment"
)

// Cluster is one extended grapheme cluster placed on a line.
type Cluster struct {
	ByteOffset int // relative to the paragraph
	X          float64
	Width      float64
}

// LineLayout is one visual line within a paragraph.
type LineLayout struct {
	ByteRangeInPara [2]uint64 // [start,end) relative to the paragraph, end exclusive
	Clusters        []Cluster
	Height          float64
	Baseline        float64
	Width           float64
}

// ParagraphLayout is the line-broken result for one paragraph.
type ParagraphLayout struct {
	Lines       []LineLayout
	TotalHeight float64
	ContentHash uint64
}

// LayoutParagraph breaks text into lines per spec.md §4.G: iterating
// extended grapheme clusters, tracking a soft-wrap break point at the
// last whitespace cluster, and closing a line whenever the next cluster
// would overflow maxWidth (reduced by an indent for list items).
//
// Grounded on styled/formatter/format.go's firstFit, which drives a
// segment.Segmenter the same way (segment.NewSegmenter(breaker) +
// segmenter.Init(bufio.NewReader(...))) but over word fragments via
// uax14.NewLineWrap(); here the breaker is grapheme.NewBreaker() since
// spec.md's algorithm operates per grapheme cluster, not per word.
func LayoutParagraph(text string, spans []document.StyleSpan, kind document.BlockKind, maxWidth float64, fonts *font.Library) ParagraphLayout {
	effectiveWidth := maxWidth
	if kind.Tag == document.KindListItem {
		effectiveWidth = maxWidth - float64(kind.IndentLevel)*IndentWidth
	}

	if text == "" {
		dm := fonts.Lookup(font.DefaultID)
		h := dm.LineHeight * kind.LineHeightMultiplier()
		return ParagraphLayout{
			Lines:       []LineLayout{{ByteRangeInPara: [2]uint64{0, 0}, Height: dm.LineHeight}},
			TotalHeight: h + kind.SpacingAfterUnits()*SpacingUnit,
			ContentHash: hashText(text),
		}
	}

	var lines []LineLayout
	var clusters []Cluster
	lineStart := uint64(0)
	x := 0.0
	haveBreak := false
	var breakByteOffset uint64
	var breakX float64

	flushLine := func(end uint64) {
		h := lineHeight(clusters, spans, fonts) * kind.LineHeightMultiplier()
		width := 0.0
		if n := len(clusters); n > 0 {
			last := clusters[n-1]
			width = last.X + last.Width
		}
		lines = append(lines, LineLayout{
			ByteRangeInPara: [2]uint64{lineStart, end},
			Clusters:        clusters,
			Height:          h,
			Baseline:        h * 0.8,
			Width:           width,
		})
	}

	seg := segment.NewSegmenter(grapheme.NewBreaker())
	seg.Init(bufio.NewReader(strings.NewReader(text)))
	pos := uint64(0)

	for seg.Next() {
		frag := seg.Bytes()
		fragStr := string(frag)
		byteOffset := pos
		pos += uint64(len(frag))

		if fragStr == "\n" {
			flushLine(byteOffset)
			lineStart = pos
			clusters = nil
			x = 0
			haveBreak = false
			continue
		}

		fid := fontForOffset(spans, byteOffset)
		metrics := fonts.Lookup(fid)
		width := clusterWidth(fragStr, metrics)
		whitespace := isWhitespaceCluster(fragStr)

		if x+width > effectiveWidth && len(clusters) > 0 {
			emergency := !haveBreak
			splitByte := byteOffset
			splitX := x
			if haveBreak {
				splitByte = breakByteOffset
				splitX = breakX
			}
			var keep, moved []Cluster
			for _, c := range clusters {
				if uint64(c.ByteOffset) < splitByte {
					keep = append(keep, c)
				} else {
					moved = append(moved, c)
				}
			}
			clusters = keep
			flushLine(splitByte)

			if emergency && whitespace {
				// The cluster that doesn't fit is itself whitespace: it is
				// consumed at the break, like a paragraph-separating
				// newline, and contributes to neither line.
				lineStart = pos
				clusters = nil
				x = 0
				haveBreak = false
				continue
			}

			lineStart = splitByte
			for i := range moved {
				moved[i].X -= splitX
			}
			clusters = moved
			x -= splitX
			haveBreak = false
		}

		clusters = append(clusters, Cluster{ByteOffset: int(byteOffset), X: x, Width: width})
		x += width
		if whitespace {
			haveBreak = true
			breakByteOffset = pos
			breakX = x
		}
	}
	flushLine(pos)

	totalHeight := 0.0
	for _, l := range lines {
		totalHeight += l.Height
	}
	totalHeight += kind.SpacingAfterUnits() * SpacingUnit

	return ParagraphLayout{Lines: lines, TotalHeight: totalHeight, ContentHash: hashText(text)}
}

// fontForOffset resolves the font covering byte offset, falling back to
// the default font when no span covers it (spec.md §4.G).
func fontForOffset(spans []document.StyleSpan, offset uint64) font.ID {
	for _, s := range spans {
		if offset >= s.Start && offset < s.End {
			return s.FontID
		}
	}
	return font.DefaultID
}

// clusterWidth implements spec.md §4.G's per-cluster width rule: a tab is
// 4x the font's default width, an all-control cluster has zero width,
// otherwise it is the sum of the font's per-character widths.
func clusterWidth(frag string, metrics font.Metrics) float64 {
	if frag == "\t" {
		return 4 * metrics.DefaultWidth
	}
	if isAllControl(frag) {
		return 0
	}
	w := 0.0
	for _, r := range frag {
		w += metrics.Width(r)
	}
	return w
}

func isAllControl(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func isWhitespaceCluster(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// lineHeight is the max metric line height over every cluster's active
// font, or the default font's height for an empty line.
func lineHeight(clusters []Cluster, spans []document.StyleSpan, fonts *font.Library) float64 {
	if len(clusters) == 0 {
		dm := fonts.Lookup(font.DefaultID)
		return dm.LineHeight
	}
	max := 0.0
	for _, c := range clusters {
		fid := fontForOffset(spans, uint64(c.ByteOffset))
		m := fonts.Lookup(fid)
		if m.LineHeight > max {
			max = m.LineHeight
		}
	}
	return max
}

// hashText computes a deterministic 64-bit content hash for change
// detection (spec.md §4.G leaves the hash choice free so long as it is
// deterministic within a session); hash/fnv is the standard library's
// non-cryptographic hash and needs no third-party dependency to serve
// this narrow a role.
func hashText(text string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	return h.Sum64()
}
