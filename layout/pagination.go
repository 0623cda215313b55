package layout

import "github.com/npillmayer/scriven/document"

// PageLayout describes one page's paragraph/line span (spec.md §3).
type PageLayout struct {
	PageIndex int
	StartPara document.ParagraphID
	StartLine int
	EndPara   document.ParagraphID
	EndLine   int
}

// Paginate walks every paragraph in doc order and assigns lines to pages
// such that no page's accumulated line height exceeds contentHeight,
// closing a page only once it is non-empty (spec.md §4.H). It always
// produces at least one page, even for an empty document.
//
// This always performs a full repagination rather than the incremental
// truncate-and-resume variant spec.md §4.H describes for large documents;
// see DESIGN.md for why that optimization was left out of this pass.
func Paginate(doc *document.Document, layouts map[document.ParagraphID]ParagraphLayout, contentHeight float64) []PageLayout {
	paras := doc.Paragraphs()
	if len(paras) == 0 {
		return []PageLayout{{PageIndex: 0}}
	}

	var pages []PageLayout
	current := PageLayout{PageIndex: 0, StartPara: paras[0], StartLine: 0}
	yOnPage := 0.0
	started := false

	for _, id := range paras {
		pl, ok := layouts[id]
		if !ok || len(pl.Lines) == 0 {
			continue
		}
		for li, line := range pl.Lines {
			if yOnPage+line.Height > contentHeight && yOnPage > 0 {
				pages = append(pages, current)
				current = PageLayout{PageIndex: len(pages), StartPara: id, StartLine: li}
				yOnPage = 0
			}
			if !started {
				current.StartPara = id
				current.StartLine = li
				started = true
			}
			current.EndPara = id
			current.EndLine = li
			yOnPage += line.Height
		}
	}
	pages = append(pages, current)
	return pages
}
