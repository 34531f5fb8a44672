package quote

import "github.com/teslaing/cotizador/internal/models"

// Chapter is one display/export section: a label plus its items in quote order.
type Chapter struct {
	Label string
	Items []models.LineItem
}

// GroupByChapter partitions items into chapters. Chapter labels keep their
// first-appearance order and items keep their quote order within a chapter,
// so rendering order is stable across exports.
func GroupByChapter(items []models.LineItem) []Chapter {
	var out []Chapter
	byLabel := make(map[string]int)
	for _, it := range items {
		label := it.ChapterOrDefault()
		idx, ok := byLabel[label]
		if !ok {
			idx = len(out)
			byLabel[label] = idx
			out = append(out, Chapter{Label: label})
		}
		out[idx].Items = append(out[idx].Items, it)
	}
	return out
}
