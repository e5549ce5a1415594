package signals

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Luigi-p-git/sitelens/internal/analysis"
	"github.com/Luigi-p-git/sitelens/internal/markup"
)

// ExtractSEO reads title, meta description, meta keywords, and the total
// meta-tag count directly from the head.
func ExtractSEO(doc *markup.Document) analysis.SEOInfo {
	return analysis.SEOInfo{
		Title:        strings.TrimSpace(doc.Find("title").First().Text()),
		Description:  metaContent(doc, "description"),
		Keywords:     metaContent(doc, "keywords"),
		MetaTagCount: doc.Find("meta").Length(),
	}
}

func metaContent(doc *markup.Document, name string) string {
	var content string
	doc.Find("meta[name]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if attr, _ := s.Attr("name"); strings.EqualFold(attr, name) {
			content, _ = s.Attr("content")
			return false
		}
		return true
	})
	return strings.TrimSpace(content)
}
