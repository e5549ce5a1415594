// Package markup parses raw relay markup into the read-only document model
// shared by every signal extractor. Parsing is structural only: no script
// execution and no fetching of referenced subresources.
package markup

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/Luigi-p-git/sitelens/internal/analysis"
)

// Document is the traversable representation of one fetched page. All fields
// are populated during Parse and never mutated afterwards, so concurrent
// extractors may read it without locking.
type Document struct {
	doc      *goquery.Document
	raw      string
	lowered  string
	relay    string
	haystack string
}

// Parse builds a Document from the fetched markup. It fails with a
// ParseFailure taxonomy error when the markup cannot be tokenized or yields
// no usable root.
func Parse(rawDoc analysis.RawDocument) (*Document, error) {
	trimmed := strings.TrimSpace(rawDoc.Markup)
	if trimmed == "" {
		return nil, analysis.NewError(analysis.KindParseFailure, "markup is empty after normalization", nil)
	}

	root, err := html.Parse(strings.NewReader(rawDoc.Markup))
	if err != nil {
		return nil, analysis.NewError(analysis.KindParseFailure, "tokenize markup: "+err.Error(), err)
	}
	if root.FirstChild == nil {
		return nil, analysis.NewError(analysis.KindParseFailure, "markup yielded no document root", nil)
	}

	doc := goquery.NewDocumentFromNode(root)
	d := &Document{
		doc:     doc,
		raw:     rawDoc.Markup,
		lowered: strings.ToLower(rawDoc.Markup),
		relay:   rawDoc.Relay,
	}
	d.haystack = d.buildHaystack()
	return d, nil
}

// buildHaystack concatenates the lowered markup with every script source and
// stylesheet href so pattern tables can match in one pass. References are
// inspected as text only, never retrieved.
func (d *Document) buildHaystack() string {
	var b strings.Builder
	b.WriteString(d.lowered)
	d.doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			b.WriteByte('\n')
			b.WriteString(strings.ToLower(src))
		}
	})
	d.doc.Find("link[rel='stylesheet']").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			b.WriteByte('\n')
			b.WriteString(strings.ToLower(href))
		}
	})
	return b.String()
}

// Find delegates to the underlying goquery document.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// Raw returns the original markup text.
func (d *Document) Raw() string { return d.raw }

// Lowered returns the lowercased markup text.
func (d *Document) Lowered() string { return d.lowered }

// Haystack returns the lowered markup plus script/stylesheet references,
// the input used by pattern-table matching.
func (d *Document) Haystack() string { return d.haystack }

// Relay names the relay the markup came from.
func (d *Document) Relay() string { return d.relay }

// Size returns the markup length in bytes.
func (d *Document) Size() int { return len(d.raw) }

// StyleText concatenates embedded <style> blocks and inline style attributes,
// the corpus searched by the design token extractor.
func (d *Document) StyleText() string {
	var b strings.Builder
	d.doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		b.WriteString(s.Text())
		b.WriteByte('\n')
	})
	d.doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		if style, ok := s.Attr("style"); ok {
			b.WriteString(style)
			b.WriteByte('\n')
		}
	})
	return b.String()
}

// InlineScripts returns the text of every <script> without a src attribute.
func (d *Document) InlineScripts() []string {
	var scripts []string
	d.doc.Find("script:not([src])").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			scripts = append(scripts, text)
		}
	})
	return scripts
}

// ScriptSources returns every external script reference.
func (d *Document) ScriptSources() []string {
	var srcs []string
	d.doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && src != "" {
			srcs = append(srcs, src)
		}
	})
	return srcs
}
