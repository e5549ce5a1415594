package markup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Luigi-p-git/sitelens/internal/analysis"
)

const page = `<!DOCTYPE html>
<html>
<head>
<title>Acme Widgets</title>
<link rel="stylesheet" href="/assets/Main.CSS">
<style>body { color: #333; }</style>
</head>
<body>
<div style="background: red">hero</div>
<script src="/js/React.production.min.js"></script>
<script>console.log("inline one");</script>
<script></script>
</body>
</html>`

func parsePage(t *testing.T, markup string) *Document {
	t.Helper()
	doc, err := Parse(analysis.RawDocument{Markup: markup, Relay: "corsproxy"})
	require.NoError(t, err)
	return doc
}

func TestParse(t *testing.T) {
	t.Parallel()

	doc := parsePage(t, page)
	assert.Equal(t, "corsproxy", doc.Relay())
	assert.Equal(t, len(page), doc.Size())
	assert.Equal(t, "Acme Widgets", doc.Find("title").Text())
}

func TestParseFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		markup string
	}{
		{name: "empty", markup: ""},
		{name: "whitespace only", markup: "   \n\t  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(analysis.RawDocument{Markup: tt.markup})
			require.Error(t, err)
			var ae *analysis.Error
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, analysis.KindParseFailure, ae.Kind)
		})
	}
}

func TestHaystackIncludesReferences(t *testing.T) {
	t.Parallel()

	doc := parsePage(t, page)
	// Script srcs and stylesheet hrefs are folded in, lowercased.
	assert.Contains(t, doc.Haystack(), "/js/react.production.min.js")
	assert.Contains(t, doc.Haystack(), "/assets/main.css")
}

func TestStyleText(t *testing.T) {
	t.Parallel()

	doc := parsePage(t, page)
	styles := doc.StyleText()
	assert.Contains(t, styles, "color: #333")
	assert.Contains(t, styles, "background: red")
}

func TestInlineScripts(t *testing.T) {
	t.Parallel()

	doc := parsePage(t, page)
	scripts := doc.InlineScripts()
	// The empty script tag is skipped.
	require.Len(t, scripts, 1)
	assert.Contains(t, scripts[0], "inline one")
}

func TestScriptSources(t *testing.T) {
	t.Parallel()

	doc := parsePage(t, page)
	srcs := doc.ScriptSources()
	require.Len(t, srcs, 1)
	assert.Equal(t, "/js/React.production.min.js", srcs[0])
}
