package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Luigi-p-git/sitelens/internal/analysis"
)

func TestExtractAll(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><head>
<title>Acme</title>
<meta name="description" content="widgets">
<style>body { color: #222; font-family: Inter; }</style>
<script src="react-dom.production.min.js"></script>
</head><body>
<header>h</header>
<form><input name="q"></form>
</body></html>`)

	bundle := ExtractAll(doc)

	assert.Contains(t, bundle.Tech.Frontend, "React")
	assert.Equal(t, "Acme", bundle.SEO.Title)
	assert.Contains(t, bundle.Design.Colors, "#222")
	require.NotEmpty(t, bundle.Components)
	assert.Greater(t, bundle.Perf.RequestCount, 1)
	assert.NotEmpty(t, bundle.Visual.Layout)
	assert.NotEmpty(t, bundle.Code.Libraries)
}

func TestExtractAllMatchesIndividualExtractors(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><head><title>Same</title></head><body><p>content</p></body></html>`)

	bundle := ExtractAll(doc)
	assert.Equal(t, DetectTech(doc), bundle.Tech)
	assert.Equal(t, ExtractSEO(doc), bundle.SEO)
	assert.Equal(t, EstimatePerf(doc), bundle.Perf)
	assert.Equal(t, analysis.NotDetected, bundle.Tech.Frontend[0])
}
