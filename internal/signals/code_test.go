package signals

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCode(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><head>
<script type="application/ld+json">{"@type":"Organization","name":"Acme"}</script>
<script src="https://cdn.example.com/libs/jquery.min.js?v=3"></script>
<script src="/assets/chart.umd.js"></script>
</head><body>
<script>
fetch("/api/products?page=1").then(render);
fetch("https://api.example.com/v2/users");
</script>
</body></html>`)

	code := ExtractCode(doc)
	require.Len(t, code.StructuredData, 1)
	assert.Contains(t, code.StructuredData[0], "Organization")

	require.Len(t, code.InlineScripts, 1)
	assert.Contains(t, code.InlineScripts[0], "fetch")

	assert.Equal(t, []string{"jquery.min.js", "chart.umd.js"}, code.Libraries)

	assert.Contains(t, code.APIEndpoints, "/api/products?page=1")
	assert.Contains(t, code.APIEndpoints, "https://api.example.com/v2/users")
}

func TestExtractCodeSkipsJSONInlineScripts(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><body>
<script>{"config":{"lang":"en"}}</script>
<script>window.boot();</script>
</body></html>`)

	code := ExtractCode(doc)
	require.Len(t, code.InlineScripts, 1)
	assert.Contains(t, code.InlineScripts[0], "window.boot")
}

func TestExtractCodeCaps(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("<html><head>")
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&b, `<script src="/lib%d.js"></script>`, i)
	}
	b.WriteString("</head><body><script>")
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&b, "fetch(\"/api/resource%d\");\n", i)
	}
	b.WriteString("</script></body></html>")

	code := ExtractCode(parseDoc(t, b.String()))
	assert.Len(t, code.Libraries, 10)
	assert.Len(t, code.APIEndpoints, 10)
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncate("short", 10))
	got := truncate(strings.Repeat("x", 20), 10)
	assert.True(t, strings.HasPrefix(got, strings.Repeat("x", 10)))
	assert.True(t, strings.HasSuffix(got, "…"))
}
