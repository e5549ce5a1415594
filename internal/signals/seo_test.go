package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSEO(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><head>
<title>  Acme Widgets — Home  </title>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width">
<meta name="Description" content="Widgets for every occasion.">
<meta name="keywords" content="widgets, acme">
</head><body></body></html>`)

	seo := ExtractSEO(doc)
	assert.Equal(t, "Acme Widgets — Home", seo.Title)
	assert.Equal(t, "Widgets for every occasion.", seo.Description, "meta name matching is case-insensitive")
	assert.Equal(t, "widgets, acme", seo.Keywords)
	assert.Equal(t, 4, seo.MetaTagCount)
}

func TestExtractSEOAbsentFields(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><body><p>no head metadata</p></body></html>`)
	seo := ExtractSEO(doc)
	assert.Empty(t, seo.Title)
	assert.Empty(t, seo.Description)
	assert.Empty(t, seo.Keywords)
	assert.Zero(t, seo.MetaTagCount)
}
