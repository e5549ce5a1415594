package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Luigi-p-git/sitelens/internal/analysis"
)

func TestMapComponents(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><body>
<header>top</header>
<nav><a href="/">home</a></nav>
<form action="/signup">
  <input type="text" name="name">
  <input type="email" name="email">
  <input type="password" name="pw">
</form>
<button>Go</button>
<footer>bottom</footer>
</body></html>`)

	components := MapComponents(doc)
	byKind := make(map[string]analysis.Component, len(components))
	for _, c := range components {
		byKind[c.Kind] = c
	}

	require.Contains(t, byKind, "header")
	require.Contains(t, byKind, "form")
	assert.Equal(t, 3, byKind["form"].Count, "form complexity counts input fields")
	assert.Equal(t, analysis.ComplexitySimple, byKind["form"].Complexity)
	assert.NotContains(t, byKind, "modal")
	assert.NotContains(t, byKind, "table")
}

func TestMapComponentsOrderStable(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><body>
<footer>bottom</footer>
<header>top</header>
</body></html>`)

	components := MapComponents(doc)
	require.Len(t, components, 2)
	// Heuristic order, not document order.
	assert.Equal(t, "header", components[0].Kind)
	assert.Equal(t, "footer", components[1].Kind)
}

func TestMapComponentsIgnoresOrphanFields(t *testing.T) {
	t.Parallel()

	// Inputs outside any <form> are not a form component.
	doc := parseDoc(t, `<html><body><input type="search"><input type="text"></body></html>`)
	for _, c := range MapComponents(doc) {
		assert.NotEqual(t, "form", c.Kind)
	}
}

func TestGradeComplexity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, analysis.ComplexitySimple, gradeComplexity(1, 4, 8))
	assert.Equal(t, analysis.ComplexityModerate, gradeComplexity(4, 4, 8))
	assert.Equal(t, analysis.ComplexityComplex, gradeComplexity(8, 4, 8))
}
