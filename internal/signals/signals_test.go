package signals

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Luigi-p-git/sitelens/internal/analysis"
	"github.com/Luigi-p-git/sitelens/internal/markup"
)

// parseDoc parses test markup through the real parser so extractor tests see
// exactly what the pipeline sees.
func parseDoc(t *testing.T, raw string) *markup.Document {
	t.Helper()
	doc, err := markup.Parse(analysis.RawDocument{Markup: raw, Relay: "test"})
	require.NoError(t, err)
	return doc
}
