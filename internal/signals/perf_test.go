package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimatePerf(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><head>
<script src="/app.js"></script>
<link rel="stylesheet" href="/main.css">
</head><body>
<img src="/hero.png">
<iframe src="https://player.example.com/embed"></iframe>
</body></html>`)

	perf := EstimatePerf(doc)
	assert.Equal(t, 5, perf.RequestCount, "document plus four sub-resources")
	assert.Equal(t, doc.Size(), perf.MarkupBytes)
	assert.Equal(t, perf.MarkupBytes+4*45*1024, perf.EstimatedBytes)
	assert.Greater(t, perf.EstimatedLoad, 0.0)
	assert.GreaterOrEqual(t, perf.Score, 5)
	assert.LessOrEqual(t, perf.Score, 100)
}

func TestEstimatePerfDeterministic(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><body><img src="/a.png"><img src="/b.png"></body></html>`)
	first := EstimatePerf(doc)
	second := EstimatePerf(doc)
	assert.Equal(t, first, second)
}

func TestScorePageFloor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, scorePage(10<<20, 400))
	assert.Equal(t, 100, scorePage(100, 1))
}
