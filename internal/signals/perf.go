package signals

import (
	"math"

	"github.com/Luigi-p-git/sitelens/internal/analysis"
	"github.com/Luigi-p-git/sitelens/internal/markup"
)

// Rough averages used to turn tag counts into a weight estimate. These feed
// an estimate derived from the already-downloaded markup, not a measured
// network timing.
const (
	avgAssetBytes      = 45 * 1024
	assumedThroughput  = 1.5 * 1024 * 1024 // bytes per second
	perRequestOverhead = 0.08              // seconds
)

// EstimatePerf approximates load characteristics from the markup's byte
// length and its counted sub-resource tags.
func EstimatePerf(doc *markup.Document) analysis.PerfEstimate {
	requests := 1 // the document itself
	for _, sel := range []string{
		"script[src]",
		"link[rel='stylesheet']",
		"img[src]",
		"source[src]",
		"video[src]",
		"iframe[src]",
	} {
		requests += doc.Find(sel).Length()
	}

	markupBytes := doc.Size()
	estimatedBytes := markupBytes + (requests-1)*avgAssetBytes
	load := float64(estimatedBytes)/assumedThroughput + float64(requests)*perRequestOverhead

	return analysis.PerfEstimate{
		MarkupBytes:    markupBytes,
		RequestCount:   requests,
		EstimatedBytes: estimatedBytes,
		EstimatedLoad:  math.Round(load*100) / 100,
		Score:          scorePage(markupBytes, requests),
	}
}

// scorePage grades the page 5..100, penalizing request count and raw markup
// weight.
func scorePage(markupBytes, requests int) int {
	score := 100
	score -= requests / 2
	score -= markupBytes / (50 * 1024)
	if score < 5 {
		score = 5
	}
	return score
}
