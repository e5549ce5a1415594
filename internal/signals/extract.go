package signals

import (
	"sync"

	"github.com/Luigi-p-git/sitelens/internal/analysis"
	"github.com/Luigi-p-git/sitelens/internal/markup"
)

// Bundle aggregates every extractor's output for one document.
type Bundle struct {
	Tech       analysis.TechStack
	Design     analysis.DesignTokens
	Components []analysis.Component
	SEO        analysis.SEOInfo
	Perf       analysis.PerfEstimate
	Visual     analysis.VisualProfile
	Code       analysis.CodeExtract
}

// ExtractAll runs every extractor concurrently. The document is read-only
// and each extractor writes a distinct Bundle field, so no locking is needed.
func ExtractAll(doc *markup.Document) Bundle {
	var bundle Bundle
	var wg sync.WaitGroup

	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	run(func() { bundle.Tech = DetectTech(doc) })
	run(func() { bundle.Design = ExtractDesign(doc) })
	run(func() { bundle.Components = MapComponents(doc) })
	run(func() { bundle.SEO = ExtractSEO(doc) })
	run(func() { bundle.Perf = EstimatePerf(doc) })
	run(func() { bundle.Visual = AnalyzeVisual(doc) })
	run(func() { bundle.Code = ExtractCode(doc) })

	wg.Wait()
	return bundle
}
