package signals

import (
	"strings"

	"github.com/Luigi-p-git/sitelens/internal/analysis"
	"github.com/Luigi-p-git/sitelens/internal/markup"
)

var animationPatterns = []techPattern{
	{"CSS transitions", []string{"transition:", "transition :", "transition-duration"}},
	{"CSS keyframes", []string{"@keyframes", "animation:", "animation-name"}},
	{"GSAP", []string{"gsap", "tweenmax", "scrolltrigger"}},
	{"AOS", []string{"aos.js", "aos.css", "data-aos"}},
	{"Framer Motion", []string{"framer-motion"}},
	{"Lottie", []string{"lottie"}},
	{"Animate.css", []string{"animate.css", "animate__"}},
	{"Swiper", []string{"swiper"}},
}

var graphicsPatterns = []techPattern{
	{"SVG", []string{"<svg"}},
	{"Canvas", []string{"<canvas"}},
	{"Video", []string{"<video"}},
	{"WebGL", []string{"three.js", "three.min.js", "webgl"}},
}

// AnalyzeVisual pattern-matches animation libraries, graphics primitives,
// layout system, and color-scheme cues from the markup text.
func AnalyzeVisual(doc *markup.Document) analysis.VisualProfile {
	haystack := doc.Haystack()
	styleLowered := strings.ToLower(doc.StyleText())

	return analysis.VisualProfile{
		Animations:     matchLabels(haystack, animationPatterns),
		BackgroundType: classifyBackground(styleLowered),
		Graphics:       matchLabels(haystack, graphicsPatterns),
		Layout:         classifyLayout(haystack),
		ColorScheme:    classifyScheme(haystack),
	}
}

// matchLabels is matchCategory without the sentinel: no animation found is
// simply an empty list.
func matchLabels(haystack string, table []techPattern) []string {
	var found []string
	for _, entry := range table {
		for _, pattern := range entry.patterns {
			if strings.Contains(haystack, pattern) {
				found = append(found, entry.label)
				break
			}
		}
	}
	return found
}

func classifyLayout(haystack string) string {
	switch {
	case strings.Contains(haystack, "display:grid") || strings.Contains(haystack, "display: grid") ||
		strings.Contains(haystack, "grid-template"):
		return "grid"
	case strings.Contains(haystack, "display:flex") || strings.Contains(haystack, "display: flex") ||
		strings.Contains(haystack, "flex-direction"):
		return "flex"
	case strings.Contains(haystack, "float:left") || strings.Contains(haystack, "float: left") ||
		strings.Contains(haystack, "float:right") || strings.Contains(haystack, "float: right"):
		return "float"
	default:
		return "flow"
	}
}

func classifyScheme(haystack string) string {
	darkCues := []string{
		"prefers-color-scheme: dark",
		"prefers-color-scheme:dark",
		`data-theme="dark"`,
		"data-theme='dark'",
		"dark-mode",
		"theme-dark",
		"dark:bg-",
	}
	for _, cue := range darkCues {
		if strings.Contains(haystack, cue) {
			return "dark"
		}
	}
	return "light"
}
