package capture

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/Luigi-p-git/sitelens/internal/analysis"
	"github.com/Luigi-p-git/sitelens/internal/relay"
)

// Synthetic diagram canvas dimensions.
const (
	svgWidth  = 1280
	svgHeight = 800
)

// DegradationReason explains why the synthetic tier was used, phrased for
// the end user. Known-restrictive domains get the blocking message so users
// do not retry in vain.
func DegradationReason(target analysis.Target) string {
	if relay.IsHighTraffic(target.Host()) {
		return "This site likely blocks external capture services"
	}
	return "Preview temporarily unavailable"
}

// Synthesize draws a vector sketch of a generic page skeleton, conditioned
// on which structural components were mapped (when available), annotated
// with the target's domain and the degradation reason. It cannot fail: the
// output is assembled purely from in-memory strings.
func Synthesize(target analysis.Target, components []analysis.Component, reason string) analysis.CaptureArtifact {
	kinds := make(map[string]bool, len(components))
	for _, c := range components {
		kinds[c.Kind] = true
	}
	// With no signals at all, sketch the generic skeleton.
	generic := len(components) == 0

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		svgWidth, svgHeight, svgWidth, svgHeight)
	b.WriteString(`<rect width="100%" height="100%" fill="#f4f5f7"/>`)

	y := 0
	if generic || kinds["header"] || kinds["nav"] {
		block(&b, 0, y, svgWidth, 70, "#2d3748")
		label(&b, 24, y+44, "#ffffff", 20, "header / nav")
		y += 70
	}
	if generic || kinds["hero"] {
		block(&b, 0, y, svgWidth, 220, "#4a5568")
		label(&b, svgWidth/2-60, y+120, "#edf2f7", 26, "hero")
		y += 240
	} else {
		y += 20
	}
	if generic || kinds["cards"] {
		cardW := (svgWidth - 4*40) / 3
		for i := 0; i < 3; i++ {
			x := 40 + i*(cardW+40)
			block(&b, x, y, cardW, 180, "#cbd5e0")
			label(&b, x+24, y+96, "#2d3748", 18, "card")
		}
		y += 220
	}
	if kinds["form"] {
		block(&b, 40, y, svgWidth/2, 120, "#e2e8f0")
		label(&b, 64, y+66, "#2d3748", 18, "form")
		y += 150
	}
	if y > svgHeight-140 {
		y = svgHeight - 140
	}
	if generic || kinds["footer"] {
		block(&b, 0, svgHeight-70, svgWidth, 70, "#2d3748")
		label(&b, 24, svgHeight-28, "#ffffff", 18, "footer")
	}

	label(&b, 40, svgHeight-110, "#1a202c", 30, escapeText(target.Domain()))
	label(&b, 40, svgHeight-84, "#718096", 16, escapeText(reason))
	b.WriteString(`</svg>`)

	return analysis.CaptureArtifact{
		DataURI: "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(b.String())),
		Tier:    analysis.TierSynthetic,
		Note:    reason,
	}
}

func block(b *strings.Builder, x, y, w, h int, fill string) {
	fmt.Fprintf(b, `<rect x="%d" y="%d" width="%d" height="%d" rx="6" fill="%s"/>`, x, y, w, h, fill)
}

func label(b *strings.Builder, x, y int, fill string, size int, text string) {
	fmt.Fprintf(b, `<text x="%d" y="%d" fill="%s" font-size="%d" font-family="sans-serif">%s</text>`,
		x, y, fill, size, text)
}

func escapeText(s string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return replacer.Replace(s)
}
