package signals

import (
	"regexp"
	"strings"

	"github.com/Luigi-p-git/sitelens/internal/analysis"
	"github.com/Luigi-p-git/sitelens/internal/markup"
)

// Sample caps. The extractor keeps the first N found, not a frequency
// ranking; bounding the output matters more than representativeness here.
const (
	maxColors      = 8
	maxFonts       = 4
	maxBreakpoints = 6
)

var (
	hexColorRe   = regexp.MustCompile(`#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b`)
	rgbColorRe   = regexp.MustCompile(`rgba?\([^)]{1,40}\)`)
	fontFamilyRe = regexp.MustCompile(`font-family\s*:\s*([^;}"']+)`)
	breakpointRe = regexp.MustCompile(`@media[^{]*\(\s*(?:min|max)-width\s*:\s*(\d+(?:px|em|rem))`)
)

// defaultPalette and defaultBreakpoints are substituted when a page exposes
// no usable tokens at all, so downstream consumers always have something to
// work with.
var (
	defaultPalette     = []string{"#1a1a2e", "#16213e", "#0f3460", "#e94560"}
	defaultBreakpoints = []string{"768px", "1024px"}
)

// ExtractDesign samples color literals, font families, and media-query
// breakpoints from embedded stylesheet text and inline style attributes.
func ExtractDesign(doc *markup.Document) analysis.DesignTokens {
	styleText := doc.StyleText()
	lowered := strings.ToLower(styleText)

	tokens := analysis.DesignTokens{
		Colors:         sampleColors(lowered),
		Fonts:          sampleFonts(styleText),
		Breakpoints:    sampleBreakpoints(lowered),
		BackgroundType: classifyBackground(lowered),
	}
	if len(tokens.Colors) == 0 && len(tokens.Breakpoints) == 0 {
		tokens.Colors = append([]string(nil), defaultPalette...)
		tokens.Breakpoints = append([]string(nil), defaultBreakpoints...)
		tokens.DefaultPalette = true
		return tokens
	}
	if len(tokens.Breakpoints) == 0 {
		tokens.Breakpoints = append([]string(nil), defaultBreakpoints...)
	}
	return tokens
}

func sampleColors(lowered string) []string {
	seen := make(map[string]struct{})
	var colors []string
	collect := func(matches []string) {
		for _, m := range matches {
			if len(colors) >= maxColors {
				return
			}
			key := strings.ReplaceAll(m, " ", "")
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			colors = append(colors, m)
		}
	}
	collect(hexColorRe.FindAllString(lowered, -1))
	collect(rgbColorRe.FindAllString(lowered, -1))
	return colors
}

func sampleFonts(styleText string) []string {
	seen := make(map[string]struct{})
	var fonts []string
	for _, match := range fontFamilyRe.FindAllStringSubmatch(styleText, -1) {
		if len(fonts) >= maxFonts {
			break
		}
		family := strings.TrimSpace(match[1])
		if family == "" {
			continue
		}
		key := strings.ToLower(family)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		fonts = append(fonts, family)
	}
	return fonts
}

func sampleBreakpoints(lowered string) []string {
	seen := make(map[string]struct{})
	var points []string
	for _, match := range breakpointRe.FindAllStringSubmatch(lowered, -1) {
		if len(points) >= maxBreakpoints {
			break
		}
		width := match[1]
		if _, ok := seen[width]; ok {
			continue
		}
		seen[width] = struct{}{}
		points = append(points, width)
	}
	return points
}

// classifyBackground grades the dominant background treatment. Gradient wins
// over image: a gradient declaration is explicit styling, while url() may
// just be an asset reference inside a composite shorthand.
func classifyBackground(lowered string) string {
	switch {
	case strings.Contains(lowered, "linear-gradient") || strings.Contains(lowered, "radial-gradient") || strings.Contains(lowered, "conic-gradient"):
		return "gradient"
	case strings.Contains(lowered, "background-image") || backgroundURLRe.MatchString(lowered):
		return "image"
	default:
		return "solid"
	}
}

var backgroundURLRe = regexp.MustCompile(`background[^;{}]*url\(`)
