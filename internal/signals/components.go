package signals

import (
	"github.com/Luigi-p-git/sitelens/internal/analysis"
	"github.com/Luigi-p-git/sitelens/internal/markup"
)

// componentHeuristic maps a selector group to a semantic role with fixed
// complexity thresholds. The list is ordered; the mapper reports components
// in this order.
type componentHeuristic struct {
	kind     string
	selector string
	moderate int
	complex  int
}

var componentHeuristics = []componentHeuristic{
	{"header", "header, [role='banner'], .header, #header", 2, 4},
	{"nav", "nav, [role='navigation'], .nav, .navbar, .menu", 2, 5},
	{"hero", ".hero, .jumbotron, .banner, .masthead", 2, 3},
	{"cards", ".card, .cards > *, [class*='card-']", 4, 10},
	{"form", "form input, form select, form textarea", 4, 8},
	{"buttons", "button, .btn, input[type='submit'], [role='button']", 5, 12},
	{"modal", ".modal, [role='dialog'], dialog, .popup", 2, 4},
	{"sidebar", "aside, .sidebar, #sidebar, .side-nav", 2, 3},
	{"footer", "footer, [role='contentinfo'], .footer, #footer", 2, 4},
	{"table", "table", 2, 5},
	{"gallery", ".gallery, .carousel, .slider, .swiper, .lightbox", 2, 5},
}

// MapComponents applies the ordered structural heuristics over the parsed
// tree. A heuristic with no matches contributes nothing; the form heuristic
// counts field elements rather than forms, since field count is the
// complexity signal the recreation scaffold consumes.
func MapComponents(doc *markup.Document) []analysis.Component {
	var components []analysis.Component
	for _, h := range componentHeuristics {
		count := doc.Find(h.selector).Length()
		if h.kind == "form" && doc.Find("form").Length() == 0 {
			count = 0
		}
		if count == 0 {
			continue
		}
		components = append(components, analysis.Component{
			Kind:       h.kind,
			Count:      count,
			Complexity: gradeComplexity(count, h.moderate, h.complex),
		})
	}
	return components
}

func gradeComplexity(count, moderate, complex int) analysis.Complexity {
	switch {
	case count >= complex:
		return analysis.ComplexityComplex
	case count >= moderate:
		return analysis.ComplexityModerate
	default:
		return analysis.ComplexitySimple
	}
}
