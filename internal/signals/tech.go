package signals

import (
	"strings"

	"github.com/Luigi-p-git/sitelens/internal/analysis"
	"github.com/Luigi-p-git/sitelens/internal/markup"
)

// techPattern maps substring patterns to a technology label. A label is
// detected when any of its patterns occurs in the haystack; matches across
// labels accumulate and are never mutually exclusive.
type techPattern struct {
	label    string
	patterns []string
}

var frontendPatterns = []techPattern{
	{"React", []string{"react.", "react.js", "data-reactroot", "react-dom"}},
	{"Next.js", []string{"__next_data__", "_next/static", "next.js"}},
	{"Vue.js", []string{"vue.js", "vue.min.js", "data-v-", "__vue__"}},
	{"Nuxt", []string{"__nuxt", "nuxt.js"}},
	{"Angular", []string{"ng-app", "ng-version", "angular.js", "angular.min.js"}},
	{"Svelte", []string{"svelte", "__svelte"}},
	{"jQuery", []string{"jquery"}},
	{"Bootstrap", []string{"bootstrap.css", "bootstrap.min", "bootstrap.bundle", "navbar-toggler"}},
	{"Tailwind CSS", []string{"tailwind", "tailwindcss"}},
	{"Alpine.js", []string{"alpine.js", "x-data="}},
}

var backendPatterns = []techPattern{
	{"WordPress", []string{"wp-content", "wp-includes", "wp-json"}},
	{"PHP", []string{".php\"", ".php'", ".php?"}},
	{"Django", []string{"csrfmiddlewaretoken"}},
	{"Ruby on Rails", []string{"csrf-param", "data-turbo", "rails-ujs"}},
	{"Laravel", []string{"laravel_session", "livewire"}},
	{"ASP.NET", []string{"__viewstate", ".aspx"}},
	{"Express", []string{"express"}},
}

var databasePatterns = []techPattern{
	{"Firebase", []string{"firebaseio.com", "firebase-app", "firestore"}},
	{"Supabase", []string{"supabase"}},
	{"MongoDB", []string{"mongodb"}},
	{"MySQL", []string{"mysql"}},
	{"PostgreSQL", []string{"postgres"}},
}

var hostingPatterns = []techPattern{
	{"Cloudflare", []string{"cloudflare", "cdn-cgi"}},
	{"Vercel", []string{"vercel", "_vercel"}},
	{"Netlify", []string{"netlify"}},
	{"GitHub Pages", []string{"github.io"}},
	{"AWS", []string{"amazonaws.com", "cloudfront.net"}},
	{"Google Cloud", []string{"googleapis.com", "gstatic.com"}},
	{"Shopify", []string{"cdn.shopify.com", "myshopify"}},
}

var analyticsPatterns = []techPattern{
	{"Google Analytics", []string{"google-analytics", "gtag(", "ga.js", "analytics.js"}},
	{"Google Tag Manager", []string{"googletagmanager"}},
	{"Facebook Pixel", []string{"fbevents.js", "facebook pixel", "fbq("}},
	{"Hotjar", []string{"hotjar"}},
	{"Mixpanel", []string{"mixpanel"}},
	{"Segment", []string{"segment.com/analytics", "analytics.load"}},
	{"Plausible", []string{"plausible.io"}},
	{"Matomo", []string{"matomo", "piwik"}},
}

// DetectTech scans the document haystack against the fixed pattern tables.
// A category with zero matches yields exactly the NotDetected sentinel.
func DetectTech(doc *markup.Document) analysis.TechStack {
	haystack := doc.Haystack()
	return analysis.TechStack{
		Frontend:  matchCategory(haystack, frontendPatterns),
		Backend:   matchCategory(haystack, backendPatterns),
		Database:  matchCategory(haystack, databasePatterns),
		Hosting:   matchCategory(haystack, hostingPatterns),
		Analytics: matchCategory(haystack, analyticsPatterns),
	}
}

func matchCategory(haystack string, table []techPattern) []string {
	var found []string
	for _, entry := range table {
		for _, pattern := range entry.patterns {
			if strings.Contains(haystack, pattern) {
				found = append(found, entry.label)
				break
			}
		}
	}
	if len(found) == 0 {
		return []string{analysis.NotDetected}
	}
	return found
}
