package signals

import (
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Luigi-p-git/sitelens/internal/analysis"
	"github.com/Luigi-p-git/sitelens/internal/markup"
)

// Output caps. Pathological pages must not balloon the result payload.
const (
	maxStructuredData    = 3
	maxInlineScripts     = 3
	maxLibraries         = 10
	maxEndpoints         = 10
	structuredDataSample = 2000
	inlineScriptSample   = 1500
)

var apiEndpointRe = regexp.MustCompile(`https?://[^\s"'<>\\]+/api/[A-Za-z0-9_\-./?=&]*|https?://api\.[A-Za-z0-9.\-]+[^\s"'<>\\]*|["'](/api/[A-Za-z0-9_\-./?=&]+)["']`)

// ExtractCode pulls structured data blocks, inline script snippets,
// referenced library filenames, and candidate API-endpoint literals from the
// document. Every list is capped.
func ExtractCode(doc *markup.Document) analysis.CodeExtract {
	return analysis.CodeExtract{
		StructuredData: structuredData(doc),
		InlineScripts:  inlineScripts(doc),
		Libraries:      libraryNames(doc),
		APIEndpoints:   apiEndpoints(doc),
	}
}

func structuredData(doc *markup.Document) []string {
	var blocks []string
	doc.Find("script[type='application/ld+json'], script[type='application/json']").
		EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if text := strings.TrimSpace(s.Text()); text != "" {
				blocks = append(blocks, truncate(text, structuredDataSample))
			}
			return len(blocks) < maxStructuredData
		})
	return blocks
}

func inlineScripts(doc *markup.Document) []string {
	var snippets []string
	for _, script := range doc.InlineScripts() {
		// JSON blobs are reported as structured data, not script snippets.
		if strings.HasPrefix(script, "{") || strings.HasPrefix(script, "[") {
			continue
		}
		snippets = append(snippets, truncate(script, inlineScriptSample))
		if len(snippets) >= maxInlineScripts {
			break
		}
	}
	return snippets
}

func libraryNames(doc *markup.Document) []string {
	seen := make(map[string]struct{})
	var libs []string
	for _, src := range doc.ScriptSources() {
		name := path.Base(strings.SplitN(src, "?", 2)[0])
		if name == "" || name == "." || name == "/" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		libs = append(libs, name)
		if len(libs) >= maxLibraries {
			break
		}
	}
	return libs
}

func apiEndpoints(doc *markup.Document) []string {
	seen := make(map[string]struct{})
	var endpoints []string
	for _, match := range apiEndpointRe.FindAllStringSubmatch(doc.Raw(), -1) {
		candidate := match[0]
		if match[1] != "" {
			candidate = match[1]
		}
		candidate = strings.Trim(candidate, `"'`)
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		endpoints = append(endpoints, candidate)
		if len(endpoints) >= maxEndpoints {
			break
		}
	}
	return endpoints
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "…"
}
