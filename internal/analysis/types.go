package analysis

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Target is the normalized absolute URL under analysis. It is immutable once
// created; construct it only through NewTarget.
type Target struct {
	raw string
	url *url.URL
}

// NewTarget normalizes rawURL into an absolute Target. A bare host is
// prefixed with https. The empty string and unparsable input are rejected.
func NewTarget(rawURL string) (Target, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return Target{}, fmt.Errorf("empty url")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return Target{}, fmt.Errorf("parse url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return Target{}, fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return Target{}, fmt.Errorf("url %q has no host", rawURL)
	}
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""
	return Target{raw: parsed.String(), url: parsed}, nil
}

// String returns the normalized absolute URL.
func (t Target) String() string { return t.raw }

// Host returns the lowercased host, including any port.
func (t Target) Host() string {
	if t.url == nil {
		return ""
	}
	return t.url.Host
}

// Domain returns the host with a leading "www." stripped, the label used for
// domain-class lookups and synthetic-diagram annotations.
func (t Target) Domain() string {
	return strings.TrimPrefix(t.Hostname(), "www.")
}

// Hostname returns the host without a port.
func (t Target) Hostname() string {
	if t.url == nil {
		return ""
	}
	return t.url.Hostname()
}

// RawDocument is the decoded markup text handed from the fetch chain to the
// parser, tagged with the relay that produced it for diagnostics.
type RawDocument struct {
	Markup string
	Relay  string
	Took   time.Duration
}

// CaptureTier identifies which fallback level produced a capture artifact.
type CaptureTier string

// Capture tiers, highest fidelity first.
const (
	TierExternal  CaptureTier = "external"
	TierRendered  CaptureTier = "rendered"
	TierSynthetic CaptureTier = "synthetic"
)

// CaptureArtifact is the visual representation of the target page. Exactly
// one artifact is produced per analysis and DataURI is never empty.
type CaptureArtifact struct {
	DataURI  string      `json:"data_uri"`
	Tier     CaptureTier `json:"tier"`
	Provider string      `json:"provider,omitempty"`
	Note     string      `json:"note,omitempty"`
}

// TechStack buckets detected technologies by category. A category with no
// matches holds exactly the NotDetected sentinel.
type TechStack struct {
	Frontend  []string `json:"frontend"`
	Backend   []string `json:"backend"`
	Database  []string `json:"database"`
	Hosting   []string `json:"hosting"`
	Analytics []string `json:"analytics"`
}

// NotDetected is the sentinel substituted for a technology category that
// yielded zero matches. Callers must treat it as "unknown", not as a finding.
const NotDetected = "Not detected"

// DesignTokens carries the sampled palette, typography, and breakpoints.
type DesignTokens struct {
	Colors         []string `json:"colors"`
	Fonts          []string `json:"fonts"`
	Breakpoints    []string `json:"breakpoints"`
	BackgroundType string   `json:"background_type"`
	DefaultPalette bool     `json:"default_palette"`
}

// Complexity grades a mapped component by its element count.
type Complexity string

// Complexity grades.
const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// Component is one structural region recognized by the component mapper.
type Component struct {
	Kind       string     `json:"kind"`
	Count      int        `json:"count"`
	Complexity Complexity `json:"complexity"`
}

// SEOInfo is the page's directly readable metadata.
type SEOInfo struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Keywords     string `json:"keywords"`
	MetaTagCount int    `json:"meta_tag_count"`
}

// PerfEstimate approximates page weight from the markup alone. These numbers
// are derived from the already-downloaded document and counted sub-resource
// tags, not from measured network timings.
type PerfEstimate struct {
	MarkupBytes    int     `json:"markup_bytes"`
	RequestCount   int     `json:"request_count"`
	EstimatedBytes int     `json:"estimated_bytes"`
	EstimatedLoad  float64 `json:"estimated_load_seconds"`
	Score          int     `json:"score"`
}

// VisualProfile captures animation, layout, and color-scheme cues.
type VisualProfile struct {
	Animations     []string `json:"animations"`
	BackgroundType string   `json:"background_type"`
	Graphics       []string `json:"graphics"`
	Layout         string   `json:"layout"`
	ColorScheme    string   `json:"color_scheme"`
}

// CodeExtract holds embedded and referenced code pulled from the markup.
// Every list is capped so pathological pages cannot balloon the result.
type CodeExtract struct {
	StructuredData []string `json:"structured_data"`
	InlineScripts  []string `json:"inline_scripts"`
	Libraries      []string `json:"libraries"`
	APIEndpoints   []string `json:"api_endpoints"`
}

// Recreation is the best-effort scaffold emitted by the synthesizer.
type Recreation struct {
	Framework string `json:"framework"`
	HTML      string `json:"html"`
	CSS       string `json:"css"`
	Script    string `json:"script,omitempty"`
	Guide     string `json:"guide"`
}

// Result is the aggregate returned to the caller. It is assembled once,
// after all stages finish; partial results are never published.
type Result struct {
	Target     string           `json:"target"`
	RunID      string           `json:"run_id"`
	FetchedVia string           `json:"fetched_via"`
	Tech       TechStack        `json:"tech_stack"`
	Design     DesignTokens     `json:"design"`
	Components []Component      `json:"components"`
	SEO        SEOInfo          `json:"seo"`
	Perf       PerfEstimate     `json:"performance"`
	Visual     VisualProfile    `json:"visual"`
	Code       CodeExtract      `json:"code_extraction"`
	Recreation *Recreation      `json:"recreation,omitempty"`
	Screenshot *CaptureArtifact `json:"screenshot,omitempty"`
	Duration   time.Duration    `json:"duration_ns"`
}

// Clock returns the current time; injected so tests can pin it.
type Clock interface {
	Now() time.Time
}
