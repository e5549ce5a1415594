package relay

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Envelope identifies the response shape a relay wraps the page markup in.
type Envelope string

// Supported relay response envelopes.
const (
	// EnvelopeDirect is a plain GET of the target itself; the body is the markup.
	EnvelopeDirect Envelope = "direct"
	// EnvelopeRaw relays return the markup as the raw response body.
	EnvelopeRaw Envelope = "raw"
	// EnvelopeContents relays wrap the markup in a {"contents": ...} JSON field.
	EnvelopeContents Envelope = "contents"
	// EnvelopeData relays nest the markup under a {"data": ...} JSON field.
	EnvelopeData Envelope = "data"
)

// Descriptor describes one relay endpoint. The list returned by the Selector
// is static and read-only; descriptors are never mutated.
type Descriptor struct {
	// Name is the display name used in progress events and failure reasons.
	Name string
	// Endpoint is a template with %s standing for the encoded target URL.
	// Empty for the direct descriptor.
	Endpoint string
	// Envelope tells the normalizer how to unwrap the response.
	Envelope Envelope
	// Timeout bounds a single attempt against this relay.
	Timeout time.Duration
}

// RequestURL renders the endpoint template for the given target.
func (d Descriptor) RequestURL(target string) string {
	if d.Envelope == EnvelopeDirect {
		return target
	}
	return fmt.Sprintf(d.Endpoint, url.QueryEscape(target))
}

// highTrafficDomains are hosts known to be heavily defended against
// automated access. They get relay-first ordering with tolerant timeouts.
var highTrafficDomains = map[string]struct{}{
	"google.com":    {},
	"youtube.com":   {},
	"facebook.com":  {},
	"instagram.com": {},
	"amazon.com":    {},
	"twitter.com":   {},
	"x.com":         {},
	"netflix.com":   {},
	"linkedin.com":  {},
	"tiktok.com":    {},
	"reddit.com":    {},
	"apple.com":     {},
	"microsoft.com": {},
	"wikipedia.org": {},
}

// IsHighTraffic reports whether the host belongs to the defended-domain set.
// Subdomains match their registrable parent (en.wikipedia.org counts).
func IsHighTraffic(host string) bool {
	host = strings.ToLower(strings.TrimPrefix(host, "www."))
	if _, ok := highTrafficDomains[host]; ok {
		return true
	}
	for domain := range highTrafficDomains {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// Selector produces the ordered relay list for a target host. It is a pure
// policy object: no side effects, and Select never returns an empty list.
type Selector struct {
	directEnabled bool
	directTimeout time.Duration
}

// NewSelector builds a Selector. When directEnabled is false the direct
// descriptor is omitted from every ordering.
func NewSelector(directEnabled bool, directTimeout time.Duration) *Selector {
	if directTimeout <= 0 {
		directTimeout = 8 * time.Second
	}
	return &Selector{directEnabled: directEnabled, directTimeout: directTimeout}
}

func (s *Selector) direct() Descriptor {
	return Descriptor{Name: "direct", Envelope: EnvelopeDirect, Timeout: s.directTimeout}
}

// Select returns the ordered relay descriptors for host. High-traffic hosts
// get the most load-tolerant relay first with generous timeouts and the
// direct attempt last; everything else fails fast, direct first, relays
// ordered by historical reliability.
func (s *Selector) Select(host string) []Descriptor {
	if IsHighTraffic(host) {
		relays := []Descriptor{
			{Name: "allorigins", Endpoint: "https://api.allorigins.win/get?url=%s", Envelope: EnvelopeContents, Timeout: 20 * time.Second},
			{Name: "allorigins-raw", Endpoint: "https://api.allorigins.win/raw?url=%s", Envelope: EnvelopeRaw, Timeout: 18 * time.Second},
			{Name: "codetabs", Endpoint: "https://api.codetabs.com/v1/proxy?quest=%s", Envelope: EnvelopeRaw, Timeout: 15 * time.Second},
			{Name: "corsproxy", Endpoint: "https://corsproxy.io/?url=%s", Envelope: EnvelopeRaw, Timeout: 15 * time.Second},
		}
		if s.directEnabled {
			relays = append(relays, s.direct())
		}
		return relays
	}

	relays := make([]Descriptor, 0, 5)
	if s.directEnabled {
		relays = append(relays, s.direct())
	}
	relays = append(relays,
		Descriptor{Name: "corsproxy", Endpoint: "https://corsproxy.io/?url=%s", Envelope: EnvelopeRaw, Timeout: 8 * time.Second},
		Descriptor{Name: "allorigins-raw", Endpoint: "https://api.allorigins.win/raw?url=%s", Envelope: EnvelopeRaw, Timeout: 10 * time.Second},
		Descriptor{Name: "codetabs", Endpoint: "https://api.codetabs.com/v1/proxy?quest=%s", Envelope: EnvelopeRaw, Timeout: 10 * time.Second},
		Descriptor{Name: "allorigins", Endpoint: "https://api.allorigins.win/get?url=%s", Envelope: EnvelopeContents, Timeout: 12 * time.Second},
	)
	return relays
}
