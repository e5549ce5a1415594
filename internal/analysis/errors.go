package analysis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Kind categorizes pipeline failures for user messaging and HTTP mapping.
type Kind string

// Failure kinds surfaced from the fetching and parsing stages. Extractor and
// capture failures are absorbed internally and never reach this taxonomy.
const (
	KindNetworkUnreachable  Kind = "network_unreachable"
	KindAllRelaysExhausted  Kind = "all_relays_exhausted"
	KindParseFailure        Kind = "parse_failure"
	KindUpstreamDenied      Kind = "upstream_denied"
	KindUpstreamTimeout     Kind = "upstream_timeout"
	KindUpstreamServerError Kind = "upstream_server_error"
	KindUnknown             Kind = "unknown"
)

// RelayFailure records one relay attempt's outcome for diagnostics.
type RelayFailure struct {
	Relay  string `json:"relay"`
	Reason string `json:"reason"`
}

// Error is the tagged failure value thrown by the orchestrator. Message keeps
// the original cause text verbatim so nothing is silently swallowed.
type Error struct {
	Kind     Kind
	Message  string
	Failures []RelayFailure
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the original cause to errors.Is/As.
func (e *Error) Unwrap() error { return e.Cause }

// NewError builds a taxonomy error with the given kind and message.
func NewError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Classify maps an arbitrary error onto the taxonomy. Existing *Error values
// pass through unchanged; everything else lands in a best-fit bucket, with
// Unknown carrying the original message verbatim.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return NewError(KindNetworkUnreachable, dnsErr.Error(), err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return NewError(KindNetworkUnreachable, opErr.Error(), err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(KindUpstreamTimeout, err.Error(), err)
	}
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline"):
		return NewError(KindUpstreamTimeout, msg, err)
	case strings.Contains(lower, "connection refused") || strings.Contains(lower, "no such host"):
		return NewError(KindNetworkUnreachable, msg, err)
	default:
		return NewError(KindUnknown, msg, err)
	}
}

// UserMessage maps a taxonomy kind to the single human-readable line shown
// to end users.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindNetworkUnreachable:
		return "Could not reach the network; check your connection and the URL."
	case KindAllRelaysExhausted:
		return "External services temporarily unavailable, please retry in a few minutes."
	case KindParseFailure:
		return "The page was retrieved but its content could not be analyzed."
	case KindUpstreamDenied:
		return "The site appears to block automated access."
	case KindUpstreamTimeout:
		return "The site took too long to respond; try again later."
	case KindUpstreamServerError:
		return "The site (or a relay) returned a server error."
	default:
		return "Analysis failed: " + e.Message
	}
}

// Suggestions lists follow-up actions appropriate for the failure kind.
func (e *Error) Suggestions() []string {
	base := []string{
		"Verify the URL is correct and publicly reachable",
		"The site may block automated access",
		"Retry in a few minutes",
	}
	if e.Kind == KindParseFailure {
		return []string{
			"Verify the URL points at an HTML page, not a file download",
			"Retry in a few minutes",
		}
	}
	return base
}
