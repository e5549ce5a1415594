package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Luigi-p-git/sitelens/internal/analysis"
	"github.com/Luigi-p-git/sitelens/internal/config"
)

// maxMarkupBytes caps how much relay payload is read per attempt.
const maxMarkupBytes = 5 << 20

// DirectClient performs a plain GET against the target itself. Implemented
// by DirectFetcher; nil disables direct descriptors at the chain level.
type DirectClient interface {
	Fetch(ctx context.Context, target string) (status int, body []byte, err error)
}

// AttemptFunc is invoked before each relay attempt with its descriptor.
type AttemptFunc func(d Descriptor)

// ChainFetcher walks an ordered relay list until one yields plausible markup.
// It is stateless across calls and safe for concurrent use.
type ChainFetcher struct {
	client *http.Client
	direct DirectClient
	cfg    config.FetchConfig
	logger *zap.Logger
}

// NewChainFetcher constructs a ChainFetcher. The http.Client carries no
// global timeout; each attempt is bounded by its descriptor's timeout race.
func NewChainFetcher(cfg config.FetchConfig, direct DirectClient, logger *zap.Logger) *ChainFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChainFetcher{
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        32,
				MaxIdleConnsPerHost: 8,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
				ForceAttemptHTTP2:   true,
			},
		},
		direct: direct,
		cfg:    cfg,
		logger: logger,
	}
}

type failureClass int

const (
	classOther failureClass = iota
	classNetwork
	classTimeout
	classDenied
	classServer
	classPayload
)

type attemptFailure struct {
	relay  string
	reason string
	class  failureClass
}

type attemptOutcome struct {
	markup string
	status int
	err    error
}

// Fetch attempts each relay in order and returns the first plausible markup.
// onAttempt fires before every attempt. On total failure the returned error
// is an *analysis.Error carrying one RelayFailure per attempted relay, in
// attempt order.
func (f *ChainFetcher) Fetch(
	ctx context.Context,
	target analysis.Target,
	relays []Descriptor,
	onAttempt AttemptFunc,
) (analysis.RawDocument, error) {
	if len(relays) == 0 {
		return analysis.RawDocument{}, analysis.NewError(analysis.KindUnknown, "no relays configured", nil)
	}

	failures := make([]attemptFailure, 0, len(relays))
	for i, desc := range relays {
		if err := ctx.Err(); err != nil {
			return analysis.RawDocument{}, analysis.Classify(err)
		}
		if onAttempt != nil {
			onAttempt(desc)
		}

		start := time.Now()
		markup, fail := f.attempt(ctx, desc, target)
		if fail == nil {
			f.logger.Debug("relay succeeded",
				zap.String("relay", desc.Name),
				zap.String("target", target.Host()),
				zap.Int("bytes", len(markup)),
			)
			return analysis.RawDocument{
				Markup: markup,
				Relay:  desc.Name,
				Took:   time.Since(start),
			}, nil
		}

		failures = append(failures, *fail)
		f.logger.Debug("relay failed",
			zap.String("relay", desc.Name),
			zap.String("reason", fail.reason),
		)

		// Breathe between attempts so degraded services are not hammered,
		// except after the final relay.
		if i < len(relays)-1 && f.cfg.AttemptDelay() > 0 {
			select {
			case <-time.After(f.cfg.AttemptDelay()):
			case <-ctx.Done():
				return analysis.RawDocument{}, analysis.Classify(ctx.Err())
			}
		}
	}

	return analysis.RawDocument{}, exhaustedError(failures)
}

// attempt races one relay call against the descriptor's timeout. The loser's
// eventual result lands in a buffered channel and is discarded; it can never
// override the race outcome.
func (f *ChainFetcher) attempt(ctx context.Context, desc Descriptor, target analysis.Target) (string, *attemptFailure) {
	resultCh := make(chan attemptOutcome, 1)
	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		resultCh <- f.call(attemptCtx, desc, target)
	}()

	timer := time.NewTimer(desc.Timeout)
	defer timer.Stop()

	var out attemptOutcome
	select {
	case out = <-resultCh:
	case <-timer.C:
		return "", &attemptFailure{
			relay:  desc.Name,
			reason: fmt.Sprintf("timed out after %s", desc.Timeout),
			class:  classTimeout,
		}
	case <-ctx.Done():
		return "", &attemptFailure{relay: desc.Name, reason: ctx.Err().Error(), class: classOther}
	}

	if out.err != nil {
		return "", &attemptFailure{
			relay:  desc.Name,
			reason: out.err.Error(),
			class:  classifyAttemptErr(out.err),
		}
	}
	if out.status < 200 || out.status > 299 {
		return "", &attemptFailure{
			relay:  desc.Name,
			reason: fmt.Sprintf("unexpected status %d", out.status),
			class:  classifyStatus(out.status),
		}
	}
	if len(out.markup) < f.cfg.MinMarkupBytes {
		return "", &attemptFailure{
			relay:  desc.Name,
			reason: fmt.Sprintf("implausibly short payload (%d bytes)", len(out.markup)),
			class:  classPayload,
		}
	}
	return out.markup, nil
}

func (f *ChainFetcher) call(ctx context.Context, desc Descriptor, target analysis.Target) attemptOutcome {
	if desc.Envelope == EnvelopeDirect {
		if f.direct == nil {
			return attemptOutcome{err: fmt.Errorf("direct fetch not configured")}
		}
		status, body, err := f.direct.Fetch(ctx, target.String())
		if err != nil {
			return attemptOutcome{err: fmt.Errorf("direct fetch: %w", err)}
		}
		return attemptOutcome{markup: string(body), status: status}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, desc.RequestURL(target.String()), nil)
	if err != nil {
		return attemptOutcome{err: fmt.Errorf("build relay request: %w", err)}
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/json;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return attemptOutcome{err: fmt.Errorf("relay request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMarkupBytes))
	if err != nil {
		return attemptOutcome{err: fmt.Errorf("read relay body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return attemptOutcome{status: resp.StatusCode}
	}

	markup, err := Normalize(desc.Envelope, body)
	if err != nil {
		return attemptOutcome{err: err}
	}
	return attemptOutcome{markup: markup, status: resp.StatusCode}
}

func classifyAttemptErr(err error) failureClass {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return classTimeout
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no such host"), strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "network is unreachable"):
		return classNetwork
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline"):
		return classTimeout
	default:
		return classOther
	}
}

func classifyStatus(status int) failureClass {
	switch {
	case status == http.StatusForbidden || status == http.StatusUnauthorized || status == http.StatusTooManyRequests:
		return classDenied
	case status >= 500:
		return classServer
	default:
		return classOther
	}
}

// exhaustedError folds per-relay failures into the taxonomy. A uniform cause
// across every relay gets the sharper kind so user messaging can suggest the
// right remedy; mixed causes fall back to AllRelaysExhausted.
func exhaustedError(failures []attemptFailure) *analysis.Error {
	reasons := make([]analysis.RelayFailure, 0, len(failures))
	for _, f := range failures {
		reasons = append(reasons, analysis.RelayFailure{Relay: f.relay, Reason: f.reason})
	}

	kind := analysis.KindAllRelaysExhausted
	if uniform, ok := uniformClass(failures); ok {
		switch uniform {
		case classNetwork:
			kind = analysis.KindNetworkUnreachable
		case classTimeout:
			kind = analysis.KindUpstreamTimeout
		case classDenied:
			kind = analysis.KindUpstreamDenied
		case classServer:
			kind = analysis.KindUpstreamServerError
		}
	}

	err := analysis.NewError(kind, fmt.Sprintf("all %d relays failed", len(failures)), nil)
	err.Failures = reasons
	return err
}

func uniformClass(failures []attemptFailure) (failureClass, bool) {
	if len(failures) == 0 {
		return classOther, false
	}
	first := failures[0].class
	for _, f := range failures[1:] {
		if f.class != first {
			return classOther, false
		}
	}
	return first, true
}
