package capture

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Luigi-p-git/sitelens/internal/config"
)

// maxImageBytes caps how much image payload is read per endpoint.
const maxImageBytes = 8 << 20

// Endpoint describes one third-party screenshot service. These are public
// demo tiers: quotas and blocklisting are expected failure modes, not
// exceptional ones.
type Endpoint struct {
	Name string
	// Template renders the request URL; %s stands for the target.
	Template string
	// EncodeTarget controls whether the target is query-escaped first.
	EncodeTarget bool
}

// DefaultEndpoints is the ordered external capture list.
var DefaultEndpoints = []Endpoint{
	{Name: "mshots", Template: "https://s0.wp.com/mshots/v1/%s?w=1280&h=800", EncodeTarget: true},
	{Name: "thum.io", Template: "https://image.thum.io/get/width/1280/crop/800/%s", EncodeTarget: false},
}

// RequestURL renders the endpoint template for the given target.
func (e Endpoint) RequestURL(target string) string {
	if e.EncodeTarget {
		target = url.QueryEscape(target)
	}
	return fmt.Sprintf(e.Template, target)
}

// ExternalCapturer tries each screenshot service in order under its own
// timeout and returns the first plausible image.
type ExternalCapturer struct {
	client    *http.Client
	endpoints []Endpoint
	cfg       config.CaptureConfig
	logger    *zap.Logger
}

// NewExternalCapturer builds the tier-1 capturer. A nil endpoint list uses
// DefaultEndpoints.
func NewExternalCapturer(cfg config.CaptureConfig, endpoints []Endpoint, logger *zap.Logger) *ExternalCapturer {
	if endpoints == nil {
		endpoints = DefaultEndpoints
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExternalCapturer{
		client:    &http.Client{},
		endpoints: endpoints,
		cfg:       cfg,
		logger:    logger,
	}
}

// Capture returns a data-URI image from the first endpoint whose response is
// plausibly a real screenshot: an image content type and a byte length above
// the configured floor, which guards against error-page thumbnails.
func (c *ExternalCapturer) Capture(ctx context.Context, target string) (dataURI, provider string, err error) {
	var lastErr error
	for _, ep := range c.endpoints {
		uri, attemptErr := c.attempt(ctx, ep, target)
		if attemptErr == nil {
			return uri, ep.Name, nil
		}
		lastErr = attemptErr
		c.logger.Debug("external capture failed",
			zap.String("endpoint", ep.Name),
			zap.Error(attemptErr),
		)
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no capture endpoints configured")
	}
	return "", "", lastErr
}

func (c *ExternalCapturer) attempt(ctx context.Context, ep Endpoint, target string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.endpointOrDefaultTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, ep.RequestURL(target), nil)
	if err != nil {
		return "", fmt.Errorf("build capture request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("capture request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("capture endpoint returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("capture endpoint returned %q, not an image", contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", fmt.Errorf("read capture body: %w", err)
	}
	if len(body) < c.cfg.MinImageBytes {
		return "", fmt.Errorf("image implausibly small (%d bytes)", len(body))
	}

	return imageDataURI(contentType, body), nil
}

func (c *ExternalCapturer) endpointOrDefaultTimeout() time.Duration {
	if t := c.cfg.EndpointTimeout(); t > 0 {
		return t
	}
	return 12 * time.Second
}

func imageDataURI(contentType string, data []byte) string {
	if idx := strings.IndexByte(contentType, ';'); idx > 0 {
		contentType = contentType[:idx]
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
