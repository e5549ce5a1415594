package capture

import (
	"context"
	"encoding/base64"

	"go.uber.org/zap"

	"github.com/Luigi-p-git/sitelens/internal/analysis"
)

// Renderer rasterizes a page in-process. Implemented by ChromedpRenderer;
// nil skips the tier entirely.
type Renderer interface {
	Snapshot(ctx context.Context, rawURL string) ([]byte, error)
}

// ExternalTier is the first capture level. Implemented by ExternalCapturer.
type ExternalTier interface {
	Capture(ctx context.Context, target string) (dataURI, provider string, err error)
}

// Chain is the tiered capture executor. Capture never fails outward: the
// synthetic diagram is the backstop when both upstream tiers are exhausted.
type Chain struct {
	external ExternalTier
	renderer Renderer
	minBytes int
	logger   *zap.Logger
}

// NewChain builds a capture chain. external and renderer may be nil, which
// disables their tiers.
func NewChain(external ExternalTier, renderer Renderer, minImageBytes int, logger *zap.Logger) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{external: external, renderer: renderer, minBytes: minImageBytes, logger: logger}
}

// Capture walks the tiers in fidelity order and always returns an artifact.
// components may be nil when the analysis failed before extraction; the
// synthetic tier then sketches a generic skeleton.
func (c *Chain) Capture(ctx context.Context, target analysis.Target, components []analysis.Component) analysis.CaptureArtifact {
	if c.external != nil {
		if uri, provider, err := c.external.Capture(ctx, target.String()); err == nil {
			return analysis.CaptureArtifact{
				DataURI:  uri,
				Tier:     analysis.TierExternal,
				Provider: provider,
			}
		} else {
			c.logger.Debug("external capture tier exhausted", zap.Error(err))
		}
	}

	if c.renderer != nil && ctx.Err() == nil {
		if shot, err := c.renderer.Snapshot(ctx, target.String()); err == nil && len(shot) >= c.minBytes {
			return analysis.CaptureArtifact{
				DataURI: "data:image/png;base64," + base64.StdEncoding.EncodeToString(shot),
				Tier:    analysis.TierRendered,
			}
		} else if err != nil {
			c.logger.Debug("render capture tier failed", zap.Error(err))
		}
	}

	return Synthesize(target, components, DegradationReason(target))
}
