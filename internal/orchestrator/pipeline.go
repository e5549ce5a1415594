// Package orchestrator sequences one analysis run: relay selection, the
// fetch chain, parsing, concurrent signal extraction, recreation synthesis,
// and the capture chain, with staged progress reporting and a stable error
// taxonomy on the only two stages allowed to fail.
package orchestrator

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Luigi-p-git/sitelens/internal/analysis"
	"github.com/Luigi-p-git/sitelens/internal/markup"
	"github.com/Luigi-p-git/sitelens/internal/progress"
	"github.com/Luigi-p-git/sitelens/internal/recreate"
	"github.com/Luigi-p-git/sitelens/internal/relay"
	"github.com/Luigi-p-git/sitelens/internal/signals"
)

// ProgressFunc receives user-facing staged progress. It is the entire
// callback contract with the presentation layer.
type ProgressFunc func(step, total int, message string)

// totalSteps is the number of user-visible pipeline stages.
const totalSteps = 6

// Selector yields the ordered relay list for a host.
type Selector interface {
	Select(host string) []relay.Descriptor
}

// Fetcher walks the relay chain. Implemented by relay.ChainFetcher.
type Fetcher interface {
	Fetch(ctx context.Context, target analysis.Target, relays []relay.Descriptor, onAttempt relay.AttemptFunc) (analysis.RawDocument, error)
}

// Capturer produces the visual artifact. Implemented by capture.Chain.
type Capturer interface {
	Capture(ctx context.Context, target analysis.Target, components []analysis.Component) analysis.CaptureArtifact
}

// RunIDSource mints run identifiers. Implemented by the uuid generator.
type RunIDSource interface {
	NewRawID() (uuid.UUID, error)
}

// Pipeline owns no mutable state across runs; every Analyze call works on
// its own locals, so one Pipeline may serve concurrent runs.
type Pipeline struct {
	selector Selector
	fetcher  Fetcher
	capturer Capturer
	ids      RunIDSource
	clock    analysis.Clock
	emitter  progress.Emitter
	logger   *zap.Logger
}

// New wires a Pipeline. emitter may be nil (no telemetry), logger may be nil.
func New(
	selector Selector,
	fetcher Fetcher,
	capturer Capturer,
	ids RunIDSource,
	clock analysis.Clock,
	emitter progress.Emitter,
	logger *zap.Logger,
) *Pipeline {
	if emitter == nil {
		emitter = progress.NopEmitter{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		selector: selector,
		fetcher:  fetcher,
		capturer: capturer,
		ids:      ids,
		clock:    clock,
		emitter:  emitter,
		logger:   logger,
	}
}

// Analyze runs the full pipeline for rawURL. Only the fetching and parsing
// stages may fail; extraction, recreation, and capture degrade internally.
// The returned error is always an *analysis.Error.
func (p *Pipeline) Analyze(ctx context.Context, rawURL string, onProgress ProgressFunc) (*analysis.Result, error) {
	target, err := analysis.NewTarget(rawURL)
	if err != nil {
		return nil, analysis.NewError(analysis.KindUnknown, err.Error(), err)
	}

	runID, idErr := p.ids.NewRawID()
	if idErr != nil {
		runID = uuid.New()
	}
	started := p.clock.Now()
	report := func(step int, message string) {
		if onProgress != nil {
			onProgress(step, totalSteps, message)
		}
	}
	emit := func(stage progress.Stage, mutate func(*progress.Event)) {
		evt := progress.Event{
			RunID:      progress.UUIDToBytes(runID),
			TS:         p.clock.Now(),
			Stage:      stage,
			Target:     target.Host(),
			TotalSteps: totalSteps,
		}
		if mutate != nil {
			mutate(&evt)
		}
		p.emitter.Emit(evt)
	}

	emit(progress.StageRunStart, nil)
	log := p.logger.With(
		zap.String("run_id", runID.String()),
		zap.String("target", target.String()),
	)

	fail := func(cause error) (*analysis.Result, error) {
		classified := analysis.Classify(cause)
		emit(progress.StageRunError, func(e *progress.Event) {
			e.Dur = p.clock.Now().Sub(started)
			e.Note = string(classified.Kind)
		})
		log.Warn("analysis failed",
			zap.String("kind", string(classified.Kind)),
			zap.Error(classified),
		)
		return nil, classified
	}

	// Fetching.
	report(1, "Fetching page content")
	relays := p.selector.Select(target.Host())
	raw, err := p.fetcher.Fetch(ctx, target, relays, func(d relay.Descriptor) {
		report(1, "Trying "+d.Name)
		emit(progress.StageRelayAttempt, func(e *progress.Event) {
			e.Relay = d.Name
			e.Step = 1
		})
	})
	if err != nil {
		return fail(err)
	}
	emit(progress.StageFetchDone, func(e *progress.Event) {
		e.Relay = raw.Relay
		e.Step = 1
		e.Bytes = int64(len(raw.Markup))
		e.Dur = raw.Took
	})

	// Parsing.
	report(2, "Parsing markup")
	doc, err := markup.Parse(raw)
	if err != nil {
		return fail(err)
	}
	emit(progress.StageParseDone, func(e *progress.Event) { e.Step = 2 })

	// Extracting. Extractors self-heal; this stage cannot fail.
	report(3, "Extracting signals")
	bundle := signals.ExtractAll(doc)
	emit(progress.StageExtractDone, func(e *progress.Event) { e.Step = 3 })

	// Synthesizing. Best effort: on failure the field is omitted.
	report(4, "Generating recreation")
	var recreation *analysis.Recreation
	if rec, recErr := recreate.Synthesize(recreate.FromBundle(bundle)); recErr == nil {
		recreation = &rec
	} else {
		log.Warn("recreation synthesis skipped", zap.Error(recErr))
	}
	emit(progress.StageRecreateDone, func(e *progress.Event) { e.Step = 4 })

	// Capturing. The chain guarantees an artifact.
	report(5, "Capturing preview")
	artifact := p.capturer.Capture(ctx, target, bundle.Components)
	emit(progress.StageCaptureDone, func(e *progress.Event) {
		e.Step = 5
		e.Note = string(artifact.Tier)
		e.Bytes = int64(len(artifact.DataURI))
	})

	// Complete.
	report(6, "Analysis complete")
	duration := p.clock.Now().Sub(started)
	emit(progress.StageRunDone, func(e *progress.Event) {
		e.Step = 6
		e.Dur = duration
	})
	log.Info("analysis complete",
		zap.String("relay", raw.Relay),
		zap.String("capture_tier", string(artifact.Tier)),
		zap.Duration("took", duration),
	)

	return &analysis.Result{
		Target:     target.String(),
		RunID:      runID.String(),
		FetchedVia: raw.Relay,
		Tech:       bundle.Tech,
		Design:     bundle.Design,
		Components: bundle.Components,
		SEO:        bundle.SEO,
		Perf:       bundle.Perf,
		Visual:     bundle.Visual,
		Code:       bundle.Code,
		Recreation: recreation,
		Screenshot: &artifact,
		Duration:   duration,
	}, nil
}
