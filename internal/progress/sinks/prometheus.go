package sinks

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Luigi-p-git/sitelens/internal/progress"
)

// PrometheusSink exports analysis progress metrics via Prometheus. It owns
// all collectors for runs started/completed/running and per-relay counters.
type PrometheusSink struct {
	runsStarted   prometheus.Counter
	runsCompleted *prometheus.CounterVec
	runsRunning   prometheus.Gauge
	runDuration   *prometheus.HistogramVec

	relayAttempts *prometheus.CounterVec
	fetchBytes    *prometheus.CounterVec
	captureTiers  *prometheus.CounterVec

	tracker *runTracker
}

// NewPrometheusSink registers the collectors against the provided registry.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sitelens_runs_started_total",
			Help: "Total analysis runs that have started.",
		}),
		runsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sitelens_runs_completed_total",
			Help: "Total analysis runs completed partitioned by result.",
		}, []string{"result"}),
		runsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sitelens_runs_running",
			Help: "Current number of in-flight analysis runs.",
		}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sitelens_run_duration_seconds",
			Help:    "Wall time per completed analysis run.",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120, 300},
		}, []string{"result"}),
		relayAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sitelens_relay_attempts_total",
			Help: "Relay fetch attempts partitioned by relay.",
		}, []string{"relay"}),
		fetchBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sitelens_fetch_bytes_total",
			Help: "Markup bytes retrieved partitioned by relay.",
		}, []string{"relay"}),
		captureTiers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sitelens_capture_tier_total",
			Help: "Capture completions partitioned by tier used.",
		}, []string{"tier"}),
		tracker: newRunTracker(),
	}
	for _, collector := range []prometheus.Collector{
		s.runsStarted,
		s.runsCompleted,
		s.runsRunning,
		s.runDuration,
		s.relayAttempts,
		s.fetchBytes,
		s.captureTiers,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Consume updates the Prometheus collectors using the provided batch. It is
// safe for concurrent use by multiple goroutines.
func (s *PrometheusSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		s.consumeEvent(evt)
	}
	return nil
}

func (s *PrometheusSink) consumeEvent(evt progress.Event) {
	switch evt.Stage {
	case progress.StageRunStart:
		s.runsStarted.Inc()
		if s.tracker.start(evt.RunID) {
			s.runsRunning.Inc()
		}
	case progress.StageRunDone:
		s.completeRun(evt, "success")
	case progress.StageRunError:
		s.completeRun(evt, "error")
	case progress.StageRelayAttempt:
		s.relayAttempts.WithLabelValues(relayLabel(evt)).Inc()
	case progress.StageFetchDone:
		if evt.Bytes > 0 {
			s.fetchBytes.WithLabelValues(relayLabel(evt)).Add(float64(evt.Bytes))
		}
	case progress.StageCaptureDone:
		tier := evt.Note
		if tier == "" {
			tier = "unknown"
		}
		s.captureTiers.WithLabelValues(tier).Inc()
	}
}

func (s *PrometheusSink) completeRun(evt progress.Event, result string) {
	s.runsCompleted.WithLabelValues(result).Inc()
	if evt.Dur > 0 {
		s.runDuration.WithLabelValues(result).Observe(evt.Dur.Seconds())
	}
	if s.tracker.complete(evt.RunID) {
		s.runsRunning.Dec()
	}
}

func relayLabel(evt progress.Event) string {
	if evt.Relay == "" {
		return "unknown"
	}
	return evt.Relay
}

// Close implements the Sink interface; it performs no action.
func (s *PrometheusSink) Close(context.Context) error {
	return nil
}

type runTracker struct {
	mu      sync.Mutex
	running map[[16]byte]struct{}
}

func newRunTracker() *runTracker {
	return &runTracker{running: make(map[[16]byte]struct{})}
}

func (t *runTracker) start(id [16]byte) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.running[id]; ok {
		return false
	}
	t.running[id] = struct{}{}
	return true
}

func (t *runTracker) complete(id [16]byte) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.running[id]; !ok {
		return false
	}
	delete(t.running, id)
	return true
}
