package sinks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Luigi-p-git/sitelens/internal/progress"
)

func newSink(t *testing.T) *PrometheusSink {
	t.Helper()
	sink, err := NewPrometheusSink(prometheus.NewRegistry())
	require.NoError(t, err)
	return sink
}

func event(stage progress.Stage, runID uuid.UUID) progress.Event {
	return progress.Event{
		RunID:  progress.UUIDToBytes(runID),
		TS:     time.Now().UTC(),
		Stage:  stage,
		Target: "example.com",
	}
}

func TestPrometheusSinkRunLifecycle(t *testing.T) {
	t.Parallel()

	sink := newSink(t)
	runID := uuid.New()

	require.NoError(t, sink.Consume(context.Background(), []progress.Event{event(progress.StageRunStart, runID)}))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.runsStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.runsRunning))

	done := event(progress.StageRunDone, runID)
	done.Dur = 3 * time.Second
	require.NoError(t, sink.Consume(context.Background(), []progress.Event{done}))
	assert.Equal(t, 0.0, testutil.ToFloat64(sink.runsRunning))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.runsCompleted.WithLabelValues("success")))
}

func TestPrometheusSinkErrorRun(t *testing.T) {
	t.Parallel()

	sink := newSink(t)
	runID := uuid.New()

	require.NoError(t, sink.Consume(context.Background(), []progress.Event{
		event(progress.StageRunStart, runID),
		event(progress.StageRunError, runID),
	}))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.runsCompleted.WithLabelValues("error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(sink.runsRunning))
}

func TestPrometheusSinkDuplicateStart(t *testing.T) {
	t.Parallel()

	sink := newSink(t)
	runID := uuid.New()
	start := event(progress.StageRunStart, runID)

	require.NoError(t, sink.Consume(context.Background(), []progress.Event{start, start}))
	// The gauge tracks distinct runs, not raw start events.
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.runsRunning))
	assert.Equal(t, 2.0, testutil.ToFloat64(sink.runsStarted))
}

func TestPrometheusSinkRelayAndCaptureCounters(t *testing.T) {
	t.Parallel()

	sink := newSink(t)
	runID := uuid.New()

	attempt := event(progress.StageRelayAttempt, runID)
	attempt.Relay = "corsproxy"
	fetched := event(progress.StageFetchDone, runID)
	fetched.Relay = "corsproxy"
	fetched.Bytes = 2048
	captured := event(progress.StageCaptureDone, runID)
	captured.Note = "synthetic"

	require.NoError(t, sink.Consume(context.Background(), []progress.Event{attempt, fetched, captured}))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.relayAttempts.WithLabelValues("corsproxy")))
	assert.Equal(t, 2048.0, testutil.ToFloat64(sink.fetchBytes.WithLabelValues("corsproxy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.captureTiers.WithLabelValues("synthetic")))
}

func TestPrometheusSinkDoubleRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewPrometheusSink(reg)
	require.NoError(t, err)
	_, err = NewPrometheusSink(reg)
	require.Error(t, err)
}
