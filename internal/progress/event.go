package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage denotes the type of milestone represented by an Event.
type Stage string

// Supported progress stages. Run* stages bracket one whole analysis; the
// remaining stages mark entry into (or completion of) a pipeline phase.
const (
	StageRunStart     Stage = "RUN_START"
	StageRunDone      Stage = "RUN_DONE"
	StageRunError     Stage = "RUN_ERROR"
	StageRelayAttempt Stage = "RELAY_ATTEMPT"
	StageFetchDone    Stage = "FETCH_DONE"
	StageParseDone    Stage = "PARSE_DONE"
	StageExtractDone  Stage = "EXTRACT_DONE"
	StageRecreateDone Stage = "RECREATE_DONE"
	StageCaptureDone  Stage = "CAPTURE_DONE"
)

// Event captures a single milestone of analysis progress.
type Event struct {
	// RunID uniquely identifies an analysis run using the 16-byte UUID form.
	RunID [16]byte
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage denotes which pipeline milestone occurred.
	Stage Stage
	// Target is the host under analysis.
	Target string
	// Relay names the relay for RELAY_ATTEMPT and FETCH_DONE events.
	Relay string
	// Step and TotalSteps mirror the user-facing progress counter.
	Step       int
	TotalSteps int
	// Bytes carries the markup or image size where known.
	Bytes int64
	// Dur captures latency for fetches and run completions.
	Dur time.Duration
	// Note lets emitters attach low-volume context (e.g. error text,
	// capture tier used).
	Note string
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.RunID == [16]byte{} {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageRunStart, StageRunDone, StageRunError,
		StageFetchDone, StageParseDone, StageExtractDone,
		StageRecreateDone, StageCaptureDone:
	case StageRelayAttempt:
		if e.Relay == "" {
			return errors.New("relay attempt requires relay name")
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}

// RunUUID converts the binary run ID to uuid.UUID.
func (e Event) RunUUID() uuid.UUID {
	return uuid.UUID(e.RunID)
}

// UUIDToBytes encodes a uuid.UUID into the Event form.
func UUIDToBytes(id uuid.UUID) [16]byte {
	var dest [16]byte
	copy(dest[:], id[:])
	return dest
}
