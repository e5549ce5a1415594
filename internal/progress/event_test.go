package progress

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventValidate(t *testing.T) {
	t.Parallel()

	base := Event{
		RunID: UUIDToBytes(uuid.New()),
		TS:    time.Now().UTC(),
	}

	t.Run("relay attempt requires relay", func(t *testing.T) {
		evt := base
		evt.Stage = StageRelayAttempt
		require.Error(t, evt.Validate())

		evt.Relay = "allorigins"
		require.NoError(t, evt.Validate())
	})

	t.Run("zero run id rejected", func(t *testing.T) {
		evt := base
		evt.RunID = [16]byte{}
		evt.Stage = StageRunStart
		require.Error(t, evt.Validate())
	})

	t.Run("zero timestamp rejected", func(t *testing.T) {
		evt := base
		evt.TS = time.Time{}
		evt.Stage = StageRunStart
		require.Error(t, evt.Validate())
	})

	t.Run("negative duration rejected", func(t *testing.T) {
		evt := base
		evt.Stage = StageRunDone
		evt.Dur = -time.Second
		require.Error(t, evt.Validate())
	})

	t.Run("all lifecycle stages accepted", func(t *testing.T) {
		for _, stage := range []Stage{
			StageRunStart, StageRunDone, StageRunError,
			StageFetchDone, StageParseDone, StageExtractDone,
			StageRecreateDone, StageCaptureDone,
		} {
			evt := base
			evt.Stage = stage
			assert.NoError(t, evt.Validate(), string(stage))
		}
	})
}

func TestRunUUIDRoundTrip(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	evt := Event{RunID: UUIDToBytes(id)}
	assert.Equal(t, id, evt.RunUUID())
}
