package verify

import (
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/opencode-ai/tsverify/internal/config"
	"github.com/opencode-ai/tsverify/internal/event"
	"github.com/opencode-ai/tsverify/internal/logging"
)

// RunContext carries the state of one verification run. A new one is made
// for every run; nothing survives between runs.
type RunContext struct {
	ID    ulid.ULID
	Paths config.Paths
	Fs    afero.Fs
	Bus   *event.Bus
	Log   zerolog.Logger
	// FirstTimeSetup is set when the run created the configuration file or
	// found it without compilerOptions.
	FirstTimeSetup bool
}

// NewRunContext creates the context for a fresh run.
func NewRunContext(fs afero.Fs, paths config.Paths, bus *event.Bus) *RunContext {
	id := ulid.Make()
	return &RunContext{
		ID:    id,
		Paths: paths,
		Fs:    fs,
		Bus:   bus,
		Log:   logging.ForRun(id.String()),
	}
}

// publish reports an event on the run's bus. Delivery failures are logged
// and otherwise ignored.
func (rc *RunContext) publish(eventType event.EventType, data any) {
	err := rc.Bus.Publish(event.Event{Type: eventType, RunID: rc.ID.String(), Data: data})
	if err != nil {
		rc.Log.Warn().Err(err).Str("event", string(eventType)).Msg("failed to publish event")
	}
}
