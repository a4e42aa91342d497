package chat

import (
	"sync"

	"github.com/rs/zerolog"
)

// EventKind identifies a diagnostics lifecycle event.
type EventKind string

const (
	EventConfigChange     EventKind = "CONFIG_CHANGE"
	EventMessageAdded     EventKind = "MESSAGE_ADDED"
	EventRequestStarted   EventKind = "REQUEST_STARTED"
	EventResponseReceived EventKind = "RESPONSE_RECEIVED"
	EventStreamCompleted  EventKind = "STREAM_COMPLETED"
	EventError            EventKind = "ERROR"
)

// Recorder emits structured diagnostics events to a zerolog logger. It is
// a pure side channel: recording never affects the orchestration result,
// and a nil *Recorder is safe to use.
type Recorder struct {
	mu      sync.RWMutex
	enabled bool
	logger  zerolog.Logger
}

// NewRecorder creates a Recorder writing to the given logger.
func NewRecorder(logger zerolog.Logger, enabled bool) *Recorder {
	return &Recorder{
		enabled: enabled,
		logger:  logger.With().Str("component", "diagnostics").Logger(),
	}
}

// Record emits one event. When the recorder is disabled this is a no-op and
// no field data is computed into the log stream.
func (r *Recorder) Record(kind EventKind, msg string, fields map[string]any) {
	if r == nil {
		return
	}
	r.mu.RLock()
	enabled := r.enabled
	r.mu.RUnlock()
	if !enabled {
		return
	}

	evt := r.logger.Info()
	if kind == EventError {
		evt = r.logger.Error()
	}
	evt.Str("event", string(kind)).Fields(fields).Msg(msg)
}

// SetEnabled toggles event emission.
func (r *Recorder) SetEnabled(enabled bool) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.enabled = enabled
	r.mu.Unlock()
}

// Enabled reports whether events are currently emitted.
func (r *Recorder) Enabled() bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}
