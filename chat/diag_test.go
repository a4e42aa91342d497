package chat

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRecorder_EmitsWhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(zerolog.New(&buf), true)

	rec.Record(EventMessageAdded, "message added", map[string]any{"role": "user"})

	out := buf.String()
	if !strings.Contains(out, `"event":"MESSAGE_ADDED"`) {
		t.Errorf("expected event kind in output, got %s", out)
	}
	if !strings.Contains(out, `"role":"user"`) {
		t.Errorf("expected field data in output, got %s", out)
	}
	if !strings.Contains(out, `"component":"diagnostics"`) {
		t.Errorf("expected component field in output, got %s", out)
	}
	if !strings.Contains(out, `"level":"info"`) {
		t.Errorf("expected info level, got %s", out)
	}
}

func TestRecorder_ErrorEventsUseErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(zerolog.New(&buf), true)

	rec.Record(EventError, "request failed", nil)

	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Errorf("expected error level, got %s", buf.String())
	}
}

func TestRecorder_DisabledIsSilent(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(zerolog.New(&buf), false)

	rec.Record(EventRequestStarted, "request started", map[string]any{"model": "m"})

	if buf.Len() != 0 {
		t.Errorf("expected no output when disabled, got %s", buf.String())
	}
}

func TestRecorder_Toggle(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(zerolog.New(&buf), false)

	if rec.Enabled() {
		t.Error("expected recorder disabled at construction")
	}
	rec.SetEnabled(true)
	if !rec.Enabled() {
		t.Error("expected recorder enabled after toggle")
	}
	rec.Record(EventConfigChange, "config changed", nil)
	if buf.Len() == 0 {
		t.Error("expected output after enabling")
	}

	buf.Reset()
	rec.SetEnabled(false)
	rec.Record(EventConfigChange, "config changed", nil)
	if buf.Len() != 0 {
		t.Errorf("expected silence after disabling, got %s", buf.String())
	}
}

func TestRecorder_NilSafe(t *testing.T) {
	var rec *Recorder
	rec.Record(EventError, "should not panic", nil)
	rec.SetEnabled(true)
	if rec.Enabled() {
		t.Error("nil recorder reports enabled")
	}
}
