package logging

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBufferLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New()
	l.SetLevel(level)
	l.SetOutput(log.New(&buf, "", 0))
	return l, &buf
}

func TestLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	l, buf := newBufferLogger(LevelWarn)
	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "WARN: warn message")
	assert.Contains(t, out, "ERROR: error message")
}

func TestLogger_KeyValuePairs(t *testing.T) {
	t.Parallel()

	l, buf := newBufferLogger(LevelInfo)
	l.Info("checkpoint", "iteration", 42, "path", "model.steer")

	out := buf.String()
	assert.Contains(t, out, "iteration=42")
	assert.Contains(t, out, "path=model.steer")
}

func TestLogger_With(t *testing.T) {
	t.Parallel()

	l, buf := newBufferLogger(LevelInfo)
	l.With("run_id", "abc123").Info("starting")

	assert.Contains(t, buf.String(), "run_id=abc123")
}

func TestLogger_QuotesSpacedValues(t *testing.T) {
	t.Parallel()

	l, buf := newBufferLogger(LevelInfo)
	l.Info("note", "msg", "two words")

	assert.Contains(t, buf.String(), `msg="two words"`)
}
