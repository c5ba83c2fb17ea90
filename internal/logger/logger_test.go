package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captured(t *testing.T) (*bytes.Buffer, Logger) {
	t.Helper()
	var buf bytes.Buffer
	l := New("test")
	l.log = slog.New(newHandler(&buf, "production", "debug"))
	return &buf, l
}

func TestErr_WrapsCause(t *testing.T) {
	buf, log := captured(t)
	cause := errors.New("disk full")

	err := log.Function("Save").Err("failed to save record", cause, "id", 4)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to save record: disk full", err.Error())
	assert.Contains(t, buf.String(), `"function":"Save"`)
	assert.Contains(t, buf.String(), `"id":4`)
	assert.Contains(t, buf.String(), `"error":"disk full"`)
}

func TestErr_NilCause(t *testing.T) {
	_, log := captured(t)
	err := log.Err("nothing underneath", nil)
	assert.EqualError(t, err, "nothing underneath")
}

func TestError_ReturnsMessage(t *testing.T) {
	buf, log := captured(t)

	err := log.File("users").Error("database path is empty", "dbPath", "")

	assert.EqualError(t, err, "database path is empty")
	assert.Contains(t, buf.String(), `"file":"users"`)
	assert.Contains(t, buf.String(), `"component":"test"`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestDebug_FilteredAtInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New("quiet")
	l.log = slog.New(newHandler(&buf, "development", "info"))

	l.Debug("hidden")
	l.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
