package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONOutputRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(Options{Level: "warn", Format: "json", Output: &buf})

	log.Infof("[TEST] hidden %d", 1)
	log.Warnf("[TEST] shown %d", 2)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "[TEST] shown 2", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(Options{Level: "debug", Format: "console", Output: &buf})

	log.Debug("[TEST] ", "debug line")
	assert.Contains(t, buf.String(), "[TEST] debug line")
}

func TestFileOutput(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "app.log")
	log := NewWithOptions(Options{Level: "info", Format: "json", File: path, Output: &buf})

	log.Error("boom")
	assert.Contains(t, buf.String(), "boom")
	assert.FileExists(t, path)
}

func TestValidLevel(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "warn", "warning", "error"} {
		assert.True(t, ValidLevel(level), level)
	}
	assert.False(t, ValidLevel("trace"))
	assert.False(t, ValidLevel(""))
}

func TestNopDiscards(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Errorf("ignored %s", "message")
	})
}
