package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestNew_Verbosity(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Verbosity: 1, JSON: true, Writer: &buf})

	log.Info("always")
	log.V(1).Info("debug")
	log.V(2).Info("trace")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "always", entries[0]["msg"])
	assert.Equal(t, "debug", entries[1]["msg"])
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	New(Options{Writer: &buf}).Info("hello", "groups", 2)
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), `"groups": 2`)
}

func TestWithRun(t *testing.T) {
	var buf bytes.Buffer
	log, runID := WithRun(New(Options{JSON: true, Writer: &buf}), "prod")

	_, err := uuid.Parse(runID)
	require.NoError(t, err)

	log.Info("planned")
	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "prod", entries[0]["stack"])
	assert.Equal(t, runID, entries[0]["run"])
}

func TestVerbosity(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	assert.Equal(t, 0, Verbosity(0))
	assert.Equal(t, 2, Verbosity(2))

	t.Setenv(EnvLogLevel, "3")
	assert.Equal(t, 3, Verbosity(0))
	assert.Equal(t, 1, Verbosity(1), "the flag wins")

	t.Setenv(EnvLogLevel, "loud")
	assert.Equal(t, 0, Verbosity(0))

	t.Setenv(EnvLogLevel, "-4")
	assert.Equal(t, 0, Verbosity(0))
}
