package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "info", "json")
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("shown", "id", 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, float64(1), entry["id"])
}

func TestNewRejectsUnknownSettings(t *testing.T) {
	var buf bytes.Buffer
	_, err := New(&buf, "verbose", "text")
	assert.ErrorContains(t, err, "LOG_LEVEL")

	_, err = New(&buf, "info", "xml")
	assert.ErrorContains(t, err, "LOG_FORMAT")
}
