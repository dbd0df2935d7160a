package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoEmitsStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.Info("booking created",
		Field{Key: "booking_id", Value: 7},
		Field{Key: "price", Value: 99.5},
		Field{Key: "seat", Value: "1A"},
		Field{Key: "active", Value: true})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "booking created", entry["message"])
	assert.Equal(t, float64(7), entry["booking_id"])
	assert.Equal(t, 99.5, entry["price"])
	assert.Equal(t, "1A", entry["seat"])
	assert.Equal(t, true, entry["active"])
	assert.Contains(t, entry, "time")
}

func TestDebugSuppressedInProduction(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.Debug("noise")
	assert.Empty(t, buf.String())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestDebugEmittedInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("development", &buf)

	log.Debug("verbose")
	assert.Contains(t, buf.String(), "verbose")
}

func TestErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.Error("boom", Field{Key: "error", Value: "broken"})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "broken", entry["error"])
}

func TestNopLoggerDiscards(t *testing.T) {
	log := NewNop()
	// must not panic and must satisfy the interface
	var _ Logger = log
	log.Info("dropped")
}
