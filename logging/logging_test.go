package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeqa/api-common/apiclient"
)

// The adapter must satisfy the client's logging interface.
var _ apiclient.Logger = (*Logger)(nil)

func TestLogger_EmitsFields(t *testing.T) {
	var buf bytes.Buffer
	lg := New(WithWriter(&buf), WithLevel(zerolog.DebugLevel))

	lg.Info("request completed", "method", "GET", "endpoint", "/productsList", "status", 200)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "request completed", record["message"])
	assert.Equal(t, "GET", record["method"])
	assert.Equal(t, "/productsList", record["endpoint"])
	assert.Equal(t, float64(200), record["status"])
	assert.NotEmpty(t, record["time"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	lg := New(WithWriter(&buf), WithLevel(zerolog.WarnLevel))

	lg.Debug("noise")
	lg.Info("noise")
	assert.Zero(t, buf.Len())

	lg.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestLogger_OddKeysAndValues(t *testing.T) {
	var buf bytes.Buffer
	lg := New(WithWriter(&buf))

	lg.Error("boom", "endpoint", "/items", "dangling")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "/items", record["endpoint"])
	assert.Contains(t, record, "dangling")
}

func TestLogger_Named(t *testing.T) {
	var buf bytes.Buffer
	lg := New(WithWriter(&buf)).Named("apiclient")

	lg.Info("hello")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "apiclient", record["component"])
}
