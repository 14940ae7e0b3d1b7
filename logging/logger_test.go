package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/brandmesh/internal/testutil"
	"github.com/hupe1980/brandmesh/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrandMeshLogger_KeyValueArgs(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.LogLevelDebug,
		Format: "json",
		Output: &buf,
	}).WithTenant("t1")

	logger.Info("tenant created", "slug", "acme", "tenants", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "tenant created", record["msg"])
	assert.Equal(t, "acme", record["slug"])
	assert.Equal(t, float64(3), record["tenants"])
	assert.Equal(t, "t1", record["tenant_id"])
	assert.NotContains(t, buf.String(), "%!")
}

func TestBrandMeshLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.LogLevelWarn,
		Format: "json",
		Output: &buf,
	})

	logger.Info("dropped", "key", "value")
	assert.Empty(t, buf.Bytes())

	logger.Warn("kept", "key", "value")
	assert.Contains(t, buf.String(), "kept")
}

func TestLogDispatch(t *testing.T) {
	rec := testutil.NewRecordingLogger()

	logging.LogDispatch(rec, "brand-manager", "get-profile", time.Millisecond, true)
	entry, ok := rec.Find("dispatch completed")
	require.True(t, ok)
	assert.Equal(t, "info", entry.Level)
	assert.Contains(t, entry.Args, "brand-manager")

	logging.LogDispatch(rec, "brand-manager", "nope", time.Millisecond, false)
	entry, ok = rec.Find("dispatch answered with error envelope")
	require.True(t, ok)
	assert.Equal(t, "warn", entry.Level)
}

func TestLogStoreWrite(t *testing.T) {
	rec := testutil.NewRecordingLogger()

	logging.LogStoreWrite(rec, "brand_voice", "brand-manager", []string{"brand"}, nil)
	entry, ok := rec.Find("memory store write")
	require.True(t, ok)
	assert.Equal(t, "debug", entry.Level)

	logging.LogStoreWrite(rec, "brand_voice", "brand-manager", nil, errors.New("disk full"))
	entry, ok = rec.Find("memory store write failed")
	require.True(t, ok)
	assert.Equal(t, "error", entry.Level)
}

func TestLogLLMCall(t *testing.T) {
	rec := testutil.NewRecordingLogger()

	logging.LogLLMCall(rec, "gpt-4o-mini", time.Second, true, nil)
	entry, ok := rec.Find("llm call completed")
	require.True(t, ok)
	assert.Equal(t, "info", entry.Level)

	logging.LogLLMCall(rec, "gpt-4o-mini", time.Second, false, errors.New("rate limited"))
	entry, ok = rec.Find("llm call failed")
	require.True(t, ok)
	assert.Equal(t, "error", entry.Level)
}
