package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/samvad-hq/checkout-kit/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLoggerWritesStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := initWithWriter(&config.Config{AppName: "checkout-kit", Env: "test", LogLevel: "debug"}, &buf)
	require.NoError(t, err)

	log.InfoObj("order created", "order", map[string]string{"id": "ORDER-1"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "order created", entry["msg"])
	assert.Equal(t, "checkout-kit", entry["app"])
	assert.Contains(t, entry, "ts")
	order, ok := entry["order"].(map[string]any)
	require.True(t, ok, "order field is an object: %#v", entry["order"])
	assert.Equal(t, "ORDER-1", order["id"])
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	log, err := initWithWriter(&config.Config{LogLevel: "warn"}, &buf)
	require.NoError(t, err)

	log.DebugObj("hidden", "k", 1)
	log.InfoObj("hidden", "k", 1)
	assert.Zero(t, buf.Len(), "nothing below warn: %s", buf.String())

	log.WarnObj("shown", "k", 1)
	assert.Contains(t, buf.String(), "shown")
}
