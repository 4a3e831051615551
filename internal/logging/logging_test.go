package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONInProduction(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "storefront", Config{Level: "info", AppEnv: "production"})

	logger.Debug("hidden")
	logger.Info("order created", "order_id", "ORD-1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "order created", line["msg"])
	assert.Equal(t, "storefront", line["service"])
	assert.Equal(t, "ORD-1", line["order_id"])
}

func TestNewTextInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "storefront", Config{Level: "debug", AppEnv: "development"})

	logger.Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestContextLogger(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, l, FromContext(WithLogger(context.Background(), l)))
}
