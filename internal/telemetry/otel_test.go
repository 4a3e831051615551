package telemetry

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracerDisabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	shutdown, err := InitTracer(context.Background(), "storefront-order-simulator", "test", Config{}, logger)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestExporterOptions(t *testing.T) {
	assert.Len(t, exporterOptions("localhost:4318"), 3)
	assert.Len(t, exporterOptions("http://collector:4318/v1/traces"), 3)
	assert.Len(t, exporterOptions("https://collector.example/custom"), 2)
}
