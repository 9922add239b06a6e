package trace

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledTracingIsNoop(t *testing.T) {
	require.NoError(t, InitWithConfig(Config{Enabled: false}))
	ctx, span := StartSpan(context.Background(), "noop")
	defer span.End()

	_, _, ok := GetTraceFields(ctx)
	assert.False(t, ok)
	assert.False(t, Enabled())
}

func TestSpansAreExportedOnShutdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithConfig(Config{Enabled: true, ServiceVersion: "test", Writer: &buf}))
	t.Cleanup(func() { _ = InitWithConfig(Config{Enabled: false}) })

	ctx, span := StartSpan(context.Background(), "engine.Evaluate")
	traceID, spanID, ok := GetTraceFields(ctx)
	require.True(t, ok)
	assert.Len(t, traceID, 32)
	assert.Len(t, spanID, 16)
	span.End()

	require.NoError(t, Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "engine.Evaluate")
	assert.Contains(t, buf.String(), serviceName)
}
