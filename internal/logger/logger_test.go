package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func spanContext(t *testing.T) context.Context {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func TestNew_JSONAddsSpanIDs(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Env: "prod", Output: &buf})

	log.InfoContext(spanContext(t), "room updated", "number", 204)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "room updated", rec["msg"])
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", rec["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", rec["span_id"])
}

func TestNew_TextWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Env: "local", Output: &buf})

	log.Info("hello")

	assert.Contains(t, buf.String(), "msg=hello")
	assert.NotContains(t, buf.String(), "trace_id")
}

func TestNew_TextHighlightsErrors(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Env: "local", Output: &buf}).With("entity", "fee")

	log.Error("store failed")

	assert.Contains(t, buf.String(), red+"store failed"+reset)
	assert.Contains(t, buf.String(), "entity=fee")
}
