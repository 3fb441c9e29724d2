// Package logger builds the service's slog.Logger.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

const (
	red   = "\x1b[31m"
	reset = "\x1b[0m"
)

// Options controls where and how records are written.
type Options struct {
	Env    string
	Output io.Writer
}

// New returns a JSON logger inside Kubernetes or for the dev/prod
// environments and a colored text logger everywhere else. Records logged
// with a span in the context carry trace_id and span_id.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	var handler slog.Handler
	if structured(opts.Env) {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: true,
		})
	} else {
		handler = &errorHighlighter{next: slog.NewTextHandler(out, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})}
	}
	return slog.New(&spanHandler{next: handler})
}

// NewForService tags every record with the service name, build version
// and environment.
func NewForService(service, version, env string) *slog.Logger {
	return New(Options{Env: env}).With(
		slog.String("service", service),
		slog.String("version", version),
		slog.String("environment", env),
	)
}

// Discard returns a logger that drops everything, for tests and the CLI.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func structured(env string) bool {
	if _, ok := os.LookupEnv("KUBERNETES_SERVICE_HOST"); ok {
		return true
	}
	return env == "prod" || env == "dev"
}

// errorHighlighter paints the message of ERROR records red.
type errorHighlighter struct {
	next slog.Handler
}

func (h *errorHighlighter) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *errorHighlighter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level < slog.LevelError {
		return h.next.Handle(ctx, r)
	}
	painted := slog.NewRecord(r.Time, r.Level, red+r.Message+reset, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		painted.AddAttrs(a)
		return true
	})
	return h.next.Handle(ctx, painted)
}

func (h *errorHighlighter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &errorHighlighter{next: h.next.WithAttrs(attrs)}
}

func (h *errorHighlighter) WithGroup(name string) slog.Handler {
	return &errorHighlighter{next: h.next.WithGroup(name)}
}

// spanHandler adds the ids of the active OpenTelemetry span.
type spanHandler struct {
	next slog.Handler
}

func (h *spanHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *spanHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return h.next.Handle(ctx, r)
}

func (h *spanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &spanHandler{next: h.next.WithAttrs(attrs)}
}

func (h *spanHandler) WithGroup(name string) slog.Handler {
	return &spanHandler{next: h.next.WithGroup(name)}
}
