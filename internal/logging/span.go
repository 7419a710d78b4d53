package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Span represents a logical unit of work tied to a trace.
type Span struct {
	name   string
	logger *slog.Logger
	start  time.Time
}

// StartSpan derives a child span from ctx. The returned context carries a
// logger enriched with trace_id, span_id, span_name and any extra attrs.
func StartSpan(ctx context.Context, name string, attrs ...slog.Attr) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := FromContext(ctx)

	traceID := TraceIDFromContext(ctx)
	if traceID == "" {
		traceID = uuid.NewString()
		ctx = context.WithValue(ctx, traceIDKey, traceID)
		logger = logger.With(slog.String("trace_id", traceID))
	}

	parentSpanID := SpanIDFromContext(ctx)
	spanID := uuid.NewString()

	args := []any{slog.String("span_id", spanID), slog.String("span_name", name)}
	if parentSpanID != "" {
		args = append(args, slog.String("parent_span_id", parentSpanID))
	}
	for _, attr := range attrs {
		args = append(args, attr)
	}
	logger = logger.With(args...)

	ctx = WithLogger(ctx, logger)
	ctx = context.WithValue(ctx, spanIDKey, spanID)

	return ctx, &Span{name: name, logger: logger, start: time.Now()}
}

// End emits a completion entry, at error level when err is non-nil.
func (s *Span) End(err error, attrs ...slog.Attr) {
	if s == nil {
		return
	}
	attrs = append(attrs, slog.Duration("duration", time.Since(s.start)))
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(context.Background(), slog.LevelError, "span failed", attrs...)
		return
	}
	s.logger.LogAttrs(context.Background(), slog.LevelInfo, "span completed", attrs...)
}
