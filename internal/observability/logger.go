package observability

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger *zap.Logger

// InitLogger builds the process-wide production logger. LOG_LEVEL
// (debug, info, warn, error) overrides the default info level.
func InitLogger() error {
	cfg := zap.NewProductionConfig()

	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsed, err := zapcore.ParseLevel(lvl)
		if err != nil {
			return fmt.Errorf("parse LOG_LEVEL: %w", err)
		}
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}

	var err error
	Logger, err = cfg.Build()
	if err != nil {
		return err
	}

	return nil
}

func SyncLogger() {
	_ = Logger.Sync()
}

// LoggerWithTrace returns a child logger carrying trace_id and span_id
// from the active span in ctx.
//
// ctx itself is embedded as a zap.Any field: the otelzap bridge detects
// a context.Context field value and passes it to Emit, which gives the
// exported OTLP record its native TraceID/SpanID instead of all-zeros.
// The string fields stay so stdout JSON remains greppable.
func LoggerWithTrace(ctx context.Context) *zap.Logger {
	span := trace.SpanContextFromContext(ctx)

	if !span.IsValid() {
		return Logger
	}

	return Logger.With(
		zap.Any("context", ctx),
		zap.String("trace_id", span.TraceID().String()),
		zap.String("span_id", span.SpanID().String()),
	)
}
