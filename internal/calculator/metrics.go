package calculator

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metric instruments — initialized once via InitMetrics().
var (
	eventsCounter   metric.Int64Counter
	applyHistogram  metric.Float64Histogram
	errorCounter    metric.Int64Counter
	divZeroCounter  metric.Int64Counter
	sessionsCounter metric.Int64Counter
	displayGauge    metric.Float64Gauge
)

// InitMetrics registers custom OTel metric instruments for the calculator domain.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	eventsCounter, err = meter.Int64Counter("calculator.events.total",
		metric.WithDescription("Total number of calculator events applied"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return fmt.Errorf("creating events counter: %w", err)
	}

	applyHistogram, err = meter.Float64Histogram("calculator.apply.duration",
		metric.WithDescription("Duration of event application in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("creating apply histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of calculator request errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	divZeroCounter, err = meter.Int64Counter("calculator.divide_by_zero.total",
		metric.WithDescription("Total number of transitions into the error display state"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating divide-by-zero counter: %w", err)
	}

	sessionsCounter, err = meter.Int64Counter("calculator.sessions.total",
		metric.WithDescription("Total number of session lifecycle actions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return fmt.Errorf("creating sessions counter: %w", err)
	}

	displayGauge, err = meter.Float64Gauge("calculator.display.value",
		metric.WithDescription("Numeric value most recently shown on a display"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating display gauge: %w", err)
	}

	return nil
}
