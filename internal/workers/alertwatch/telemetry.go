package alertwatch

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// sweepTelemetry holds the OpenTelemetry instruments for the sweep loop
type sweepTelemetry struct {
	SweepsTotal   metric.Int64Counter
	SweepDuration metric.Float64Histogram
	SweepErrors   metric.Int64Counter
	AlertsFired   metric.Int64Counter
}

func initTelemetry() (*sweepTelemetry, error) {
	meter := otel.Meter("coinfolio.alertwatch")

	sweepsTotal, err := meter.Int64Counter("alertwatch.sweeps.total",
		metric.WithDescription("Total number of alert sweep runs"))
	if err != nil {
		return nil, err
	}

	sweepDuration, err := meter.Float64Histogram("alertwatch.sweep.duration",
		metric.WithDescription("Duration of alert sweep runs in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	sweepErrors, err := meter.Int64Counter("alertwatch.sweep.errors",
		metric.WithDescription("Total number of failed alert sweeps"))
	if err != nil {
		return nil, err
	}

	alertsFired, err := meter.Int64Counter("alertwatch.alerts.fired",
		metric.WithDescription("Total number of alerts that triggered"))
	if err != nil {
		return nil, err
	}

	return &sweepTelemetry{
		SweepsTotal:   sweepsTotal,
		SweepDuration: sweepDuration,
		SweepErrors:   sweepErrors,
		AlertsFired:   alertsFired,
	}, nil
}
