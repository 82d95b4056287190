package obs

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Instruments used by the scheduling engine.
type Metrics struct {
	RouteCacheLookups   metric.Int64Counter
	RouteResolutions    metric.Int64Counter
	ScheduleRuns        metric.Int64Counter
	ScheduleDuration    metric.Float64Histogram
	PricingCalculations metric.Int64Counter
}

var (
	metrics     *Metrics
	metricsOnce sync.Once
)

// M returns the engine instruments, created once from the global MeterProvider.
// Instruments that fail to register fall back to no-ops; metrics never fail a request.
func M() *Metrics {
	metricsOnce.Do(func() {
		meter := otel.GetMeterProvider().Meter("voya-trail-engine")
		nop := noop.NewMeterProvider().Meter("noop")
		m := &Metrics{}

		var err error
		if m.RouteCacheLookups, err = meter.Int64Counter("route_cache_lookups_total",
			metric.WithDescription("Route cache lookups by result"),
			metric.WithUnit("{lookup}"),
		); err != nil {
			m.RouteCacheLookups, _ = nop.Int64Counter("route_cache_lookups_total")
		}

		if m.RouteResolutions, err = meter.Int64Counter("route_resolutions_total",
			metric.WithDescription("Routes resolved by provider"),
			metric.WithUnit("{route}"),
		); err != nil {
			m.RouteResolutions, _ = nop.Int64Counter("route_resolutions_total")
		}

		if m.ScheduleRuns, err = meter.Int64Counter("schedule_runs_total",
			metric.WithDescription("Day scheduling runs by outcome"),
			metric.WithUnit("{run}"),
		); err != nil {
			m.ScheduleRuns, _ = nop.Int64Counter("schedule_runs_total")
		}

		if m.ScheduleDuration, err = meter.Float64Histogram("schedule_run_duration_seconds",
			metric.WithDescription("Duration of day scheduling runs"),
			metric.WithUnit("s"),
		); err != nil {
			m.ScheduleDuration, _ = nop.Float64Histogram("schedule_run_duration_seconds")
		}

		if m.PricingCalculations, err = meter.Int64Counter("pricing_calculations_total",
			metric.WithDescription("Itinerary pricing recalculations by outcome"),
			metric.WithUnit("{calculation}"),
		); err != nil {
			m.PricingCalculations, _ = nop.Int64Counter("pricing_calculations_total")
		}

		metrics = m
	})
	return metrics
}

// Count adds one to c with a single string attribute.
func Count(ctx context.Context, c metric.Int64Counter, key, value string) {
	c.Add(ctx, 1, metric.WithAttributes(attribute.String(key, value)))
}
