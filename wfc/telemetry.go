package wfc

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

// instrumentationName scopes the tracer and meter of this package.
const instrumentationName = "github.com/katalvlaran/mimic/wfc"

// Metric names.
const (
	metricRuns         = "wfc_runs_total"
	metricObservations = "wfc_observations_total"
	metricBans         = "wfc_bans_total"
	metricRunDuration  = "wfc_run_duration_seconds"
)

// telemetry bundles the tracer and instruments one Model reports through.
type telemetry struct {
	tracer       trace.Tracer
	runs         metric.Int64Counter
	observations metric.Int64Counter
	bans         metric.Int64Counter
	duration     metric.Float64Histogram
}

var (
	globalTelemetry     *telemetry
	globalTelemetryOnce sync.Once
)

// newTelemetry returns instruments for the given providers. When neither is
// overridden the instruments are built once from the global otel providers.
func newTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) *telemetry {
	if tp == nil && mp == nil {
		globalTelemetryOnce.Do(func() {
			globalTelemetry = buildTelemetry(otel.GetTracerProvider(), otel.GetMeterProvider())
		})
		return globalTelemetry
	}
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	return buildTelemetry(tp, mp)
}

// buildTelemetry creates the instruments; any instrument that fails to
// register is replaced by a no-op so that metrics never fail a run.
func buildTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) *telemetry {
	meter := mp.Meter(instrumentationName)
	t := &telemetry{tracer: tp.Tracer(instrumentationName)}

	var err error
	if t.runs, err = meter.Int64Counter(metricRuns,
		metric.WithDescription("Run and Continue calls by outcome"),
	); err != nil {
		t.runs = metricnoop.Int64Counter{}
	}
	if t.observations, err = meter.Int64Counter(metricObservations,
		metric.WithDescription("Cells committed to a single pattern by observe"),
	); err != nil {
		t.observations = metricnoop.Int64Counter{}
	}
	if t.bans, err = meter.Int64Counter(metricBans,
		metric.WithDescription("Patterns removed from cell domains"),
	); err != nil {
		t.bans = metricnoop.Int64Counter{}
	}
	if t.duration, err = meter.Float64Histogram(metricRunDuration,
		metric.WithDescription("Wall time of Run and Continue calls"),
		metric.WithUnit("s"),
	); err != nil {
		t.duration = metricnoop.Float64Histogram{}
	}
	return t
}

// startRun opens the span of one Run/Continue call.
func (t *telemetry) startRun(op string, m *Model, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	base := []attribute.KeyValue{
		attribute.Int("wfc.width", m.lat.width),
		attribute.Int("wfc.height", m.lat.height),
		attribute.Int("wfc.patterns", m.patterns),
		attribute.Bool("wfc.periodic", m.lat.periodic),
	}
	return t.tracer.Start(context.Background(), "wfc.Model."+op,
		trace.WithAttributes(append(base, attrs...)...),
	)
}

// endRun records counters and closes span.
func (t *telemetry) endRun(ctx context.Context, span trace.Span, outcome Outcome, observations, bans int, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome.String()))
	t.runs.Add(ctx, 1, attrs)
	t.observations.Add(ctx, int64(observations))
	t.bans.Add(ctx, int64(bans))
	t.duration.Record(ctx, elapsed.Seconds(), attrs)

	span.SetAttributes(
		attribute.String("wfc.outcome", outcome.String()),
		attribute.Int("wfc.observations", observations),
		attribute.Int("wfc.bans", bans),
	)
	if outcome == Contradiction {
		span.SetStatus(codes.Error, "contradiction")
	}
	span.End()
}
