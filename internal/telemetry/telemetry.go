// Package telemetry records traces, metrics and logs for the subsystems that
// make up the module.
package telemetry

import (
	"context"
	"runtime/debug"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Provider provides [Recorder] instances scoped to particular subsystems.
type Provider struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	LoggerProvider log.LoggerProvider
}

// A Recorder records traces, metrics and logs for a particular subsystem.
type Recorder struct {
	tracer trace.Tracer
	meter  metric.Meter
	logger log.Logger
	attrs  []attribute.KeyValue

	errorCount Instrument
}

// An Instrument adds a quantity to a single metric.
type Instrument func(ctx context.Context, n int64, attrs ...attribute.KeyValue)

// Recorder returns a new [Recorder].
//
// pkg is the path of the Go package that is performing the instrumentation.
// The given attributes are attached to every span and log record produced by
// the recorder.
func (p *Provider) Recorder(pkg string, attrs ...attribute.KeyValue) *Recorder {
	r := &Recorder{
		tracer: p.TracerProvider.Tracer(pkg, tracerVersion),
		meter:  p.MeterProvider.Meter(pkg, meterVersion),
		logger: p.LoggerProvider.Logger(pkg, loggerVersion),
		attrs:  attrs,
	}

	r.errorCount = r.Counter("errors", "{error}", "The number of errors that have occurred.")

	return r
}

// Counter returns an instrument that adds to a monotonic counter.
func (r *Recorder) Counter(name, unit, desc string) Instrument {
	c, err := r.meter.Int64Counter(
		name,
		metric.WithUnit(unit),
		metric.WithDescription(desc),
	)
	if err != nil {
		otel.Handle(err)
	}

	return func(ctx context.Context, n int64, attrs ...attribute.KeyValue) {
		c.Add(ctx, n, metric.WithAttributes(attrs...))
	}
}

// UpDownCounter returns an instrument that adds to a non-monotonic counter.
func (r *Recorder) UpDownCounter(name, unit, desc string) Instrument {
	c, err := r.meter.Int64UpDownCounter(
		name,
		metric.WithUnit(unit),
		metric.WithDescription(desc),
	)
	if err != nil {
		otel.Handle(err)
	}

	return func(ctx context.Context, n int64, attrs ...attribute.KeyValue) {
		c.Add(ctx, n, metric.WithAttributes(attrs...))
	}
}

// Histogram returns an instrument that records values in a histogram.
func (r *Recorder) Histogram(name, unit, desc string) Instrument {
	h, err := r.meter.Int64Histogram(
		name,
		metric.WithUnit(unit),
		metric.WithDescription(desc),
	)
	if err != nil {
		otel.Handle(err)
	}

	return func(ctx context.Context, n int64, attrs ...attribute.KeyValue) {
		h.Record(ctx, n, metric.WithAttributes(attrs...))
	}
}

// StartSpan starts a new span.
func (r *Recorder) StartSpan(
	ctx context.Context,
	name string,
	attrs ...attribute.KeyValue,
) (context.Context, trace.Span) {
	return r.tracer.Start(
		ctx,
		name,
		trace.WithAttributes(r.attrs...),
		trace.WithAttributes(attrs...),
	)
}

// Info emits an informational log record, and the same message as an event on
// the current span.
func (r *Recorder) Info(ctx context.Context, event, message string) {
	r.emit(ctx, log.SeverityInfo, event, message)
}

// Error emits an error log record, marks the current span as failed, and
// increments the subsystem's error count.
func (r *Recorder) Error(ctx context.Context, event string, err error) {
	r.emit(ctx, log.SeverityError, event, err.Error())
	r.errorCount(ctx, 1)

	span := trace.SpanFromContext(ctx)
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}

func (r *Recorder) emit(
	ctx context.Context,
	severity log.Severity,
	event, message string,
) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(
		event,
		trace.WithAttributes(attribute.String("message", message)),
	)

	if !r.logger.Enabled(ctx, log.EnabledParameters{Severity: severity}) {
		return
	}

	var rec log.Record
	rec.SetEventName(event)
	rec.SetSeverity(severity)
	rec.SetBody(log.StringValue(message))

	for _, attr := range r.attrs {
		rec.AddAttributes(log.KeyValueFromAttribute(attr))
	}

	r.logger.Emit(ctx, rec)
}

var (
	tracerVersion trace.TracerOption
	meterVersion  metric.MeterOption
	loggerVersion log.LoggerOption
)

func init() {
	const modulePath = "github.com/dogmatiq/recordkit"
	version := "unknown"

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			if dep.Path == modulePath {
				version = dep.Version
				break
			}
		}
	}

	tracerVersion = trace.WithInstrumentationVersion(version)
	meterVersion = metric.WithInstrumentationVersion(version)
	loggerVersion = log.WithInstrumentationVersion(version)
}
