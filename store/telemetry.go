package store

import (
	"context"

	"github.com/dogmatiq/recordkit/internal/telemetry"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// WithTelemetry returns a [Store] that adds telemetry to s.
func WithTelemetry(
	s Store,
	p trace.TracerProvider,
	m metric.MeterProvider,
	l log.LoggerProvider,
) Store {
	return &instrumentedStore{
		Next: s,
		Telemetry: telemetry.Provider{
			TracerProvider: p,
			MeterProvider:  m,
			LoggerProvider: l,
		},
	}
}

type instrumentedStore struct {
	Next      Store
	Telemetry telemetry.Provider
}

func (s *instrumentedStore) Open(ctx context.Context, name string) (Keyspace, error) {
	telem := s.Telemetry.Recorder(
		"github.com/dogmatiq/recordkit/store",
		telemetry.Type("store", s.Next),
		telemetry.String("keyspace.name", name),
	)

	ks := &instrumentedKeyspace{
		Telemetry:     telem,
		OpenKeyspaces: telem.UpDownCounter("open_keyspaces", "{keyspace}", "The number of keyspaces that are currently open."),
		Misses:        telem.Counter("misses", "{operation}", "The number of times a requested key was not present in the keyspace."),
		KeyIO:         telem.Counter("key.io", "By", "The cumulative size of the keys that have been operated upon."),
		ValueIO:       telem.Counter("value.io", "By", "The cumulative size of the values that have been operated upon."),
		PairsScanned:  telem.Counter("pairs_scanned", "{pair}", "The number of key/value pairs visited by range scans."),
	}

	ctx, span := telem.StartSpan(ctx, "keyspace.open")
	defer span.End()

	next, err := s.Next.Open(ctx, name)
	if err != nil {
		telem.Error(ctx, "keyspace.open.error", err)
		return nil, err
	}

	ks.Next = next
	ks.OpenKeyspaces(ctx, 1)
	telem.Info(ctx, "keyspace.open.ok", "opened keyspace")

	return ks, nil
}

type instrumentedKeyspace struct {
	Next      Keyspace
	Telemetry *telemetry.Recorder

	OpenKeyspaces telemetry.Instrument
	Misses        telemetry.Instrument
	KeyIO         telemetry.Instrument
	ValueIO       telemetry.Instrument
	PairsScanned  telemetry.Instrument
}

func (ks *instrumentedKeyspace) Name() string {
	return ks.Next.Name()
}

func (ks *instrumentedKeyspace) Get(ctx context.Context, k []byte) ([]byte, error) {
	ctx, span := ks.Telemetry.StartSpan(
		ctx,
		"keyspace.get",
		telemetry.Binary("key", k),
	)
	defer span.End()

	ks.KeyIO(ctx, int64(len(k)))

	v, err := ks.Next.Get(ctx, k)
	if err != nil {
		ks.Telemetry.Error(ctx, "keyspace.get.error", err)
		return nil, err
	}

	if len(v) == 0 {
		ks.Misses(ctx, 1)
	} else {
		ks.ValueIO(ctx, int64(len(v)))
	}

	return v, nil
}

func (ks *instrumentedKeyspace) Has(ctx context.Context, k []byte) (bool, error) {
	ctx, span := ks.Telemetry.StartSpan(
		ctx,
		"keyspace.has",
		telemetry.Binary("key", k),
	)
	defer span.End()

	ks.KeyIO(ctx, int64(len(k)))

	ok, err := ks.Next.Has(ctx, k)
	if err != nil {
		ks.Telemetry.Error(ctx, "keyspace.has.error", err)
		return false, err
	}

	if !ok {
		ks.Misses(ctx, 1)
	}

	return ok, nil
}

func (ks *instrumentedKeyspace) Set(ctx context.Context, k, v []byte) error {
	ctx, span := ks.Telemetry.StartSpan(
		ctx,
		"keyspace.set",
		telemetry.Binary("key", k),
		telemetry.Bool("delete", len(v) == 0),
	)
	defer span.End()

	ks.KeyIO(ctx, int64(len(k)))
	ks.ValueIO(ctx, int64(len(v)))

	if err := ks.Next.Set(ctx, k, v); err != nil {
		ks.Telemetry.Error(ctx, "keyspace.set.error", err)
		return err
	}

	return nil
}

func (ks *instrumentedKeyspace) Range(ctx context.Context, lo, hi []byte, fn RangeFunc) error {
	ctx, span := ks.Telemetry.StartSpan(
		ctx,
		"keyspace.range",
		telemetry.Binary("lo", lo),
		telemetry.Binary("hi", hi),
	)
	defer span.End()

	err := ks.Next.Range(
		ctx,
		lo,
		hi,
		func(ctx context.Context, k, v []byte) (bool, error) {
			ks.PairsScanned(ctx, 1)
			ks.KeyIO(ctx, int64(len(k)))
			ks.ValueIO(ctx, int64(len(v)))
			return fn(ctx, k, v)
		},
	)
	if err != nil {
		ks.Telemetry.Error(ctx, "keyspace.range.error", err)
		return err
	}

	return nil
}

func (ks *instrumentedKeyspace) Close() error {
	if err := ks.Next.Close(); err != nil {
		return err
	}

	ks.OpenKeyspaces(context.Background(), -1)
	return nil
}
