// Package recordstore provides a typed, record-addressed view of an ordered
// binary keyspace.
//
// Keys are record addresses encoded with the key codec, so records within a
// table are stored contiguously and scanned in ID order. Values are marshaled
// with a caller-supplied marshaler.
package recordstore

import (
	"context"
	"reflect"

	"github.com/dogmatiq/recordkit/cancel"
	"github.com/dogmatiq/recordkit/key"
	"github.com/dogmatiq/recordkit/marshaler"
	"github.com/dogmatiq/recordkit/record"
	"github.com/dogmatiq/recordkit/store"
)

// A Keyspace is a collection of records of type V within a single namespace
// and database, stored in an ordered binary keyspace.
type Keyspace[V any] struct {
	ns, db string
	inner  store.Keyspace
	vm     marshaler.Marshaler[V]
	flag   *cancel.Flag
}

// An Option changes the behavior of [Open].
type Option func(*config)

type config struct {
	flag *cancel.Flag
}

// WithCancellation is an [Option] that associates a cancellation flag with
// the keyspace.
//
// Scans poll the flag at each iteration checkpoint and abort with
// [ErrCancelled] when it is set.
func WithCancellation(f *cancel.Flag) Option {
	return func(c *config) {
		c.flag = f
	}
}

// Open returns a record keyspace for the given namespace and database, backed
// by the named keyspace within s.
func Open[V any](
	ctx context.Context,
	s store.Store,
	name string,
	ns, db string,
	vm marshaler.Marshaler[V],
	options ...Option,
) (*Keyspace[V], error) {
	if err := record.ValidateName("namespace", ns); err != nil {
		return nil, err
	}
	if err := record.ValidateName("database", db); err != nil {
		return nil, err
	}

	var cfg config
	for _, opt := range options {
		opt(&cfg)
	}

	inner, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	return &Keyspace[V]{
		ns:    ns,
		db:    db,
		inner: inner,
		vm:    vm,
		flag:  cfg.flag,
	}, nil
}

// Get returns the record referred to by ref.
//
// If the record does not exist, v is the zero-value of V.
func (ks *Keyspace[V]) Get(ctx context.Context, ref record.Ref) (v V, err error) {
	k, err := key.Encode(ref.In(ks.ns, ks.db))
	if err != nil {
		return v, err
	}

	data, err := ks.inner.Get(ctx, k)
	if err != nil || len(data) == 0 {
		return v, err
	}

	return ks.vm.Unmarshal(data)
}

// Has returns true if the record referred to by ref exists.
func (ks *Keyspace[V]) Has(ctx context.Context, ref record.Ref) (bool, error) {
	k, err := key.Encode(ref.In(ks.ns, ks.db))
	if err != nil {
		return false, err
	}

	return ks.inner.Has(ctx, k)
}

// Set associates a record with ref.
//
// If v is the zero-value of V (or equivalent), the record is deleted.
func (ks *Keyspace[V]) Set(ctx context.Context, ref record.Ref, v V) error {
	k, err := key.Encode(ref.In(ks.ns, ks.db))
	if err != nil {
		return err
	}

	var data []byte
	if !reflect.ValueOf(&v).Elem().IsZero() {
		data, err = ks.vm.Marshal(v)
		if err != nil {
			return err
		}
	}

	return ks.inner.Set(ctx, k, data)
}

// Delete removes the record referred to by ref, if it exists.
func (ks *Keyspace[V]) Delete(ctx context.Context, ref record.Ref) error {
	k, err := key.Encode(ref.In(ks.ns, ks.db))
	if err != nil {
		return err
	}

	return ks.inner.Set(ctx, k, nil)
}

// Close closes the keyspace.
func (ks *Keyspace[V]) Close() error {
	return ks.inner.Close()
}

// cancelled returns true if the keyspace's cancellation flag has been set.
func (ks *Keyspace[V]) cancelled() bool {
	return ks.flag != nil && ks.flag.Cancelled()
}
