package recordstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dogmatiq/recordkit/key"
	"github.com/dogmatiq/recordkit/record"
	"github.com/dogmatiq/recordkit/resource"
)

// ErrCancelled is returned by scans that observe the keyspace's cancellation
// flag at one of their checkpoints.
var ErrCancelled = errors.New("the operation was cancelled")

// An UnsupportedResourceError indicates that a resource does not address
// stored records and therefore cannot be executed against a record keyspace.
type UnsupportedResourceError struct {
	Resource resource.Resource
}

func (e UnsupportedResourceError) Error() string {
	return fmt.Sprintf(
		"the %q resource does not address stored records; literal and edge resources are resolved by the query engine",
		e.Resource,
	)
}

// A SelectFunc is a function used to visit the records produced by a select
// operation.
//
// If err is non-nil, the operation stops and err is propagated up the stack.
// Otherwise, if ok is false, the operation stops without any error being
// propagated.
type SelectFunc[V any] func(ctx context.Context, ref record.Ref, v V) (ok bool, err error)

// Select executes a resource, with an optional range, against the keyspace.
//
// A [resource.Table] resource visits every record in the table, or the
// records selected by rng if it is non-nil. A [resource.Record] resource
// visits the single addressed record, if it exists. Literal and edge
// resources fail with [UnsupportedResourceError].
//
// Attaching a range to anything but a table fails with the matching
// variant-specific error before any storage access occurs.
func (ks *Keyspace[V]) Select(
	ctx context.Context,
	r resource.Resource,
	rng *resource.Range,
	fn SelectFunc[V],
) error {
	if rng != nil {
		sc, err := resource.WithRange(r, *rng)
		if err != nil {
			return err
		}
		return ks.SelectScan(ctx, sc, fn)
	}

	switch r := r.(type) {
	case resource.Table:
		return ks.SelectTable(ctx, string(r), fn)

	case resource.Record:
		ref := record.Ref(r)

		ok, err := ks.Has(ctx, ref)
		if !ok || err != nil {
			return err
		}

		v, err := ks.Get(ctx, ref)
		if err != nil {
			return err
		}

		_, err = fn(ctx, ref, v)
		return err

	case resource.Object, resource.Array, resource.Edges:
		return UnsupportedResourceError{Resource: r}

	default:
		panic("unrecognized resource variant")
	}
}

// SelectTable visits every record in the named table, in ID order.
func (ks *Keyspace[V]) SelectTable(
	ctx context.Context,
	table string,
	fn SelectFunc[V],
) error {
	lo, hi, err := key.TableBounds(ks.ns, ks.db, table)
	if err != nil {
		return err
	}

	return ks.scan(ctx, lo, hi, fn)
}

// SelectScan visits the records selected by a scan descriptor, in ID order.
func (ks *Keyspace[V]) SelectScan(
	ctx context.Context,
	sc resource.Scan,
	fn SelectFunc[V],
) error {
	lo, hi, err := key.ScanBounds(ks.ns, ks.db, sc)
	if err != nil {
		return err
	}

	return ks.scan(ctx, lo, hi, fn)
}

func (ks *Keyspace[V]) scan(
	ctx context.Context,
	lo, hi []byte,
	fn SelectFunc[V],
) error {
	if ks.cancelled() {
		return ErrCancelled
	}

	return ks.inner.Range(
		ctx,
		lo,
		hi,
		func(ctx context.Context, k, data []byte) (bool, error) {
			if ks.cancelled() {
				return false, ErrCancelled
			}

			addr, err := key.Decode(k)
			if err != nil {
				return false, err
			}

			v, err := ks.vm.Unmarshal(data)
			if err != nil {
				return false, err
			}

			return fn(ctx, addr.Ref(), v)
		},
	)
}
