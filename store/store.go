// Package store defines the ordered byte-keyed storage contract consumed by
// the key codec and record store.
package store

import "context"

// A RangeFunc is a function used to visit the key/value pairs in a
// [Keyspace].
//
// If err is non-nil, ranging stops and err is propagated up the stack.
// Otherwise, if ok is false, ranging stops without any error being
// propagated.
type RangeFunc func(ctx context.Context, k, v []byte) (ok bool, err error)

// A Keyspace is an isolated, ordered collection of binary key/value pairs.
//
// Keys are ordered byte-lexicographically. The correctness of every scan
// issued through the key codec depends on the implementation preserving that
// order.
type Keyspace interface {
	// Name returns the name of the keyspace.
	Name() string

	// Get returns the value associated with k.
	//
	// If the key does not exist v is empty.
	Get(ctx context.Context, k []byte) (v []byte, err error)

	// Has returns true if k is present in the keyspace.
	Has(ctx context.Context, k []byte) (ok bool, err error)

	// Set associates a value with k.
	//
	// If v is empty, the key is deleted.
	Set(ctx context.Context, k, v []byte) error

	// Range invokes fn for each key in the half-open interval [lo, hi), in
	// ascending byte-lexicographic order.
	//
	// A nil lo starts at the first key in the keyspace; a nil hi extends to
	// the last.
	Range(ctx context.Context, lo, hi []byte, fn RangeFunc) error

	// Close closes the keyspace.
	Close() error
}

// A Store is a collection of named keyspaces.
type Store interface {
	// Open returns the keyspace with the given name.
	//
	// The keyspace is created if it does not already exist. The same keyspace
	// may be open any number of times concurrently.
	Open(ctx context.Context, name string) (Keyspace, error)
}
