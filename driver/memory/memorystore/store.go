// Package memorystore provides an in-memory implementation of [store.Store].
package memorystore

import (
	"context"
	"sync"

	"github.com/dogmatiq/recordkit/store"
)

// Store is an in-memory implementation of [store.Store].
//
// The zero value is an empty store, ready for use. It is intended for testing
// and for embedding the module in short-lived processes; its contents do not
// survive the process.
type Store struct {
	// BeforeSet, if non-nil, is called before a value is set.
	BeforeSet func(ks string, k, v []byte) error

	// AfterSet, if non-nil, is called after a value is set.
	AfterSet func(ks string, k, v []byte) error

	keyspaces sync.Map // map[string]*state
}

// Open returns the keyspace with the given name.
func (s *Store) Open(ctx context.Context, name string) (store.Keyspace, error) {
	st, ok := s.keyspaces.Load(name)

	if !ok {
		st, _ = s.keyspaces.LoadOrStore(
			name,
			&state{},
		)
	}

	return &keyspace{
		name:      name,
		state:     st.(*state),
		beforeSet: s.BeforeSet,
		afterSet:  s.AfterSet,
	}, ctx.Err()
}
