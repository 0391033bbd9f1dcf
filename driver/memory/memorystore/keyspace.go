package memorystore

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/dogmatiq/recordkit/driver/memory/internal/clone"
	"github.com/dogmatiq/recordkit/store"
)

// pair is a single key/value pair within a keyspace.
type pair struct {
	K, V []byte
}

// state is the in-memory state of a keyspace: its pairs, sorted by key in
// ascending byte order.
type state struct {
	sync.RWMutex
	Pairs []pair
}

// search returns the index at which k is stored, or the index at which it
// would be inserted, and whether it is present.
//
// The caller must hold the state's lock.
func (st *state) search(k []byte) (int, bool) {
	i := sort.Search(
		len(st.Pairs),
		func(i int) bool {
			return bytes.Compare(st.Pairs[i].K, k) >= 0
		},
	)

	return i, i < len(st.Pairs) && bytes.Equal(st.Pairs[i].K, k)
}

// keyspace is an implementation of [store.Keyspace] that manipulates a
// keyspace's in-memory [state].
type keyspace struct {
	name      string
	state     *state
	beforeSet func(ks string, k, v []byte) error
	afterSet  func(ks string, k, v []byte) error
}

func (ks *keyspace) Name() string {
	return ks.name
}

func (ks *keyspace) Get(ctx context.Context, k []byte) ([]byte, error) {
	if ks.state == nil {
		panic("keyspace is closed")
	}

	ks.state.RLock()
	defer ks.state.RUnlock()

	if i, ok := ks.state.search(k); ok {
		return clone.Clone(ks.state.Pairs[i].V), ctx.Err()
	}

	return nil, ctx.Err()
}

func (ks *keyspace) Has(ctx context.Context, k []byte) (bool, error) {
	if ks.state == nil {
		panic("keyspace is closed")
	}

	ks.state.RLock()
	defer ks.state.RUnlock()

	_, ok := ks.state.search(k)
	return ok, ctx.Err()
}

func (ks *keyspace) Set(ctx context.Context, k, v []byte) error {
	if ks.state == nil {
		panic("keyspace is closed")
	}

	k = clone.Clone(k)
	v = clone.Clone(v)

	ks.state.Lock()
	defer ks.state.Unlock()

	if ks.beforeSet != nil {
		if err := ks.beforeSet(ks.name, k, v); err != nil {
			return err
		}
	}

	i, ok := ks.state.search(k)

	switch {
	case len(v) == 0 && ok:
		ks.state.Pairs = append(ks.state.Pairs[:i], ks.state.Pairs[i+1:]...)
	case len(v) == 0:
		// Deleting a key that doesn't exist is a no-op.
	case ok:
		ks.state.Pairs[i].V = v
	default:
		ks.state.Pairs = append(ks.state.Pairs, pair{})
		copy(ks.state.Pairs[i+1:], ks.state.Pairs[i:])
		ks.state.Pairs[i] = pair{K: k, V: v}
	}

	if ks.afterSet != nil {
		if err := ks.afterSet(ks.name, k, v); err != nil {
			return err
		}
	}

	return ctx.Err()
}

func (ks *keyspace) Range(ctx context.Context, lo, hi []byte, fn store.RangeFunc) error {
	if ks.state == nil {
		panic("keyspace is closed")
	}

	// Snapshot the window under the read lock so that fn may operate on the
	// keyspace without deadlocking, and so that the scan is unaffected by
	// concurrent writes.
	ks.state.RLock()

	begin := 0
	if lo != nil {
		begin, _ = ks.state.search(lo)
	}

	end := len(ks.state.Pairs)
	if hi != nil {
		end, _ = ks.state.search(hi)
	}

	var pairs []pair
	if begin < end {
		pairs = make([]pair, end-begin)
		copy(pairs, ks.state.Pairs[begin:end])
	}

	ks.state.RUnlock()

	for _, p := range pairs {
		ok, err := fn(ctx, clone.Clone(p.K), clone.Clone(p.V))
		if !ok || err != nil {
			return err
		}
	}

	return ctx.Err()
}

func (ks *keyspace) Close() error {
	if ks.state == nil {
		return errors.New("keyspace is already closed")
	}

	ks.state = nil

	return nil
}
