package store

import (
	"bytes"
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// WithCache returns a [Store] that keeps an in-process LRU cache of up to
// size key/value pairs in front of each keyspace within s.
//
// Get and Has are served from the cache when possible; Set updates it. The
// cache only observes writes made through the decorated keyspace, so it must
// not be used when another process writes to the same store. Range always
// reads through to the underlying keyspace.
func WithCache(s Store, size int) Store {
	return &cachedStore{s, size}
}

type cachedStore struct {
	Store
	size int
}

func (s *cachedStore) Open(ctx context.Context, name string) (Keyspace, error) {
	ks, err := s.Store.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	cache, err := lru.New[string, []byte](s.size)
	if err != nil {
		ks.Close()
		return nil, err
	}

	return &cachedKeyspace{ks, cache}, nil
}

type cachedKeyspace struct {
	Keyspace
	cache *lru.Cache[string, []byte]
}

func (ks *cachedKeyspace) Get(ctx context.Context, k []byte) ([]byte, error) {
	if v, ok := ks.cache.Get(string(k)); ok {
		return bytes.Clone(v), nil
	}

	v, err := ks.Keyspace.Get(ctx, k)
	if err != nil {
		return nil, err
	}

	if len(v) != 0 {
		ks.cache.Add(string(k), bytes.Clone(v))
	}

	return v, nil
}

func (ks *cachedKeyspace) Has(ctx context.Context, k []byte) (bool, error) {
	if ks.cache.Contains(string(k)) {
		return true, nil
	}
	return ks.Keyspace.Has(ctx, k)
}

func (ks *cachedKeyspace) Set(ctx context.Context, k, v []byte) error {
	if err := ks.Keyspace.Set(ctx, k, v); err != nil {
		// The write may or may not have taken effect, so the cached value can
		// no longer be trusted.
		ks.cache.Remove(string(k))
		return err
	}

	if len(v) == 0 {
		ks.cache.Remove(string(k))
	} else {
		ks.cache.Add(string(k), bytes.Clone(v))
	}

	return nil
}
