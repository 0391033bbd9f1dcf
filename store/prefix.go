package store

import "context"

// WithNamePrefix returns a [Store] that adds the given prefix to the name of
// every keyspace within s.
//
// [Keyspace.Name] returns the unprefixed name.
func WithNamePrefix(s Store, prefix string) Store {
	return &prefixedStore{s, prefix}
}

type prefixedStore struct {
	Store
	prefix string
}

func (s *prefixedStore) Open(ctx context.Context, name string) (Keyspace, error) {
	ks, err := s.Store.Open(ctx, s.prefix+name)
	if err != nil {
		return nil, err
	}

	return &prefixedKeyspace{ks, name}, nil
}

type prefixedKeyspace struct {
	Keyspace
	name string
}

func (ks *prefixedKeyspace) Name() string {
	return ks.name
}
