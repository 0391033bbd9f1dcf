// Package pgstore provides an implementation of [store.Store] that persists
// to a PostgreSQL database.
package pgstore

import (
	"context"
	"database/sql"

	"github.com/dogmatiq/recordkit/store"
)

// Store is an implementation of [store.Store] that stores keyspaces in a
// PostgreSQL database.
//
// [CreateSchema] must have been called on the database before the store is
// used.
type Store struct {
	DB *sql.DB
}

// Open returns the keyspace with the given name.
func (s *Store) Open(_ context.Context, name string) (store.Keyspace, error) {
	// TODO: consider creating a separate table partition for each keyspace
	return &keyspace{
		db:   s.DB,
		name: name,
	}, nil
}
