package pgstore

import (
	"context"
	"database/sql"

	"github.com/dogmatiq/recordkit/driver/sql/postgres/internal/pgerror"
)

// CreateSchema creates the PostgreSQL schema elements required by [Store].
func CreateSchema(
	ctx context.Context,
	db *sql.DB,
) error {
	// "IF NOT EXISTS" does not prevent duplicate key errors when two
	// connections create the schema concurrently, so those are tolerated
	// explicitly.
	if _, err := db.ExecContext(
		ctx,
		`CREATE SCHEMA IF NOT EXISTS recordkit`,
	); err != nil && !pgerror.Is(
		err,
		pgerror.CodeUniqueViolation,
		pgerror.CodeDuplicateSchema,
	) {
		return err
	}

	if _, err := db.ExecContext(
		ctx,
		`CREATE TABLE IF NOT EXISTS recordkit.store (
			keyspace TEXT NOT NULL,
			key      BYTEA NOT NULL,
			value    BYTEA NOT NULL,

			PRIMARY KEY (keyspace, key)
		)`,
	); err != nil && !pgerror.Is(
		err,
		pgerror.CodeUniqueViolation,
		pgerror.CodeDuplicateTable,
	) {
		return err
	}

	return nil
}
