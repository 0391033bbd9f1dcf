// Package pgerror provides utilities for interrogating PostgreSQL errors.
package pgerror

import (
	"errors"
	"slices"

	"github.com/jackc/pgconn"
)

// https://www.postgresql.org/docs/11/errcodes-appendix.html
const (
	// CodeUniqueViolation is the PostgreSQL error code for "unique_violation".
	CodeUniqueViolation = "23505"

	// CodeDuplicateSchema is the PostgreSQL error code for "duplicate_schema".
	CodeDuplicateSchema = "42P06"

	// CodeDuplicateTable is the PostgreSQL error code for "duplicate_table".
	CodeDuplicateTable = "42P07"
)

// Is returns true if err is a PostgreSQL error with one of the given codes.
func Is(err error, codes ...string) bool {
	var e *pgconn.PgError
	return errors.As(err, &e) && slices.Contains(codes, e.Code)
}
