package pgstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dogmatiq/recordkit/store"
)

type keyspace struct {
	db   *sql.DB
	name string
}

func (ks *keyspace) Name() string {
	return ks.name
}

func (ks *keyspace) Get(ctx context.Context, k []byte) ([]byte, error) {
	row := ks.db.QueryRowContext(
		ctx,
		`SELECT value
		FROM recordkit.store
		WHERE keyspace = $1
		AND key = $2`,
		ks.name,
		k,
	)

	var v []byte
	if err := row.Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot scan pair: %w", err)
	}

	return v, nil
}

func (ks *keyspace) Has(ctx context.Context, k []byte) (bool, error) {
	row := ks.db.QueryRowContext(
		ctx,
		`SELECT COUNT(key) != 0
		FROM recordkit.store
		WHERE keyspace = $1
		AND key = $2`,
		ks.name,
		k,
	)

	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("cannot scan pair: %w", err)
	}

	return exists, nil
}

func (ks *keyspace) Set(ctx context.Context, k, v []byte) error {
	if len(v) == 0 {
		if _, err := ks.db.ExecContext(
			ctx,
			`DELETE FROM recordkit.store
			WHERE keyspace = $1
			AND key = $2`,
			ks.name,
			k,
		); err != nil {
			return fmt.Errorf("cannot delete pair: %w", err)
		}
		return nil
	}

	if _, err := ks.db.ExecContext(
		ctx,
		`INSERT INTO recordkit.store (
			keyspace,
			key,
			value
		) VALUES (
			$1, $2, $3
		) ON CONFLICT (keyspace, key) DO UPDATE SET
			value = $3`,
		ks.name,
		k,
		v,
	); err != nil {
		return fmt.Errorf("cannot upsert pair: %w", err)
	}

	return nil
}

func (ks *keyspace) Range(ctx context.Context, lo, hi []byte, fn store.RangeFunc) error {
	query := `SELECT key, value
	FROM recordkit.store
	WHERE keyspace = $1`
	args := []any{ks.name}

	if lo != nil {
		args = append(args, lo)
		query += fmt.Sprintf(" AND key >= $%d", len(args))
	}

	if hi != nil {
		args = append(args, hi)
		query += fmt.Sprintf(" AND key < $%d", len(args))
	}

	query += " ORDER BY key"

	rows, err := ks.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("cannot query pairs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k, v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return fmt.Errorf("cannot scan pair: %w", err)
		}

		ok, err := fn(ctx, k, v)
		if !ok || err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("cannot range over pairs: %w", err)
	}

	return nil
}

func (ks *keyspace) Close() error {
	return nil
}
