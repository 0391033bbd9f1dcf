package store

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"testing"

	"github.com/dogmatiq/recordkit/internal/x/xtesting"
)

// RunBenchmarks runs benchmarks against a [Store] implementation.
func RunBenchmarks(
	b *testing.B,
	store Store,
) {
	b.Run("Keyspace", func(b *testing.B) {
		b.Run("Get", func(b *testing.B) {
			var key [32]byte

			benchmarkKeyspace(
				b,
				store,
				// SETUP
				nil,
				// BEFORE EACH
				func(ctx context.Context, ks Keyspace) error {
					if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
						return err
					}
					return ks.Set(ctx, key[:], []byte("<value>"))
				},
				// BENCHMARKED CODE
				func(ctx context.Context, ks Keyspace) error {
					_, err := ks.Get(ctx, key[:])
					return err
				},
			)
		})

		b.Run("Set", func(b *testing.B) {
			var key [32]byte

			benchmarkKeyspace(
				b,
				store,
				// SETUP
				nil,
				// BEFORE EACH
				func(context.Context, Keyspace) error {
					_, err := io.ReadFull(rand.Reader, key[:])
					return err
				},
				// BENCHMARKED CODE
				func(ctx context.Context, ks Keyspace) error {
					return ks.Set(ctx, key[:], []byte("<value>"))
				},
			)
		})

		b.Run("Range (3k pairs)", func(b *testing.B) {
			benchmarkKeyspace(
				b,
				store,
				// SETUP
				func(ctx context.Context, ks Keyspace) error {
					for i := 0; i < 3000; i++ {
						k := []byte(fmt.Sprintf("<key-%04d>", i))
						if err := ks.Set(ctx, k, []byte("<value>")); err != nil {
							return err
						}
					}
					return nil
				},
				// BEFORE EACH
				nil,
				// BENCHMARKED CODE
				func(ctx context.Context, ks Keyspace) error {
					return ks.Range(
						ctx,
						nil,
						nil,
						func(context.Context, []byte, []byte) (bool, error) {
							return true, nil
						},
					)
				},
			)
		})
	})
}

func benchmarkKeyspace(
	b *testing.B,
	store Store,
	setup func(context.Context, Keyspace) error,
	before func(context.Context, Keyspace) error,
	fn func(context.Context, Keyspace) error,
) {
	var keyspace Keyspace

	xtesting.Benchmark(
		b,
		func(ctx context.Context) error {
			var err error
			keyspace, err = store.Open(ctx, xtesting.SequentialName("keyspace"))
			if err != nil {
				return err
			}

			b.Cleanup(func() {
				keyspace.Close()
			})

			if setup != nil {
				return setup(ctx, keyspace)
			}

			return nil
		},
		func(ctx context.Context) error {
			if before != nil {
				return before(ctx, keyspace)
			}
			return nil
		},
		func(ctx context.Context) error {
			return fn(ctx, keyspace)
		},
		nil,
	)
}
