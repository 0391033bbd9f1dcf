package store

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/dogmatiq/recordkit/internal/x/xtesting"
)

// RunTests runs tests that confirm a [Store] implementation behaves
// correctly, including the ordering guarantees that scan correctness depends
// upon.
func RunTests(
	t *testing.T,
	store Store,
) {
	setup := func(t *testing.T) Keyspace {
		name := xtesting.SequentialName("keyspace")

		ks, err := store.Open(t.Context(), name)
		if err != nil {
			t.Fatal(err)
		}

		t.Cleanup(func() {
			if err := ks.Close(); err != nil {
				t.Error(err)
			}
		})

		if ks.Name() != name {
			t.Fatalf("unexpected keyspace name: got %q, want %q", ks.Name(), name)
		}

		return ks
	}

	set := func(t *testing.T, ks Keyspace, k, v string) {
		t.Helper()
		if err := ks.Set(t.Context(), []byte(k), []byte(v)); err != nil {
			t.Fatal(err)
		}
	}

	collect := func(t *testing.T, ks Keyspace, lo, hi []byte) []string {
		t.Helper()

		var keys []string
		if err := ks.Range(
			t.Context(),
			lo,
			hi,
			func(_ context.Context, k, _ []byte) (bool, error) {
				keys = append(keys, string(k))
				return true, nil
			},
		); err != nil {
			t.Fatal(err)
		}

		return keys
	}

	t.Run("Store", func(t *testing.T) {
		t.Parallel()

		t.Run("Open", func(t *testing.T) {
			t.Parallel()

			t.Run("allows keyspaces to be opened multiple times", func(t *testing.T) {
				t.Parallel()

				name := xtesting.SequentialName("keyspace")

				ks1, err := store.Open(t.Context(), name)
				if err != nil {
					t.Fatal(err)
				}
				defer ks1.Close()

				ks2, err := store.Open(t.Context(), name)
				if err != nil {
					t.Fatal(err)
				}
				defer ks2.Close()

				expect := []byte("<value>")
				if err := ks1.Set(t.Context(), []byte("<key>"), expect); err != nil {
					t.Fatal(err)
				}

				actual, err := ks2.Get(t.Context(), []byte("<key>"))
				if err != nil {
					t.Fatal(err)
				}

				if !bytes.Equal(expect, actual) {
					t.Fatalf(
						"unexpected value, want %q, got %q",
						string(expect),
						string(actual),
					)
				}
			})

			t.Run("isolates keyspaces from each other", func(t *testing.T) {
				t.Parallel()

				ks1 := setup(t)
				ks2 := setup(t)

				set(t, ks1, "<key>", "<value>")

				ok, err := ks2.Has(t.Context(), []byte("<key>"))
				if err != nil {
					t.Fatal(err)
				}
				if ok {
					t.Fatal("expected key to be absent from the other keyspace")
				}
			})
		})
	})

	t.Run("Keyspace", func(t *testing.T) {
		t.Parallel()

		t.Run("Get", func(t *testing.T) {
			t.Parallel()

			t.Run("it returns an empty value if the key doesn't exist", func(t *testing.T) {
				t.Parallel()

				ks := setup(t)

				v, err := ks.Get(t.Context(), []byte("<key>"))
				if err != nil {
					t.Fatal(err)
				}
				if len(v) != 0 {
					t.Fatal("expected zero-length value")
				}
			})

			t.Run("it returns an empty value if the key has been deleted", func(t *testing.T) {
				t.Parallel()

				ks := setup(t)
				k := []byte("<key>")

				set(t, ks, "<key>", "<value>")

				if err := ks.Set(t.Context(), k, nil); err != nil {
					t.Fatal(err)
				}

				v, err := ks.Get(t.Context(), k)
				if err != nil {
					t.Fatal(err)
				}
				if len(v) != 0 {
					t.Fatal("expected zero-length value")
				}
			})

			t.Run("it returns the value if the key exists", func(t *testing.T) {
				t.Parallel()

				ks := setup(t)

				for i := 0; i < 5; i++ {
					set(t, ks, fmt.Sprintf("<key-%d>", i), fmt.Sprintf("<value-%d>", i))
				}

				for i := 0; i < 5; i++ {
					k := []byte(fmt.Sprintf("<key-%d>", i))
					expect := []byte(fmt.Sprintf("<value-%d>", i))

					actual, err := ks.Get(t.Context(), k)
					if err != nil {
						t.Fatal(err)
					}

					if !bytes.Equal(expect, actual) {
						t.Fatalf(
							"unexpected value, want %q, got %q",
							string(expect),
							string(actual),
						)
					}
				}
			})

			t.Run("it does not return its internal byte slice", func(t *testing.T) {
				t.Parallel()

				ks := setup(t)
				k := []byte("<key>")

				set(t, ks, "<key>", "<value>")

				v, err := ks.Get(t.Context(), k)
				if err != nil {
					t.Fatal(err)
				}

				v[0] = 'X'

				actual, err := ks.Get(t.Context(), k)
				if err != nil {
					t.Fatal(err)
				}

				if expect := []byte("<value>"); !bytes.Equal(expect, actual) {
					t.Fatalf(
						"unexpected value, want %q, got %q",
						string(expect),
						string(actual),
					)
				}
			})
		})

		t.Run("Has", func(t *testing.T) {
			t.Parallel()

			t.Run("it reports whether the key exists", func(t *testing.T) {
				t.Parallel()

				ks := setup(t)

				ok, err := ks.Has(t.Context(), []byte("<key>"))
				if err != nil {
					t.Fatal(err)
				}
				if ok {
					t.Fatal("expected ok to be false")
				}

				set(t, ks, "<key>", "<value>")

				ok, err = ks.Has(t.Context(), []byte("<key>"))
				if err != nil {
					t.Fatal(err)
				}
				if !ok {
					t.Fatal("expected ok to be true")
				}
			})
		})

		t.Run("Set", func(t *testing.T) {
			t.Parallel()

			t.Run("it replaces an existing value", func(t *testing.T) {
				t.Parallel()

				ks := setup(t)

				set(t, ks, "<key>", "<value-1>")
				set(t, ks, "<key>", "<value-2>")

				actual, err := ks.Get(t.Context(), []byte("<key>"))
				if err != nil {
					t.Fatal(err)
				}

				if expect := []byte("<value-2>"); !bytes.Equal(expect, actual) {
					t.Fatalf(
						"unexpected value, want %q, got %q",
						string(expect),
						string(actual),
					)
				}
			})

			t.Run("it does not keep a reference to the key or value slices", func(t *testing.T) {
				t.Parallel()

				ks := setup(t)

				k := []byte("<key>")
				v := []byte("<value>")

				if err := ks.Set(t.Context(), k, v); err != nil {
					t.Fatal(err)
				}

				k[0] = 'X'
				v[0] = 'X'

				actual, err := ks.Get(t.Context(), []byte("<key>"))
				if err != nil {
					t.Fatal(err)
				}

				if expect := []byte("<value>"); !bytes.Equal(expect, actual) {
					t.Fatalf(
						"unexpected value, want %q, got %q",
						string(expect),
						string(actual),
					)
				}
			})
		})

		t.Run("Range", func(t *testing.T) {
			t.Parallel()

			populate := func(t *testing.T) Keyspace {
				ks := setup(t)

				// Insertion order is deliberately not key order.
				for _, k := range []string{"d", "a", "e", "b", "c"} {
					set(t, ks, k, "<value-"+k+">")
				}

				return ks
			}

			t.Run("it visits every key in ascending byte order", func(t *testing.T) {
				t.Parallel()

				ks := populate(t)

				expect := []string{"a", "b", "c", "d", "e"}
				actual := collect(t, ks, nil, nil)

				if fmt.Sprint(actual) != fmt.Sprint(expect) {
					t.Fatalf("unexpected keys, want %v, got %v", expect, actual)
				}
			})

			t.Run("it honors the half-open [lo, hi) interval", func(t *testing.T) {
				t.Parallel()

				ks := populate(t)

				expect := []string{"b", "c", "d"}
				actual := collect(t, ks, []byte("b"), []byte("e"))

				if fmt.Sprint(actual) != fmt.Sprint(expect) {
					t.Fatalf("unexpected keys, want %v, got %v", expect, actual)
				}
			})

			t.Run("it treats nil bounds as the ends of the keyspace", func(t *testing.T) {
				t.Parallel()

				ks := populate(t)

				if actual := collect(t, ks, nil, []byte("c")); fmt.Sprint(actual) != fmt.Sprint([]string{"a", "b"}) {
					t.Fatalf("unexpected keys: %v", actual)
				}

				if actual := collect(t, ks, []byte("c"), nil); fmt.Sprint(actual) != fmt.Sprint([]string{"c", "d", "e"}) {
					t.Fatalf("unexpected keys: %v", actual)
				}
			})

			t.Run("it stops when the function returns false", func(t *testing.T) {
				t.Parallel()

				ks := populate(t)

				var visited int
				if err := ks.Range(
					t.Context(),
					nil,
					nil,
					func(context.Context, []byte, []byte) (bool, error) {
						visited++
						return visited < 2, nil
					},
				); err != nil {
					t.Fatal(err)
				}

				if visited != 2 {
					t.Fatalf("unexpected number of keys visited: got %d, want 2", visited)
				}
			})

			t.Run("it propagates errors from the function", func(t *testing.T) {
				t.Parallel()

				ks := populate(t)

				expect := fmt.Errorf("<error>")
				err := ks.Range(
					t.Context(),
					nil,
					nil,
					func(context.Context, []byte, []byte) (bool, error) {
						return false, expect
					},
				)

				if err != expect {
					t.Fatalf("unexpected error: got %v, want %v", err, expect)
				}
			})
		})
	})
}
