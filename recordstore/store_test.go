package recordstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dogmatiq/recordkit/cancel"
	"github.com/dogmatiq/recordkit/driver/memory/memorystore"
	"github.com/dogmatiq/recordkit/marshaler"
	"github.com/dogmatiq/recordkit/record"
	"github.com/dogmatiq/recordkit/resource"
	"github.com/google/go-cmp/cmp"

	. "github.com/dogmatiq/recordkit/recordstore"
)

type person struct {
	Name string
	Age  int
}

func setup(t *testing.T, options ...Option) *Keyspace[person] {
	t.Helper()

	ks, err := Open(
		t.Context(),
		&memorystore.Store{},
		"records",
		"acme", "app",
		marshaler.NewJSON[person](),
		options...,
	)
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		if err := ks.Close(); err != nil {
			t.Error(err)
		}
	})

	return ks
}

func set(t *testing.T, ks *Keyspace[person], ref record.Ref, v person) {
	t.Helper()
	if err := ks.Set(t.Context(), ref, v); err != nil {
		t.Fatal(err)
	}
}

// collect runs a select operation and returns the visited references in
// visitation order.
func collect(
	t *testing.T,
	ks *Keyspace[person],
	r resource.Resource,
	rng *resource.Range,
) []record.Ref {
	t.Helper()

	var refs []record.Ref
	if err := ks.Select(
		t.Context(),
		r,
		rng,
		func(_ context.Context, ref record.Ref, _ person) (bool, error) {
			refs = append(refs, ref)
			return true, nil
		},
	); err != nil {
		t.Fatal(err)
	}

	return refs
}

func TestKeyspace(t *testing.T) {
	t.Parallel()

	t.Run("Open", func(t *testing.T) {
		t.Parallel()

		t.Run("it rejects invalid namespace and database names", func(t *testing.T) {
			t.Parallel()

			s := &memorystore.Store{}
			vm := marshaler.NewJSON[person]()

			if _, err := Open(t.Context(), s, "records", "ac:me", "app", vm); err == nil {
				t.Fatal("expected an error")
			}
			if _, err := Open(t.Context(), s, "records", "acme", "", vm); err == nil {
				t.Fatal("expected an error")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Parallel()

		t.Run("it returns the zero-value if the record does not exist", func(t *testing.T) {
			t.Parallel()

			ks := setup(t)

			v, err := ks.Get(t.Context(), record.NewRef("person", record.Int(1)))
			if err != nil {
				t.Fatal(err)
			}
			if v != (person{}) {
				t.Fatalf("expected the zero-value, got %#v", v)
			}
		})

		t.Run("it returns the record if it exists", func(t *testing.T) {
			t.Parallel()

			ks := setup(t)
			ref := record.NewRef("person", record.Text("tobie"))
			expect := person{Name: "Tobie", Age: 40}

			set(t, ks, ref, expect)

			actual, err := ks.Get(t.Context(), ref)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(expect, actual); diff != "" {
				t.Fatalf("unexpected record (-want +got):\n%s", diff)
			}
		})

		t.Run("it rejects an invalid reference", func(t *testing.T) {
			t.Parallel()

			ks := setup(t)

			if _, err := ks.Get(t.Context(), record.NewRef("person", nil)); err == nil {
				t.Fatal("expected an error")
			}
		})
	})

	t.Run("Set", func(t *testing.T) {
		t.Parallel()

		t.Run("it deletes the record when set to the zero-value", func(t *testing.T) {
			t.Parallel()

			ks := setup(t)
			ref := record.NewRef("person", record.Int(1))

			set(t, ks, ref, person{Name: "Tobie"})
			set(t, ks, ref, person{})

			ok, err := ks.Has(t.Context(), ref)
			if err != nil {
				t.Fatal(err)
			}
			if ok {
				t.Fatal("expected the record to be deleted")
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Parallel()

		t.Run("it removes the record", func(t *testing.T) {
			t.Parallel()

			ks := setup(t)
			ref := record.NewRef("person", record.Int(1))

			set(t, ks, ref, person{Name: "Tobie"})

			if err := ks.Delete(t.Context(), ref); err != nil {
				t.Fatal(err)
			}

			ok, err := ks.Has(t.Context(), ref)
			if err != nil {
				t.Fatal(err)
			}
			if ok {
				t.Fatal("expected the record to be deleted")
			}
		})

		t.Run("it has no effect if the record does not exist", func(t *testing.T) {
			t.Parallel()

			ks := setup(t)

			if err := ks.Delete(t.Context(), record.NewRef("person", record.Int(1))); err != nil {
				t.Fatal(err)
			}
		})
	})
}

func TestKeyspace_Select(t *testing.T) {
	t.Parallel()

	// populate inserts records into two tables, deliberately out of ID order.
	populate := func(t *testing.T, ks *Keyspace[person]) {
		for _, ref := range []record.Ref{
			record.NewRef("person", record.Text("b")),
			record.NewRef("person", record.Int(3)),
			record.NewRef("person", record.Int(1)),
			record.NewRef("person", record.Text("a")),
			record.NewRef("person", record.Int(2)),
			record.NewRef("animal", record.Int(1)),
		} {
			set(t, ks, ref, person{Name: ref.String()})
		}
	}

	t.Run("a table resource visits every record in ID order", func(t *testing.T) {
		t.Parallel()

		ks := setup(t)
		populate(t, ks)

		expect := []record.Ref{
			record.NewRef("person", record.Int(1)),
			record.NewRef("person", record.Int(2)),
			record.NewRef("person", record.Int(3)),
			record.NewRef("person", record.Text("a")),
			record.NewRef("person", record.Text("b")),
		}
		actual := collect(t, ks, resource.Table("person"), nil)

		if diff := cmp.Diff(expect, actual); diff != "" {
			t.Fatalf("unexpected references (-want +got):\n%s", diff)
		}
	})

	t.Run("a range restricts a table resource to a sub-interval", func(t *testing.T) {
		t.Parallel()

		ks := setup(t)
		populate(t, ks)

		cases := []struct {
			Desc   string
			Range  resource.Range
			Expect []record.Ref
		}{
			{
				"half-open",
				resource.Span(record.Int(2), record.Text("b")),
				[]record.Ref{
					record.NewRef("person", record.Int(2)),
					record.NewRef("person", record.Int(3)),
					record.NewRef("person", record.Text("a")),
				},
			},
			{
				"closed",
				resource.Inclusive(record.Int(2), record.Int(3)),
				[]record.Ref{
					record.NewRef("person", record.Int(2)),
					record.NewRef("person", record.Int(3)),
				},
			},
			{
				"exclusive start",
				resource.Range{
					Start: resource.Excluded(record.Int(1)),
					End:   resource.Excluded(record.Text("a")),
				},
				[]record.Ref{
					record.NewRef("person", record.Int(2)),
					record.NewRef("person", record.Int(3)),
				},
			},
			{
				"unbounded",
				resource.Full(),
				[]record.Ref{
					record.NewRef("person", record.Int(1)),
					record.NewRef("person", record.Int(2)),
					record.NewRef("person", record.Int(3)),
					record.NewRef("person", record.Text("a")),
					record.NewRef("person", record.Text("b")),
				},
			},
			{
				"empty",
				resource.Span(record.Int(2), record.Int(2)),
				nil,
			},
		}

		for _, c := range cases {
			t.Run(c.Desc, func(t *testing.T) {
				t.Parallel()

				actual := collect(t, ks, resource.Table("person"), &c.Range)
				if diff := cmp.Diff(c.Expect, actual); diff != "" {
					t.Fatalf("unexpected references (-want +got):\n%s", diff)
				}
			})
		}
	})

	t.Run("a record resource visits the single addressed record", func(t *testing.T) {
		t.Parallel()

		ks := setup(t)
		populate(t, ks)

		ref := record.NewRef("person", record.Int(2))

		expect := []record.Ref{ref}
		actual := collect(t, ks, resource.Record(ref), nil)

		if diff := cmp.Diff(expect, actual); diff != "" {
			t.Fatalf("unexpected references (-want +got):\n%s", diff)
		}
	})

	t.Run("a record resource visits nothing if the record does not exist", func(t *testing.T) {
		t.Parallel()

		ks := setup(t)
		populate(t, ks)

		ref := record.NewRef("person", record.Int(99))

		if refs := collect(t, ks, resource.Record(ref), nil); refs != nil {
			t.Fatalf("expected no references, got %v", refs)
		}
	})

	t.Run("a range on a non-table resource fails before any storage access", func(t *testing.T) {
		t.Parallel()

		ks := setup(t)
		rng := resource.Full()

		err := ks.Select(
			t.Context(),
			resource.Record(record.NewRef("person", record.Int(1))),
			&rng,
			func(context.Context, record.Ref, person) (bool, error) {
				t.Fatal("unexpected call")
				return false, nil
			},
		)

		if !resource.IsRangeError(err) {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("literal and edge resources are unsupported", func(t *testing.T) {
		t.Parallel()

		ks := setup(t)

		resources := []resource.Resource{
			resource.Object{{Name: "x", Value: record.Int(1)}},
			resource.Array{record.Int(1)},
			resource.Edges{From: record.NewRef("person", record.Int(1))},
		}

		for _, r := range resources {
			err := ks.Select(
				t.Context(),
				r,
				nil,
				func(context.Context, record.Ref, person) (bool, error) {
					t.Fatal("unexpected call")
					return false, nil
				},
			)

			var e UnsupportedResourceError
			if !errors.As(err, &e) {
				t.Fatalf("unexpected error for %s: %v", r, err)
			}
		}
	})

	t.Run("it stops visiting when the function returns false", func(t *testing.T) {
		t.Parallel()

		ks := setup(t)
		populate(t, ks)

		var visited int
		if err := ks.Select(
			t.Context(),
			resource.Table("person"),
			nil,
			func(context.Context, record.Ref, person) (bool, error) {
				visited++
				return visited < 2, nil
			},
		); err != nil {
			t.Fatal(err)
		}

		if visited != 2 {
			t.Fatalf("unexpected number of records visited: got %d, want 2", visited)
		}
	})
}

func TestKeyspace_cancellation(t *testing.T) {
	t.Parallel()

	t.Run("a scan aborts when the flag is set before it starts", func(t *testing.T) {
		t.Parallel()

		var flag cancel.Flag
		ks := setup(t, WithCancellation(&flag))

		set(t, ks, record.NewRef("person", record.Int(1)), person{Name: "Tobie"})

		cancel.New(&flag).Cancel()

		err := ks.Select(
			t.Context(),
			resource.Table("person"),
			nil,
			func(context.Context, record.Ref, person) (bool, error) {
				t.Fatal("unexpected call")
				return false, nil
			},
		)

		if !errors.Is(err, ErrCancelled) {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("a scan aborts at its next checkpoint when cancelled mid-flight", func(t *testing.T) {
		t.Parallel()

		var flag cancel.Flag
		ks := setup(t, WithCancellation(&flag))

		for i := 1; i <= 5; i++ {
			set(t, ks, record.NewRef("person", record.Int(int64(i))), person{Age: i})
		}

		var visited int
		err := ks.Select(
			t.Context(),
			resource.Table("person"),
			nil,
			func(context.Context, record.Ref, person) (bool, error) {
				visited++
				if visited == 2 {
					cancel.New(&flag).Cancel()
				}
				return true, nil
			},
		)

		if !errors.Is(err, ErrCancelled) {
			t.Fatalf("unexpected error: %v", err)
		}
		if visited != 2 {
			t.Fatalf("unexpected number of records visited: got %d, want 2", visited)
		}
	})

	t.Run("point reads are unaffected by cancellation", func(t *testing.T) {
		t.Parallel()

		var flag cancel.Flag
		ks := setup(t, WithCancellation(&flag))
		ref := record.NewRef("person", record.Int(1))

		set(t, ks, ref, person{Name: "Tobie"})
		cancel.New(&flag).Cancel()

		if _, err := ks.Get(t.Context(), ref); err != nil {
			t.Fatal(err)
		}
		if err := ks.Set(t.Context(), ref, person{Name: "Jaime"}); err != nil {
			t.Fatal(err)
		}
	})
}
