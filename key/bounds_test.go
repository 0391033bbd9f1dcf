package key_test

import (
	"bytes"
	"testing"

	"github.com/dogmatiq/recordkit/record"
	"github.com/dogmatiq/recordkit/resource"

	. "github.com/dogmatiq/recordkit/key"
)

// contains returns true if k falls within the half-open interval [lo, hi).
func contains(lo, hi, k []byte) bool {
	if bytes.Compare(k, lo) < 0 {
		return false
	}
	return hi == nil || bytes.Compare(k, hi) < 0
}

func TestTableBounds(t *testing.T) {
	t.Parallel()

	t.Run("it covers exactly the keys of the table", func(t *testing.T) {
		t.Parallel()

		lo, hi, err := TableBounds("acme", "app", "person")
		if err != nil {
			t.Fatal(err)
		}

		inside := []record.Address{
			record.NewAddress("acme", "app", "person", record.Int(-9223372036854775808)),
			record.NewAddress("acme", "app", "person", record.Int(0)),
			record.NewAddress("acme", "app", "person", record.Text("")),
			record.NewAddress("acme", "app", "person", record.Text("tobie")),
			record.NewAddress("acme", "app", "person", record.Array{record.Int(1)}),
			record.NewAddress("acme", "app", "person", record.Object{{Name: "x", Value: record.Int(1)}}),
		}

		outside := []record.Address{
			record.NewAddress("acme", "app", "persona", record.Int(0)),
			record.NewAddress("acme", "app", "perso", record.Int(0)),
			record.NewAddress("acme", "app2", "person", record.Int(0)),
			record.NewAddress("acme2", "app", "person", record.Int(0)),
			record.NewAddress("acme", "ap", "person", record.Int(0)),
		}

		for _, addr := range inside {
			k, err := Encode(addr)
			if err != nil {
				t.Fatal(err)
			}
			if !contains(lo, hi, k) {
				t.Errorf("expected %s to fall within the bounds", addr)
			}
		}

		for _, addr := range outside {
			k, err := Encode(addr)
			if err != nil {
				t.Fatal(err)
			}
			if contains(lo, hi, k) {
				t.Errorf("expected %s to fall outside the bounds", addr)
			}
		}
	})

	t.Run("it rejects invalid names", func(t *testing.T) {
		t.Parallel()

		if _, _, err := TableBounds("acme", "app", "per:son"); err == nil {
			t.Fatal("expected an error")
		}
		if _, _, err := TableBounds("", "app", "person"); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestScanBounds(t *testing.T) {
	t.Parallel()

	// ids is the population of IDs used by every case, in ascending order.
	ids := []record.ID{
		record.Int(1),
		record.Int(2),
		record.Int(3),
		record.Text("a"),
		record.Text("b"),
	}

	cases := []struct {
		Desc   string
		Range  resource.Range
		Expect []record.ID
	}{
		{
			"unbounded",
			resource.Full(),
			ids,
		},
		{
			"half-open",
			resource.Span(record.Int(2), record.Text("b")),
			[]record.ID{record.Int(2), record.Int(3), record.Text("a")},
		},
		{
			"closed",
			resource.Inclusive(record.Int(2), record.Text("a")),
			[]record.ID{record.Int(2), record.Int(3), record.Text("a")},
		},
		{
			"exclusive start",
			resource.Range{Start: resource.Excluded(record.Int(2))},
			[]record.ID{record.Int(3), record.Text("a"), record.Text("b")},
		},
		{
			"inclusive end only",
			resource.ToInclusive(record.Int(2)),
			[]record.ID{record.Int(1), record.Int(2)},
		},
		{
			"exclusive end only",
			resource.To(record.Int(2)),
			[]record.ID{record.Int(1)},
		},
		{
			"empty interval",
			resource.Span(record.Int(2), record.Int(2)),
			nil,
		},
		{
			"bounding IDs need not exist",
			resource.Inclusive(record.Int(0), record.Int(99)),
			[]record.ID{record.Int(1), record.Int(2), record.Int(3)},
		},
	}

	for _, c := range cases {
		t.Run(c.Desc, func(t *testing.T) {
			t.Parallel()

			lo, hi, err := ScanBounds(
				"acme", "app",
				resource.Scan{
					Table: "person",
					Start: c.Range.Start,
					End:   c.Range.End,
				},
			)
			if err != nil {
				t.Fatal(err)
			}

			var actual []record.ID
			for _, id := range ids {
				k, err := Encode(record.NewAddress("acme", "app", "person", id))
				if err != nil {
					t.Fatal(err)
				}
				if contains(lo, hi, k) {
					actual = append(actual, id)
				}
			}

			if len(actual) != len(c.Expect) {
				t.Fatalf("unexpected IDs: got %v, want %v", actual, c.Expect)
			}
			for i, id := range actual {
				if id.Compare(c.Expect[i]) != 0 {
					t.Fatalf("unexpected IDs: got %v, want %v", actual, c.Expect)
				}
			}
		})
	}

	t.Run("it never selects records from another table", func(t *testing.T) {
		t.Parallel()

		lo, hi, err := ScanBounds(
			"acme", "app",
			resource.Scan{Table: "person"},
		)
		if err != nil {
			t.Fatal(err)
		}

		k, err := Encode(record.NewAddress("acme", "app", "persona", record.Int(1)))
		if err != nil {
			t.Fatal(err)
		}

		if contains(lo, hi, k) {
			t.Fatal("expected the key to fall outside the bounds")
		}
	})
}
