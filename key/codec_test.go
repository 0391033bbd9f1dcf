package key_test

import (
	"bytes"
	"testing"

	"github.com/dogmatiq/recordkit/record"
	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	. "github.com/dogmatiq/recordkit/key"
)

// name generates a valid namespace, database or table name: any non-empty
// byte sequence that does not contain a colon. NUL bytes are included to
// exercise the codec's escape sequences.
var name = rapid.Custom(func(t *rapid.T) string {
	b := rapid.SliceOfN(
		rapid.Byte().Filter(func(b byte) bool { return b != ':' }),
		1, 8,
	).Draw(t, "name")
	return string(b)
})

// scalarID generates an [record.Int] or [record.Text] ID.
var scalarID = rapid.OneOf(
	rapid.Custom(func(t *rapid.T) record.ID {
		return record.Int(rapid.Int64().Draw(t, "int"))
	}),
	rapid.Custom(func(t *rapid.T) record.ID {
		return record.Text(rapid.String().Draw(t, "text"))
	}),
)

// anyID generates an ID of any kind. Composite IDs are at most one level
// deep, which is enough to exercise the recursive encoding.
var anyID = rapid.OneOf(
	scalarID,
	rapid.Custom(func(t *rapid.T) record.ID {
		id := record.Array{}
		for _, el := range rapid.SliceOfN(scalarID, 0, 3).Draw(t, "elements") {
			id = append(id, el)
		}
		return id
	}),
	rapid.Custom(func(t *rapid.T) record.ID {
		id := record.Object{}
		n := rapid.IntRange(0, 3).Draw(t, "fields")
		for i := 0; i < n; i++ {
			id = append(id, record.Field{
				Name:  rapid.String().Draw(t, "field-name"),
				Value: scalarID.Draw(t, "field-value"),
			})
		}
		return id
	}),
)

// address generates a valid record address.
var address = rapid.Custom(func(t *rapid.T) record.Address {
	return record.NewAddress(
		name.Draw(t, "namespace"),
		name.Draw(t, "database"),
		name.Draw(t, "table"),
		anyID.Draw(t, "id"),
	)
})

func TestCodec(t *testing.T) {
	t.Parallel()

	t.Run("it round-trips every valid address exactly", func(t *testing.T) {
		t.Parallel()

		rapid.Check(t, func(t *rapid.T) {
			expect := address.Draw(t, "address")

			k, err := Encode(expect)
			if err != nil {
				t.Fatal(err)
			}

			actual, err := Decode(k)
			if err != nil {
				t.Fatal(err)
			}

			if diff := cmp.Diff(expect, actual); diff != "" {
				t.Fatalf("address did not survive the round-trip (-want +got):\n%s", diff)
			}
		})
	})

	t.Run("it preserves address order in the byte order of keys", func(t *testing.T) {
		t.Parallel()

		rapid.Check(t, func(t *rapid.T) {
			a := address.Draw(t, "a")
			b := address.Draw(t, "b")

			ka, err := Encode(a)
			if err != nil {
				t.Fatal(err)
			}
			kb, err := Encode(b)
			if err != nil {
				t.Fatal(err)
			}

			expect := sign(a.Compare(b))
			actual := sign(bytes.Compare(ka, kb))

			if actual != expect {
				t.Fatalf(
					"unexpected key order for %s and %s: got %d, want %d",
					a, b, actual, expect,
				)
			}
		})
	})

	t.Run("it rejects an invalid address", func(t *testing.T) {
		t.Parallel()

		addresses := []record.Address{
			record.NewAddress("", "app", "person", record.Int(1)),
			record.NewAddress("acme", "a:pp", "person", record.Int(1)),
			record.NewAddress("acme", "app", "person", nil),
			record.NewAddress("acme", "app", "person", record.Array{nil}),
			record.NewAddress("acme", "app", "person", record.Object{{Name: "x"}}),
		}

		for _, addr := range addresses {
			if _, err := Encode(addr); err == nil {
				t.Fatalf("expected an error for %s", addr)
			}
		}
	})
}

func TestDecode_corruption(t *testing.T) {
	t.Parallel()

	encode := func(t testing.TB, addr record.Address) []byte {
		t.Helper()
		k, err := Encode(addr)
		if err != nil {
			t.Fatal(err)
		}
		return k
	}

	t.Run("it rejects truncations of a valid key", func(t *testing.T) {
		t.Parallel()

		k := encode(t, record.NewAddress(
			"acme", "app", "person",
			record.Array{record.Int(42), record.Text("tobie")},
		))

		for n := 0; n < len(k); n++ {
			if _, err := Decode(k[:n]); !IsCorruptKey(err) {
				t.Fatalf("expected a corrupt-key error at length %d, got %v", n, err)
			}
		}
	})

	t.Run("it rejects trailing bytes after a valid key", func(t *testing.T) {
		t.Parallel()

		k := encode(t, record.NewAddress("acme", "app", "person", record.Int(42)))
		k = append(k, 0x00)

		if _, err := Decode(k); !IsCorruptKey(err) {
			t.Fatalf("expected a corrupt-key error, got %v", err)
		}
	})

	t.Run("it rejects unrecognized structural bytes", func(t *testing.T) {
		t.Parallel()

		k := encode(t, record.NewAddress("acme", "app", "person", record.Text("tobie")))

		// Flipping any single structural byte must not produce a valid key
		// that decodes to the same address.
		expect, err := Decode(k)
		if err != nil {
			t.Fatal(err)
		}

		for i := range k {
			mutated := bytes.Clone(k)
			mutated[i] ^= 0xff

			actual, err := Decode(mutated)
			if err != nil {
				continue
			}

			if actual.Equal(expect) {
				t.Fatalf("mutation at offset %d decoded to the original address", i)
			}
		}
	})

	t.Run("it rejects an empty key", func(t *testing.T) {
		t.Parallel()

		if _, err := Decode(nil); !IsCorruptKey(err) {
			t.Fatal("expected a corrupt-key error")
		}
	})

	t.Run("it rejects an unrecognized ID kind tag", func(t *testing.T) {
		t.Parallel()

		k := encode(t, record.NewAddress("acme", "app", "person", record.Text("tobie")))

		// The byte after the third field marker is the ID kind tag.
		i := bytes.LastIndexByte(k, '*') + 1
		k[i] = 0x7f

		if _, err := Decode(k); !IsCorruptKey(err) {
			t.Fatal("expected a corrupt-key error")
		}
	})
}

func sign(c int) int {
	switch {
	case c < 0:
		return -1
	case c > 0:
		return +1
	default:
		return 0
	}
}
