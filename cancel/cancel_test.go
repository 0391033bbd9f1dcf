package cancel_test

import (
	"sync"
	"testing"

	. "github.com/dogmatiq/recordkit/cancel"
)

func TestCanceller(t *testing.T) {
	t.Parallel()

	t.Run("the zero flag is not cancelled", func(t *testing.T) {
		t.Parallel()

		var f Flag
		if f.Cancelled() {
			t.Fatal("expected the flag to be unset")
		}
	})

	t.Run("it sets the flag", func(t *testing.T) {
		t.Parallel()

		var f Flag
		New(&f).Cancel()

		if !f.Cancelled() {
			t.Fatal("expected the flag to be set")
		}
	})

	t.Run("it is idempotent", func(t *testing.T) {
		t.Parallel()

		var f Flag
		c := New(&f)

		c.Cancel()
		c.Cancel()
		c.Cancel()

		if !f.Cancelled() {
			t.Fatal("expected the flag to be set")
		}
	})

	t.Run("copies refer to the same flag", func(t *testing.T) {
		t.Parallel()

		var f Flag
		c1 := New(&f)
		c2 := c1

		c2.Cancel()

		if !f.Cancelled() {
			t.Fatal("expected the flag to be set")
		}
	})

	t.Run("the zero canceller is a no-op", func(t *testing.T) {
		t.Parallel()

		var c Canceller
		c.Cancel()
	})

	t.Run("it is safe for concurrent use", func(t *testing.T) {
		t.Parallel()

		var f Flag
		c := New(&f)

		var g sync.WaitGroup
		for i := 0; i < 10; i++ {
			g.Add(1)
			go func() {
				defer g.Done()
				c.Cancel()
				_ = f.Cancelled()
			}()
		}
		g.Wait()

		if !f.Cancelled() {
			t.Fatal("expected the flag to be set")
		}
	})
}
