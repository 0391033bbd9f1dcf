// Package cancel provides a poll-based cooperative cancellation signal.
//
// An execution context owns a single [Flag] that is shared, by pointer, with
// every operation derived from that context. Operations poll the flag at
// their own suspension points; there is no notification mechanism, so the
// signal is observable from synchronous code without restructuring it around
// callbacks or channels.
package cancel

import "sync/atomic"

// A Flag is a cancellation flag shared by every operation derived from one
// execution context.
//
// The zero value is an un-cancelled flag, ready for use. A flag is safe for
// use by any number of concurrent readers. Cancellation is monotonic: once
// set, the flag remains set for the lifetime of the owning context.
type Flag struct {
	cancelled atomic.Bool
}

// Cancelled returns true if the flag has been set by a [Canceller].
func (f *Flag) Cancelled() bool {
	return f.cancelled.Load()
}

// A Canceller sets a shared [Flag].
//
// It is the only means of setting the flag. Cancellers are cheap values and
// may be copied freely; every copy refers to the same flag, allowing multiple
// independent triggers, such as a timeout watcher and an explicit user abort,
// to share one flag. The canceller does not own the flag's lifetime; the
// execution context that allocated the flag does.
//
// The zero value refers to no flag and its Cancel method has no effect.
type Canceller struct {
	flag *Flag
}

// New returns a canceller that sets f.
func New(f *Flag) Canceller {
	return Canceller{flag: f}
}

// Cancel sets the flag.
//
// It is idempotent: calling it any number of times has the same effect as
// calling it once. It never blocks and cannot fail.
func (c Canceller) Cancel() {
	if c.flag != nil {
		c.flag.cancelled.Store(true)
	}
}
