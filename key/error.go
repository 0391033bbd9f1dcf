package key

import "errors"

// A CorruptKeyError indicates that a byte sequence does not conform to the
// key layout produced by [Encode].
//
// It indicates either corruption within the underlying store or a key-layout
// version mismatch. It is never repaired automatically.
type CorruptKeyError struct {
	// Reason describes the layout violation.
	Reason string
}

func (e CorruptKeyError) Error() string {
	return "key is corrupt: " + e.Reason
}

// IsCorruptKey returns true if err is caused by a [CorruptKeyError].
func IsCorruptKey(err error) bool {
	return errors.As(err, &CorruptKeyError{})
}

// errNilID indicates that an address or composite ID contains a nil ID.
var errNilID = errors.New("ID must not be nil")
