package resource

import (
	"errors"
	"fmt"

	"github.com/dogmatiq/recordkit/record"
)

// A TableColonIDError indicates that a string containing a colon was supplied
// where a bare table name was expected.
//
// Rejecting such strings prevents a malformed record reference, such as a
// mistyped record address, from being silently interpreted as a table name.
type TableColonIDError struct {
	// Table is the portion of the input before the first colon.
	Table string

	// ID is the portion of the input after the first colon.
	ID string
}

func (e TableColonIDError) Error() string {
	return fmt.Sprintf(
		"the table name %q must not contain a colon; if it refers to the %q record of the %q table, use a record address instead",
		e.Table+":"+e.ID,
		e.ID,
		e.Table,
	)
}

// A RangeOnRecordError indicates that a range was attached to a [Record]
// resource.
type RangeOnRecordError struct {
	Record record.Ref
}

func (e RangeOnRecordError) Error() string {
	return fmt.Sprintf("a range cannot be applied to the %q record resource", e.Record)
}

// A RangeOnObjectError indicates that a range was attached to an [Object]
// resource.
type RangeOnObjectError struct {
	Object Object
}

func (e RangeOnObjectError) Error() string {
	return fmt.Sprintf("a range cannot be applied to the object resource %s", e.Object)
}

// A RangeOnArrayError indicates that a range was attached to an [Array]
// resource.
type RangeOnArrayError struct {
	Array Array
}

func (e RangeOnArrayError) Error() string {
	return fmt.Sprintf("a range cannot be applied to the array resource %s", e.Array)
}

// A RangeOnEdgesError indicates that a range was attached to an [Edges]
// resource.
type RangeOnEdgesError struct {
	Edges Edges
}

func (e RangeOnEdgesError) Error() string {
	return fmt.Sprintf("a range cannot be applied to the %q edge resource", e.Edges)
}

// IsRangeError returns true if err indicates that a range was attached to a
// resource variant that has no ordering axis.
func IsRangeError(err error) bool {
	return errors.As(err, &RangeOnRecordError{}) ||
		errors.As(err, &RangeOnObjectError{}) ||
		errors.As(err, &RangeOnArrayError{}) ||
		errors.As(err, &RangeOnEdgesError{})
}
