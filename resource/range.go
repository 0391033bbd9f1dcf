package resource

import "github.com/dogmatiq/recordkit/record"

// A Bound is one end of a [Range].
//
// The zero value is unbounded.
type Bound struct {
	// ID is the bounding identifier, or nil if the bound is unbounded.
	ID record.ID

	// Exclusive indicates that the bound excludes ID itself.
	Exclusive bool
}

// Included returns a bound that includes id.
func Included(id record.ID) Bound {
	return Bound{ID: id}
}

// Excluded returns a bound that excludes id.
func Excluded(id record.ID) Bound {
	return Bound{ID: id, Exclusive: true}
}

// Unbounded returns a bound that does not constrain the range.
func Unbounded() Bound {
	return Bound{}
}

// IsUnbounded returns true if the bound does not constrain the range.
func (b Bound) IsUnbounded() bool {
	return b.ID == nil
}

// A Range is a bounded sub-interval of the IDs within one table.
//
// It is only meaningful when paired with a [Table] resource; see [WithRange].
type Range struct {
	Start Bound
	End   Bound
}

// Span returns the half-open range [start, end).
func Span(start, end record.ID) Range {
	return Range{Start: Included(start), End: Excluded(end)}
}

// Inclusive returns the closed range [start, end].
func Inclusive(start, end record.ID) Range {
	return Range{Start: Included(start), End: Included(end)}
}

// From returns the range of every ID at or after start.
func From(start record.ID) Range {
	return Range{Start: Included(start)}
}

// To returns the range of every ID before end.
func To(end record.ID) Range {
	return Range{End: Excluded(end)}
}

// ToInclusive returns the range of every ID at or before end.
func ToInclusive(end record.ID) Range {
	return Range{End: Included(end)}
}

// Full returns the unbounded range of every ID.
func Full() Range {
	return Range{}
}

// A Scan is the logical descriptor of a range-bounded scan over one table.
//
// It is produced by [WithRange]; translation into physical storage bounds is
// performed by the key codec.
type Scan struct {
	// Table is the table whose records are scanned.
	Table string

	// Start and End bound the IDs visited by the scan.
	Start Bound
	End   Bound
}

// WithRange attaches a range to a resource, producing a scan descriptor.
//
// Only a [Table] resource accepts a range: a range selects a sub-interval of
// the ordered IDs within one table, and no other variant has an ordering axis
// to select over. Every other variant fails deterministically with the
// matching variant-specific error, regardless of the range value.
func WithRange(r Resource, rng Range) (Scan, error) {
	switch r := r.(type) {
	case Table:
		return Scan{
			Table: string(r),
			Start: rng.Start,
			End:   rng.End,
		}, nil
	case Record:
		return Scan{}, RangeOnRecordError{Record: record.Ref(r)}
	case Object:
		return Scan{}, RangeOnObjectError{Object: r}
	case Array:
		return Scan{}, RangeOnArrayError{Array: r}
	case Edges:
		return Scan{}, RangeOnEdgesError{Edges: r}
	default:
		panic("unrecognized resource variant")
	}
}
