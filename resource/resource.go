// Package resource models the logical target of a query: a table, a single
// record, a literal value, or a set of graph edges.
//
// Resources are immutable once constructed and safe to share between
// goroutines. The variant set is closed; every operation over resources is an
// exhaustive type switch.
package resource

import (
	"fmt"
	"strings"

	"github.com/dogmatiq/recordkit/record"
)

// A Resource is the logical target of a query.
//
// It is a closed set of variants: [Table], [Record], [Object], [Array] and
// [Edges].
type Resource interface {
	fmt.Stringer

	// Param returns the plain value form of the resource, used when the
	// resource is embedded as a query parameter rather than executed against
	// storage. The conversion is total and lossless for every variant.
	Param() any

	isResource()
}

// Table addresses every record in one table.
//
// A table is the only resource that can be paired with a [Range]; see
// [WithRange].
type Table string

// Record addresses exactly one record.
type Record record.Ref

// Object addresses an in-memory object literal rather than a stored record.
type Object record.Object

// Array addresses an in-memory array literal rather than a stored record.
type Array record.Array

// Edges addresses the graph edges incident to a record.
type Edges struct {
	// From is the record whose edges are addressed.
	From record.Ref

	// Direction selects which incident edges are addressed.
	Direction Direction

	// Tables restricts the addressed edges to those stored in the named edge
	// tables. An empty filter addresses edges in every table.
	Tables []string
}

// Direction selects which edges incident to a record are addressed.
type Direction int

const (
	// Out addresses edges directed away from the record.
	Out Direction = iota

	// In addresses edges directed toward the record.
	In

	// Both addresses edges in either direction.
	Both
)

func (Table) isResource()  {}
func (Record) isResource() {}
func (Object) isResource() {}
func (Array) isResource()  {}
func (Edges) isResource()  {}

// Param returns the table name.
func (r Table) Param() any { return string(r) }

// Param returns the record reference.
func (r Record) Param() any { return record.Ref(r) }

// Param returns the object literal.
func (r Object) Param() any { return record.Object(r) }

// Param returns the array literal.
func (r Array) Param() any { return record.Array(r) }

// Param returns the edge set descriptor.
func (r Edges) Param() any { return r }

func (r Table) String() string {
	return string(r)
}

func (r Record) String() string {
	return record.Ref(r).String()
}

func (r Object) String() string {
	return record.Object(r).String()
}

func (r Array) String() string {
	return record.Array(r).String()
}

func (d Direction) String() string {
	switch d {
	case Out:
		return "->"
	case In:
		return "<-"
	case Both:
		return "<->"
	default:
		return fmt.Sprintf("<unrecognized direction %d>", int(d))
	}
}

func (r Edges) String() string {
	tables := "?"
	if len(r.Tables) != 0 {
		tables = strings.Join(r.Tables, "|")
	}
	return r.From.String() + r.Direction.String() + tables
}
