package resource

import (
	"strings"

	"github.com/dogmatiq/recordkit/record"
)

// Each source shape that can be converted to a resource has its own named
// conversion function with a fixed target variant; the caller's static input
// type selects the conversion.

// Parse converts the general string form of a resource.
//
// If s conforms to the record-address syntax it yields a [Record]; otherwise
// it yields a [Table], provided s is a valid table name. A string that fails
// both interpretations surfaces the underlying address parse error.
func Parse(s string) (Resource, error) {
	ref, err := record.ParseRef(s)
	if err == nil {
		return Record(ref), nil
	}

	if strings.Contains(s, ":") {
		return nil, err
	}

	return FromTable(s)
}

// FromTable converts a bare table name.
//
// Unlike [Parse], a string containing a colon is rejected with a
// [TableColonIDError] rather than interpreted as a record address, because
// the caller has declared that the string names a table.
func FromTable(name string) (Resource, error) {
	if table, id, ok := strings.Cut(name, ":"); ok {
		return nil, TableColonIDError{Table: table, ID: id}
	}
	if err := record.ValidateName("table", name); err != nil {
		return nil, err
	}
	return Table(name), nil
}

// FromRef converts a record reference.
func FromRef(ref record.Ref) (Resource, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	return Record(ref), nil
}

// FromPair converts a (table, ID) pair.
func FromPair(table string, id record.ID) (Resource, error) {
	return FromRef(record.NewRef(table, id))
}

// FromObject converts an object literal.
func FromObject(o record.Object) (Resource, error) {
	return Object(o), nil
}

// FromArray converts an array literal.
func FromArray(a record.Array) (Resource, error) {
	return Array(a), nil
}

// FromEdges converts an edge set descriptor.
func FromEdges(e Edges) (Resource, error) {
	if err := e.From.Validate(); err != nil {
		return nil, err
	}
	for _, t := range e.Tables {
		if err := record.ValidateName("table", t); err != nil {
			return nil, err
		}
	}
	return e, nil
}
