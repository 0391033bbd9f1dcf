package record

import (
	"fmt"
	"strings"
)

// A Ref identifies a single record within a table.
//
// It is the value produced by the textual record-address syntax "table:id".
// It is unqualified: the namespace and database it belongs to are supplied by
// the execution context. Use [Ref.In] to produce a fully-qualified [Address].
type Ref struct {
	Table string
	ID    ID
}

// NewRef returns a reference to the record with the given ID within the named
// table.
func NewRef(table string, id ID) Ref {
	return Ref{Table: table, ID: id}
}

// In returns the fully-qualified address of the record within the given
// namespace and database.
func (r Ref) In(ns, db string) Address {
	return Address{
		Namespace: ns,
		Database:  db,
		Table:     r.Table,
		ID:        r.ID,
	}
}

// Validate returns an error if the reference is malformed.
func (r Ref) Validate() error {
	if err := ValidateName("table", r.Table); err != nil {
		return err
	}
	if r.ID == nil {
		return fmt.Errorf("record reference for the %q table has no ID", r.Table)
	}
	return nil
}

// Compare returns an integer comparing the reference to x, ordering first by
// table then by ID.
func (r Ref) Compare(x Ref) int {
	if c := strings.Compare(r.Table, x.Table); c != 0 {
		return c
	}
	return compareID(r.ID, x.ID)
}

// Equal returns true if r and x refer to the same record.
func (r Ref) Equal(x Ref) bool {
	return r.Compare(x) == 0
}

func (r Ref) String() string {
	id := "?"
	if r.ID != nil {
		id = r.ID.String()
	}
	return r.Table + ":" + id
}

// An Address is the fully-qualified address of a single record: the
// namespace, database and table that contain it, and its ID within that
// table.
//
// A valid address has non-empty, colon-free namespace, database and table
// names and a non-nil ID. Addresses are ordered by their fields in
// declaration order, which is also the order of their key encodings.
type Address struct {
	Namespace string
	Database  string
	Table     string
	ID        ID
}

// NewAddress returns the address of the record with the given ID within the
// given namespace, database and table.
func NewAddress(ns, db, table string, id ID) Address {
	return Address{
		Namespace: ns,
		Database:  db,
		Table:     table,
		ID:        id,
	}
}

// Ref returns the unqualified portion of the address.
func (a Address) Ref() Ref {
	return Ref{Table: a.Table, ID: a.ID}
}

// Validate returns an error if the address is malformed.
func (a Address) Validate() error {
	if err := ValidateName("namespace", a.Namespace); err != nil {
		return err
	}
	if err := ValidateName("database", a.Database); err != nil {
		return err
	}
	if err := ValidateName("table", a.Table); err != nil {
		return err
	}
	if a.ID == nil {
		return fmt.Errorf("record address for the %q table has no ID", a.Table)
	}
	return nil
}

// Compare returns an integer comparing the address to x.
//
// Addresses are ordered by namespace, database, table, then ID, matching the
// byte order of their key encodings.
func (a Address) Compare(x Address) int {
	if c := strings.Compare(a.Namespace, x.Namespace); c != 0 {
		return c
	}
	if c := strings.Compare(a.Database, x.Database); c != 0 {
		return c
	}
	if c := strings.Compare(a.Table, x.Table); c != 0 {
		return c
	}
	return compareID(a.ID, x.ID)
}

// Equal returns true if a and x address the same record.
func (a Address) Equal(x Address) bool {
	return a.Compare(x) == 0
}

func (a Address) String() string {
	return a.Namespace + "/" + a.Database + "/" + a.Ref().String()
}

// compareID compares two possibly-nil IDs, ordering a nil ID before any
// non-nil ID.
func compareID(a, b ID) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return +1
	default:
		return a.Compare(b)
	}
}

// An InvalidNameError indicates that a namespace, database or table name is
// empty or contains a reserved character.
type InvalidNameError struct {
	// Kind describes the role of the name, such as "table".
	Kind string

	// Name is the offending name.
	Name string
}

func (e InvalidNameError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s name must not be empty", e.Kind)
	}
	return fmt.Sprintf("%s name %q must not contain a colon", e.Kind, e.Name)
}

// ValidateName returns an error if name is not usable as a namespace,
// database or table name.
//
// The colon is reserved as the separator of the record-address syntax, so a
// valid name is any non-empty string that does not contain one.
func ValidateName(kind, name string) error {
	if name == "" || strings.Contains(name, ":") {
		return InvalidNameError{Kind: kind, Name: name}
	}
	return nil
}
