package record

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// An ID is the identifier segment of a record address.
//
// It is a closed set of kinds: [Int], [Text], [Array] and [Object]. IDs are
// immutable once constructed.
//
// IDs are totally ordered, first by kind (Int < Text < Array < Object), then
// by the natural order of the kind. This is the same order produced by the
// key codec's byte encoding.
type ID interface {
	fmt.Stringer

	// Compare returns an integer comparing the ID to x.
	//
	// The result is negative if the ID is ordered before x, positive if it is
	// ordered after x, and zero if they are equal.
	Compare(x ID) int

	isID()
}

// NewID returns a new randomly-generated [Text] ID.
func NewID() Text {
	return Text(uuid.NewString())
}

// Int is an integer [ID].
type Int int64

// Text is a string [ID].
type Text string

// Array is an [ID] composed of an ordered sequence of IDs.
type Array []ID

// Object is an [ID] composed of an ordered set of named IDs.
type Object []Field

// Field is a single name/value pair within an [Object] ID.
type Field struct {
	Name  string
	Value ID
}

func (Int) isID()    {}
func (Text) isID()   {}
func (Array) isID()  {}
func (Object) isID() {}

// kindOf returns the rank of an ID's kind within the cross-kind order.
func kindOf(id ID) int {
	switch id.(type) {
	case Int:
		return 0
	case Text:
		return 1
	case Array:
		return 2
	case Object:
		return 3
	default:
		panic(fmt.Sprintf("unrecognized ID type %T", id))
	}
}

// Compare returns an integer comparing the ID to x.
func (id Int) Compare(x ID) int {
	if o, ok := x.(Int); ok {
		return cmp.Compare(id, o)
	}
	return cmp.Compare(kindOf(id), kindOf(x))
}

// Compare returns an integer comparing the ID to x.
func (id Text) Compare(x ID) int {
	if o, ok := x.(Text); ok {
		return strings.Compare(string(id), string(o))
	}
	return cmp.Compare(kindOf(id), kindOf(x))
}

// Compare returns an integer comparing the ID to x.
func (id Array) Compare(x ID) int {
	o, ok := x.(Array)
	if !ok {
		return cmp.Compare(kindOf(id), kindOf(x))
	}

	for i, el := range id {
		if i >= len(o) {
			return +1
		}
		if c := el.Compare(o[i]); c != 0 {
			return c
		}
	}

	return cmp.Compare(len(id), len(o))
}

// Compare returns an integer comparing the ID to x.
func (id Object) Compare(x ID) int {
	o, ok := x.(Object)
	if !ok {
		return cmp.Compare(kindOf(id), kindOf(x))
	}

	for i, f := range id {
		if i >= len(o) {
			return +1
		}
		if c := strings.Compare(f.Name, o[i].Name); c != 0 {
			return c
		}
		if c := f.Value.Compare(o[i].Value); c != 0 {
			return c
		}
	}

	return cmp.Compare(len(id), len(o))
}

func (id Int) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func (id Text) String() string {
	return string(id)
}

func (id Array) String() string {
	var w strings.Builder

	w.WriteByte('[')
	for i, el := range id {
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(el.String())
	}
	w.WriteByte(']')

	return w.String()
}

func (id Object) String() string {
	var w strings.Builder

	w.WriteByte('{')
	for i, f := range id {
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(f.Name)
		w.WriteString(": ")
		w.WriteString(f.Value.String())
	}
	w.WriteByte('}')

	return w.String()
}
