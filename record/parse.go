package record

import (
	"fmt"
	"strconv"
	"strings"
)

// A RefSyntaxError indicates that a string does not conform to the "table:id"
// record-address syntax.
type RefSyntaxError struct {
	// Input is the string that failed to parse.
	Input string

	// Reason describes why the input was rejected.
	Reason string
}

func (e RefSyntaxError) Error() string {
	return fmt.Sprintf("%q is not a valid record address: %s", e.Input, e.Reason)
}

// ParseRef parses the textual record-address syntax "table:id".
//
// The table name is everything before the first colon and must be a valid
// name (see [ValidateName]). The ID is everything after it and must be
// non-empty; an ID that is a valid base-10 64-bit integer literal parses as
// an [Int], anything else parses as a [Text].
func ParseRef(s string) (Ref, error) {
	table, id, ok := strings.Cut(s, ":")
	if !ok {
		return Ref{}, RefSyntaxError{Input: s, Reason: "missing a colon separator"}
	}

	if err := ValidateName("table", table); err != nil {
		return Ref{}, RefSyntaxError{Input: s, Reason: err.Error()}
	}

	if id == "" {
		return Ref{}, RefSyntaxError{Input: s, Reason: "ID must not be empty"}
	}

	return Ref{Table: table, ID: ParseID(id)}, nil
}

// ParseID parses the textual form of an ID segment.
//
// A valid base-10 64-bit integer literal yields an [Int]; any other string
// yields a [Text] containing the string verbatim.
func ParseID(s string) ID {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(n)
	}
	return Text(s)
}
