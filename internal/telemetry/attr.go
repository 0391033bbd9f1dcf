package telemetry

import (
	"fmt"
	"reflect"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/exp/constraints"
)

// String returns a string attribute.
func String[T ~string](k string, v T) attribute.KeyValue {
	return attribute.String(k, string(v))
}

// Stringer returns a string attribute containing the result of v.String().
func Stringer(k string, v fmt.Stringer) attribute.KeyValue {
	return attribute.String(k, v.String())
}

// Int returns an integer attribute.
func Int[T constraints.Integer](k string, v T) attribute.KeyValue {
	return attribute.Int64(k, int64(v))
}

// Bool returns a boolean attribute.
func Bool[T ~bool](k string, v T) attribute.KeyValue {
	return attribute.Bool(k, bool(v))
}

// Type returns a string attribute containing the name of v's type, with any
// pointer indirection removed.
func Type[T any](k string, v T) attribute.KeyValue {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return attribute.String(k, "nil")
	}
	return attribute.String(k, t.String())
}

// Binary returns a string attribute containing a binary value, rendered
// verbatim if it is valid UTF-8 or as hexadecimal otherwise.
func Binary(k string, v []byte) attribute.KeyValue {
	if utf8.Valid(v) {
		return attribute.String(k, string(v))
	}
	return attribute.String(k, fmt.Sprintf("%x", v))
}
