package marshaler

import "google.golang.org/protobuf/proto"

// NewProto returns a [Marshaler] that marshals and unmarshals Protocol
// Buffers messages.
func NewProto[
	T interface {
		proto.Message
		*S
	},
	S any,
]() Marshaler[T] {
	return marshaler[T]{
		func(v T) ([]byte, error) {
			return proto.Marshal(v)
		},
		func(data []byte) (T, error) {
			var v T = new(S)
			return v, proto.Unmarshal(data, v)
		},
	}
}
