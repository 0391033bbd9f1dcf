// Package key implements an order-preserving binary codec for record
// addresses.
//
// The byte-lexicographic order of encoded keys is identical to the logical
// order of the addresses they encode, so a contiguous range scan of the
// underlying store visits records in address order. The encoding is also
// injective and round-trip exact.
//
// The layout of an encoded key is a storage-format compatibility surface: any
// change to the marker bytes or the field encodings invalidates previously
// written keys.
package key

import (
	"encoding/binary"

	"github.com/dogmatiq/recordkit/record"
)

const (
	// markerRecord is the first byte of every encoded record key.
	markerRecord = 0x2f // '/'

	// markerField separates the encoded fields of a key.
	markerField = 0x2a // '*'
)

// ID kind tags, in the cross-kind order defined by [record.ID].
const (
	tagInt    = 0x01
	tagText   = 0x02
	tagArray  = 0x03
	tagObject = 0x04
)

// fieldMarker precedes each field of an encoded [record.Object] ID. It is
// greater than the composite terminator (0x00) so that an object that is a
// field-wise prefix of another sorts first.
const fieldMarker = 0x01

// Encode encodes a record address to its key representation.
//
// It fails only if the address violates its own invariants (see
// [record.Address.Validate]); it never fails for a valid address.
func Encode(addr record.Address) ([]byte, error) {
	if err := addr.Validate(); err != nil {
		return nil, err
	}

	buf := make([]byte, 0, 64)
	buf = append(buf, markerRecord)
	buf = appendString(buf, addr.Namespace)
	buf = append(buf, markerField)
	buf = appendString(buf, addr.Database)
	buf = append(buf, markerField)
	buf = appendString(buf, addr.Table)
	buf = append(buf, markerField)

	return appendID(buf, addr.ID)
}

// Decode decodes a key produced by [Encode].
//
// It returns a [CorruptKeyError] if data does not conform to the key layout
// exactly, including the presence of any trailing bytes.
func Decode(data []byte) (record.Address, error) {
	d := decoder{data: data}

	var addr record.Address
	var err error

	if err = d.expect(markerRecord, "record marker"); err != nil {
		return record.Address{}, err
	}
	if addr.Namespace, err = d.readString(); err != nil {
		return record.Address{}, err
	}
	if err = d.expect(markerField, "field marker"); err != nil {
		return record.Address{}, err
	}
	if addr.Database, err = d.readString(); err != nil {
		return record.Address{}, err
	}
	if err = d.expect(markerField, "field marker"); err != nil {
		return record.Address{}, err
	}
	if addr.Table, err = d.readString(); err != nil {
		return record.Address{}, err
	}
	if err = d.expect(markerField, "field marker"); err != nil {
		return record.Address{}, err
	}
	if addr.ID, err = d.readID(); err != nil {
		return record.Address{}, err
	}

	if len(d.data) != 0 {
		return record.Address{}, CorruptKeyError{Reason: "unexpected trailing bytes"}
	}

	return addr, nil
}

// appendString appends the order-preserving encoding of a string field.
//
// Each 0x00 byte is escaped as 0x00 0x01 and the field is terminated by
// 0x00 0x00, making the encoding prefix-free while preserving lexicographic
// order.
func appendString(buf []byte, s string) []byte {
	for i := 0; i < len(s); i++ {
		if s[i] == 0x00 {
			buf = append(buf, 0x00, 0x01)
		} else {
			buf = append(buf, s[i])
		}
	}
	return append(buf, 0x00, 0x00)
}

// appendID appends the order-preserving encoding of an ID.
//
// Each encoding begins with a kind tag so that cross-kind byte order matches
// [record.ID.Compare]. Composite kinds are encoded recursively and terminated
// by a 0x00 byte, which is less than any kind tag or field marker.
func appendID(buf []byte, id record.ID) ([]byte, error) {
	switch id := id.(type) {
	case record.Int:
		buf = append(buf, tagInt)
		// Flipping the sign bit makes the big-endian byte order of the
		// result match signed integer order.
		return binary.BigEndian.AppendUint64(buf, uint64(id)^(1<<63)), nil

	case record.Text:
		buf = append(buf, tagText)
		return appendString(buf, string(id)), nil

	case record.Array:
		buf = append(buf, tagArray)
		for _, el := range id {
			if el == nil {
				return nil, errNilID
			}
			var err error
			if buf, err = appendID(buf, el); err != nil {
				return nil, err
			}
		}
		return append(buf, 0x00), nil

	case record.Object:
		buf = append(buf, tagObject)
		for _, f := range id {
			buf = append(buf, fieldMarker)
			buf = appendString(buf, f.Name)
			if f.Value == nil {
				return nil, errNilID
			}
			var err error
			if buf, err = appendID(buf, f.Value); err != nil {
				return nil, err
			}
		}
		return append(buf, 0x00), nil

	default:
		return nil, errNilID
	}
}

// decoder consumes an encoded key from front to back.
type decoder struct {
	data []byte
}

func (d *decoder) next() (byte, error) {
	if len(d.data) == 0 {
		return 0, CorruptKeyError{Reason: "truncated key"}
	}
	b := d.data[0]
	d.data = d.data[1:]
	return b, nil
}

func (d *decoder) peek() (byte, error) {
	if len(d.data) == 0 {
		return 0, CorruptKeyError{Reason: "truncated key"}
	}
	return d.data[0], nil
}

func (d *decoder) expect(b byte, desc string) error {
	got, err := d.next()
	if err != nil {
		return err
	}
	if got != b {
		return CorruptKeyError{Reason: "expected " + desc}
	}
	return nil
}

func (d *decoder) readString() (string, error) {
	var buf []byte

	for {
		b, err := d.next()
		if err != nil {
			return "", err
		}

		if b != 0x00 {
			buf = append(buf, b)
			continue
		}

		b, err = d.next()
		if err != nil {
			return "", err
		}

		switch b {
		case 0x00:
			return string(buf), nil
		case 0x01:
			buf = append(buf, 0x00)
		default:
			return "", CorruptKeyError{Reason: "invalid escape sequence in string field"}
		}
	}
}

func (d *decoder) readID() (record.ID, error) {
	tag, err := d.next()
	if err != nil {
		return nil, err
	}

	switch tag {
	case tagInt:
		if len(d.data) < 8 {
			return nil, CorruptKeyError{Reason: "truncated integer ID"}
		}
		n := binary.BigEndian.Uint64(d.data)
		d.data = d.data[8:]
		return record.Int(n ^ (1 << 63)), nil

	case tagText:
		s, err := d.readString()
		if err != nil {
			return nil, err
		}
		return record.Text(s), nil

	case tagArray:
		id := record.Array{}
		for {
			b, err := d.peek()
			if err != nil {
				return nil, err
			}
			if b == 0x00 {
				d.data = d.data[1:]
				return id, nil
			}

			el, err := d.readID()
			if err != nil {
				return nil, err
			}
			id = append(id, el)
		}

	case tagObject:
		id := record.Object{}
		for {
			b, err := d.next()
			if err != nil {
				return nil, err
			}

			switch b {
			case 0x00:
				return id, nil
			case fieldMarker:
				name, err := d.readString()
				if err != nil {
					return nil, err
				}
				value, err := d.readID()
				if err != nil {
					return nil, err
				}
				id = append(id, record.Field{Name: name, Value: value})
			default:
				return nil, CorruptKeyError{Reason: "invalid object field marker"}
			}
		}

	default:
		return nil, CorruptKeyError{Reason: "unrecognized ID kind tag"}
	}
}
