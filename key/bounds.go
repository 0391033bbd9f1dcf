package key

import (
	"github.com/dogmatiq/recordkit/record"
	"github.com/dogmatiq/recordkit/resource"
)

// TableBounds returns the [lo, hi) key bounds that cover every record in a
// table.
//
// A hi of nil indicates that the covered interval extends to the end of the
// key space.
func TableBounds(ns, db, table string) (lo, hi []byte, err error) {
	prefix, err := tablePrefix(ns, db, table)
	if err != nil {
		return nil, nil, err
	}
	return prefix, prefixSuccessor(prefix), nil
}

// ScanBounds returns the [lo, hi) key bounds that cover the records selected
// by a scan descriptor within the given namespace and database.
//
// A hi of nil indicates that the covered interval extends to the end of the
// key space.
func ScanBounds(ns, db string, s resource.Scan) (lo, hi []byte, err error) {
	prefix, err := tablePrefix(ns, db, s.Table)
	if err != nil {
		return nil, nil, err
	}

	if lo, err = startKey(prefix, s.Start); err != nil {
		return nil, nil, err
	}
	if hi, err = endKey(prefix, s.End); err != nil {
		return nil, nil, err
	}

	return lo, hi, nil
}

// tablePrefix returns the byte prefix shared by every key in a table.
func tablePrefix(ns, db, table string) ([]byte, error) {
	for _, f := range []struct{ kind, name string }{
		{"namespace", ns},
		{"database", db},
		{"table", table},
	} {
		if err := record.ValidateName(f.kind, f.name); err != nil {
			return nil, err
		}
	}

	buf := make([]byte, 0, 32)
	buf = append(buf, markerRecord)
	buf = appendString(buf, ns)
	buf = append(buf, markerField)
	buf = appendString(buf, db)
	buf = append(buf, markerField)
	buf = appendString(buf, table)
	buf = append(buf, markerField)

	return buf, nil
}

// startKey returns the inclusive lower key bound for a scan start bound.
//
// A valid key whose ID equals the bounding ID is exactly prefix + the ID's
// encoding, with nothing following it, so appending a single 0x00 byte yields
// the smallest key greater than it.
func startKey(prefix []byte, b resource.Bound) ([]byte, error) {
	if b.IsUnbounded() {
		return prefix, nil
	}

	k, err := appendID(append([]byte(nil), prefix...), b.ID)
	if err != nil {
		return nil, err
	}

	if b.Exclusive {
		k = append(k, 0x00)
	}
	return k, nil
}

// endKey returns the exclusive upper key bound for a scan end bound, or nil
// if the scan extends to the end of the table's key interval.
func endKey(prefix []byte, b resource.Bound) ([]byte, error) {
	if b.IsUnbounded() {
		return prefixSuccessor(prefix), nil
	}

	k, err := appendID(append([]byte(nil), prefix...), b.ID)
	if err != nil {
		return nil, err
	}

	if !b.Exclusive {
		k = append(k, 0x00)
	}
	return k, nil
}

// prefixSuccessor returns the smallest byte sequence that is greater than
// every sequence beginning with prefix, or nil if no such sequence exists.
func prefixSuccessor(prefix []byte) []byte {
	for i := len(prefix) - 1; i >= 0; i-- {
		if prefix[i] != 0xff {
			succ := append([]byte(nil), prefix[:i+1]...)
			succ[i]++
			return succ
		}
	}
	return nil
}
