// Package wireenc provides the self-describing binary encoding used to
// round-trip table entries (Object, Version, BlockRef) through the
// replicated table abstraction in package table. Using a real codec here,
// rather than a hand-rolled format, is what lets a corrupt or truncated
// record surface as verr.Encoding instead of panicking deep in a decoder.
package wireenc

import (
	"gopkg.in/vmihailenco/msgpack.v2"

	"github.com/wharfstore/core/verr"
)

// Encode serializes v into the wire format stored by the replicated table.
func Encode(v interface{}) ([]byte, error) {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return nil, verr.New(verr.Encoding, err, 2, "wireenc: encode failed")
	}
	return b, nil
}

// Decode deserializes b, previously produced by Encode, into v.
func Decode(b []byte, v interface{}) error {
	if err := msgpack.Unmarshal(b, v); err != nil {
		return verr.New(verr.Encoding, err, 2, "wireenc: decode failed")
	}
	return nil
}
