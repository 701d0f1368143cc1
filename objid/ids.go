// Package objid defines the fixed-size opaque identifiers used throughout
// the object write path: version/upload UUIDs and content hashes.
package objid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/minio/sha256-simd"
	"gopkg.in/vmihailenco/msgpack.v2"
)

// Size is the fixed byte length of both UUID and Hash.
const Size = 32

// UUID identifies an ObjectVersion (and, by reuse, a multipart upload).
type UUID [Size]byte

// Hash is a content-addressed digest of a block's bytes.
type Hash [Size]byte

// Zero is the zero-value UUID, returned by delete operations that perform
// no write.
var Zero UUID

// String returns the lowercase hex encoding used in HTTP responses and
// upload-id tokens.
func (u UUID) String() string {
	return hex.EncodeToString(u[:])
}

// String returns the lowercase hex encoding of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether u is the zero UUID.
func (u UUID) IsZero() bool {
	return u == Zero
}

// NewUUID returns a fresh random UUID. Unlike github.com/google/uuid this is
// a plain 32-byte opaque value, not an RFC 4122 UUID; the extra width is what
// lets version identity double as a collision-resistant bucket key across
// the whole cluster, so it's generated directly from crypto/rand rather than
// through a UUID library tied to the 16-byte RFC format.
func NewUUID() UUID {
	var u UUID
	if _, err := rand.Read(u[:]); err != nil {
		// crypto/rand.Read on an adequately sized buffer only fails if the
		// OS entropy source is broken; there is no sane recovery.
		panic(fmt.Sprintf("objid: failed to read random bytes: %v", err))
	}
	return u
}

// ParseUUID decodes a lowercase hex-encoded upload id or version uuid.
// It requires exactly Size bytes once decoded.
func ParseUUID(s string) (UUID, error) {
	var u UUID
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, err
	}
	if len(b) != Size {
		return u, fmt.Errorf("objid: invalid id length %d, want %d", len(b), Size)
	}
	copy(u[:], b)
	return u, nil
}

// ContentHash returns the content-addressed digest of a block's bytes.
func ContentHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	var h Hash
	copy(h[:], sum[:])
	return h
}

// EncodeMsgpack implements msgpack.CustomEncoder, storing the id as its raw
// bytes rather than as a 32-element array of integers.
func (u UUID) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeBytes(u[:])
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (u *UUID) DecodeMsgpack(dec *msgpack.Decoder) error {
	b, err := dec.DecodeBytes()
	if err != nil {
		return err
	}
	if len(b) != Size {
		return fmt.Errorf("objid: decoded UUID has length %d, want %d", len(b), Size)
	}
	copy(u[:], b)
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (h Hash) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeBytes(h[:])
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (h *Hash) DecodeMsgpack(dec *msgpack.Decoder) error {
	b, err := dec.DecodeBytes()
	if err != nil {
		return err
	}
	if len(b) != Size {
		return fmt.Errorf("objid: decoded Hash has length %d, want %d", len(b), Size)
	}
	copy(h[:], b)
	return nil
}
