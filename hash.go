package crest

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"
)

// HashValue is the fixed-width hash representation used throughout the tree.
// Equality is bitwise.
//
// In JSON, a HashValue is encoded as a quoted decimal string,
// because a uint64 does not survive a round trip
// through consumers that decode JSON numbers as float64.
type HashValue uint64

// MarshalJSON implements [encoding/json.Marshaler].
func (v HashValue) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, strconv.FormatUint(uint64(v), 10)), nil
}

// UnmarshalJSON implements [encoding/json.Unmarshaler].
// Both quoted decimal strings and bare JSON numbers are accepted.
func (v *HashValue) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}

	*v = HashValue(u)
	return nil
}

// Hasher is the user-defined interface for hashing leaf data.
// Implementations must be deterministic:
// the same input always yields the same output.
//
// Hasher implementations must be safe to call concurrently.
type Hasher interface {
	Sum64(in []byte) HashValue
}

// CombineHashes merges two child hashes into their parent hash.
//
// Each operand is encoded as its 8 little-endian bytes,
// hex-encoded, and the two encodings are concatenated left-first
// before being passed through the hasher.
// The byte order and the hex encoding are part of the protocol:
// an implementation that deviates from either
// produces roots that do not match for identical leaf data.
//
// The left-first concatenation makes the combination order-sensitive,
// which is what allows sibling proofs to carry meaningful side tags.
func CombineHashes(h Hasher, left, right HashValue) HashValue {
	// 8 bytes per operand, doubled by hex encoding.
	var enc [32]byte
	var le [8]byte

	binary.LittleEndian.PutUint64(le[:], uint64(left))
	hex.Encode(enc[:16], le[:])

	binary.LittleEndian.PutUint64(le[:], uint64(right))
	hex.Encode(enc[16:], le[:])

	return h.Sum64(enc[:])
}
