package crest

import (
	"encoding/json"
	"fmt"
)

// Side indicates which side a sibling hash sits on,
// relative to the path node it combines with.
// The side determines the hash concatenation order,
// so it must be preserved exactly;
// a proof whose side tags are lost or flipped does not verify.
type Side uint8

const (
	// The zero value is deliberately not a valid side,
	// so that a SiblingNode decoded without a side tag is rejected.

	// SideLeft marks a sibling to the left of the path node:
	// the parent is combine(sibling, self).
	SideLeft Side = iota + 1

	// SideRight marks a sibling to the right of the path node:
	// the parent is combine(self, sibling).
	SideRight
)

// String returns "left", "right", or a descriptive invalid marker.
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return fmt.Sprintf("invalid side (%d)", uint8(s))
	}
}

// SiblingNode is one element of a Merkle path:
// the hash needed, alongside an already known hash,
// to compute their shared parent.
type SiblingNode struct {
	Side Side
	Hash HashValue
}

type siblingNodeJSON struct {
	Side string    `json:"side"`
	Hash HashValue `json:"hash"`
}

// MarshalJSON implements [encoding/json.Marshaler].
// The side tag is always emitted; it is a required field on the wire.
func (n SiblingNode) MarshalJSON() ([]byte, error) {
	if n.Side != SideLeft && n.Side != SideRight {
		return nil, fmt.Errorf("cannot marshal sibling node with %s", n.Side)
	}

	return json.Marshal(siblingNodeJSON{
		Side: n.Side.String(),
		Hash: n.Hash,
	})
}

// UnmarshalJSON implements [encoding/json.Unmarshaler].
// A missing or unrecognized side tag is an error.
func (n *SiblingNode) UnmarshalJSON(b []byte) error {
	var wire siblingNodeJSON
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}

	switch wire.Side {
	case "left":
		n.Side = SideLeft
	case "right":
		n.Side = SideRight
	default:
		return fmt.Errorf("unrecognized sibling side %q", wire.Side)
	}

	n.Hash = wire.Hash
	return nil
}

// Proof is the sibling path for a single leaf,
// ordered from the leaf layer toward the root.
// Index 0 is closest to the leaf.
type Proof []SiblingNode

// Prove generates the Merkle root of the given leaf sequence
// and a [Proof] that the leaf at the given index is part of it.
//
// The index is interpreted against the padded leaf sequence,
// so indices covering padding leaves are provable too.
// Prove panics if the index is outside the padded leaf count;
// an out-of-range index indicates caller misuse, not untrusted input.
func Prove(h Hasher, leaves [][]byte, index int) (HashValue, Proof) {
	padded := padLeaves(leaves)
	if index < 0 || index >= len(padded) {
		panic(fmt.Errorf(
			"BUG: leaf index must be in range [0, %d) (got %d)",
			len(padded), index,
		))
	}

	layer := hashLeaves(h, padded)
	proof := make(Proof, 0, 8)

	idx := index
	for len(layer) > 1 {
		if idx&1 == 0 {
			proof = append(proof, SiblingNode{Side: SideRight, Hash: layer[idx+1]})
		} else {
			proof = append(proof, SiblingNode{Side: SideLeft, Hash: layer[idx-1]})
		}

		idx >>= 1
		layer = foldLayer(h, layer)
	}

	return layer[0], proof
}

// ValidateProof reports whether the given leaf content
// is committed to by root, according to the given proof.
//
// The leaf is the original content, not a precomputed hash.
// ValidateProof is a pure predicate:
// a malformed proof never panics, it simply fails to reproduce the root.
func ValidateProof(h Hasher, root HashValue, leaf []byte, p Proof) bool {
	cur := h.Sum64(leaf)

	for _, sib := range p {
		switch sib.Side {
		case SideLeft:
			cur = CombineHashes(h, sib.Hash, cur)
		case SideRight:
			cur = CombineHashes(h, cur, sib.Hash)
		default:
			return false
		}
	}

	return cur == root
}
