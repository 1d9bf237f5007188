package crest

import (
	"fmt"
	"slices"

	"github.com/bits-and-blooms/bitset"
)

// CompactMultiProof proves membership of several leaves at once.
//
// LeafIndices identifies which leaf positions the proof covers,
// in the order the caller supplied them (not necessarily sorted).
// Hashes holds only the hashes the verifier cannot derive
// from the leaves it was handed,
// ordered by increasing tree height
// and by ascending node index within a height.
//
// Because hashes derivable from other requested leaves are omitted,
// the proof is sub-additive: it is never larger than
// the concatenation of the individual proofs for the same indices,
// and strictly smaller whenever two requested leaves share an ancestor.
type CompactMultiProof struct {
	LeafIndices []int       `json:"leaf_indices"`
	Hashes      []HashValue `json:"hashes"`
}

// ProveMulti generates the Merkle root of the given leaf sequence
// and a [CompactMultiProof] covering the leaves at the given indices.
//
// Indices are interpreted against the padded leaf sequence,
// matching the contract of [Prove].
// ProveMulti panics if any index is out of range or duplicated;
// both indicate caller misuse, not untrusted input.
//
// An empty index set yields the root and an empty proof.
// The full index set yields a proof with zero extra hashes,
// since the verifier can derive every internal node itself.
func ProveMulti(h Hasher, leaves [][]byte, indices []int) (HashValue, CompactMultiProof) {
	padded := padLeaves(leaves)

	// The frontier is the set of node indices at the current layer
	// whose hashes the verifier will know.
	// It is rebuilt per layer rather than mutated in place,
	// keeping the generator and validator walks symmetric.
	frontier := bitset.New(uint(len(padded)))
	for _, idx := range indices {
		if idx < 0 || idx >= len(padded) {
			panic(fmt.Errorf(
				"BUG: leaf index must be in range [0, %d) (got %d)",
				len(padded), idx,
			))
		}
		if frontier.Test(uint(idx)) {
			panic(fmt.Errorf(
				"BUG: duplicate leaf index %d in multiproof request", idx,
			))
		}

		frontier.Set(uint(idx))
	}

	layer := hashLeaves(h, padded)
	var emitted []HashValue

	for len(layer) > 1 {
		next := make([]HashValue, 0, len(layer)/2)
		nextFrontier := bitset.New(uint(len(layer) / 2))

		for k := 0; 2*k+1 < len(layer); k++ {
			left, right := layer[2*k], layer[2*k+1]
			next = append(next, CombineHashes(h, left, right))

			haveLeft := frontier.Test(uint(2 * k))
			haveRight := frontier.Test(uint(2*k + 1))

			switch {
			case haveLeft && haveRight:
				// The verifier can derive the parent on its own.
				nextFrontier.Set(uint(k))
			case haveLeft:
				emitted = append(emitted, right)
				nextFrontier.Set(uint(k))
			case haveRight:
				emitted = append(emitted, left)
				nextFrontier.Set(uint(k))
			}
			// Neither known: the verifier has no interest in this subtree.
		}

		layer = next
		frontier = nextFrontier
	}

	var root HashValue
	if len(layer) == 1 {
		root = layer[0]
	}

	return root, CompactMultiProof{
		LeafIndices: slices.Clone(indices),
		Hashes:      emitted,
	}
}

// ValidateMulti reports whether the given leaf contents
// are committed to by root, according to the given compact multiproof.
//
// The leaves must be supplied in the same order as p.LeafIndices.
// The proof is untrusted input:
// duplicate indices, missing or surplus hashes,
// and any other malformed shape resolve to false, never a panic.
//
// An entirely empty proof with an empty leaf list is vacuously valid;
// it claims membership of nothing.
func ValidateMulti(h Hasher, root HashValue, leaves [][]byte, p CompactMultiProof) bool {
	if len(leaves) != len(p.LeafIndices) {
		return false
	}
	if len(p.LeafIndices) == 0 {
		return len(p.Hashes) == 0
	}

	// Seed the knowledge frontier with the hashes of the supplied leaves.
	known := make(map[int]HashValue, len(p.LeafIndices))
	for i, idx := range p.LeafIndices {
		if idx < 0 {
			return false
		}
		if _, dup := known[idx]; dup {
			return false
		}

		known[idx] = h.Sum64(leaves[i])
	}

	remaining := p.Hashes

	// Mirror the generator's layer walk:
	// keep folding while more than one node is known,
	// or while unread proof hashes imply higher layers remain.
	for len(known) > 1 || len(remaining) > 0 {
		idxs := make([]int, 0, len(known))
		for idx := range known {
			idxs = append(idxs, idx)
		}
		slices.Sort(idxs)

		next := make(map[int]HashValue, (len(known)+1)/2)

		for i := 0; i < len(idxs); {
			pair := idxs[i] >> 1

			// Skip past the second member if both sides are present.
			i++
			if i < len(idxs) && idxs[i]>>1 == pair {
				i++
			}

			left, haveLeft := known[2*pair]
			right, haveRight := known[2*pair+1]

			switch {
			case haveLeft && haveRight:
				next[pair] = CombineHashes(h, left, right)
			case haveLeft:
				if len(remaining) == 0 {
					return false
				}
				next[pair] = CombineHashes(h, left, remaining[0])
				remaining = remaining[1:]
			case haveRight:
				if len(remaining) == 0 {
					return false
				}
				next[pair] = CombineHashes(h, remaining[0], right)
				remaining = remaining[1:]
			}
		}

		known = next
	}

	v, ok := known[0]
	return ok && len(known) == 1 && v == root
}
