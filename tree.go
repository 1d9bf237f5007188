package crest

// Root computes the Merkle root of the given ordered leaf sequence.
//
// The leaf sequence is padded with empty leaves
// until its length is a power of two,
// each (padded) leaf is hashed independently,
// and adjacent hashes are then folded pairwise, left to right,
// one layer at a time until a single hash remains.
//
// Zero leaves produce the degenerate root 0.
// A single leaf's root is that leaf's hash, with no combination applied.
//
// Root is a pure function of the padded, ordered leaf sequence:
// two calls with identical input always produce identical output.
func Root(h Hasher, leaves [][]byte) HashValue {
	if len(leaves) == 0 {
		return 0
	}

	layer := hashLeaves(h, padLeaves(leaves))
	for len(layer) > 1 {
		layer = foldLayer(h, layer)
	}

	return layer[0]
}

// padLeaves returns the leaf sequence extended with empty leaves
// until its length is a power of two.
// The input slice is returned unmodified when it is already a power of two.
func padLeaves(leaves [][]byte) [][]byte {
	n := len(leaves)
	if n == 0 || n&(n-1) == 0 {
		return leaves
	}

	padded := 1
	for padded < n {
		padded <<= 1
	}

	out := make([][]byte, padded)
	copy(out, leaves)
	for i := n; i < padded; i++ {
		out[i] = []byte{}
	}

	return out
}

func hashLeaves(h Hasher, leaves [][]byte) []HashValue {
	hashes := make([]HashValue, len(leaves))
	for i, leaf := range leaves {
		hashes[i] = h.Sum64(leaf)
	}

	return hashes
}

// foldLayer combines adjacent pairs of the given layer, left to right.
// A leftover singleton is promoted unchanged to the next layer;
// this cannot happen on layers derived from a padded base,
// but the fold does not depend on that.
func foldLayer(h Hasher, layer []HashValue) []HashValue {
	next := make([]HashValue, 0, (len(layer)+1)/2)

	for i := 0; i+1 < len(layer); i += 2 {
		next = append(next, CombineHashes(h, layer[i], layer[i+1]))
	}
	if len(layer)%2 == 1 {
		next = append(next, layer[len(layer)-1])
	}

	return next
}
