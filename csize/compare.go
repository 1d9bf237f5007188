// Package csize measures how much space a compact multiproof saves
// compared to independent single-leaf proofs over the same indices.
//
// Sizes are wire sizes: 8 bytes per hash or index,
// plus one side-tag byte per single-proof element.
package csize

import (
	"fmt"

	"github.com/crest-engine/crest"
	"github.com/crest-engine/crest/cwords"
	"github.com/dustin/go-humanize"
)

const (
	hashWireSize  = 8
	indexWireSize = 8

	// A single-proof element carries its hash plus a side tag.
	siblingWireSize = hashWireSize + 1
)

// Comparison holds the sizes of one compact multiproof
// against the sum of the individual proofs for the same indices.
type Comparison struct {
	Leaves    int
	Requested int

	CompactHashes int
	CompactBytes  int

	IndividualNodes int
	IndividualBytes int
}

// Compare generates both proof forms for the given indices
// and reports their sizes.
// The index contract is the same as [crest.ProveMulti]:
// out-of-range or duplicate indices panic.
func Compare(h crest.Hasher, leaves [][]byte, indices []int) Comparison {
	c := Comparison{
		Leaves:    len(leaves),
		Requested: len(indices),
	}

	_, multi := crest.ProveMulti(h, leaves, indices)
	c.CompactHashes = len(multi.Hashes)
	c.CompactBytes = indexWireSize*len(multi.LeafIndices) + hashWireSize*len(multi.Hashes)

	for _, idx := range indices {
		_, p := crest.Prove(h, leaves, idx)
		c.IndividualNodes += len(p)
		c.IndividualBytes += siblingWireSize * len(p)
	}

	return c
}

// CompareRandom runs [Compare] over a deterministically generated
// sentence of nLeaves random words and k sampled indices.
func CompareRandom(h crest.Hasher, nLeaves, k int, seed uint64) Comparison {
	leaves := cwords.Split(cwords.Random(nLeaves, seed))
	indices := cwords.SampleIndices(nLeaves, k, seed)

	return Compare(h, leaves, indices)
}

// Ratio reports how many times smaller the compact form is.
// It reports 0 when the compact size is zero.
func (c Comparison) Ratio() float64 {
	if c.CompactBytes == 0 {
		return 0
	}

	return float64(c.IndividualBytes) / float64(c.CompactBytes)
}

// String renders a human-readable report.
func (c Comparison) String() string {
	return fmt.Sprintf(
		"%s leaves, %s requested: compact %s (%d hashes) vs individual %s (%d nodes), %.2fx",
		humanize.Comma(int64(c.Leaves)),
		humanize.Comma(int64(c.Requested)),
		humanize.IBytes(uint64(c.CompactBytes)),
		c.CompactHashes,
		humanize.IBytes(uint64(c.IndividualBytes)),
		c.IndividualNodes,
		c.Ratio(),
	)
}
