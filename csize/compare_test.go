package csize_test

import (
	"testing"

	"github.com/crest-engine/crest/chash"
	"github.com/crest-engine/crest/csize"
	"github.com/crest-engine/crest/cwords"
	"github.com/stretchr/testify/require"
)

func TestCompare_compactNeverLarger(t *testing.T) {
	t.Parallel()

	h := chash.NewSip()

	for _, k := range []int{1, 4, 16, 64} {
		c := csize.CompareRandom(h, 256, k, 0xfeed)

		require.LessOrEqual(t, c.CompactHashes, c.IndividualNodes,
			"k=%d: compact hash count must not exceed individual total", k)
	}
}

func TestCompare_adjacentIndicesStrictlySmaller(t *testing.T) {
	t.Parallel()

	h := chash.NewSip()
	leaves := cwords.Split(cwords.Random(64, 99))

	// Leaves 10 and 11 share a parent.
	c := csize.Compare(h, leaves, []int{10, 11})

	require.Less(t, c.CompactHashes, c.IndividualNodes)
	require.Less(t, c.CompactBytes, c.IndividualBytes)
}

func TestCompare_ratioGrowsWithRequestCount(t *testing.T) {
	t.Parallel()

	h := chash.NewSip()

	// The more leaves a multiproof covers,
	// the more internal hashes the verifier derives itself.
	small := csize.CompareRandom(h, 512, 2, 1)
	large := csize.CompareRandom(h, 512, 128, 1)

	require.Greater(t, large.Ratio(), small.Ratio())
}

func TestComparison_String(t *testing.T) {
	t.Parallel()

	h := chash.NewSip()

	c := csize.CompareRandom(h, 64, 8, 7)

	s := c.String()
	require.Contains(t, s, "64 leaves")
	require.Contains(t, s, "8 requested")
}
