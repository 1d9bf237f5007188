package crest_test

import (
	"encoding/json"
	"testing"

	"github.com/crest-engine/crest"
	"github.com/crest-engine/crest/chash"
	"github.com/crest-engine/crest/cwords"
	"github.com/crest-engine/crest/internal/ctest"
	"github.com/stretchr/testify/require"
)

func TestProve_trustScenario(t *testing.T) {
	t.Parallel()

	h := chash.NewSip()
	words := cwords.Split("You trust me, right?")

	root, proof := crest.Prove(h, words, 1)
	require.Equal(t, crest.Root(h, words), root)

	// Index 1 is odd at the leaf layer (sibling "You" on the left),
	// and its parent is index 0 at the middle layer
	// (sibling hash of "me,"+"right?" on the right).
	require.Len(t, proof, 2)
	require.Equal(t, crest.SideLeft, proof[0].Side)
	require.Equal(t, h.Sum64([]byte("You")), proof[0].Hash)
	require.Equal(t, crest.SideRight, proof[1].Side)

	require.True(t, crest.ValidateProof(h, root, []byte("trust"), proof))
}

func TestValidateProof_flippedSideTags(t *testing.T) {
	t.Parallel()

	h := chash.NewSip()
	words := cwords.Split("You trust me, right?")

	root, proof := crest.Prove(h, words, 1)

	for i := range proof {
		mutated := make(crest.Proof, len(proof))
		copy(mutated, proof)

		if mutated[i].Side == crest.SideLeft {
			mutated[i].Side = crest.SideRight
		} else {
			mutated[i].Side = crest.SideLeft
		}

		require.False(t, crest.ValidateProof(h, root, []byte("trust"), mutated),
			"flipping side tag at element %d must invalidate the proof", i)
	}
}

func TestProve_everyIndexValidates(t *testing.T) {
	t.Parallel()

	h := chash.NewSip()

	// 11 words pad to 16 leaves.
	words := cwords.Split(ctest.RandomWordsForTest(t, 11))

	root := crest.Root(h, words)

	for i, w := range words {
		proofRoot, proof := crest.Prove(h, words, i)
		require.Equal(t, root, proofRoot)
		require.True(t, crest.ValidateProof(h, root, w, proof),
			"proof for leaf %d must validate", i)
	}
}

func TestProve_paddingLeafIsProvable(t *testing.T) {
	t.Parallel()

	h := chash.NewSip()
	words := cwords.Split("five words pad to eight")

	// Indices 5 through 7 cover padding leaves: provable as empty content.
	root, proof := crest.Prove(h, words, 6)
	require.True(t, crest.ValidateProof(h, root, []byte(""), proof))
	require.False(t, crest.ValidateProof(h, root, []byte("x"), proof))
}

func TestProve_outOfRangePanics(t *testing.T) {
	t.Parallel()

	h := chash.NewSip()
	words := cwords.Split("five words pad to eight")

	// The padded count is 8, so 7 is fine and 8 is not.
	require.NotPanics(t, func() {
		crest.Prove(h, words, 7)
	})
	require.Panics(t, func() {
		crest.Prove(h, words, 8)
	})
	require.Panics(t, func() {
		crest.Prove(h, words, -1)
	})
}

func TestValidateProof_tamperedLeaf(t *testing.T) {
	t.Parallel()

	h := chash.NewSip()
	words := cwords.Split(ctest.RandomWordsForTest(t, 8))

	root, proof := crest.Prove(h, words, 3)

	// Flip one bit of the committed content
	// and revalidate with the original proof.
	tampered := append([]byte(nil), words[3]...)
	tampered[0] ^= 1

	require.True(t, crest.ValidateProof(h, root, words[3], proof))
	require.False(t, crest.ValidateProof(h, root, tampered, proof))
}

func TestValidateProof_malformedProofs(t *testing.T) {
	t.Parallel()

	h := chash.NewSip()
	words := cwords.Split(ctest.RandomWordsForTest(t, 8))

	root, proof := crest.Prove(h, words, 2)

	t.Run("truncated", func(t *testing.T) {
		t.Parallel()

		require.False(t, crest.ValidateProof(h, root, words[2], proof[:len(proof)-1]))
	})

	t.Run("extended", func(t *testing.T) {
		t.Parallel()

		extended := append(append(crest.Proof{}, proof...), crest.SiblingNode{
			Side: crest.SideLeft,
			Hash: 12345,
		})
		require.False(t, crest.ValidateProof(h, root, words[2], extended))
	})

	t.Run("zero side tag", func(t *testing.T) {
		t.Parallel()

		mutated := append(crest.Proof{}, proof...)
		mutated[0].Side = 0
		require.False(t, crest.ValidateProof(h, root, words[2], mutated))
	})

	t.Run("empty proof against combined root", func(t *testing.T) {
		t.Parallel()

		require.False(t, crest.ValidateProof(h, root, words[2], nil))
	})
}

func TestSiblingNode_JSON(t *testing.T) {
	t.Parallel()

	t.Run("round trip keeps the side tag", func(t *testing.T) {
		t.Parallel()

		n := crest.SiblingNode{Side: crest.SideLeft, Hash: crest.HashValue(987654321)}

		b, err := json.Marshal(n)
		require.NoError(t, err)
		require.JSONEq(t, `{"side":"left","hash":"987654321"}`, string(b))

		var got crest.SiblingNode
		require.NoError(t, json.Unmarshal(b, &got))
		require.Equal(t, n, got)
	})

	t.Run("missing side rejected", func(t *testing.T) {
		t.Parallel()

		var got crest.SiblingNode
		require.Error(t, json.Unmarshal([]byte(`{"hash":"1"}`), &got))
	})

	t.Run("unknown side rejected", func(t *testing.T) {
		t.Parallel()

		var got crest.SiblingNode
		require.Error(t, json.Unmarshal([]byte(`{"side":"up","hash":"1"}`), &got))
	})

	t.Run("invalid side not marshalable", func(t *testing.T) {
		t.Parallel()

		_, err := json.Marshal(crest.SiblingNode{Hash: 1})
		require.Error(t, err)
	})
}
