package cwords_test

import (
	"strings"
	"testing"

	"github.com/crest-engine/crest/cwords"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	t.Parallel()

	t.Run("whitespace runs collapse", func(t *testing.T) {
		t.Parallel()

		blocks := cwords.Split("You  trust\tme,\n right?")
		require.Equal(t, [][]byte{
			[]byte("You"), []byte("trust"), []byte("me,"), []byte("right?"),
		}, blocks)
	})

	t.Run("punctuation stays attached", func(t *testing.T) {
		t.Parallel()

		blocks := cwords.Split("me, right?")
		require.Equal(t, [][]byte{[]byte("me,"), []byte("right?")}, blocks)
	})

	t.Run("empty and blank input", func(t *testing.T) {
		t.Parallel()

		require.Empty(t, cwords.Split(""))
		require.Empty(t, cwords.Split("   \t\n"))
	})
}

func TestJoin_inverseOfSplit(t *testing.T) {
	t.Parallel()

	sentence := "You trust me, right?"
	require.Equal(t, sentence, cwords.Join(cwords.Split(sentence)))
}

func TestRandom(t *testing.T) {
	t.Parallel()

	t.Run("word count and shape", func(t *testing.T) {
		t.Parallel()

		s := cwords.Random(9, 42)
		words := strings.Fields(s)
		require.Len(t, words, 9)
		for _, w := range words {
			require.Len(t, w, 4)
		}
	})

	t.Run("seed determinism", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, cwords.Random(20, 7), cwords.Random(20, 7))
		require.NotEqual(t, cwords.Random(20, 7), cwords.Random(20, 8))
	})
}

func TestSampleIndices(t *testing.T) {
	t.Parallel()

	idxs := cwords.SampleIndices(100, 10, 3)
	require.Len(t, idxs, 10)

	seen := map[int]bool{}
	for _, idx := range idxs {
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, 100)
		require.False(t, seen[idx], "indices must be distinct")
		seen[idx] = true
	}

	require.Equal(t, idxs, cwords.SampleIndices(100, 10, 3))

	require.Panics(t, func() {
		cwords.SampleIndices(5, 6, 1)
	})
}
