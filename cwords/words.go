// Package cwords implements the block-tokenization convention
// consumed by callers of the crest tree:
// a content string is split into ordered leaf blocks on whitespace runs.
//
// It also generates random word sequences,
// used for proof-size experiments and test fixtures.
package cwords

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
	"strings"
)

// Split tokenizes a sentence into ordered leaf blocks.
// Blocks are delimited by runs of whitespace;
// the whitespace itself is not part of any block.
// Punctuation stays attached to its word.
func Split(sentence string) [][]byte {
	fields := strings.Fields(sentence)

	blocks := make([][]byte, len(fields))
	for i, f := range fields {
		blocks[i] = []byte(f)
	}

	return blocks
}

// Join is the inverse convention of [Split]:
// blocks joined by single spaces.
func Join(blocks [][]byte) string {
	var sb strings.Builder
	for i, b := range blocks {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.Write(b)
	}

	return sb.String()
}

const wordAlphabet = "abcdefghijklmnopqrstuvwxyz"

// Random returns a space-separated string of n random 4-letter words,
// derived deterministically from the given seed.
func Random(n int, seed uint64) string {
	// Stretch the 8-byte seed into the 32 bytes ChaCha8 wants.
	var seedBytes [8]byte
	binary.LittleEndian.PutUint64(seedBytes[:], seed)
	cc := rand.NewChaCha8(sha256.Sum256(seedBytes[:]))
	rng := rand.New(cc)

	var sb strings.Builder
	sb.Grow(5 * n)

	for i := range n {
		if i > 0 {
			sb.WriteByte(' ')
		}
		for range 4 {
			sb.WriteByte(wordAlphabet[rng.IntN(len(wordAlphabet))])
		}
	}

	return sb.String()
}

// SampleIndices returns k distinct indices in [0, n),
// derived deterministically from the given seed.
// It panics if k exceeds n.
func SampleIndices(n, k int, seed uint64) []int {
	if k > n {
		panic("cannot sample more indices than available")
	}

	var seedBytes [8]byte
	binary.LittleEndian.PutUint64(seedBytes[:], seed^0x696e646963657321)
	cc := rand.NewChaCha8(sha256.Sum256(seedBytes[:]))
	rng := rand.New(cc)

	perm := rng.Perm(n)
	return perm[:k]
}
