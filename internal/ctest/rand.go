package ctest

import (
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/crest-engine/crest/cwords"
)

// RandomWordsForTest returns a space-separated string of n random words,
// derived from a seed based on the test name.
// Repeated runs of the same test see the same data.
func RandomWordsForTest(t *testing.T, n int) string {
	// Sha256 collapses arbitrarily long test names into a fixed seed.
	sum := sha256.Sum256([]byte(t.Name()))
	seed := binary.LittleEndian.Uint64(sum[:8])

	return cwords.Random(n, seed)
}
