// Package chash contains [crest.Hasher] implementations.
//
// None of these hashers are cryptographically strong;
// they are deterministic 64-bit placeholders that may be swapped
// for a stronger primitive without changing the tree protocol.
// All parties must agree on the hasher (and its key, where keyed)
// for roots and proofs to match.
package chash
