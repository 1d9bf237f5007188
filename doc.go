// Package crest contains the core APIs for computing Merkle commitments
// over ordered sequences of data blocks,
// and for generating and verifying compact membership proofs against them.
//
// CREST stands for Commitment over Ranked, Evenly Split Trees.
// The package provides root computation, single-leaf inclusion proofs,
// and compact multiproofs that cover several leaves at once
// while sharing the internal hashes a verifier can derive on its own.
//
// All operations in this package are pure functions over immutable inputs.
// They hold no state, perform no I/O, and are safe for concurrent use.
// Hashing is pluggable through the [Hasher] interface;
// see the [github.com/crest-engine/crest/chash] package for implementations.
package crest
