// Package cshard commits erasure-coded payloads to a Merkle root.
//
// A payload is split into data shards, extended with parity shards,
// and the whole shard sequence is committed as one crest tree.
// Each shard carries its own inclusion proof,
// so a receiver can verify any shard against the root in isolation,
// before enough shards have arrived to reconstruct the payload.
package cshard

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/crest-engine/crest"
	"github.com/klauspost/reedsolomon"
)

// Config controls how a payload is split in [Build].
type Config struct {
	// Desired size of each data shard, in bytes.
	// The final data shard is zero-padded up to this size.
	ShardSize int

	// ParityRatio indicates the desired ratio of
	// parity shards to data shards.
	// For example, ParityRatio=0.25 means one parity shard
	// for every four data shards, rounding down.
	ParityRatio float32
}

// The Reed-Solomon encoder's default shard limit.
const maxShards = 256

var ErrEmptyPayload = errors.New("cannot build a commitment over an empty payload")

// Commitment is the result of [Build]:
// the shard sequence, its Merkle root,
// and one inclusion proof per shard.
type Commitment struct {
	Root crest.HashValue

	NumData, NumParity int

	// Length of the original payload,
	// needed to trim padding during reassembly.
	PayloadSize int

	// Data shards first, then parity shards.
	Shards [][]byte

	// Proofs is aligned one-to-one with Shards.
	Proofs []crest.Proof
}

// Build splits the payload according to cfg,
// erasure-codes it, and commits the shard sequence.
//
// Build panics on a non-positive shard size or a negative parity ratio;
// those are configuration mistakes, not data-dependent failures.
func Build(h crest.Hasher, payload []byte, cfg Config) (Commitment, error) {
	if cfg.ShardSize <= 0 {
		panic(fmt.Errorf(
			"BUG: ShardSize must be positive (got %d)", cfg.ShardSize,
		))
	}
	if cfg.ParityRatio < 0 {
		panic(fmt.Errorf(
			"BUG: ParityRatio must be non-negative (got %g)", cfg.ParityRatio,
		))
	}

	if len(payload) == 0 {
		return Commitment{}, ErrEmptyPayload
	}

	nData := len(payload) / cfg.ShardSize
	if len(payload)%cfg.ShardSize > 0 {
		nData++
	}
	nParity := int(cfg.ParityRatio * float32(nData))

	if nData+nParity > maxShards {
		return Commitment{}, fmt.Errorf(
			"payload too large: %d data and %d parity shards exceed the %d shard limit",
			nData, nParity, maxShards,
		)
	}

	enc, err := reedsolomon.New(
		nData, nParity,
		reedsolomon.WithAutoGoroutines(cfg.ShardSize),
	)
	if err != nil {
		return Commitment{}, fmt.Errorf(
			"failed to build Reed-Solomon encoder: %w", err,
		)
	}

	shards, err := enc.Split(payload)
	if err != nil {
		return Commitment{}, fmt.Errorf(
			"failed to split payload into shards: %w", err,
		)
	}

	if err := enc.Encode(shards); err != nil {
		return Commitment{}, fmt.Errorf(
			"failed to erasure-code payload: %w", err,
		)
	}

	c := Commitment{
		NumData:     nData,
		NumParity:   nParity,
		PayloadSize: len(payload),
		Shards:      shards,

		Root:   crest.Root(h, shards),
		Proofs: make([]crest.Proof, len(shards)),
	}

	for i := range shards {
		_, c.Proofs[i] = crest.Prove(h, shards, i)
	}

	return c, nil
}

// VerifyShard reports whether the given shard content
// belongs to the commitment identified by root,
// according to the shard's inclusion proof.
func VerifyShard(h crest.Hasher, root crest.HashValue, shard []byte, proof crest.Proof) bool {
	return crest.ValidateProof(h, root, shard, proof)
}

// Reassemble reconstructs the original payload from the given shards.
// Missing shards must be nil entries;
// reconstruction succeeds as long as any numData shards are present.
func Reassemble(shards [][]byte, numData, numParity, payloadSize int) ([]byte, error) {
	enc, err := reedsolomon.New(numData, numParity)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to build Reed-Solomon encoder: %w", err,
		)
	}

	if err := enc.Reconstruct(shards); err != nil {
		return nil, fmt.Errorf(
			"failed to reconstruct payload: %w", err,
		)
	}

	var buf bytes.Buffer
	buf.Grow(payloadSize)
	if err := enc.Join(&buf, shards, payloadSize); err != nil {
		return nil, fmt.Errorf(
			"failed to join reconstructed shards: %w", err,
		)
	}

	return buf.Bytes(), nil
}
