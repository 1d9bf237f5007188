package cshard_test

import (
	"crypto/sha256"
	"math/rand/v2"
	"testing"

	"github.com/crest-engine/crest"
	"github.com/crest-engine/crest/chash"
	"github.com/crest-engine/crest/cshard"
	"github.com/stretchr/testify/require"
)

func randomPayload(t *testing.T, sz int) []byte {
	t.Helper()

	seed := sha256.Sum256([]byte(t.Name()))
	cc := rand.NewChaCha8(seed)

	out := make([]byte, sz)
	if _, err := cc.Read(out); err != nil {
		panic(err)
	}

	return out
}

func TestBuild_everyShardVerifies(t *testing.T) {
	t.Parallel()

	h := chash.NewSip()
	payload := randomPayload(t, 10_000)

	c, err := cshard.Build(h, payload, cshard.Config{
		ShardSize:   1024,
		ParityRatio: 0.5,
	})
	require.NoError(t, err)

	require.Equal(t, 10, c.NumData)
	require.Equal(t, 5, c.NumParity)
	require.Len(t, c.Shards, 15)
	require.Len(t, c.Proofs, 15)

	for i, shard := range c.Shards {
		require.True(t, cshard.VerifyShard(h, c.Root, shard, c.Proofs[i]),
			"shard %d must verify against the commitment root", i)
	}
}

func TestVerifyShard_tamperedShard(t *testing.T) {
	t.Parallel()

	h := chash.NewSip()
	payload := randomPayload(t, 4096)

	c, err := cshard.Build(h, payload, cshard.Config{
		ShardSize:   512,
		ParityRatio: 0.25,
	})
	require.NoError(t, err)

	tampered := append([]byte(nil), c.Shards[3]...)
	tampered[17] ^= 0xff

	require.False(t, cshard.VerifyShard(h, c.Root, tampered, c.Proofs[3]))
}

func TestReassemble_withMissingShards(t *testing.T) {
	t.Parallel()

	h := chash.NewSip()
	payload := randomPayload(t, 9_999) // Deliberately not a multiple of the shard size.

	c, err := cshard.Build(h, payload, cshard.Config{
		ShardSize:   1000,
		ParityRatio: 0.5,
	})
	require.NoError(t, err)

	// Drop as many shards as there are parity shards.
	received := make([][]byte, len(c.Shards))
	copy(received, c.Shards)
	received[0] = nil
	received[4] = nil
	received[11] = nil

	got, err := cshard.Reassemble(received, c.NumData, c.NumParity, c.PayloadSize)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestReassemble_tooFewShards(t *testing.T) {
	t.Parallel()

	h := chash.NewSip()
	payload := randomPayload(t, 4000)

	c, err := cshard.Build(h, payload, cshard.Config{
		ShardSize:   1000,
		ParityRatio: 0.25,
	})
	require.NoError(t, err)
	require.Equal(t, 1, c.NumParity)

	received := make([][]byte, len(c.Shards))
	copy(received, c.Shards)
	received[0] = nil
	received[1] = nil

	_, err = cshard.Reassemble(received, c.NumData, c.NumParity, c.PayloadSize)
	require.Error(t, err)
}

func TestBuild_inputContracts(t *testing.T) {
	t.Parallel()

	h := chash.NewSip()

	t.Run("empty payload", func(t *testing.T) {
		t.Parallel()

		_, err := cshard.Build(h, nil, cshard.Config{ShardSize: 64})
		require.ErrorIs(t, err, cshard.ErrEmptyPayload)
	})

	t.Run("shard limit", func(t *testing.T) {
		t.Parallel()

		payload := randomPayload(t, 10_000)
		_, err := cshard.Build(h, payload, cshard.Config{
			ShardSize:   16,
			ParityRatio: 0.5,
		})
		require.Error(t, err)
	})

	t.Run("bad config panics", func(t *testing.T) {
		t.Parallel()

		require.Panics(t, func() {
			_, _ = cshard.Build(h, []byte("x"), cshard.Config{ShardSize: 0})
		})
		require.Panics(t, func() {
			_, _ = cshard.Build(h, []byte("x"), cshard.Config{ShardSize: 64, ParityRatio: -1})
		})
	})
}

func TestBuild_rootIsPureFunctionOfShards(t *testing.T) {
	t.Parallel()

	h := chash.NewSip()
	payload := randomPayload(t, 5000)

	cfg := cshard.Config{ShardSize: 500, ParityRatio: 0.5}

	a, err := cshard.Build(h, payload, cfg)
	require.NoError(t, err)
	b, err := cshard.Build(h, payload, cfg)
	require.NoError(t, err)

	require.Equal(t, a.Root, b.Root)
	require.Equal(t, a.Root, crest.Root(h, a.Shards))
}
