package chash_test

import (
	"testing"

	"github.com/crest-engine/crest/chash"
	"github.com/stretchr/testify/require"
)

func TestSip_deterministic(t *testing.T) {
	t.Parallel()

	h := chash.NewSip()

	require.Equal(t, h.Sum64([]byte("block")), h.Sum64([]byte("block")))
	require.NotEqual(t, h.Sum64([]byte("block")), h.Sum64([]byte("block ")))
}

func TestSip_keyed(t *testing.T) {
	t.Parallel()

	a := chash.Sip{K0: 1, K1: 2}
	b := chash.Sip{K0: 3, K1: 4}

	require.NotEqual(t, a.Sum64([]byte("block")), b.Sum64([]byte("block")))
}

func TestXX_deterministic(t *testing.T) {
	t.Parallel()

	h := chash.XX{}

	require.Equal(t, h.Sum64([]byte("block")), h.Sum64([]byte("block")))
	require.NotEqual(t, h.Sum64([]byte("block")), h.Sum64(nil))
}

func TestByName(t *testing.T) {
	t.Parallel()

	sip, err := chash.ByName("sip")
	require.NoError(t, err)
	require.Equal(t, chash.NewSip(), sip)

	xx, err := chash.ByName("xx")
	require.NoError(t, err)
	require.Equal(t, chash.XX{}, xx)

	_, err = chash.ByName("md5")
	require.Error(t, err)
}
