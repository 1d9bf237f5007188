package ctls_test

import (
	"crypto/tls"
	"testing"
	"time"

	"github.com/crest-engine/crest/internal/ctls"
	"github.com/stretchr/testify/require"
)

func TestEphemeralServerConfig(t *testing.T) {
	t.Parallel()

	cfg, err := ctls.EphemeralServerConfig([]string{"crest.test"}, time.Hour)
	require.NoError(t, err)

	require.Len(t, cfg.Certificates, 1)
	require.Equal(t, uint16(tls.VersionTLS13), cfg.MinVersion)

	leaf := cfg.Certificates[0].Leaf
	require.NotNil(t, leaf)
	require.Contains(t, leaf.DNSNames, "localhost")
	require.Contains(t, leaf.DNSNames, "crest.test")
	require.NoError(t, leaf.VerifyHostname("127.0.0.1"))

	require.True(t, leaf.NotAfter.After(time.Now().Add(50*time.Minute)))
}
