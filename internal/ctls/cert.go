// Package ctls generates ephemeral TLS material
// for serving over QUIC when the operator supplies none.
//
// The certificates are self-signed and short-lived;
// they make the listener usable for development and tests,
// not for production identity.
package ctls

import (
	"crypto/ed25519"
	crand "crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"net"
	"time"
)

// EphemeralServerConfig returns a *tls.Config
// backed by a freshly generated, self-signed ed25519 certificate
// valid for the given duration.
//
// The certificate covers the given DNS names
// plus the loopback addresses.
func EphemeralServerConfig(dnsNames []string, validFor time.Duration) (*tls.Config, error) {
	pub, priv, err := ed25519.GenerateKey(crand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key: %w", err)
	}

	serial, err := crand.Int(crand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, fmt.Errorf("failed to generate certificate serial: %w", err)
	}

	now := time.Now()
	tmpl := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName: "crest ephemeral server",
		},

		NotBefore: now.Add(-time.Minute),
		NotAfter:  now.Add(validFor),

		KeyUsage:    x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},

		DNSNames: append([]string{"localhost"}, dnsNames...),
		IPAddresses: []net.IP{
			net.IPv4(127, 0, 0, 1),
			net.IPv6loopback,
		},
	}

	der, err := x509.CreateCertificate(crand.Reader, tmpl, tmpl, pub, priv)
	if err != nil {
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}

	leaf, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse generated certificate: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{
			{
				Certificate: [][]byte{der},
				PrivateKey:  priv,
				Leaf:        leaf,
			},
		},
		MinVersion: tls.VersionTLS13,
	}, nil
}
