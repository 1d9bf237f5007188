package chash

import (
	"github.com/crest-engine/crest"
	"github.com/dchest/siphash"
)

// Default key halves for [NewSip].
// These are arbitrary but fixed:
// every party using the default hasher must share them,
// or their roots will not match.
const (
	DefaultSipK0 = 0x637265737431 // "crest1"
	DefaultSipK1 = 0x637265737432 // "crest2"
)

// Sip is a [crest.Hasher] backed by keyed SipHash-2-4.
// The zero value is usable and equivalent to a zero key.
type Sip struct {
	K0, K1 uint64
}

// NewSip returns a Sip hasher with the default protocol key.
func NewSip() Sip {
	return Sip{K0: DefaultSipK0, K1: DefaultSipK1}
}

func (s Sip) Sum64(in []byte) crest.HashValue {
	return crest.HashValue(siphash.Hash(s.K0, s.K1, in))
}
