package chash

import (
	"fmt"

	"github.com/crest-engine/crest"
	"github.com/zeebo/xxh3"
)

// XX is a [crest.Hasher] backed by XXH3.
// It is faster than [Sip] but unkeyed.
type XX struct{}

func (XX) Sum64(in []byte) crest.HashValue {
	return crest.HashValue(xxh3.Hash(in))
}

// Default returns the default protocol hasher.
func Default() crest.Hasher {
	return NewSip()
}

// ByName maps a configuration string to a hasher.
// Recognized names are "sip" and "xx".
func ByName(name string) (crest.Hasher, error) {
	switch name {
	case "sip":
		return NewSip(), nil
	case "xx":
		return XX{}, nil
	default:
		return nil, fmt.Errorf("unrecognized hasher name %q (want sip or xx)", name)
	}
}
