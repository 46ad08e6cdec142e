package cache

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// KeyCodec derives cache keys from a namespace and a parameter set.
// Implementations must be pure and deterministic: identical inputs always
// yield the identical key. Keys are a performance concern, not a security
// boundary, so collision resistance against adversarial input is not part
// of the contract.
type KeyCodec interface {
	DeriveKey(namespace string, params ...any) string
}

// digestKeyCodec hashes the canonical parameter serialization with xxhash
// and prefixes the namespace in cleartext. The cleartext prefix is what
// makes pattern-based invalidation possible; the digest keeps keys at a
// fixed length no matter how large the parameter set is.
type digestKeyCodec struct {
	serializer KeySerializer
}

// NewKeyCodec creates a KeyCodec backed by the default key serializer.
func NewKeyCodec() KeyCodec {
	return &digestKeyCodec{serializer: NewDefaultKeySerializer()}
}

// NewKeyCodecWithSerializer creates a KeyCodec using a custom serializer.
func NewKeyCodecWithSerializer(serializer KeySerializer) KeyCodec {
	return &digestKeyCodec{serializer: serializer}
}

// DeriveKey returns "<namespace>:<16-hex-digit digest>" for the params, or
// the bare namespace when no params are given.
func (c *digestKeyCodec) DeriveKey(namespace string, params ...any) string {
	if len(params) == 0 {
		return namespace
	}

	serialized := c.serializer.SerializeKey(namespace, params...)
	return fmt.Sprintf("%s:%016x", namespace, xxhash.Sum64String(serialized))
}
