// Package key builds prepare keys: opaque identifiers for a (component
// identity, ordered input values) pair.
//
// The engine treats keys as opaque strings; ForComponent is the reference
// constructor used by the harness and CLI. Integrators may substitute their
// own so long as equal inputs always yield equal keys, because idempotent
// preparation depends on exactly that.
package key

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainPrepareKey is the domain prefix for prepare-key hashing. The version
// suffix enables future algorithm migration without key collisions.
const DomainPrepareKey = "preflight/prepare-key/v1"

// ForComponent computes the prepare key for componentID with the given
// resolved props, taken in the order of propNames. Props absent from the
// resolved map are skipped, so a caller omitting an input and a caller
// supplying none hash identically.
//
// Returns an error if a prop value cannot be canonically marshaled (floats
// and nulls are forbidden).
func ForComponent(componentID string, propNames []string, props map[string]any) (string, error) {
	pairs := make([]any, 0, len(propNames))
	for _, name := range propNames {
		v, ok := props[name]
		if !ok {
			continue
		}
		pairs = append(pairs, []any{name, v})
	}

	obj := map[string]any{
		"component": componentID,
		"props":     pairs,
	}

	canonical, err := marshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("prepare key for %q: %w", componentID, err)
	}

	return hashWithDomain(DomainPrepareKey, canonical), nil
}

// MustForComponent is like ForComponent but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustForComponent(componentID string, propNames []string, props map[string]any) string {
	k, err := ForComponent(componentID, propNames, props)
	if err != nil {
		panic(err)
	}
	return k
}

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data); the null byte prevents domain/data
// boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
