// Package fingerprint derives stable content hashes for analysis inputs.
package fingerprint

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Version prefixes every fingerprint. Bump it when the scoring rules change
// so cached results from older rules are never served.
const Version = "v1"

// Of hashes the JSON encoding of v. Map keys are encoded in sorted order, so
// equal values always give equal fingerprints.
func Of(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return Bytes(b), nil
}

// Bytes hashes raw bytes.
func Bytes(b []byte) string {
	return fmt.Sprintf("%s:%016x", Version, xxhash.Sum64(b))
}
