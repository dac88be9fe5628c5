package value

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix leaves
// room for future algorithm migration.
const (
	DomainAsset    = "fable/asset/v1"
	DomainGraph    = "fable/graph/v1"
	DomainSnapshot = "fable/snapshot/v1"
)

// HashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents domain/data
// boundary ambiguity.
func HashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// HashObject computes the domain-separated hash of an object's canonical
// JSON form. Stable across processes and restarts given equal contents.
func HashObject(domain string, obj Object) (string, error) {
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("HashObject: %w", err)
	}
	return HashWithDomain(domain, canonical), nil
}

// MustHashObject is like HashObject but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustHashObject(domain string, obj Object) string {
	h, err := HashObject(domain, obj)
	if err != nil {
		panic(err)
	}
	return h
}
