package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
)

// Domain prefixes for fingerprint computation.
// Version suffix enables future algorithm migration.
const (
	DomainKeySet     = "benchsplit/keyset/v1"
	DomainCollection = "benchsplit/collection/v1"
	DomainManifest   = "benchsplit/manifest/v1"
	DomainRun        = "benchsplit/run/v1"
)

// HashManifest fingerprints already-canonical manifest bytes.
func HashManifest(canonical []byte) string {
	return hashWithDomain(DomainManifest, canonical)
}

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null separator prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// KeySetFingerprint computes a stable fingerprint of a set of partition keys.
// Keys are sorted before hashing, so the fingerprint is a pure function of
// set membership, never of assignment order.
func KeySetFingerprint(keys []string) (string, error) {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	canonical, err := MarshalCanonical(sorted)
	if err != nil {
		return "", fmt.Errorf("keyset fingerprint: %w", err)
	}
	return hashWithDomain(DomainKeySet, canonical), nil
}

// Fingerprint computes a stable fingerprint of the collection: its schema
// plus every record in collection order. Record order matters here - a
// collection is an ordered sequence, and artifacts are written in order.
func (c *Collection) Fingerprint() (string, error) {
	records := make([]any, len(c.records))
	for i, r := range c.records {
		records[i] = r
	}
	obj := map[string]any{
		"fields":  c.schema.Fields(),
		"records": records,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("collection fingerprint: %w", err)
	}
	return hashWithDomain(DomainCollection, canonical), nil
}

// RunFingerprint computes the fingerprint identifying a whole preparation
// run: the manifest hash plus the key-set fingerprints of every produced
// partition, in stage order. Two runs with equal RunFingerprints made
// identical partitioning decisions.
func RunFingerprint(manifestHash string, partitionFingerprints []string) (string, error) {
	obj := map[string]any{
		"manifest":   manifestHash,
		"partitions": partitionFingerprints,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("run fingerprint: %w", err)
	}
	return hashWithDomain(DomainRun, canonical), nil
}
