// Package dataset defines the record model the partitioning engine operates on.
//
// A Record is an opaque row: named fields mapped to raw string values, exactly
// as they arrive from a CSV-like source. The engine never interprets values
// except for key extraction and label-degeneracy checks, so keeping them as
// strings avoids any float round-tripping and keeps fingerprints stable.
//
// A Collection is an ordered sequence of Records sharing one Schema. The
// schema-uniformity invariant is enforced at construction: every Record must
// carry exactly the Collection's field set.
//
// The package also provides canonical JSON serialization and domain-separated
// SHA-256 fingerprints for key sets and collections. Fingerprints are the
// determinism contract of the whole engine: two preparation runs with the same
// input and seed must produce byte-identical fingerprints, independent of map
// iteration order or memory layout. Strings are NFC normalized before hashing
// so that visually identical ids fingerprint identically.
package dataset
