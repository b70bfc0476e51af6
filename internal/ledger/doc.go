// Package ledger provides SQLite-backed storage for preparation runs.
//
// Every run records its manifest hash, seed, per-stage unit/record counts,
// and the key-set fingerprints of all four produced partitions, plus the
// lifecycle event trace. The ledger is what makes the determinism contract
// auditable: verification re-executes the pipeline from the manifest and
// compares fingerprints against the recorded run, so a drifted dependency or
// a mutated raw file is caught before regraded artifacts ship.
//
// Ordering inside a run uses the pipeline's logical seq, never wall time.
// The recorded created_at timestamp is operator information only and takes
// no part in any comparison.
//
// Database configuration follows the usual SQLite service setup: WAL mode
// for concurrent reads, NORMAL synchronous, busy timeout, foreign keys on,
// and a single writer connection.
package ledger
