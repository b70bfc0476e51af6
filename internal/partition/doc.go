// Package partition holds the outcome of one split and the invariant gate
// every outcome must pass before any artifact is written.
//
// A Partition binds the source collection to the train/test unit assignment
// and the materialized train/test collections. Validation enforces the
// structural contracts - key disjointness, size conservation, schema
// equivalence - and applies the one documented repair: if a declared
// must-vary label column is constant within the test partition, exactly one
// unit is swapped between train and test, deterministically, and the checks
// re-run once. A second failure is fatal.
//
// Lifecycle: Loaded -> Split -> Validated -> (Repaired)? -> Finalized.
// The Repaired self-loop runs at most once; there is no retry loop anywhere.
//
// The projector derives the three downstream views from a finalized
// partition: the private (grading) view, the public (participant) view with
// label fields stripped, and the placeholder sample-submission view. The
// projector is a pure schema transformation and carries no randomness.
package partition
