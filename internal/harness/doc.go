// Package harness runs conformance scenarios against the preparation
// pipeline.
//
// A scenario is a YAML file carrying an inline record set, an inline
// manifest, and assertions over the resulting run: partition sizes, key
// disjointness, record conservation, public-view schema, and trace length.
// Scenarios document the engine's contracts in an executable form that
// doesn't require writing Go.
//
// Golden snapshots capture the exact key assignment of a scenario run in
// canonical JSON and compare it against testdata/golden/<name>.golden via
// goldie. Regenerate with:
//
//	go test ./internal/harness -update
package harness
