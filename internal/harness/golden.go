package harness

import (
	"fmt"
	"slices"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/benchsplit/internal/dataset"
	"github.com/roach88/benchsplit/internal/pipeline"
)

// Snapshot serializes a run's exact key assignment to canonical JSON.
// Key lists are sorted: the snapshot captures set membership, which is the
// determinism contract, not the internal permutation order.
func Snapshot(s *Scenario, run *pipeline.RunResult) ([]byte, error) {
	stages := make([]any, 0, 2)
	for _, st := range []pipeline.StageResult{run.Primary, run.Nested} {
		trainKeys := slices.Clone(st.Partition.TrainKeys())
		slices.Sort(trainKeys)
		testKeys := slices.Clone(st.Partition.TestKeys())
		slices.Sort(testKeys)
		stages = append(stages, map[string]any{
			"stage":             string(st.Stage),
			"train_keys":        trainKeys,
			"test_keys":         testKeys,
			"train_fingerprint": st.TrainFingerprint,
			"test_fingerprint":  st.TestFingerprint,
		})
	}
	snap := map[string]any{
		"scenario": s.Name,
		"stages":   stages,
	}
	data, err := dataset.MarshalCanonical(snap)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: snapshot: %w", s.Name, err)
	}
	return data, nil
}

// RunWithGolden executes a scenario, fails the test on any assertion
// failure, and compares the key-assignment snapshot against the golden file
// testdata/golden/<scenario.Name>.golden.
func RunWithGolden(t *testing.T, s *Scenario) {
	t.Helper()

	result, err := Run(s)
	if err != nil {
		t.Fatalf("scenario %q: %v", s.Name, err)
	}
	for _, f := range result.Failures {
		t.Errorf("scenario %q: %s", s.Name, f)
	}

	snap, err := Snapshot(s, result.Run)
	if err != nil {
		t.Fatal(err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, s.Name, snap)
}
