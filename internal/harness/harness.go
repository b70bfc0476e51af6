package harness

import (
	"fmt"
	"slices"

	"github.com/roach88/benchsplit/internal/dataset"
	"github.com/roach88/benchsplit/internal/pipeline"
)

// Result is a scenario execution outcome.
type Result struct {
	Scenario *Scenario
	Run      *pipeline.RunResult

	// Failures lists failed assertions. Empty means the scenario passed.
	Failures []string
}

// Passed reports whether every assertion held.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// Run executes a scenario: builds the source collection, runs the pipeline,
// and evaluates every assertion. Assertion failures are collected, not
// fail-fast, so one run reports everything that is wrong.
func Run(s *Scenario) (*Result, error) {
	source, err := buildSource(s)
	if err != nil {
		return nil, err
	}
	m, err := s.manifestFor()
	if err != nil {
		return nil, err
	}
	run, err := pipeline.Run(m, source)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: pipeline: %w", s.Name, err)
	}

	result := &Result{Scenario: s, Run: run}
	for _, a := range s.Assertions {
		if failure := evaluate(run, a); failure != "" {
			result.Failures = append(result.Failures, failure)
		}
	}
	return result, nil
}

// buildSource assembles the inline records into a collection. The schema is
// taken from the first record; collection construction enforces uniformity.
func buildSource(s *Scenario) (*dataset.Collection, error) {
	fields := make([]string, 0, len(s.Records[0]))
	for f := range s.Records[0] {
		fields = append(fields, f)
	}
	schema, err := dataset.NewSchema(fields...)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	records := make([]dataset.Record, len(s.Records))
	for i, r := range s.Records {
		records[i] = dataset.Record(r)
	}
	c, err := dataset.NewCollection(schema, records)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return c, nil
}

func stageFor(run *pipeline.RunResult, stage string) pipeline.StageResult {
	if stage == "nested" {
		return run.Nested
	}
	return run.Primary
}

// evaluate returns an empty string when the assertion holds, otherwise a
// description of the failure.
func evaluate(run *pipeline.RunResult, a Assertion) string {
	switch a.Type {
	case AssertTestSize:
		st := stageFor(run, a.Stage)
		if st.TestUnits != a.Count {
			return fmt.Sprintf("%s test_size: want %d units, got %d", a.Stage, a.Count, st.TestUnits)
		}
	case AssertDisjoint:
		st := stageFor(run, a.Stage)
		train := make(map[string]bool)
		for _, k := range st.Partition.TrainKeys() {
			train[k] = true
		}
		for _, k := range st.Partition.TestKeys() {
			if train[k] {
				return fmt.Sprintf("%s disjoint: key %q on both sides", a.Stage, k)
			}
		}
	case AssertConservation:
		st := stageFor(run, a.Stage)
		got := st.Partition.Train.Len() + st.Partition.Test.Len()
		if got != st.Partition.Source.Len() {
			return fmt.Sprintf("%s conservation: train+test = %d records, source has %d",
				a.Stage, got, st.Partition.Source.Len())
		}
	case AssertPublicSchema:
		st := stageFor(run, a.Stage)
		want := slices.Clone(a.Fields)
		slices.Sort(want)
		got := st.Views.Public.Schema().Fields()
		if !slices.Equal(want, got) {
			return fmt.Sprintf("%s public_schema: want %v, got %v", a.Stage, want, got)
		}
	case AssertTraceCount:
		if len(run.Events) != a.Count {
			return fmt.Sprintf("trace_count: want %d events, got %d", a.Count, len(run.Events))
		}
	}
	return ""
}
