// Package pipeline orchestrates a full preparation run: the primary
// public/private split followed by the nested validation split derived from
// the primary train subset.
//
// The two stages are a hard sequential dependency - the nested stage's input
// is the primary stage's validated train output - so the pipeline is
// single-threaded and fully synchronous. Every component it calls is a pure
// function of its inputs; the only cross-stage state is the explicit seed
// carried in the manifest.
package pipeline

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/benchsplit/internal/dataset"
	"github.com/roach88/benchsplit/internal/manifest"
	"github.com/roach88/benchsplit/internal/partition"
	"github.com/roach88/benchsplit/internal/split"
)

// Stage identifies which of the two splits an event or result belongs to.
type Stage string

const (
	StagePrimary Stage = "primary"
	StageNested  Stage = "nested"
)

// Event is one lifecycle transition, stamped with the run's logical clock.
type Event struct {
	Seq   int64
	Stage Stage
	State partition.State
}

// StageResult is the outcome of one stage: the finalized partition, its
// downstream views, and the fingerprints the ledger records.
type StageResult struct {
	Stage Stage

	Partition *partition.Partition
	Views     partition.Views

	TrainUnits int
	TestUnits  int

	TrainFingerprint string
	TestFingerprint  string
}

// RunResult is the outcome of a whole preparation run.
type RunResult struct {
	// RunID is a fresh uuid-v7 identifying this execution in the ledger.
	// It identifies the attempt, not the outcome; Fingerprint identifies
	// the outcome.
	RunID string

	ManifestHash string

	// Fingerprint is the run fingerprint over the manifest hash and all
	// four partition key-set fingerprints. Equal fingerprints mean the runs
	// made identical partitioning decisions.
	Fingerprint string

	Primary StageResult
	Nested  StageResult

	Events []Event
}

// Run executes both stages against the source collection.
func Run(m *manifest.Manifest, source *dataset.Collection) (*RunResult, error) {
	manifestHash, err := m.Hash()
	if err != nil {
		return nil, err
	}

	spec, err := m.SplitSpec()
	if err != nil {
		return nil, err
	}

	clock := NewClock()
	result := &RunResult{
		RunID:        uuid.Must(uuid.NewV7()).String(),
		ManifestHash: manifestHash,
	}

	primary, err := runStage(m, source, spec, StagePrimary, clock, result)
	if err != nil {
		return nil, fmt.Errorf("primary split: %w", err)
	}
	result.Primary = primary

	// The nested stage consumes the validated primary train output.
	nestedSpec, err := split.NestedSpec(spec)
	if err != nil {
		return nil, fmt.Errorf("derive nested spec: %w", err)
	}
	nested, err := runStage(m, primary.Partition.Train, nestedSpec, StageNested, clock, result)
	if err != nil {
		return nil, fmt.Errorf("nested split: %w", err)
	}
	result.Nested = nested

	result.Fingerprint, err = dataset.RunFingerprint(manifestHash, []string{
		primary.TrainFingerprint,
		primary.TestFingerprint,
		nested.TrainFingerprint,
		nested.TestFingerprint,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// runStage runs extract -> split -> validate -> project for one stage and
// appends the lifecycle trace to the run result.
func runStage(m *manifest.Manifest, source *dataset.Collection, spec split.Spec, stage Stage, clock *Clock, result *RunResult) (StageResult, error) {
	extractor, err := m.Extractor()
	if err != nil {
		return StageResult{}, err
	}
	units, err := extractor.ExtractUnits(source)
	if err != nil {
		return StageResult{}, err
	}

	assigned, err := split.Split(units, spec)
	if err != nil {
		return StageResult{}, err
	}

	part, err := partition.New(source, assigned.Train, assigned.Test)
	if err != nil {
		return StageResult{}, err
	}

	final, states, err := part.Validate(m.ValidateConfig())
	for _, s := range states {
		result.Events = append(result.Events, Event{Seq: clock.Next(), Stage: stage, State: s})
	}
	if err != nil {
		return StageResult{}, err
	}

	views, err := final.Project(m.Labels.IDField, m.Labels.Fields, m.Labels.Placeholders)
	if err != nil {
		return StageResult{}, err
	}

	trainFP, testFP, err := final.Fingerprints()
	if err != nil {
		return StageResult{}, err
	}

	return StageResult{
		Stage:            stage,
		Partition:        final,
		Views:            views,
		TrainUnits:       len(final.TrainUnits),
		TestUnits:        len(final.TestUnits),
		TrainFingerprint: trainFP,
		TestFingerprint:  testFP,
	}, nil
}
