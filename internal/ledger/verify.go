package ledger

import (
	"context"
	"fmt"

	"github.com/roach88/benchsplit/internal/dataset"
	"github.com/roach88/benchsplit/internal/manifest"
	"github.com/roach88/benchsplit/internal/pipeline"
)

// VerifyResult reports a determinism check of a recorded run.
type VerifyResult struct {
	RunID      string
	Match      bool
	Mismatches []string // human-readable descriptions, empty when Match
}

// Verify re-executes the pipeline from the manifest and source and compares
// the outcome against the recorded run. Any divergence - manifest drift, a
// mutated raw file, a changed RNG sequence - shows up as a fingerprint or
// count mismatch.
func (l *Ledger) Verify(ctx context.Context, m *manifest.Manifest, source *dataset.Collection, runID string) (VerifyResult, error) {
	recorded, err := l.Run(ctx, runID)
	if err != nil {
		return VerifyResult{}, err
	}
	partitions, err := l.Partitions(ctx, runID)
	if err != nil {
		return VerifyResult{}, err
	}

	result := VerifyResult{RunID: runID}

	manifestHash, err := m.Hash()
	if err != nil {
		return VerifyResult{}, err
	}
	if manifestHash != recorded.ManifestHash {
		result.Mismatches = append(result.Mismatches,
			fmt.Sprintf("manifest hash: recorded %s, current %s", recorded.ManifestHash, manifestHash))
	}

	replay, err := pipeline.Run(m, source)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("verify: replay failed: %w", err)
	}

	if replay.Fingerprint != recorded.Fingerprint {
		result.Mismatches = append(result.Mismatches,
			fmt.Sprintf("run fingerprint: recorded %s, replay %s", recorded.Fingerprint, replay.Fingerprint))
	}

	stages := map[string]pipeline.StageResult{
		string(pipeline.StagePrimary): replay.Primary,
		string(pipeline.StageNested):  replay.Nested,
	}
	for _, p := range partitions {
		stage, ok := stages[p.Stage]
		if !ok {
			result.Mismatches = append(result.Mismatches, fmt.Sprintf("unknown recorded stage %q", p.Stage))
			continue
		}
		if stage.TrainFingerprint != p.TrainFingerprint {
			result.Mismatches = append(result.Mismatches,
				fmt.Sprintf("%s train fingerprint diverged", p.Stage))
		}
		if stage.TestFingerprint != p.TestFingerprint {
			result.Mismatches = append(result.Mismatches,
				fmt.Sprintf("%s test fingerprint diverged", p.Stage))
		}
		if stage.TrainUnits != p.TrainUnits || stage.TestUnits != p.TestUnits {
			result.Mismatches = append(result.Mismatches,
				fmt.Sprintf("%s unit counts: recorded %d/%d, replay %d/%d",
					p.Stage, p.TrainUnits, p.TestUnits, stage.TrainUnits, stage.TestUnits))
		}
	}

	result.Match = len(result.Mismatches) == 0
	return result, nil
}
