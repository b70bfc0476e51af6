package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/benchsplit/internal/manifest"
	"github.com/roach88/benchsplit/internal/pipeline"
)

// RecordRun persists a run, its two partition records, and its event trace
// in one transaction. A run is all-or-nothing, like the pipeline itself.
func (l *Ledger) RecordRun(ctx context.Context, m *manifest.Manifest, result *pipeline.RunResult) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, name, manifest_hash, seed, fingerprint, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		result.RunID,
		m.Name,
		result.ManifestHash,
		m.Split.Seed,
		result.Fingerprint,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record run: insert run: %w", err)
	}

	for _, stage := range []pipeline.StageResult{result.Primary, result.Nested} {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO partitions
			(run_id, stage, train_units, test_units, train_records, test_records, train_fingerprint, test_fingerprint)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			result.RunID,
			string(stage.Stage),
			stage.TrainUnits,
			stage.TestUnits,
			stage.Partition.Train.Len(),
			stage.Partition.Test.Len(),
			stage.TrainFingerprint,
			stage.TestFingerprint,
		)
		if err != nil {
			return fmt.Errorf("record run: insert %s partition: %w", stage.Stage, err)
		}
	}

	for _, e := range result.Events {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO events (run_id, seq, stage, state)
			VALUES (?, ?, ?, ?)
		`,
			result.RunID, e.Seq, string(e.Stage), string(e.State),
		)
		if err != nil {
			return fmt.Errorf("record run: insert event seq %d: %w", e.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record run: commit: %w", err)
	}
	return nil
}
