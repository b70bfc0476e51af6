package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned when a queried run does not exist.
var ErrRunNotFound = errors.New("run not found")

// RunRecord is one row of the runs table.
type RunRecord struct {
	RunID        string
	Name         string
	ManifestHash string
	Seed         int64
	Fingerprint  string
	CreatedAt    string
}

// PartitionRecord is one row of the partitions table.
type PartitionRecord struct {
	RunID            string
	Stage            string
	TrainUnits       int
	TestUnits        int
	TrainRecords     int
	TestRecords      int
	TrainFingerprint string
	TestFingerprint  string
}

// EventRecord is one row of the events table.
type EventRecord struct {
	RunID string
	Seq   int64
	Stage string
	State string
}

// Run fetches one run by ID.
func (l *Ledger) Run(ctx context.Context, runID string) (RunRecord, error) {
	var r RunRecord
	err := l.db.QueryRowContext(ctx, `
		SELECT run_id, name, manifest_hash, seed, fingerprint, created_at
		FROM runs WHERE run_id = ?
	`, runID).Scan(&r.RunID, &r.Name, &r.ManifestHash, &r.Seed, &r.Fingerprint, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("read run: %w", err)
	}
	return r, nil
}

// LatestRun fetches the most recently recorded run for a preparation name.
// "Most recent" means highest insertion rowid, not wall time.
func (l *Ledger) LatestRun(ctx context.Context, name string) (RunRecord, error) {
	var r RunRecord
	err := l.db.QueryRowContext(ctx, `
		SELECT run_id, name, manifest_hash, seed, fingerprint, created_at
		FROM runs WHERE name = ?
		ORDER BY rowid DESC LIMIT 1
	`, name).Scan(&r.RunID, &r.Name, &r.ManifestHash, &r.Seed, &r.Fingerprint, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("%w: no runs for %q", ErrRunNotFound, name)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("read latest run: %w", err)
	}
	return r, nil
}

// Runs lists all runs in insertion order.
func (l *Ledger) Runs(ctx context.Context) ([]RunRecord, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT run_id, name, manifest_hash, seed, fingerprint, created_at
		FROM runs ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.RunID, &r.Name, &r.ManifestHash, &r.Seed, &r.Fingerprint, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Partitions fetches the per-stage partition records of a run, primary first.
func (l *Ledger) Partitions(ctx context.Context, runID string) ([]PartitionRecord, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT run_id, stage, train_units, test_units, train_records, test_records,
		       train_fingerprint, test_fingerprint
		FROM partitions WHERE run_id = ?
		ORDER BY CASE stage WHEN 'primary' THEN 0 ELSE 1 END
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read partitions: %w", err)
	}
	defer rows.Close()

	var out []PartitionRecord
	for rows.Next() {
		var p PartitionRecord
		if err := rows.Scan(&p.RunID, &p.Stage, &p.TrainUnits, &p.TestUnits,
			&p.TrainRecords, &p.TestRecords, &p.TrainFingerprint, &p.TestFingerprint); err != nil {
			return nil, fmt.Errorf("read partitions: scan: %w", err)
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return out, rows.Err()
}

// Events fetches a run's lifecycle trace ordered by seq.
func (l *Ledger) Events(ctx context.Context, runID string) ([]EventRecord, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT run_id, seq, stage, state
		FROM events WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	defer rows.Close()

	var out []EventRecord
	for rows.Next() {
		var e EventRecord
		if err := rows.Scan(&e.RunID, &e.Seq, &e.Stage, &e.State); err != nil {
			return nil, fmt.Errorf("read events: scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
