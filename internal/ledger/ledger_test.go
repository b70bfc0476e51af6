package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/benchsplit/internal/manifest"
	"github.com/roach88/benchsplit/internal/pipeline"
	"github.com/roach88/benchsplit/internal/testutil"
)

func openLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func recordedRun(t *testing.T, l *Ledger, seed int64) (*manifest.Manifest, *pipeline.RunResult) {
	t.Helper()
	m, err := manifest.Parse([]byte(testutil.RowManifestYAML(0.1, seed)), "test.yaml")
	require.NoError(t, err)
	source := testutil.NumberedCollection(t, 100, testutil.BinaryLabel)
	result, err := pipeline.Run(m, source)
	require.NoError(t, err)
	require.NoError(t, l.RecordRun(context.Background(), m, result))
	return m, result
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	l1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l1.Close())

	l2, err := Open(path)
	require.NoError(t, err)
	assert.NoError(t, l2.Close())
}

func TestRecordRun_Roundtrip(t *testing.T) {
	l := openLedger(t)
	_, result := recordedRun(t, l, 42)
	ctx := context.Background()

	run, err := l.Run(ctx, result.RunID)
	require.NoError(t, err)
	assert.Equal(t, "test-prep", run.Name)
	assert.Equal(t, int64(42), run.Seed)
	assert.Equal(t, result.Fingerprint, run.Fingerprint)
	assert.Equal(t, result.ManifestHash, run.ManifestHash)

	parts, err := l.Partitions(ctx, result.RunID)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, "primary", parts[0].Stage)
	assert.Equal(t, 90, parts[0].TrainUnits)
	assert.Equal(t, 10, parts[0].TestUnits)
	assert.Equal(t, "nested", parts[1].Stage)
	assert.Equal(t, result.Nested.TestFingerprint, parts[1].TestFingerprint)

	events, err := l.Events(ctx, result.RunID)
	require.NoError(t, err)
	require.Len(t, events, 8)
	assert.Equal(t, int64(1), events[0].Seq)
	assert.Equal(t, "loaded", events[0].State)
	assert.Equal(t, "finalized", events[7].State)
}

func TestRecordRun_DuplicateRunIDRejected(t *testing.T) {
	l := openLedger(t)
	m, result := recordedRun(t, l, 1)
	err := l.RecordRun(context.Background(), m, result)
	assert.Error(t, err, "run IDs are unique per attempt")
}

func TestRun_NotFound(t *testing.T) {
	l := openLedger(t)
	_, err := l.Run(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = l.Partitions(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestLatestRun_PicksMostRecent(t *testing.T) {
	l := openLedger(t)
	recordedRun(t, l, 1)
	_, second := recordedRun(t, l, 1)

	latest, err := l.LatestRun(context.Background(), "test-prep")
	require.NoError(t, err)
	assert.Equal(t, second.RunID, latest.RunID)

	runs, err := l.Runs(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestVerify_MatchOnIdenticalInputs(t *testing.T) {
	l := openLedger(t)
	m, result := recordedRun(t, l, 7)
	source := testutil.NumberedCollection(t, 100, testutil.BinaryLabel)

	vr, err := l.Verify(context.Background(), m, source, result.RunID)
	require.NoError(t, err)
	assert.True(t, vr.Match, "mismatches: %v", vr.Mismatches)
}

func TestVerify_DetectsSeedDrift(t *testing.T) {
	l := openLedger(t)
	_, result := recordedRun(t, l, 7)

	drifted, err := manifest.Parse([]byte(testutil.RowManifestYAML(0.1, 8)), "test.yaml")
	require.NoError(t, err)
	source := testutil.NumberedCollection(t, 100, testutil.BinaryLabel)

	vr, err := l.Verify(context.Background(), drifted, source, result.RunID)
	require.NoError(t, err)
	assert.False(t, vr.Match)
	assert.NotEmpty(t, vr.Mismatches)
}

func TestVerify_DetectsSourceDrift(t *testing.T) {
	l := openLedger(t)
	m, result := recordedRun(t, l, 7)
	// One record fewer changes the permutation and every fingerprint
	source := testutil.NumberedCollection(t, 99, testutil.BinaryLabel)

	vr, err := l.Verify(context.Background(), m, source, result.RunID)
	require.NoError(t, err)
	assert.False(t, vr.Match)
}
