package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitDryRun(t *testing.T) {
	manifestPath, sourcePath := fixturePaths(t)

	out, err := execCommand(NewSplitCommand(&RootOptions{Format: "json"}),
		manifestPath, "--source", sourcePath)
	require.NoError(t, err)

	var result SplitResult
	decodeData(t, out, &result)
	assert.Equal(t, "test-prep", result.Name)
	assert.NotEmpty(t, result.RunFingerprint)
	assert.InEpsilon(t, 0.25, result.NestedRatio, 1e-12)

	require.Len(t, result.Stages, 2)
	primary, nested := result.Stages[0], result.Stages[1]
	assert.Equal(t, "primary", primary.Stage)
	assert.Equal(t, 16, primary.TrainUnits)
	assert.Equal(t, 4, primary.TestUnits)
	assert.Equal(t, "nested", nested.Stage)
	assert.Equal(t, 12, nested.TrainUnits)
	assert.Equal(t, 4, nested.TestUnits)
}

func TestSplitDryRunDeterministic(t *testing.T) {
	manifestPath, sourcePath := fixturePaths(t)
	cmdArgs := []string{manifestPath, "--source", sourcePath}

	first, err := execCommand(NewSplitCommand(&RootOptions{Format: "json"}), cmdArgs...)
	require.NoError(t, err)
	second, err := execCommand(NewSplitCommand(&RootOptions{Format: "json"}), cmdArgs...)
	require.NoError(t, err)

	var a, b SplitResult
	decodeData(t, first, &a)
	decodeData(t, second, &b)
	assert.Equal(t, a.RunFingerprint, b.RunFingerprint)
	assert.Equal(t, a.Stages, b.Stages)
}

func TestSplitWritesNothing(t *testing.T) {
	manifestPath, sourcePath := fixturePaths(t)
	dir := filepath.Dir(sourcePath)

	_, err := execCommand(NewSplitCommand(&RootOptions{Format: "text"}),
		manifestPath, "--source", sourcePath)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "source.csv", entries[0].Name())
}

func TestSplitMissingSource(t *testing.T) {
	manifestPath, _ := fixturePaths(t)

	out, err := execCommand(NewSplitCommand(&RootOptions{Format: "text"}),
		manifestPath, "--source", "/nonexistent/source.csv")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeSource)
}

func TestSplitRequiresSourceFlag(t *testing.T) {
	manifestPath, _ := fixturePaths(t)

	_, err := execCommand(NewSplitCommand(&RootOptions{Format: "text"}), manifestPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source")
}
