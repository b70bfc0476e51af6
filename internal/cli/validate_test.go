package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/benchsplit/internal/testutil"
)

func TestValidateValidManifest(t *testing.T) {
	manifestPath, _ := fixturePaths(t)

	out, err := execCommand(NewValidateCommand(&RootOptions{Format: "text"}), manifestPath)
	require.NoError(t, err)

	assert.Contains(t, out, `✓ Manifest "test-prep" valid`)
	assert.Contains(t, out, "strategy: row")
	assert.Contains(t, out, "mode:     ratio")
}

func TestValidateValidManifestJSON(t *testing.T) {
	manifestPath, _ := fixturePaths(t)

	out, err := execCommand(NewValidateCommand(&RootOptions{Format: "json"}), manifestPath)
	require.NoError(t, err)

	var result ValidateResult
	decodeData(t, out, &result)
	assert.True(t, result.Valid)
	assert.Equal(t, "test-prep", result.Name)
	assert.Equal(t, "row", result.Strategy)
	assert.Equal(t, "ratio", result.Mode)
	assert.NotEmpty(t, result.ManifestHash)
}

func TestValidateRejectsBadManifest(t *testing.T) {
	manifestPath := testutil.WriteManifest(t, `
name: broken
unit:
  strategy: row
  key_field: id
labels:
  id_field: id
  fields: [target]
split:
  mode: ratio
  ratio: 1.5
  seed: 1
`)

	out, err := execCommand(NewValidateCommand(&RootOptions{Format: "text"}), manifestPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, ErrCodeManifest)
}

func TestValidateMissingFile(t *testing.T) {
	out, err := execCommand(NewValidateCommand(&RootOptions{Format: "text"}), "/nonexistent/prep.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, ErrCodeManifest)
}
