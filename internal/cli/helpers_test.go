package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/benchsplit/internal/testutil"
)

// execCommand runs a command with args, capturing stdout.
func execCommand(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// decodeData unmarshals the data payload of a JSON response envelope.
func decodeData(t *testing.T, out string, v any) {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

// fixturePaths writes a known-good manifest and 20-row source CSV.
func fixturePaths(t *testing.T) (manifestPath, sourcePath string) {
	t.Helper()
	manifestPath = testutil.WriteManifest(t, testutil.RowManifestYAML(0.2, 7))
	sourcePath = testutil.WriteSourceCSV(t, testutil.NumberedCollection(t, 20, testutil.BinaryLabel))
	return manifestPath, sourcePath
}
