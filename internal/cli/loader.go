package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/benchsplit/internal/dataset"
	"github.com/roach88/benchsplit/internal/manifest"
	"github.com/roach88/benchsplit/internal/materialize"
)

// newFormatter builds an OutputFormatter wired to the command's streams.
// Verbose logs go to stderr so JSON on stdout stays parseable.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// loadManifest loads and validates a manifest, mapping failures to a
// command-level error after reporting through the formatter.
func loadManifest(formatter *OutputFormatter, path string) (*manifest.Manifest, error) {
	m, err := manifest.Load(path)
	if err != nil {
		_ = formatter.Error(ErrCodeManifest, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "manifest rejected", err)
	}
	return m, nil
}

// loadSource reads the source CSV into a collection.
func loadSource(formatter *OutputFormatter, path string) (*dataset.Collection, error) {
	source, err := materialize.ReadCSV(path)
	if err != nil {
		_ = formatter.Error(ErrCodeSource, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "source rejected", err)
	}
	formatter.VerboseLog("Loaded %d record(s) from %s", source.Len(), path)
	return source, nil
}
