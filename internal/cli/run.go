package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/benchsplit/internal/ledger"
	"github.com/roach88/benchsplit/internal/materialize"
	"github.com/roach88/benchsplit/internal/pipeline"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Source   string
	Out      string
	Database string
}

// RunCmdResult holds the run command output.
type RunCmdResult struct {
	RunID          string         `json:"run_id"`
	Name           string         `json:"name"`
	ManifestHash   string         `json:"manifest_hash"`
	RunFingerprint string         `json:"run_fingerprint"`
	Stages         []StageSummary `json:"stages"`
	Artifacts      []string       `json:"artifacts"`
	Recorded       bool           `json:"recorded"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <manifest.yaml>",
		Short: "Split a dataset and write artifacts",
		Long: `Execute a full preparation run: split the source dataset per the
manifest, validate the partitions, and write the artifact tree.

The output directory gets public/, private/, public_val/, and
private_val/ CSVs. With --db the run is also recorded in the ledger
so it can later be replay-verified with the verify command.

Examples:
  benchsplit run manifest.yaml --source train.csv --out ./dist
  benchsplit run manifest.yaml --source train.csv --out ./dist --db ./runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Source, "source", "", "path to source CSV (required)")
	_ = cmd.MarkFlagRequired("source")
	cmd.Flags().StringVar(&opts.Out, "out", "", "output directory for artifacts (required)")
	_ = cmd.MarkFlagRequired("out")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite ledger (optional)")

	return cmd
}

func runRun(opts *RunOptions, manifestPath string, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd)

	m, err := loadManifest(formatter, manifestPath)
	if err != nil {
		return err
	}
	source, err := loadSource(formatter, opts.Source)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(m, source)
	if err != nil {
		_ = formatter.Error(ErrCodePipeline, err.Error(), nil)
		return WrapExitError(ExitFailure, "run failed", err)
	}
	formatter.VerboseLog("Run %s fingerprint %s", result.RunID, result.Fingerprint)

	paths, err := materialize.WriteRun(opts.Out, result)
	if err != nil {
		_ = formatter.Error(ErrCodeArtifact, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to write artifacts", err)
	}

	recorded := false
	if opts.Database != "" {
		l, err := ledger.Open(opts.Database)
		if err != nil {
			_ = formatter.Error(ErrCodeLedger, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open ledger", err)
		}
		defer l.Close()
		if err := l.RecordRun(ctx, m, result); err != nil {
			_ = formatter.Error(ErrCodeLedger, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		recorded = true
		formatter.VerboseLog("Recorded run %s in %s", result.RunID, opts.Database)
	}

	out := RunCmdResult{
		RunID:          result.RunID,
		Name:           m.Name,
		ManifestHash:   result.ManifestHash,
		RunFingerprint: result.Fingerprint,
		Stages: []StageSummary{
			stageSummary(result.Primary),
			stageSummary(result.Nested),
		},
		Artifacts: paths,
		Recorded:  recorded,
	}

	if formatter.Format == "json" {
		return formatter.Success(out)
	}

	fmt.Fprintf(formatter.Writer, "✓ Run %s complete (fingerprint %s)\n", out.RunID, out.RunFingerprint)
	for _, s := range out.Stages {
		fmt.Fprintf(formatter.Writer, "  %s: train %d / test %d record(s)\n", s.Stage, s.TrainRecords, s.TestRecords)
	}
	fmt.Fprintf(formatter.Writer, "  %d artifact(s) under %s\n", len(paths), opts.Out)
	if recorded {
		fmt.Fprintf(formatter.Writer, "  recorded in %s\n", opts.Database)
	}
	return nil
}
