package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/benchsplit/internal/ledger"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Source   string
	Database string
	RunID    string
}

// VerifyCmdResult holds the verify command output.
type VerifyCmdResult struct {
	RunID      string   `json:"run_id"`
	Match      bool     `json:"match"`
	Mismatches []string `json:"mismatches,omitempty"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify <manifest.yaml>",
		Short: "Replay a recorded run and compare fingerprints",
		Long: `Re-execute the pipeline from the manifest and source and compare
the outcome against a run recorded in the ledger.

Without --run the latest recorded run for the manifest's name is
checked. Any divergence - an edited manifest, a mutated source file,
a changed environment - surfaces as a fingerprint or count mismatch
and exits with code 1.

Examples:
  benchsplit verify manifest.yaml --source train.csv --db ./runs.db
  benchsplit verify manifest.yaml --source train.csv --db ./runs.db --run <id>`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Source, "source", "", "path to source CSV (required)")
	_ = cmd.MarkFlagRequired("source")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite ledger (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id to verify (default: latest for the manifest name)")

	return cmd
}

func runVerify(opts *VerifyOptions, manifestPath string, cmd *cobra.Command) error {
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

	l, err := ledger.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeLedger, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open ledger", err)
	}
	defer l.Close()

	runID := opts.RunID
	if runID == "" {
		latest, err := l.LatestRun(ctx, m.Name)
		if err != nil {
			if errors.Is(err, ledger.ErrRunNotFound) {
				_ = formatter.Error(ErrCodeRun, err.Error(), nil)
				return WrapExitError(ExitCommandError, "no recorded run", err)
			}
			_ = formatter.Error(ErrCodeLedger, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to query ledger", err)
		}
		runID = latest.RunID
		formatter.VerboseLog("Verifying latest run %s for %q", runID, m.Name)
	}

	result, err := l.Verify(ctx, m, source, runID)
	if err != nil {
		if errors.Is(err, ledger.ErrRunNotFound) {
			_ = formatter.Error(ErrCodeRun, err.Error(), nil)
			return WrapExitError(ExitCommandError, "run not found", err)
		}
		_ = formatter.Error(ErrCodeLedger, err.Error(), nil)
		return WrapExitError(ExitCommandError, "verification errored", err)
	}

	out := VerifyCmdResult{RunID: result.RunID, Match: result.Match, Mismatches: result.Mismatches}

	if !result.Match {
		if formatter.Format == "json" {
			_ = formatter.Error(ErrCodeVerify, "replay diverged from recorded run", out)
		} else {
			fmt.Fprintf(formatter.Writer, "✗ Run %s diverged\n", result.RunID)
			for _, mismatch := range result.Mismatches {
				fmt.Fprintf(formatter.Writer, "  %s\n", mismatch)
			}
		}
		return NewExitError(ExitFailure, fmt.Sprintf("verification failed with %d mismatch(es)", len(result.Mismatches)))
	}

	if formatter.Format == "json" {
		return formatter.Success(out)
	}
	fmt.Fprintf(formatter.Writer, "✓ Run %s verified\n", result.RunID)
	return nil
}
