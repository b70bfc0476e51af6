package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/benchsplit/internal/manifest"
	"github.com/roach88/benchsplit/internal/pipeline"
	"github.com/roach88/benchsplit/internal/split"
)

// SplitOptions holds flags for the split command.
type SplitOptions struct {
	*RootOptions
	Source string
}

// StageSummary describes one stage of a dry run.
type StageSummary struct {
	Stage            string `json:"stage"`
	TrainUnits       int    `json:"train_units"`
	TestUnits        int    `json:"test_units"`
	TrainRecords     int    `json:"train_records"`
	TestRecords      int    `json:"test_records"`
	TrainFingerprint string `json:"train_fingerprint"`
	TestFingerprint  string `json:"test_fingerprint"`
}

// SplitResult holds the dry-run output.
type SplitResult struct {
	Name           string         `json:"name"`
	ManifestHash   string         `json:"manifest_hash"`
	RunFingerprint string         `json:"run_fingerprint"`
	NestedRatio    float64        `json:"nested_ratio,omitempty"`
	Stages         []StageSummary `json:"stages"`
}

// NewSplitCommand creates the split command.
func NewSplitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SplitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "split <manifest.yaml>",
		Short: "Dry-run a split without writing artifacts",
		Long: `Execute both split stages in memory and report the outcome.

Prints unit and record counts, the derived nested ratio, and the
partition fingerprints. Writes nothing: no CSV artifacts, no ledger
rows. Useful for previewing a manifest change before a real run.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Source, "source", "", "path to source CSV (required)")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}

func runSplit(opts *SplitOptions, manifestPath string, cmd *cobra.Command) error {
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
		return WrapExitError(ExitFailure, "split failed", err)
	}

	summary := SplitResult{
		Name:           m.Name,
		ManifestHash:   result.ManifestHash,
		RunFingerprint: result.Fingerprint,
		Stages: []StageSummary{
			stageSummary(result.Primary),
			stageSummary(result.Nested),
		},
	}
	if m.Split.Mode == manifest.ModeRatio {
		// Derivation cannot fail here: the pipeline already ran with it.
		derived, _ := split.DeriveNestedRatio(m.Split.Ratio)
		summary.NestedRatio = derived
	}

	if formatter.Format == "json" {
		return formatter.Success(summary)
	}

	fmt.Fprintf(formatter.Writer, "Dry run for %q (fingerprint %s)\n", m.Name, result.Fingerprint)
	if m.Split.Mode == manifest.ModeRatio {
		fmt.Fprintf(formatter.Writer, "  nested ratio: %g\n", summary.NestedRatio)
	}
	for _, s := range summary.Stages {
		fmt.Fprintf(formatter.Writer, "  %s: train %d unit(s) / %d record(s), test %d unit(s) / %d record(s)\n",
			s.Stage, s.TrainUnits, s.TrainRecords, s.TestUnits, s.TestRecords)
	}
	return nil
}

func stageSummary(s pipeline.StageResult) StageSummary {
	return StageSummary{
		Stage:            string(s.Stage),
		TrainUnits:       s.TrainUnits,
		TestUnits:        s.TestUnits,
		TrainRecords:     s.Partition.Train.Len(),
		TestRecords:      s.Partition.Test.Len(),
		TrainFingerprint: s.TrainFingerprint,
		TestFingerprint:  s.TestFingerprint,
	}
}
