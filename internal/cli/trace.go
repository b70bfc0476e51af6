package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/benchsplit/internal/ledger"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string
	Stage    string // optional - filter to one stage
}

// TraceEvent is one lifecycle transition in the trace timeline.
type TraceEvent struct {
	Seq   int64  `json:"seq"`
	Stage string `json:"stage"`
	State string `json:"state"`
}

// TraceResult holds the trace command output.
type TraceResult struct {
	RunID    string       `json:"run_id"`
	Name     string       `json:"name"`
	Timeline []TraceEvent `json:"timeline"`
	Repaired bool         `json:"repaired"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the lifecycle timeline of a recorded run",
		Long: `Show the ordered lifecycle transitions of a recorded run.

Each stage moves loaded -> split -> validated -> finalized, with a
repaired -> validated detour when a degenerate label partition was
fixed. The sequence numbers come from the run's logical clock.

Examples:
  benchsplit trace --db ./runs.db --run <id>
  benchsplit trace --db ./runs.db --run <id> --stage nested --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraceCmd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite ledger (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id to trace (required)")
	_ = cmd.MarkFlagRequired("run")
	cmd.Flags().StringVar(&opts.Stage, "stage", "", "filter to one stage (primary|nested)")

	return cmd
}

func runTraceCmd(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd)

	l, err := ledger.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeLedger, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open ledger", err)
	}
	defer l.Close()

	run, err := l.Run(ctx, opts.RunID)
	if err != nil {
		if errors.Is(err, ledger.ErrRunNotFound) {
			_ = formatter.Error(ErrCodeRun, err.Error(), nil)
			return WrapExitError(ExitCommandError, "run not found", err)
		}
		_ = formatter.Error(ErrCodeLedger, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to query ledger", err)
	}

	events, err := l.Events(ctx, opts.RunID)
	if err != nil {
		_ = formatter.Error(ErrCodeLedger, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read events", err)
	}

	result := TraceResult{RunID: run.RunID, Name: run.Name}
	for _, e := range events {
		if opts.Stage != "" && e.Stage != opts.Stage {
			continue
		}
		result.Timeline = append(result.Timeline, TraceEvent{Seq: e.Seq, Stage: e.Stage, State: e.State})
		if e.State == "repaired" {
			result.Repaired = true
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "Run %s (%s)\n", result.RunID, result.Name)
	for _, e := range result.Timeline {
		fmt.Fprintf(formatter.Writer, "  %3d  %-8s %s\n", e.Seq, e.Stage, e.State)
	}
	if result.Repaired {
		fmt.Fprintln(formatter.Writer, "  note: a degenerate label partition was repaired")
	}
	return nil
}
