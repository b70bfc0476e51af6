package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidateResult holds validation output for a manifest.
type ValidateResult struct {
	Valid        bool   `json:"valid"`
	Name         string `json:"name,omitempty"`
	Strategy     string `json:"strategy,omitempty"`
	Mode         string `json:"mode,omitempty"`
	ManifestHash string `json:"manifest_hash,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <manifest.yaml>",
		Short: "Validate a manifest without splitting",
		Long: `Validate a split manifest against the schema and cross-field rules.

Checks the CUE schema, strict YAML field names, strategy/mode flag
exclusivity, and label field consistency. Does not read the source
dataset or produce artifacts.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateCmd(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidateCmd(opts *RootOptions, manifestPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	m, err := loadManifest(formatter, manifestPath)
	if err != nil {
		// Rejection is the command's verdict, not an operational fault.
		return NewExitError(ExitFailure, "manifest invalid")
	}

	hash, err := m.Hash()
	if err != nil {
		_ = formatter.Error(ErrCodeManifest, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to hash manifest", err)
	}

	result := ValidateResult{
		Valid:        true,
		Name:         m.Name,
		Strategy:     m.Unit.Strategy,
		Mode:         m.Split.Mode,
		ManifestHash: hash,
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Manifest %q valid\n", m.Name)
	fmt.Fprintf(formatter.Writer, "  strategy: %s\n", m.Unit.Strategy)
	fmt.Fprintf(formatter.Writer, "  mode:     %s\n", m.Split.Mode)
	fmt.Fprintf(formatter.Writer, "  hash:     %s\n", hash)
	return nil
}
