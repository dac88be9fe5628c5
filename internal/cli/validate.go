package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationResult is the JSON payload of a validate run.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Code   string `json:"code,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <project.json>",
		Short: "Check a project document without modifying it",
		Long: `Check a project document against the current schema and the model's
referential invariants: event graphs, asset references, template references,
and property overrides. Older format versions are migrated in memory first,
so a document that validates here will load everywhere.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	p, code, exit, err := loadProject(path)
	if err != nil {
		if formatter.Format == "json" {
			_ = formatter.Success(ValidationResult{Valid: false, Code: code, Reason: err.Error()})
		} else {
			fmt.Fprintf(formatter.Writer, "✗ %s\n", err)
		}
		return WrapExitError(exit, "validation failed", err)
	}

	formatter.VerboseLog("Loaded project %q: %d template(s), %d scene(s)",
		p.Name, len(p.Templates()), len(p.Scenes()))

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}
	fmt.Fprintln(formatter.Writer, "✓ Project valid")
	return nil
}
