package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fable2d/fable/internal/format"
)

// MigrateOptions holds flags for the migrate command.
type MigrateOptions struct {
	*RootOptions
	Output string
}

// MigrateResult is the JSON payload of a migrate run.
type MigrateResult struct {
	Output        string `json:"output"`
	FormatVersion int    `json:"format_version"`
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MigrateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "migrate <project.json>",
		Short: "Rewrite a project document at the current format version",
		Long: `Load a project document, applying format migrations in memory, and
write it back at the current format version. Writes in place unless
--output names a different file. The write is atomic.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "destination path (default: in place)")

	return cmd
}

func runMigrate(opts *MigrateOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	p, code, exit, err := loadProject(path)
	if err != nil {
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(exit, "failed to load project", err)
	}

	out := opts.Output
	if out == "" {
		out = path
	}
	if err := format.SaveFile(p, out); err != nil {
		_ = formatter.Error(ErrCodeIO, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to write project", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(MigrateResult{Output: out, FormatVersion: format.CurrentVersion})
	}
	fmt.Fprintf(formatter.Writer, "Wrote %s at format v%d\n", out, format.CurrentVersion)
	return nil
}
