package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fable2d/fable/internal/harness"
)

// RunResult is the JSON payload of a scenario run.
type RunResult struct {
	Scenario string               `json:"scenario"`
	Ticks    int                  `json:"ticks"`
	Errors   int                  `json:"errors"`
	Passed   bool                 `json:"passed"`
	Failure  string               `json:"failure,omitempty"`
	Trace    []harness.TraceEvent `json:"trace,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Play a scenario and check its assertions",
		Long: `Load a scenario file, play its scripted input stream against the
named scene, and check its assertions against the final state.

Example:
  fable run scenarios/walker.yaml
  fable run scenarios/boss-fight.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runScenario(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	s, err := harness.LoadScenario(path)
	if err != nil {
		_ = formatter.Error(ErrCodeIO, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	formatter.VerboseLog("Loaded scenario %q: %d tick step(s), %d assertion(s)",
		s.Name, len(s.Ticks), len(s.Assertions))

	res, runErr := harness.Run(cmdContext(cmd), s)
	if res == nil {
		_ = formatter.Error(ErrCodeGeneric, runErr.Error(), nil)
		return WrapExitError(ExitCommandError, "scenario did not run", runErr)
	}

	errCount := 0
	for _, ev := range res.Trace {
		errCount += len(ev.Errors)
	}
	result := RunResult{
		Scenario: s.Name,
		Ticks:    len(res.Trace),
		Errors:   errCount,
		Passed:   runErr == nil,
	}
	if runErr != nil {
		result.Failure = runErr.Error()
	}
	if opts.Verbose || formatter.Format == "json" {
		result.Trace = res.Trace
	}

	if formatter.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		for _, ev := range result.Trace {
			fmt.Fprintf(formatter.Writer, "tick %d: mutated=%t spawned=%d destroyed=%d errors=%d\n",
				ev.Seq, ev.Mutated, len(ev.Spawned), len(ev.Destroyed), len(ev.Errors))
		}
		if result.Passed {
			fmt.Fprintf(formatter.Writer, "✓ %s: %d tick(s), %d runtime error(s)\n",
				result.Scenario, result.Ticks, result.Errors)
		} else {
			fmt.Fprintf(formatter.Writer, "✗ %s: %s\n", result.Scenario, result.Failure)
		}
	}

	if runErr != nil {
		return WrapExitError(ExitFailure, "scenario failed", runErr)
	}
	return nil
}
