package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/sqltally/internal/harness"
)

// ScenarioResult holds the outcome of a single scenario run.
type ScenarioResult struct {
	Name       string `json:"name"`
	File       string `json:"file"`
	Pass       bool   `json:"pass"`
	Diagnostic string `json:"diagnostic,omitempty"`
}

// CheckResult holds the overall check outcome.
type CheckResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <scenario.yaml>...",
		Short: "Run statement-count scenarios",
		Long: `Run one or more scenario files through the engine and report
whether the captured statement counts match each scenario's expectation.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios had count mismatches
  2 - Command error (missing or malformed scenario files)

Examples:
  sqltally check scenarios/checkout.yaml
  sqltally check scenarios/*.yaml --format json
  sqltally check scenarios/*.yaml -v`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.Verbose {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
	}

	result := CheckResult{Scenarios: []ScenarioResult{}}
	for _, path := range paths {
		scenario, err := harness.LoadScenario(path)
		if err != nil {
			_ = formatter.Error(ErrCodeParse, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to load scenario", err)
		}

		formatter.VerboseLog("running scenario %s (%s)", scenario.Name, path)

		run, err := harness.Run(scenario, logger)
		if err != nil {
			_ = formatter.Error(ErrCodeRun, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to run scenario", err)
		}

		result.Scenarios = append(result.Scenarios, ScenarioResult{
			Name:       run.Name,
			File:       path,
			Pass:       run.Pass,
			Diagnostic: run.Diagnostic,
		})
		if run.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		result.Total++
	}

	if err := outputCheckResult(formatter, result); err != nil {
		return err
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", result.Failed, result.Total))
	}
	return nil
}

func outputCheckResult(formatter *OutputFormatter, result CheckResult) error {
	if formatter.Format == "json" {
		return formatter.JSON(result)
	}

	for _, s := range result.Scenarios {
		if s.Pass {
			fmt.Fprintf(formatter.Writer, "PASS %s\n", s.Name)
			continue
		}
		fmt.Fprintf(formatter.Writer, "FAIL %s\n", s.Name)
		fmt.Fprintln(formatter.Writer, s.Diagnostic)
	}
	fmt.Fprintf(formatter.Writer, "%d scenarios: %d passed, %d failed\n", result.Total, result.Passed, result.Failed)
	return nil
}
