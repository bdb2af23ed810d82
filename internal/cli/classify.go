package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sqltally/internal/sqlkind"
)

// ClassifyResult holds per-statement classifications and per-kind totals.
type ClassifyResult struct {
	Statements []ClassifiedStatement `json:"statements"`
	Counts     map[string]int        `json:"counts"`
}

// ClassifiedStatement pairs a statement with its kind.
type ClassifiedStatement struct {
	Statement string `json:"statement"`
	Kind      string `json:"kind"`
}

// NewClassifyCommand creates the classify command.
func NewClassifyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [file]",
		Short: "Classify SQL statements by operation kind",
		Long: `Classify SQL statements by their leading verb and print per-kind
totals. Reads one statement per line from the given file, or from stdin
when no file (or "-") is given. Blank lines are skipped.

Examples:
  sqltally classify statements.sql
  grep 'executing' test.log | sqltally classify -
  sqltally classify statements.sql --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runClassify(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	var reader io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open input", err)
		}
		defer f.Close()
		reader = f
	}

	result := ClassifyResult{
		Statements: []ClassifiedStatement{},
		Counts:     make(map[string]int),
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		kind := sqlkind.Classify(line)
		result.Statements = append(result.Statements, ClassifiedStatement{
			Statement: line,
			Kind:      string(kind),
		})
		result.Counts[string(kind)]++
	}
	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}

	return outputClassifyResult(formatter, result)
}

func outputClassifyResult(formatter *OutputFormatter, result ClassifyResult) error {
	if formatter.Format == "json" {
		return formatter.JSON(result)
	}

	for _, s := range result.Statements {
		fmt.Fprintf(formatter.Writer, "%-6s %s\n", s.Kind, s.Statement)
	}
	// Totals in the stable kind order.
	for _, kind := range sqlkind.Kinds {
		if n := result.Counts[string(kind)]; n > 0 {
			fmt.Fprintf(formatter.Writer, "%s: %d\n", kind, n)
		}
	}
	return nil
}
