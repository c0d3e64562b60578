package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/suitebridge/internal/harness"
	"github.com/roach88/suitebridge/internal/script"
	"github.com/roach88/suitebridge/internal/store"
	"github.com/roach88/suitebridge/stub"
)

// Golden states reported per suite.
const (
	GoldenMatch    = "match"
	GoldenMismatch = "mismatch"
	GoldenUpdated  = "updated"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Filter      string // suite file filter (glob pattern)
	Database    string // persist results when set
	Update      bool   // regenerate golden files
	StrictCalls bool   // match every argument position in assert_called

	// IDs allows overriding the run ID generator (for testing).
	// If nil, defaults to harness.UUIDv7Generator.
	IDs harness.IDGenerator
}

// SuiteReport is the outcome of one suite file.
type SuiteReport struct {
	Suite  string               `json:"suite"`
	Path   string               `json:"path"`
	RunID  string               `json:"run_id,omitempty"`
	Pass   bool                 `json:"pass"`
	Passed int                  `json:"passed"`
	Failed int                  `json:"failed"`
	Total  int                  `json:"total"`
	Cases  []harness.CaseResult `json:"cases"`
	Calls  []harness.CallEvent  `json:"calls,omitempty"`
	Golden string               `json:"golden,omitempty"`
	Errors []string             `json:"errors,omitempty"`
}

// RunReport aggregates every suite of one invocation.
type RunReport struct {
	Suites []SuiteReport `json:"suites"`
	Passed int           `json:"passed"` // cases
	Failed int           `json:"failed"` // cases
	Total  int           `json:"total"`  // cases

	// SuiteErrors counts suites that failed for reasons other than a
	// failing case: load errors, golden mismatches, storage errors.
	SuiteErrors int `json:"suite_errors"`
}

func (r RunReport) failed() bool {
	return r.Failed > 0 || r.SuiteErrors > 0
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <path>...",
		Short: "Run data-file suites",
		Long: `Run suite files (.yaml, .yml, .cue) and report every test case.

Directories are searched recursively. Files starting with "_" are shared
files meant to be loaded by other suites and are skipped unless named
directly. When golden/<name>.golden exists next to a suite, the run's
snapshot must match it.

Exit codes:
  0 - All cases passed
  1 - A case failed, a suite did not load, or a golden file mismatched
  2 - Command error (invalid paths, database errors, etc.)

Examples:
  suitebridge run ./suites
  suitebridge run ./suites --filter "cart-*"
  suitebridge run ./suites --update
  suitebridge run ./suites --db history.db --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuites(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter suite files by glob pattern")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database for run history")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().BoolVar(&opts.StrictCalls, "strict-calls", false, "require every argument to match in assert_called")

	return cmd
}

func runSuites(opts *RunOptions, paths []string, cmd *cobra.Command) error {
	logger := setupLogging(opts.RootOptions, cmd.ErrOrStderr())
	out := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	files, err := script.FindFiles(paths, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find suites", err)
	}

	out.VerboseLog("found %d suite file(s)", len(files))

	if len(files) == 0 {
		if out.JSON() {
			return out.Success(RunReport{Suites: []SuiteReport{}})
		}
		fmt.Fprintln(out.Writer, "No suites found.")
		return nil
	}

	var st *store.Store
	if opts.Database != "" {
		st, err = store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer closeStore(st)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hopts := harness.Options{Logger: logger, IDs: opts.IDs, Output: out.Writer}
	if out.JSON() {
		// Keep stdout a single JSON document.
		hopts.Output = out.GetErrWriter()
	}
	if opts.StrictCalls {
		hopts.Matcher = stub.MatchAllArgs
	}

	report := RunReport{Suites: make([]SuiteReport, 0, len(files))}
	for _, file := range files {
		if ctx.Err() != nil {
			break
		}

		sr := runSuite(ctx, file, opts, hopts, st)
		report.Suites = append(report.Suites, sr)
		report.Passed += sr.Passed
		report.Failed += sr.Failed
		report.Total += sr.Total
		if len(sr.Errors) > 0 {
			report.SuiteErrors++
		}

		if !out.JSON() {
			writeSuiteText(out.Writer, sr, opts.Verbose)
		}
	}

	interrupted := ctx.Err() != nil && len(report.Suites) < len(files)
	if interrupted {
		logger.Warn("run interrupted", "suites_run", len(report.Suites), "suites_found", len(files))
	}

	if out.JSON() {
		return outputRunJSON(out, report)
	}
	return outputRunText(out, report, interrupted)
}

// runSuite runs one file and applies golden and storage handling.
func runSuite(ctx context.Context, file string, opts *RunOptions, hopts harness.Options, st *store.Store) SuiteReport {
	result, err := harness.RunFile(ctx, file, hopts)
	if err != nil {
		return SuiteReport{
			Suite:  file,
			Path:   file,
			Cases:  []harness.CaseResult{},
			Errors: []string{fmt.Sprintf("load error: %v", err)},
		}
	}

	sr := SuiteReport{
		Suite:  result.Suite,
		Path:   file,
		RunID:  result.RunID,
		Pass:   result.Pass,
		Passed: result.Passed,
		Failed: result.Failed,
		Total:  result.Total,
		Cases:  result.Cases,
		Calls:  result.Calls,
		Errors: append([]string(nil), result.Errors...),
	}

	goldenPath := harness.GoldenPath(file)
	switch {
	case opts.Update:
		if err := harness.UpdateGolden(goldenPath, result); err != nil {
			sr.Errors = append(sr.Errors, fmt.Sprintf("golden update error: %v", err))
		} else {
			sr.Golden = GoldenUpdated
		}
	default:
		match, err := harness.CompareGolden(goldenPath, result)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// No golden file: case outcomes decide.
		case err != nil:
			sr.Errors = append(sr.Errors, fmt.Sprintf("golden comparison error: %v", err))
		case !match:
			sr.Golden = GoldenMismatch
			sr.Errors = append(sr.Errors, "snapshot does not match golden file (run with --update to regenerate)")
		default:
			sr.Golden = GoldenMatch
		}
	}

	if st != nil {
		// Record the run even if the command is being interrupted.
		if _, err := st.WriteResult(context.WithoutCancel(ctx), result); err != nil {
			sr.Errors = append(sr.Errors, fmt.Sprintf("failed to store run: %v", err))
		}
	}

	if len(sr.Errors) > 0 {
		sr.Pass = false
	}
	return sr
}

// writeSuiteText prints one suite's case lines as they finish.
func writeSuiteText(w io.Writer, sr SuiteReport, verbose bool) {
	mark := "✓"
	if !sr.Pass {
		mark = "✗"
	}
	fmt.Fprintf(w, "%s %s (%s)\n", mark, sr.Suite, sr.Path)

	for _, c := range sr.Cases {
		if c.Pass {
			fmt.Fprintf(w, "  ✓ %s\n", c.Name)
			continue
		}
		fmt.Fprintf(w, "  ✗ %s\n", c.Name)
		writeIndented(w, "      ", c.Message)
		if c.Kind == harness.KindComparisonFailure {
			fmt.Fprintf(w, "      expected: %s\n", c.Expected)
			fmt.Fprintf(w, "      actual:   %s\n", c.Actual)
		}
	}

	for _, e := range sr.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
	if sr.Golden == GoldenUpdated {
		fmt.Fprintln(w, "  (golden updated)")
	}

	if verbose && len(sr.Calls) > 0 {
		fmt.Fprintln(w, "  recorded calls:")
		rows := []string{row("SEQ", "CASE", "STUB", "CALL")}
		for _, call := range sr.Calls {
			rows = append(rows, row(fmt.Sprint(call.Seq), call.Case, call.Stub, callSignature(call)))
		}
		writeIndented(w, "    ", formatList(rows))
	}
}

// outputRunJSON outputs the report as JSON.
func outputRunJSON(out *OutputFormatter, report RunReport) error {
	if !report.failed() {
		return out.Success(report)
	}

	msg := failureMessage(report)
	if err := out.Failure(report, CodeTestFailed, msg); err != nil {
		return err
	}
	return NewExitError(ExitFailure, msg)
}

// outputRunText outputs the summary as text.
func outputRunText(out *OutputFormatter, report RunReport, interrupted bool) error {
	w := out.Writer

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", report.Passed, report.Failed, report.Total)
	if report.SuiteErrors > 0 {
		fmt.Fprintf(w, "Suite errors: %d\n", report.SuiteErrors)
	}
	if interrupted {
		fmt.Fprintln(w, "Run interrupted.")
	}

	if report.failed() {
		return NewExitError(ExitFailure, failureMessage(report))
	}

	fmt.Fprintln(w, "✓ All cases passed")
	return nil
}

func failureMessage(report RunReport) string {
	if report.Failed > 0 {
		return fmt.Sprintf("%d case(s) failed", report.Failed)
	}
	return fmt.Sprintf("%d suite(s) failed", report.SuiteErrors)
}
