package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/suitebridge/internal/harness"
	"github.com/roach88/suitebridge/internal/store"
	"github.com/roach88/suitebridge/stub"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Suite    string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored runs",
		Long: `List the runs recorded with "run --db", oldest first.

Examples:
  suitebridge history --db history.db
  suitebridge history --db history.db --suite checkout`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Suite, "suite", "", "only show runs of this suite")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions, cmd.ErrOrStderr())
	out := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st)

	runs, err := st.ListRuns(commandContext(cmd), opts.Suite)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if out.JSON() {
		return out.Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out.Writer, "No runs recorded.")
		return nil
	}

	rows := []string{row("#", "RUN", "SUITE", "RESULT", "PASSED", "FAILED", "TOTAL")}
	for _, r := range runs {
		rows = append(rows, row(
			fmt.Sprint(r.CreatedSeq),
			r.ID,
			r.Suite,
			passLabel(r.Pass),
			fmt.Sprint(r.Passed),
			fmt.Sprint(r.Failed),
			fmt.Sprint(r.Total),
		))
	}
	fmt.Fprintln(out.Writer, formatList(rows))
	return nil
}

// openExisting opens a history database that must already exist.
// store.Open would create a missing file.
func openExisting(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "database not found", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func passLabel(pass bool) string {
	if pass {
		return "pass"
	}
	return "fail"
}

// callSignature renders a recorded call the way stub failures do.
func callSignature(call harness.CallEvent) string {
	return stub.CallRecord{Name: call.Name, Args: call.Args}.String()
}

// writeIndented writes text line by line with prefix.
func writeIndented(w io.Writer, prefix, text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(w, "%s%s\n", prefix, line)
	}
}

// closeStore closes st, logging instead of failing.
func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}
