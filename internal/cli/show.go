package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/suitebridge/internal/harness"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
	RunID    string
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show one stored run",
		Long: `Show the case results and recorded stub calls of a stored run.

Example:
  suitebridge show --db history.db --run 0190f7a2-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run ID (required)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("run")

	return cmd
}

func runShow(opts *ShowOptions, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions, cmd.ErrOrStderr())
	out := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st)

	result, err := st.ReadRun(commandContext(cmd), opts.RunID)
	if errors.Is(err, sql.ErrNoRows) {
		msg := fmt.Sprintf("run not found: %s", opts.RunID)
		if out.JSON() {
			if jsonErr := out.Error(CodeNotFound, msg, nil); jsonErr != nil {
				return jsonErr
			}
		}
		return NewExitError(ExitCommandError, msg)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	if out.JSON() {
		return out.Success(result)
	}

	writeRunText(out.Writer, result)
	return nil
}

func writeRunText(w io.Writer, r *harness.Result) {
	fmt.Fprintf(w, "Run %s\n", r.RunID)
	fmt.Fprintf(w, "Suite: %s\n", r.Suite)
	if r.Path != "" {
		fmt.Fprintf(w, "Path: %s\n", r.Path)
	}
	fmt.Fprintf(w, "Result: %s (%d passed, %d failed, %d total)\n", passLabel(r.Pass), r.Passed, r.Failed, r.Total)
	for _, e := range r.Errors {
		fmt.Fprintf(w, "Error: %s\n", e)
	}

	fmt.Fprintln(w)
	rows := []string{row("SEQ", "CASE", "RESULT", "KIND")}
	for _, c := range r.Cases {
		rows = append(rows, row(fmt.Sprint(c.Seq), c.Name, passLabel(c.Pass), c.Kind))
	}
	fmt.Fprintln(w, formatList(rows))

	for _, c := range r.Cases {
		if c.Pass {
			continue
		}
		fmt.Fprintf(w, "\n%s:\n", c.Name)
		writeIndented(w, "  ", c.Message)
	}

	if len(r.Calls) == 0 {
		return
	}
	fmt.Fprintln(w)
	rows = []string{row("SEQ", "CASE", "STUB", "CALL")}
	for _, call := range r.Calls {
		rows = append(rows, row(fmt.Sprint(call.Seq), call.Case, call.Stub, callSignature(call)))
	}
	fmt.Fprintln(w, formatList(rows))
}
