package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/suitebridge/internal/script"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Filter string
}

// ListedSuite is one suite file and the test cases it adapts to.
type ListedSuite struct {
	Suite     string   `json:"suite"`
	Path      string   `json:"path"`
	Tests     []string `json:"tests"`
	Inherited int      `json:"inherited"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list <path>...",
		Short: "List the test cases suites adapt to",
		Long: `Load suite files and print the test case descriptors they adapt to,
in declaration order, without running anything. Tests inherited from
loaded files are not listed; they run only when a test calls them.

Examples:
  suitebridge list ./suites
  suitebridge list ./suites/checkout.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter suite files by glob pattern")

	return cmd
}

func runList(opts *ListOptions, paths []string, cmd *cobra.Command) error {
	logger := setupLogging(opts.RootOptions, cmd.ErrOrStderr())
	out := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	files, err := script.FindFiles(paths, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find suites", err)
	}

	suites := make([]ListedSuite, 0, len(files))
	for _, file := range files {
		prog, err := script.Load(file, script.Options{Logger: logger})
		if err != nil {
			if jsonErr := reportLoadError(out, file, err); jsonErr != nil {
				return jsonErr
			}
			return WrapExitError(ExitFailure, "failed to load suite", err)
		}
		cases, err := prog.Cases()
		if err != nil {
			if jsonErr := reportLoadError(out, file, err); jsonErr != nil {
				return jsonErr
			}
			return WrapExitError(ExitFailure, "failed to adapt suite", err)
		}

		ls := ListedSuite{Suite: prog.Name, Path: file, Tests: make([]string, 0, len(cases))}
		for _, c := range cases {
			ls.Tests = append(ls.Tests, c.Name())
		}
		if proto := prog.Suite.Prototype(); proto != nil {
			ls.Inherited = proto.Len()
		}
		suites = append(suites, ls)
		logger.Debug("suite listed", "suite", ls.Suite, "tests", len(ls.Tests))
	}

	if out.JSON() {
		return out.Success(suites)
	}

	if len(suites) == 0 {
		fmt.Fprintln(out.Writer, "No suites found.")
		return nil
	}

	rows := []string{row("SUITE", "#", "TEST")}
	for _, ls := range suites {
		if len(ls.Tests) == 0 {
			rows = append(rows, row(ls.Suite, "", ""))
			continue
		}
		for i, name := range ls.Tests {
			rows = append(rows, row(ls.Suite, fmt.Sprint(i+1), name))
		}
	}
	fmt.Fprintln(out.Writer, formatList(rows))
	return nil
}

// reportLoadError emits a JSON error response; text output relies on the
// returned exit error instead.
func reportLoadError(out *OutputFormatter, file string, err error) error {
	if !out.JSON() {
		return nil
	}
	return out.Error(CodeLoad, err.Error(), map[string]string{"path": file})
}
