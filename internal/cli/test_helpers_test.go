package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/suitebridge/internal/testutil"
)

const (
	failingSuite = "testdata/suites/failing.yaml"
	passingSuite = "testdata/suites/passing.yaml"
)

// runResponse is CLIResponse with the run payload decoded.
type runResponse struct {
	Status string    `json:"status"`
	Data   RunReport `json:"data"`
	Error  *CLIError `json:"error"`
}

// execRun runs the run command with opts, returning stdout.
func execRun(t *testing.T, opts *RunOptions, paths ...string) (string, error) {
	t.Helper()

	cmd := NewRunCommand(opts.RootOptions)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})

	err := runSuites(opts, paths, cmd)
	return out.String(), err
}

// execRoot runs the full command tree with args.
func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func decodeRun(t *testing.T, out string) runResponse {
	t.Helper()

	var resp runResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	return resp
}

// seedHistory stores one run of each testdata suite, failing first, as
// run-1 and run-2, and returns the database path.
func seedHistory(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "history.db")
	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "text"},
		Database:    dbPath,
		IDs:         testutil.NewFixedIDGenerator("run-1", "run-2"),
	}
	_, err := execRun(t, opts, "testdata/suites")
	require.Equal(t, ExitFailure, GetExitCode(err))
	return dbPath
}
