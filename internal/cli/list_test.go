package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/suitebridge/internal/testutil"
)

func TestList_Text(t *testing.T) {
	out, err := execRoot(t, "list", "testdata/suites")
	require.NoError(t, err)

	want := "SUITE    #  TEST\n" +
		"failing  1  callsCollaborator\n" +
		"failing  2  wrongCall\n" +
		"failing  3  mismatch\n" +
		"passing  1  adds\n" +
		"passing  2  coerced\n"
	assert.Equal(t, want, out)
}

func TestList_JSON(t *testing.T) {
	out, err := execRoot(t, "--format", "json", "list", failingSuite)
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   []ListedSuite `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, ListedSuite{
		Suite: "failing",
		Path:  failingSuite,
		Tests: []string{"callsCollaborator", "wrongCall", "mismatch"},
	}, resp.Data[0])
}

func TestList_CountsInheritedTests(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "_base.yaml", "tests:\n  helper:\n    - assert_strict: [1, 1]\n")
	main := testutil.WriteFile(t, dir, "main.yaml", "name: main\nload: [_base.yaml]\ntests:\n  own:\n    - run: helper\n")

	out, err := execRoot(t, "--format", "json", "list", main)
	require.NoError(t, err)

	var resp struct {
		Data []ListedSuite `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, []string{"own"}, resp.Data[0].Tests)
	assert.Equal(t, 1, resp.Data[0].Inherited)
}

func TestList_NoSuites(t *testing.T) {
	out, err := execRoot(t, "list", t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "No suites found.\n", out)
}

func TestList_LoadError(t *testing.T) {
	dir := t.TempDir()
	broken := testutil.WriteFile(t, dir, "broken.yaml", "tests:\n  t:\n    - frobnicate: [1]\n")

	out, err := execRoot(t, "list", broken)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load suite")
	assert.Empty(t, out)

	out, err = execRoot(t, "--format", "json", "list", broken)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeLoad, resp.Error.Code)
}
