package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/suitebridge/internal/store"
)

func TestHistory_Text(t *testing.T) {
	dbPath := seedHistory(t)

	out, err := execRoot(t, "history", "--db", dbPath)
	require.NoError(t, err)

	want := "#  RUN    SUITE    RESULT  PASSED  FAILED  TOTAL\n" +
		"1  run-1  failing  fail    1       2       3\n" +
		"2  run-2  passing  pass    2       0       2\n"
	assert.Equal(t, want, out)
}

func TestHistory_FilterBySuite(t *testing.T) {
	dbPath := seedHistory(t)

	out, err := execRoot(t, "--format", "json", "history", "--db", dbPath, "--suite", "passing")
	require.NoError(t, err)

	var resp struct {
		Status string             `json:"status"`
		Data   []store.RunSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "run-2", resp.Data[0].ID)
}

func TestHistory_Empty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := execRoot(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "No runs recorded.\n", out)
}

func TestHistory_MissingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing.db")

	_, err := execRoot(t, "history", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")
	assert.NoFileExists(t, dbPath)
}
