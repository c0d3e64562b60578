package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/suitebridge/internal/harness"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestResult builds a result with one passing case, one failing case
// and one recorded call.
func createTestResult(runID, suite string) *harness.Result {
	r := harness.NewResult(suite, runID)
	r.Path = "suites/" + suite + ".yaml"
	r.AddCase(harness.CaseResult{Seq: 1, Name: "callsCollaborator", Pass: true})
	r.Calls = append(r.Calls, harness.CallEvent{
		Seq:  2,
		Case: "callsCollaborator",
		Stub: "collaborator",
		Name: "importantFunction",
		Args: []any{"hello", int64(2), 1.5, nil, []any{true}},
	})
	r.AddCase(harness.CaseResult{
		Seq:      3,
		Name:     "strictMismatch",
		Kind:     harness.KindComparisonFailure,
		Message:  "Expected <1> but was <1>",
		Expected: "1",
		Actual:   "1",
	})
	return r
}
