package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/suitebridge/internal/harness"
)

func TestWriteResult_StoresRows(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	inserted, err := s.WriteResult(ctx, createTestResult("run-1", "collaborator"))
	require.NoError(t, err)
	assert.True(t, inserted)

	var cases, calls int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM case_results WHERE run_id = 'run-1'").Scan(&cases))
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM stub_calls WHERE run_id = 'run-1'").Scan(&calls))
	assert.Equal(t, 2, cases)
	assert.Equal(t, 1, calls)
}

func TestWriteResult_ArgsAreCanonicalJSON(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	r := harness.NewResult("canon", "run-1")
	r.Calls = append(r.Calls, harness.CallEvent{
		Seq:  1,
		Case: "c",
		Stub: "s",
		Name: "f",
		Args: []any{map[string]any{"b": 2.0, "a": "<x>"}},
	})
	_, err := s.WriteResult(ctx, r)
	require.NoError(t, err)

	var args string
	require.NoError(t, s.db.QueryRow("SELECT args FROM stub_calls WHERE run_id = 'run-1'").Scan(&args))
	assert.Equal(t, `[{"a":"<x>","b":2}]`, args)
}

func TestWriteResult_DuplicateRunIgnored(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.WriteResult(ctx, createTestResult("run-1", "first"))
	require.NoError(t, err)

	inserted, err := s.WriteResult(ctx, createTestResult("run-1", "second"))
	require.NoError(t, err)
	assert.False(t, inserted)

	stored, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "first", stored.Suite)
	assert.Len(t, stored.Cases, 2)
}

func TestWriteResult_AssignsCreatedSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"run-b", "run-a", "run-c"} {
		_, err := s.WriteResult(ctx, createTestResult(id, "suite"))
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, "")
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-b", runs[0].ID)
	assert.Equal(t, int64(1), runs[0].CreatedSeq)
	assert.Equal(t, "run-a", runs[1].ID)
	assert.Equal(t, int64(2), runs[1].CreatedSeq)
	assert.Equal(t, "run-c", runs[2].ID)
	assert.Equal(t, int64(3), runs[2].CreatedSeq)
}

func TestWriteResult_RejectsEmptyRunID(t *testing.T) {
	s := createTestStore(t)

	_, err := s.WriteResult(context.Background(), harness.NewResult("s", ""))
	require.Error(t, err)
}

func TestWriteResult_DuplicateSeqRollsBack(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	r := harness.NewResult("broken", "run-1")
	r.AddCase(harness.CaseResult{Seq: 1, Name: "a", Pass: true})
	r.AddCase(harness.CaseResult{Seq: 1, Name: "b", Pass: true})

	_, err := s.WriteResult(ctx, r)
	require.Error(t, err)

	runs, err := s.ListRuns(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, runs, "a failed write must not leave a partial run")
}
