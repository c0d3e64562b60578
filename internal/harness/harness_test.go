package harness

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sbassert "github.com/roach88/suitebridge/assert"
	"github.com/roach88/suitebridge/internal/script"
	"github.com/roach88/suitebridge/internal/testutil"
	"github.com/roach88/suitebridge/stub"
	"github.com/roach88/suitebridge/suite"
)

func testOptions() Options {
	return Options{IDs: testutil.NewFixedIDGenerator()}
}

func TestRun_AllPass(t *testing.T) {
	cases, err := suite.Tests(
		suite.Entry{Name: "a", Body: func() {}},
		suite.Entry{Name: "b", Body: func() error { return nil }},
	)
	require.NoError(t, err)

	result := Run(context.Background(), "passing", cases, testOptions())

	assert.True(t, result.Pass)
	assert.Equal(t, "passing", result.Suite)
	assert.Equal(t, testutil.DefaultRunID, result.RunID)
	assert.Equal(t, 2, result.Passed)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 2, result.Total)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Calls)
	require.Len(t, result.Cases, 2)
	assert.Equal(t, CaseResult{Seq: 1, Name: "a", Pass: true}, result.Cases[0])
	assert.Equal(t, CaseResult{Seq: 2, Name: "b", Pass: true}, result.Cases[1])
}

func TestRun_ClassifiesFailures(t *testing.T) {
	cases, err := suite.Tests(
		suite.Entry{Name: "comparison", Body: func() error { return sbassert.StrictEqual(1, "1") }},
		suite.Entry{Name: "calls", Body: func() error {
			return stub.New().AssertCalled(stub.Expectation{Name: "foo"})
		}},
		suite.Entry{Name: "panic", Body: func() { panic("boom") }},
		suite.Entry{Name: "error", Body: func() error { return errors.New("disk full") }},
		suite.Entry{Name: "pass", Body: func() {}},
	)
	require.NoError(t, err)

	result := Run(context.Background(), "mixed", cases, testOptions())

	assert.False(t, result.Pass)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 4, result.Failed)
	assert.Equal(t, 5, result.Total)

	require.Len(t, result.Cases, 5)
	assert.Equal(t, KindComparisonFailure, result.Cases[0].Kind)
	assert.Equal(t, "Expected <1> but was <1>", result.Cases[0].Message)
	assert.Equal(t, "1", result.Cases[0].Expected)
	assert.Equal(t, "1", result.Cases[0].Actual)

	assert.Equal(t, KindNoMatchingCall, result.Cases[1].Kind)
	assert.Equal(t, "No functions called, expected: foo()", result.Cases[1].Message)

	assert.Equal(t, KindPanic, result.Cases[2].Kind)
	assert.Equal(t, "panic: boom", result.Cases[2].Message)

	assert.Equal(t, KindError, result.Cases[3].Kind)
	assert.Equal(t, "disk full", result.Cases[3].Message)

	assert.True(t, result.Cases[4].Pass, "a failing sibling must not stop later cases")
	assert.Len(t, result.FailedCases(), 4)
}

func TestRun_ErrorPanicKeepsItsKind(t *testing.T) {
	cases, err := suite.Tests(suite.Entry{Name: "must", Body: func() {
		sbassert.MustStrictEqual(4, 5)
	}})
	require.NoError(t, err)

	result := Run(context.Background(), "must", cases, testOptions())

	require.Len(t, result.Cases, 1)
	assert.Equal(t, KindComparisonFailure, result.Cases[0].Kind)
	assert.Equal(t, "Expected <4> but was <5>", result.Cases[0].Message)
}

func TestRun_Empty(t *testing.T) {
	result := Run(context.Background(), "empty", nil, testOptions())

	assert.True(t, result.Pass)
	assert.Equal(t, 0, result.Total)
	assert.NotNil(t, result.Cases)
	assert.NotNil(t, result.Calls)
}

func TestRun_StopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ran := 0
	cases, err := suite.Tests(
		suite.Entry{Name: "first", Body: func() { ran++; cancel() }},
		suite.Entry{Name: "second", Body: func() { ran++ }},
	)
	require.NoError(t, err)

	result := Run(ctx, "interrupted", cases, testOptions())

	assert.Equal(t, 1, ran)
	assert.False(t, result.Pass)
	assert.Equal(t, 1, result.Total)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "run interrupted after 1 of 2 cases")
}

func TestRun_SharedClockContinues(t *testing.T) {
	clock := testutil.NewDeterministicClock()
	cases, err := suite.Tests(suite.Entry{Name: "only", Body: func() {}})
	require.NoError(t, err)

	opts := Options{IDs: testutil.NewFixedIDGenerator("run-1", "run-2"), Clock: clock}
	first := Run(context.Background(), "s", cases, opts)
	second := Run(context.Background(), "s", cases, opts)

	assert.Equal(t, "run-1", first.RunID)
	assert.Equal(t, "run-2", second.RunID)
	assert.Equal(t, int64(1), first.Cases[0].Seq)
	assert.Equal(t, int64(2), second.Cases[0].Seq)
}

func TestRun_LogsCaseEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cases, err := suite.Tests(
		suite.Entry{Name: "ok", Body: func() {}},
		suite.Entry{Name: "bad", Body: func() error { return errors.New("nope") }},
	)
	require.NoError(t, err)

	opts := testOptions()
	opts.Logger = logger
	Run(context.Background(), "logged", cases, opts)

	out := buf.String()
	assert.Contains(t, out, `msg="case started"`)
	assert.Contains(t, out, `msg="case passed"`)
	assert.Contains(t, out, `msg="case failed"`)
	assert.Contains(t, out, "kind=error")
	assert.Contains(t, out, `msg="suite finished"`)
	assert.Contains(t, out, "failed=1")
}

func TestRunFile_RecordsCalls(t *testing.T) {
	result, err := RunFile(context.Background(), "testdata/suites/collaborator.yaml", testOptions())
	require.NoError(t, err)

	assert.Equal(t, "collaborator", result.Suite)
	assert.Equal(t, "testdata/suites/collaborator.yaml", result.Path)
	assert.Equal(t, 2, result.Passed)
	assert.Equal(t, 2, result.Failed)

	require.Len(t, result.Calls, 2)
	assert.Equal(t, CallEvent{
		Seq:  3,
		Case: "callsCollaborator",
		Stub: "collaborator",
		Name: "importantFunction",
		Args: []any{"hello", "world"},
	}, result.Calls[0])
	assert.Equal(t, "wrongArguments", result.Calls[1].Case)
	assert.Equal(t, []any{"wrong", "args"}, result.Calls[1].Args)
}

func TestRunFile_StrictMatcher(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "partial.yaml", `
name: partial
stubs: [collaborator]
tests:
  onePositionMatches:
    - invoke: { stub: collaborator, method: importantFunction, args: [hello, world] }
    - assert_called: { stub: collaborator, method: importantFunction, args: [hello, args] }
`)

	loose, err := RunFile(context.Background(), path, testOptions())
	require.NoError(t, err)
	assert.True(t, loose.Pass)

	opts := testOptions()
	opts.Matcher = stub.MatchAllArgs
	strict, err := RunFile(context.Background(), path, opts)
	require.NoError(t, err)
	assert.False(t, strict.Pass)
	assert.Equal(t, KindNoMatchingCall, strict.Cases[0].Kind)
}

func TestRunFile_LoadError(t *testing.T) {
	_, err := RunFile(context.Background(), "testdata/suites/missing.yaml", testOptions())
	require.Error(t, err)
}

func TestRunFile_RunCycleFailsToLoad(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "cycle.yaml", `name: cycle
tests:
  first:
    - assert_strict: [1, 1]
  loops:
    - run: loops
  last:
    - assert_strict: [2, 2]
`)

	result, err := RunFile(context.Background(), path, testOptions())

	assert.Nil(t, result)
	var loadErr *script.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, script.ErrCodeRunCycle, loadErr.Code)
	assert.Equal(t, 6, loadErr.Line)
}

func TestJSONArgs_ReplacesUnencodableValues(t *testing.T) {
	type point struct{ X, Y int }

	got := jsonArgs([]any{
		math.NaN(),
		math.Inf(-1),
		float32(1.5),
		point{1, 2},
		[]any{math.Inf(1), "x"},
		map[string]any{"k": math.NaN()},
		nil,
	})

	assert.Equal(t, []any{
		"NaN",
		"-Infinity",
		1.5,
		"{1 2}",
		[]any{"Infinity", "x"},
		map[string]any{"k": "NaN"},
		nil,
	}, got)
}

func TestClassify_Wrapped(t *testing.T) {
	err := sbassert.StrictEqual("a", "b")
	wrapped := errors.Join(errors.New("context"), err)

	assert.Equal(t, KindComparisonFailure, Classify(wrapped))
	assert.Equal(t, KindPanic, Classify(&suite.PanicError{Value: 1}))
	assert.Equal(t, KindError, Classify(errors.New("x")))
}

func TestUUIDv7Generator_Unique(t *testing.T) {
	gen := UUIDv7Generator{}
	a, b := gen.Generate(), gen.Generate()

	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
