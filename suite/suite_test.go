package suite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type check func()

type fallible func() error

func names(cases []TestCase) []string {
	out := make([]string, len(cases))
	for i, c := range cases {
		out[i] = c.Name()
	}
	return out
}

func TestAdapt_PreservesOrderAndBinding(t *testing.T) {
	var ran []string
	s := New().
		Add("a", func() { ran = append(ran, "a") }).
		Add("b", func() { ran = append(ran, "b") })

	cases, err := Adapt(s)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, names(cases))

	require.NoError(t, cases[1].Run())
	require.NoError(t, cases[0].Run())
	assert.Equal(t, []string{"b", "a"}, ran)
}

func TestAdapt_Idempotent(t *testing.T) {
	s := New().Add("x", func() {}).Add("y", func() error { return nil })

	first, err := Adapt(s)
	require.NoError(t, err)
	second, err := Adapt(s)
	require.NoError(t, err)

	assert.Equal(t, names(first), names(second))
}

func TestAdapt_DoesNotRunBodies(t *testing.T) {
	called := false
	_, err := Adapt(New().Add("x", func() { called = true }))

	require.NoError(t, err)
	assert.False(t, called)
}

func TestAdapt_ExcludesInherited(t *testing.T) {
	parent := New().Add("shared", func() {})
	child := parent.Extend().Add("own", func() {})

	cases, err := Adapt(child)
	require.NoError(t, err)
	assert.Equal(t, []string{"own"}, names(cases))

	_, ok := child.Lookup("shared")
	assert.True(t, ok, "inherited entries stay visible to Lookup")
	assert.Same(t, parent, child.Prototype())
}

func TestAdapt_Empty(t *testing.T) {
	cases, err := Adapt(New())
	require.NoError(t, err)
	assert.Empty(t, cases)

	cases, err = Adapt(nil)
	require.NoError(t, err)
	assert.Empty(t, cases)
}

func TestAdapt_DuplicateNames(t *testing.T) {
	s := New().Add("dup", func() {}).Add("dup", func() error { return errors.New("second") })

	cases, err := Adapt(s)
	require.NoError(t, err)
	require.Equal(t, []string{"dup", "dup"}, names(cases))
	assert.NoError(t, cases[0].Run())
	assert.EqualError(t, cases[1].Run(), "second")
}

func TestAdapt_RejectsNonCallable(t *testing.T) {
	s := New().Add("ok", func() {}).Add("bad", 42).Add("later", func() {})

	cases, err := Adapt(s)
	require.Error(t, err)
	assert.Nil(t, cases)

	var adaptErr *AdaptationError
	require.ErrorAs(t, err, &adaptErr)
	assert.Equal(t, 1, adaptErr.Index)
	assert.Equal(t, "bad", adaptErr.Name)
	assert.Contains(t, adaptErr.Reason, "not callable")
}

func TestAdapt_RejectsWrongSignatures(t *testing.T) {
	var nilFunc func()
	bodies := map[string]any{
		"nil":        nil,
		"nil func":   nilFunc,
		"takes args": func(int) {},
		"returns int": func() int {
			return 0
		},
		"two results": func() (int, error) { return 0, nil },
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			_, err := Adapt(New().Add("case", body))
			var adaptErr *AdaptationError
			require.ErrorAs(t, err, &adaptErr)
		})
	}
}

func TestAdapt_RejectsEmptyName(t *testing.T) {
	_, err := Adapt(New().Add("", func() {}))

	var adaptErr *AdaptationError
	require.ErrorAs(t, err, &adaptErr)
	assert.Equal(t, "empty test name", adaptErr.Reason)
}

func TestAdapt_NamedFuncTypes(t *testing.T) {
	ran := 0
	s := New().
		Add("check", check(func() { ran++ })).
		Add("fallible", fallible(func() error { return errors.New("nope") }))

	cases, err := Adapt(s)
	require.NoError(t, err)
	assert.NoError(t, cases[0].Run())
	assert.Equal(t, 1, ran)
	assert.EqualError(t, cases[1].Run(), "nope")
}

func TestTestCase_RecoversErrorPanic(t *testing.T) {
	failure := errors.New("assertion failed")
	cases, err := Tests(Entry{Name: "boom", Body: func() { panic(failure) }})
	require.NoError(t, err)

	assert.Same(t, failure, cases[0].Run())
}

func TestTestCase_WrapsOtherPanics(t *testing.T) {
	cases, err := Tests(Entry{Name: "boom", Body: func() { panic("kaboom") }})
	require.NoError(t, err)

	runErr := cases[0].Run()
	var panicErr *PanicError
	require.ErrorAs(t, runErr, &panicErr)
	assert.Equal(t, "kaboom", panicErr.Value)
	assert.NotEmpty(t, panicErr.Stack)
	assert.Equal(t, "panic: kaboom", runErr.Error())
}

func TestLookup(t *testing.T) {
	parent := New().Add("x", "parent")
	child := parent.Extend().Add("x", "first").Add("x", "second")

	body, ok := child.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "second", body)

	_, ok = child.Lookup("missing")
	assert.False(t, ok)
}

func TestOwn_ReturnsCopy(t *testing.T) {
	s := New().Add("a", 1)
	own := s.Own()
	own[0].Name = "changed"

	assert.Equal(t, "a", s.Own()[0].Name)
	assert.Equal(t, 1, s.Len())
}
