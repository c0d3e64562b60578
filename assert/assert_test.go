package assert

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrictEqual_Succeeds(t *testing.T) {
	for _, v := range []any{nil, 0, "x", true, 2.5, []string{"a"}} {
		require.NoError(t, StrictEqual(v, v))
	}
}

func TestStrictEqual_FailureCarriesBothOperands(t *testing.T) {
	err := StrictEqual(4, 5)
	require.Error(t, err)

	var failure *ComparisonFailure
	require.True(t, errors.As(err, &failure))
	require.Equal(t, "Expected <4> but was <5>", failure.Message)
	require.Equal(t, "4", failure.Expected)
	require.Equal(t, "5", failure.Actual)
	require.Equal(t, failure.Message, err.Error())
}

func TestStrictEqual_NoCoercion(t *testing.T) {
	err := StrictEqual(1, "1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "<1>")

	failure := err.(*ComparisonFailure)
	require.Empty(t, failure.Diff(), "operands render identically")
}

func TestCoercedEqual(t *testing.T) {
	require.NoError(t, CoercedEqual(1, "1"))
	require.NoError(t, CoercedEqual("2", 2.0))

	err := CoercedEqual("hello", "world")
	require.Error(t, err)
	require.Equal(t, "Expected <hello> but was <world>", err.Error())
}

func TestIntegerEquals_IsStrict(t *testing.T) {
	require.NoError(t, IntegerEquals(4, 4))
	require.Error(t, IntegerEquals(4, "4"))
}

func TestComparisonFailure_Diff(t *testing.T) {
	err := StrictEqual("line one\nline two", "line one\nline 2")
	failure := err.(*ComparisonFailure)

	diff := failure.Diff()
	require.Contains(t, diff, "line two")
	require.Contains(t, diff, "line 2")
}

func TestMustStrictEqual_Panics(t *testing.T) {
	require.NotPanics(t, func() { MustStrictEqual("a", "a") })

	defer func() {
		r := recover()
		require.NotNil(t, r)
		failure, ok := r.(*ComparisonFailure)
		require.True(t, ok)
		require.Equal(t, "Expected <a> but was <b>", failure.Message)
	}()
	MustStrictEqual("a", "b")
}

func TestMustCoercedEqual_Panics(t *testing.T) {
	require.NotPanics(t, func() { MustCoercedEqual(0, "") })
	require.Panics(t, func() { MustCoercedEqual(0, "zero") })
}
