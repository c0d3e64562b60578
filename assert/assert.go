package assert

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
)

// ComparisonFailure is returned when an equality check fails.
// Expected and Actual hold the operands' text forms (see String) so a
// reporter can render them separately.
type ComparisonFailure struct {
	Message  string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (f *ComparisonFailure) Error() string {
	return f.Message
}

// Diff returns a line diff between the expected and actual text forms,
// empty when they render identically (e.g. 1 and "1" compared strictly).
func (f *ComparisonFailure) Diff() string {
	return cmp.Diff(f.Expected, f.Actual)
}

func newComparisonFailure(expected, actual any) *ComparisonFailure {
	e, a := String(expected), String(actual)
	return &ComparisonFailure{
		Message:  fmt.Sprintf("Expected <%s> but was <%s>", e, a),
		Expected: e,
		Actual:   a,
	}
}

// StrictEqual returns nil if expected and actual are Strict-equal,
// otherwise a *ComparisonFailure.
func StrictEqual(expected, actual any) error {
	if Strict(expected, actual) {
		return nil
	}
	return newComparisonFailure(expected, actual)
}

// CoercedEqual returns nil if expected and actual are Loose-equal,
// otherwise a *ComparisonFailure.
func CoercedEqual(expected, actual any) error {
	if Loose(expected, actual) {
		return nil
	}
	return newComparisonFailure(expected, actual)
}

// IntegerEquals is StrictEqual under the name older suites use.
func IntegerEquals(expected, actual any) error {
	return StrictEqual(expected, actual)
}

// MustStrictEqual panics with the *ComparisonFailure from StrictEqual.
func MustStrictEqual(expected, actual any) {
	if err := StrictEqual(expected, actual); err != nil {
		panic(err)
	}
}

// MustCoercedEqual panics with the *ComparisonFailure from CoercedEqual.
func MustCoercedEqual(expected, actual any) {
	if err := CoercedEqual(expected, actual); err != nil {
		panic(err)
	}
}
