// Package assert provides the two equality checks available to data-driven
// test suites.
//
// Both checks fail with a *ComparisonFailure that carries the rendered
// message and the text form of each operand, so a reporter can show the
// operands side by side or as a diff:
//
//	if err := assert.StrictEqual(4, underTest.ReturnsFour()); err != nil {
//	    return err
//	}
//
// # Strict and Coercing Equality
//
// StrictEqual compares type and value: int(1) and int64(1) are different,
// and so are 1 and "1". CoercedEqual converts between numbers, numeric
// strings and booleans before comparing, so CoercedEqual(1, "1") and
// CoercedEqual(true, 1) both succeed. See Loose for the full conversion
// rules.
//
// # Panicking Forms
//
// Test bodies with the signature func() cannot return an error. The Must
// forms panic with the *ComparisonFailure instead; suite.TestCase.Run
// recovers the panic and reports it as the test's failure.
package assert
