package stub

import "github.com/roach88/suitebridge/assert"

// Matcher decides whether recorded arguments satisfy expected ones.
// Both slices have the same length when a Matcher is called.
type Matcher func(recorded, expected []any) bool

// MatchAnyArg succeeds as soon as one position is loosely equal.
//
// Likely defect, kept for compatibility: positions after the first equal one
// are never looked at, and empty argument lists never match. See the package
// documentation.
func MatchAnyArg(recorded, expected []any) bool {
	for i := range expected {
		if assert.Loose(recorded[i], expected[i]) {
			return true
		}
	}
	return false
}

// MatchAllArgs succeeds when every position is loosely equal.
func MatchAllArgs(recorded, expected []any) bool {
	for i := range expected {
		if !assert.Loose(recorded[i], expected[i]) {
			return false
		}
	}
	return true
}
