package stub

import (
	"strings"
)

// NoMatchingCallFailure is returned when verification finds no matching
// call. Recorded holds the whole log at the time of the check.
type NoMatchingCallFailure struct {
	Expected Expectation
	Recorded []CallRecord
}

// Empty reports whether the stub had recorded no calls at all.
func (f *NoMatchingCallFailure) Empty() bool {
	return len(f.Recorded) == 0
}

// Error implements the error interface.
func (f *NoMatchingCallFailure) Error() string {
	if f.Empty() {
		return "No functions called, expected: " + f.Expected.String()
	}

	had := make([]string, len(f.Recorded))
	for i, call := range f.Recorded {
		had[i] = call.String()
	}
	return "No matching functions called. expected: <" + f.Expected.String() +
		"> but had <" + strings.Join(had, "|") + ">"
}
