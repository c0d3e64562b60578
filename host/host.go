// Package host runs adapted suites under the go test framework.
//
// Each test case becomes a subtest named after its entry, so the usual
// -run filters and per-case reporting apply:
//
//	func TestFileUnderTest(t *testing.T) {
//	    host.RunSuite(t, suite.New().
//	        Add("returnsFour", func() { assert.MustStrictEqual(4, f.ReturnsFour()) }))
//	}
package host

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/roach88/suitebridge/assert"
	"github.com/roach88/suitebridge/stub"
	"github.com/roach88/suitebridge/suite"
)

// RunSuite adapts s and runs its cases. An adaptation error fails t
// immediately; no case runs.
func RunSuite(t *testing.T, s *suite.Suite) {
	t.Helper()

	cases, err := suite.Adapt(s)
	if err != nil {
		t.Fatalf("adapt suite: %v", err)
	}
	Run(t, cases)
}

// Run runs each case as a subtest. A failing case fails its own subtest
// only; the remaining cases still run.
func Run(t *testing.T, cases []suite.TestCase) {
	t.Helper()

	for _, c := range cases {
		t.Run(c.Name(), func(t *testing.T) {
			if err := c.Run(); err != nil {
				t.Error(Describe(err))
			}
		})
	}
}

// Describe renders a test failure for a report. Comparison failures get
// both operands and a diff, call verification failures list the recorded
// calls, and panics include their stack.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder

	var cf *assert.ComparisonFailure
	var nm *stub.NoMatchingCallFailure
	var pe *suite.PanicError

	switch {
	case errors.As(err, &cf):
		b.WriteString(cf.Message)
		fmt.Fprintf(&b, "\nexpected: %s\nactual:   %s", cf.Expected, cf.Actual)
		if diff := cf.Diff(); diff != "" {
			fmt.Fprintf(&b, "\ndiff (-expected +actual):\n%s", diff)
		}
	case errors.As(err, &nm):
		b.WriteString(nm.Error())
		if !nm.Empty() {
			b.WriteString("\nrecorded calls:")
			for i, call := range nm.Recorded {
				fmt.Fprintf(&b, "\n  %d. %s", i+1, call)
			}
		}
	case errors.As(err, &pe):
		b.WriteString(pe.Error())
		if len(pe.Stack) > 0 {
			b.WriteString("\n\n")
			b.Write(pe.Stack)
		}
	default:
		b.WriteString(err.Error())
	}

	return b.String()
}
