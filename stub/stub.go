package stub

import (
	"strings"

	"github.com/roach88/suitebridge/assert"
)

// MaxArgs is the number of leading argument positions a call record keeps.
const MaxArgs = 6

// CallRecord is one observed invocation on a Stub.
type CallRecord struct {
	Name string
	Args []any
}

// String renders the record as name(arg,arg).
func (r CallRecord) String() string {
	return signature(r.Name, r.Args)
}

// Expectation describes the call AssertCalled looks for.
type Expectation struct {
	Name string
	Args []any
}

// String renders the expectation as name(arg,arg).
func (e Expectation) String() string {
	return signature(e.Name, e.Args)
}

func signature(name string, args []any) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = assert.String(arg)
	}
	return name + "(" + strings.Join(parts, ",") + ")"
}

// Option configures a Stub.
type Option func(*Stub)

// WithMatcher replaces the default MatchAnyArg policy.
func WithMatcher(m Matcher) Option {
	return func(s *Stub) {
		s.matcher = m
	}
}

// Stub records calls made on it.
type Stub struct {
	calls   []CallRecord
	matcher Matcher
}

// New creates a stub with an empty call log.
func New(opts ...Option) *Stub {
	s := &Stub{matcher: MatchAnyArg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Call records an invocation of the named method.
func (s *Stub) Call(name string, args ...any) {
	if len(args) > MaxArgs {
		args = args[:MaxArgs]
	}

	kept := make([]any, 0, len(args))
	for _, arg := range args {
		if assert.IsUndefined(arg) {
			continue
		}
		kept = append(kept, arg)
	}

	s.calls = append(s.calls, CallRecord{Name: name, Args: kept})
}

// CallBundle records an invocation whose arguments arrive as one slice.
// The record is identical to the one Call produces for the same values.
func (s *Stub) CallBundle(name string, args []any) {
	s.Call(name, args...)
}

// Method returns a function that records calls under name.
func (s *Stub) Method(name string) func(args ...any) {
	return func(args ...any) {
		s.Call(name, args...)
	}
}

// Calls returns a copy of the call log in call order.
func (s *Stub) Calls() []CallRecord {
	out := make([]CallRecord, len(s.calls))
	for i, c := range s.calls {
		out[i] = CallRecord{Name: c.Name, Args: append([]any(nil), c.Args...)}
	}
	return out
}

// Len returns the number of recorded calls.
func (s *Stub) Len() int {
	return len(s.calls)
}

// Reset clears the call log.
func (s *Stub) Reset() {
	s.calls = nil
}

// AssertCalled returns nil if the log holds a call matching exp under the
// stub's matching policy, otherwise a *NoMatchingCallFailure.
//
// A recorded call is a candidate only when its name equals exp.Name and it
// has exactly len(exp.Args) arguments; the Matcher decides the rest.
func (s *Stub) AssertCalled(exp Expectation) error {
	if len(s.calls) == 0 {
		return &NoMatchingCallFailure{Expected: exp}
	}

	for _, call := range s.calls {
		if call.Name != exp.Name || len(call.Args) != len(exp.Args) {
			continue
		}
		if s.matcher(call.Args, exp.Args) {
			return nil
		}
	}

	return &NoMatchingCallFailure{Expected: exp, Recorded: s.Calls()}
}

// MustAssertCalled panics with the failure from AssertCalled.
func (s *Stub) MustAssertCalled(exp Expectation) {
	if err := s.AssertCalled(exp); err != nil {
		panic(err)
	}
}
