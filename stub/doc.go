// Package stub provides a call-recording stand-in for collaborators.
//
// A Stub records every call made on it, whatever the method name, and lets
// a test verify afterwards that a matching call happened. It never returns
// values; it only records.
//
// # Recording
//
// Stub.Call is the single recording entry point: it takes the method name
// explicitly, so any method can be recorded without declaring it. Typed
// collaborators forward to it from a thin adapter:
//
//	type collaborator struct{ *stub.Stub }
//
//	func (c collaborator) ImportantFunction(a, b string) {
//	    c.Call("importantFunction", a, b)
//	}
//
// Only the first MaxArgs argument positions are kept, and positions holding
// assert.Undefined are dropped. Stub.CallBundle records a call whose
// arguments arrive as one slice and produces the same record as Call.
//
// # Verification and the Partial-Match Policy
//
// Stub.AssertCalled looks for a recorded call with the expected name and
// the same number of arguments. With the default MatchAnyArg policy such a
// call matches as soon as ANY ONE argument position is loosely equal; the
// other positions are not checked. An expectation of ("hello", "world") is
// therefore satisfied by a recorded ("hello", "args"), and an expectation
// with no arguments is never satisfied, because there is no position to
// compare.
//
// This policy is kept for compatibility with existing suites but is most
// likely a defect: it reads like an early return inside the position loop
// rather than an intended rule. Suites that want every argument checked
// should construct the stub with WithMatcher(MatchAllArgs).
//
// A Stub is not safe for concurrent use. Create one per test.
package stub
