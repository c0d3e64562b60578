// Package harness runs adapted suites outside of go test.
//
// A run executes test cases in order, one at a time. Every case runs
// through suite.TestCase.Run, so a failing or panicking case never stops
// its siblings. Each outcome becomes a CaseResult classified by Kind:
//
//   - comparison_failure: an equality assertion failed
//   - no_matching_call: a stub verification failed
//   - panic: the body panicked with a non-error value
//   - error: any other error the body returned
//
// RunFile loads a data-file suite through internal/script and also records
// every call its stubs received as CallEvents, attributed to the case that
// made them.
//
// # Deterministic Output
//
// Sequence numbers come from testutil.DeterministicClock, so the same suite
// produces the same seqs on every run. Run IDs come from an IDGenerator:
// UUIDv7Generator in production, testutil.FixedIDGenerator in tests.
//
// Golden snapshots drop the run ID and serialize the rest as RFC 8785
// canonical JSON, so a snapshot only changes when behavior does:
//
//	result, err := harness.RunFile(ctx, "suites/collaborator.yaml", harness.Options{})
//	if err != nil {
//	    return err
//	}
//	ok, err := harness.CompareGolden(harness.GoldenPath(result.Path), result)
package harness
