// Package store keeps a SQLite history of suite runs.
//
// Three tables hold a run:
//   - runs: one row per run with its counters and run-level errors
//   - case_results: one row per test case outcome
//   - stub_calls: one row per call a stub recorded, args as canonical JSON
//
// Writes are idempotent on the run ID; writing the same run twice keeps
// the first copy. Runs are ordered by created_seq, a counter assigned at
// write time, and cases and calls by their logical seq, so reads never
// depend on wall time.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
