package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/suitebridge/internal/harness"
)

// RunSummary is one row of run history.
type RunSummary struct {
	ID         string `json:"id"`
	Suite      string `json:"suite"`
	Path       string `json:"path,omitempty"`
	Pass       bool   `json:"pass"`
	Passed     int    `json:"passed"`
	Failed     int    `json:"failed"`
	Total      int    `json:"total"`
	CreatedSeq int64  `json:"created_seq"`
}

// ListRuns returns stored runs oldest first. A non-empty suite restricts
// the list to runs of that suite.
//
// Returns an empty slice (not nil) if nothing is stored.
func (s *Store) ListRuns(ctx context.Context, suite string) ([]RunSummary, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if suite == "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, suite, path, pass, passed, failed, total, created_seq
			FROM runs
			ORDER BY created_seq ASC
		`)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, suite, path, pass, passed, failed, total, created_seq
			FROM runs
			WHERE suite = ?
			ORDER BY created_seq ASC
		`, suite)
	}
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Suite, &r.Path, &r.Pass, &r.Passed, &r.Failed, &r.Total, &r.CreatedSeq); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// ReadRun reconstructs a stored run. Cases and calls come back in seq
// order. Returns an error wrapping sql.ErrNoRows if id is unknown.
func (s *Store) ReadRun(ctx context.Context, id string) (*harness.Result, error) {
	var errorsJSON string
	r := &harness.Result{RunID: id}
	err := s.db.QueryRowContext(ctx, `
		SELECT suite, path, pass, passed, failed, total, errors
		FROM runs
		WHERE id = ?
	`, id).Scan(&r.Suite, &r.Path, &r.Pass, &r.Passed, &r.Failed, &r.Total, &errorsJSON)
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(errorsJSON), &r.Errors); err != nil {
		return nil, fmt.Errorf("read run %s: unmarshal errors: %w", id, err)
	}
	if len(r.Errors) == 0 {
		r.Errors = nil
	}

	if r.Cases, err = s.readCases(ctx, id); err != nil {
		return nil, err
	}
	if r.Calls, err = s.readCalls(ctx, id); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Store) readCases(ctx context.Context, runID string) ([]harness.CaseResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, name, pass, kind, message, expected, actual
		FROM case_results
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query case results: %w", err)
	}
	defer rows.Close()

	cases := []harness.CaseResult{}
	for rows.Next() {
		var c harness.CaseResult
		if err := rows.Scan(&c.Seq, &c.Name, &c.Pass, &c.Kind, &c.Message, &c.Expected, &c.Actual); err != nil {
			return nil, fmt.Errorf("scan case result: %w", err)
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate case results: %w", err)
	}

	return cases, nil
}

func (s *Store) readCalls(ctx context.Context, runID string) ([]harness.CallEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, case_name, stub, name, args
		FROM stub_calls
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query stub calls: %w", err)
	}
	defer rows.Close()

	calls := []harness.CallEvent{}
	for rows.Next() {
		var (
			c        harness.CallEvent
			argsJSON string
		)
		if err := rows.Scan(&c.Seq, &c.Case, &c.Stub, &c.Name, &argsJSON); err != nil {
			return nil, fmt.Errorf("scan stub call: %w", err)
		}
		if c.Args, err = unmarshalArgs(argsJSON); err != nil {
			return nil, err
		}
		calls = append(calls, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stub calls: %w", err)
	}

	return calls, nil
}

// unmarshalArgs parses canonical JSON TEXT back into call arguments.
// Numbers decode through json.Number: integral values become int64, the
// rest float64, matching how suite files normalize numbers.
func unmarshalArgs(data string) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()

	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("unmarshal args: %w", err)
	}

	args := make([]any, len(raw))
	for i, v := range raw {
		args[i] = fromJSON(v)
	}
	return args, nil
}

func fromJSON(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		f, _ := x.Float64()
		return f
	case []any:
		for i, item := range x {
			x[i] = fromJSON(item)
		}
		return x
	case map[string]any:
		for k, item := range x {
			x[k] = fromJSON(item)
		}
		return x
	}
	return v
}
