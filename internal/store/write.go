package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/suitebridge/internal/harness"
)

// WriteResult stores a run with its case results and stub calls in one
// transaction. Uses ON CONFLICT(id) DO NOTHING on the run, so writing a
// run ID that is already stored leaves the stored copy untouched and
// reports inserted=false.
func (s *Store) WriteResult(ctx context.Context, r *harness.Result) (inserted bool, err error) {
	if r.RunID == "" {
		return false, errors.New("write result: run id is empty")
	}

	errorsJSON, err := marshalErrors(r.Errors)
	if err != nil {
		return false, fmt.Errorf("write result: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write result: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, suite, path, pass, passed, failed, total, errors, created_seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(created_seq), 0) + 1 FROM runs))
		ON CONFLICT(id) DO NOTHING
	`,
		r.RunID,
		r.Suite,
		r.Path,
		r.Pass,
		r.Passed,
		r.Failed,
		r.Total,
		errorsJSON,
	)
	if err != nil {
		return false, fmt.Errorf("write result: insert run: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write result: rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	for _, c := range r.Cases {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO case_results
			(run_id, seq, name, pass, kind, message, expected, actual)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			r.RunID,
			c.Seq,
			c.Name,
			c.Pass,
			c.Kind,
			c.Message,
			c.Expected,
			c.Actual,
		)
		if err != nil {
			return false, fmt.Errorf("write result: insert case %q: %w", c.Name, err)
		}
	}

	for _, call := range r.Calls {
		argsJSON, err := marshalArgs(call.Args)
		if err != nil {
			return false, fmt.Errorf("write result: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO stub_calls
			(run_id, seq, case_name, stub, name, args)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			r.RunID,
			call.Seq,
			call.Case,
			call.Stub,
			call.Name,
			argsJSON,
		)
		if err != nil {
			return false, fmt.Errorf("write result: insert call seq %d: %w", call.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write result: commit: %w", err)
	}

	return true, nil
}

// marshalArgs converts call arguments to canonical JSON TEXT for storage.
func marshalArgs(args []any) (string, error) {
	if args == nil {
		args = []any{}
	}
	data, err := harness.MarshalCanonical(args)
	if err != nil {
		return "", fmt.Errorf("marshal args: %w", err)
	}
	return string(data), nil
}

func marshalErrors(errs []string) (string, error) {
	if errs == nil {
		errs = []string{}
	}
	data, err := json.Marshal(errs)
	if err != nil {
		return "", fmt.Errorf("marshal errors: %w", err)
	}
	return string(data), nil
}
