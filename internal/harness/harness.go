package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/roach88/suitebridge/assert"
	"github.com/roach88/suitebridge/internal/script"
	"github.com/roach88/suitebridge/internal/testutil"
	"github.com/roach88/suitebridge/stub"
	"github.com/roach88/suitebridge/suite"
)

// IDGenerator produces run IDs.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run IDs.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Options configures a run. The zero value is usable.
type Options struct {
	// Logger receives case and suite events; nil discards them.
	Logger *slog.Logger

	// IDs generates the run ID; nil means UUIDv7Generator.
	IDs IDGenerator

	// Clock hands out seqs; nil means a fresh clock per run.
	Clock *testutil.DeterministicClock

	// Registry, Matcher, Rand and Output are passed to script.Load by
	// RunFile.
	Registry script.Registry
	Matcher  stub.Matcher
	Rand     io.Reader
	Output   io.Writer
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.IDs == nil {
		o.IDs = UUIDv7Generator{}
	}
	if o.Clock == nil {
		o.Clock = testutil.NewDeterministicClock()
	}
	return o
}

// Run executes cases in order and collects their outcomes.
//
// A cancelled ctx stops the run before the next case; the cases already
// run are kept and the interruption is recorded in Errors.
func Run(ctx context.Context, name string, cases []suite.TestCase, opts Options) *Result {
	opts = opts.withDefaults()
	return execute(ctx, name, cases, opts, nil)
}

// RunFile loads the suite file at path, runs its cases and records the
// calls its stubs received.
func RunFile(ctx context.Context, path string, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	prog, err := script.Load(path, script.Options{
		Registry: opts.Registry,
		Matcher:  opts.Matcher,
		Logger:   opts.Logger,
		Rand:     opts.Rand,
		Output:   opts.Output,
	})
	if err != nil {
		return nil, err
	}

	cases, err := prog.Cases()
	if err != nil {
		return nil, fmt.Errorf("failed to adapt %s: %w", path, err)
	}

	seen := make(map[string]int)
	collect := func(r *Result, c suite.TestCase) {
		for _, stubName := range prog.StubNames() {
			calls := prog.Stub(stubName).Calls()
			for _, call := range calls[seen[stubName]:] {
				r.Calls = append(r.Calls, CallEvent{
					Seq:  opts.Clock.Next(),
					Case: c.Name(),
					Stub: stubName,
					Name: call.Name,
					Args: jsonArgs(call.Args),
				})
			}
			seen[stubName] = len(calls)
		}
	}

	result := execute(ctx, prog.Name, cases, opts, collect)
	result.Path = path
	return result, nil
}

func execute(ctx context.Context, name string, cases []suite.TestCase, opts Options, after func(*Result, suite.TestCase)) *Result {
	logger := opts.Logger
	result := NewResult(name, opts.IDs.Generate())

	for i, c := range cases {
		if err := ctx.Err(); err != nil {
			result.AddError(fmt.Sprintf("run interrupted after %d of %d cases: %v", i, len(cases), err))
			break
		}

		seq := opts.Clock.Next()
		logger.Debug("case started", "suite", name, "case", c.Name(), "seq", seq)

		cr := CaseResult{Seq: seq, Name: c.Name(), Pass: true}
		if err := c.Run(); err != nil {
			cr.Pass = false
			cr.Kind = Classify(err)
			cr.Message = err.Error()
			var cf *assert.ComparisonFailure
			if errors.As(err, &cf) {
				cr.Expected = cf.Expected
				cr.Actual = cf.Actual
			}
			logger.Info("case failed", "suite", name, "case", c.Name(), "seq", seq, "kind", cr.Kind, "error", cr.Message)
		} else {
			logger.Info("case passed", "suite", name, "case", c.Name(), "seq", seq)
		}
		result.AddCase(cr)

		if after != nil {
			after(result, c)
		}
	}

	logger.Info("suite finished",
		"suite", name,
		"passed", result.Passed,
		"failed", result.Failed,
		"total", result.Total,
	)
	return result
}

// Classify returns the failure kind for an error a test case returned.
func Classify(err error) string {
	var cf *assert.ComparisonFailure
	var nm *stub.NoMatchingCallFailure
	var pe *suite.PanicError

	switch {
	case errors.As(err, &cf):
		return KindComparisonFailure
	case errors.As(err, &nm):
		return KindNoMatchingCall
	case errors.As(err, &pe):
		return KindPanic
	default:
		return KindError
	}
}

// jsonArgs converts recorded arguments into values encoding/json can
// represent. Anything else is replaced by its assert.String text.
func jsonArgs(args []any) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		out[i] = jsonValue(arg)
	}
	return out
}

func jsonValue(v any) any {
	switch x := v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return x
	case float32:
		return jsonValue(float64(x))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return assert.String(x)
		}
		return x
	case []any:
		return jsonArgs(x)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = jsonValue(item)
		}
		return out
	}
	return assert.String(v)
}
