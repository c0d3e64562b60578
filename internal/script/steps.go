package script

import (
	"errors"
	"fmt"

	"github.com/roach88/suitebridge/assert"
	"github.com/roach88/suitebridge/stub"
)

// body builds the test body the suite adapter binds for t.
func (e *Env) body(t Test) func() error {
	return func() error {
		for i, step := range t.Steps {
			if err := e.exec(step); err != nil {
				if isFailure(err) {
					return err
				}
				return fmt.Errorf("%s: step %d (%s): %w", t.Name, i+1, step.Op, err)
			}
		}
		return nil
	}
}

// isFailure reports whether err is an assertion outcome rather than a
// broken step. Failures pass through unwrapped so their messages stay
// exactly as the assertion produced them.
func isFailure(err error) bool {
	var cf *assert.ComparisonFailure
	var nm *stub.NoMatchingCallFailure
	return errors.As(err, &cf) || errors.As(err, &nm)
}

func (e *Env) exec(step Step) error {
	switch step.Op {
	case OpSet:
		for name, v := range step.Vars {
			r, err := e.resolve(v)
			if err != nil {
				return err
			}
			e.vars[name] = r
		}
		return nil

	case OpEval:
		fn, ok := e.registry[step.Fn]
		if !ok {
			return fmt.Errorf("unknown fixture %q", step.Fn)
		}
		args, err := e.resolveList(step.Args)
		if err != nil {
			return err
		}
		out, err := fn(e, args)
		if err != nil {
			return fmt.Errorf("%s: %w", step.Fn, err)
		}
		if step.Into != "" {
			e.vars[step.Into] = out
		}
		return nil

	case OpInvoke:
		s, err := e.Stub(step.Stub)
		if err != nil {
			return err
		}
		args, err := e.resolveList(step.Args)
		if err != nil {
			return err
		}
		if step.Bundle {
			s.CallBundle(step.Method, args)
		} else {
			s.Call(step.Method, args...)
		}
		return nil

	case OpAssertStrict, OpAssertCoerced, OpAssertIntegerEquals:
		expected, err := e.resolve(step.Pair[0])
		if err != nil {
			return err
		}
		actual, err := e.resolve(step.Pair[1])
		if err != nil {
			return err
		}
		switch step.Op {
		case OpAssertCoerced:
			return assert.CoercedEqual(expected, actual)
		case OpAssertIntegerEquals:
			return assert.IntegerEquals(expected, actual)
		default:
			return assert.StrictEqual(expected, actual)
		}

	case OpAssertCalled:
		s, err := e.Stub(step.Stub)
		if err != nil {
			return err
		}
		args, err := e.resolveList(step.Args)
		if err != nil {
			return err
		}
		return s.AssertCalled(stub.Expectation{Name: step.Method, Args: args})

	case OpRun:
		body, ok := e.suite.Lookup(step.Target)
		if !ok {
			return fmt.Errorf("no test named %q", step.Target)
		}
		fn, ok := body.(func() error)
		if !ok {
			return fmt.Errorf("test %q is not runnable", step.Target)
		}
		return fn()

	case OpLog:
		text, err := e.resolve(step.Text)
		if err != nil {
			return err
		}
		msg := assert.String(text)
		e.logger.Info(msg, "source", "suite")
		if e.output != nil {
			fmt.Fprintln(e.output, msg)
		}
		return nil
	}

	return fmt.Errorf("unknown step kind %q", step.Op)
}
