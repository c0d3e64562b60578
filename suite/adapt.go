package suite

import (
	"errors"
	"fmt"
	"reflect"
	"runtime/debug"
)

var (
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
	errNilFunc = errors.New("body is a nil func")
)

// TestCase is an adapted, individually runnable test.
// It is immutable once created.
type TestCase struct {
	name string
	run  func() error
}

// Name returns the entry name the case was adapted from.
func (c TestCase) Name() string {
	return c.name
}

// Run invokes the body. A returned error is passed through; a panic is
// recovered and returned as an error. Panic values that are errors, such
// as assertion failures, are returned unchanged; anything else becomes a
// *PanicError.
func (c TestCase) Run() (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if e, ok := r.(error); ok {
			err = e
			return
		}
		err = &PanicError{Value: r, Stack: debug.Stack()}
	}()

	return c.run()
}

// Adapt converts the own entries of s into test cases, in order.
// It stops at the first entry with an empty name or a body that is not
// callable and returns an *AdaptationError for it.
func Adapt(s *Suite) ([]TestCase, error) {
	if s == nil {
		return []TestCase{}, nil
	}

	cases := make([]TestCase, 0, len(s.entries))
	for i, e := range s.entries {
		if e.Name == "" {
			return nil, &AdaptationError{Index: i, Name: e.Name, Reason: "empty test name"}
		}
		run, err := bind(e.Body)
		if err != nil {
			return nil, &AdaptationError{Index: i, Name: e.Name, Reason: err.Error()}
		}
		cases = append(cases, TestCase{name: e.Name, run: run})
	}
	return cases, nil
}

// Tests builds a suite from entries and adapts it.
func Tests(entries ...Entry) ([]TestCase, error) {
	s := New()
	for _, e := range entries {
		s.Add(e.Name, e.Body)
	}
	return Adapt(s)
}

// bind accepts func(), func() error, and named func types of those shapes.
func bind(body any) (func() error, error) {
	switch fn := body.(type) {
	case nil:
		return nil, errors.New("body is nil")
	case func():
		if fn == nil {
			return nil, errNilFunc
		}
		return func() error { fn(); return nil }, nil
	case func() error:
		if fn == nil {
			return nil, errNilFunc
		}
		return fn, nil
	}

	rv := reflect.ValueOf(body)
	rt := rv.Type()
	if rt.Kind() != reflect.Func {
		return nil, fmt.Errorf("body of type %s is not callable", rt)
	}
	if rv.IsNil() {
		return nil, errNilFunc
	}
	if rt.NumIn() != 0 || rt.NumOut() > 1 || (rt.NumOut() == 1 && rt.Out(0) != errorType) {
		return nil, fmt.Errorf("body of type %s must take no arguments and return nothing or error", rt)
	}

	return func() error {
		out := rv.Call(nil)
		if len(out) == 0 || out[0].IsNil() {
			return nil
		}
		return out[0].Interface().(error)
	}, nil
}
