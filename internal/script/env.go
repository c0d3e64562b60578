package script

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/roach88/suitebridge/assert"
	"github.com/roach88/suitebridge/stub"
	"github.com/roach88/suitebridge/suite"
)

// Env is the state shared by the tests of one loaded suite: variables,
// stubs, the fixture registry and the suite itself for run steps.
type Env struct {
	vars     map[string]any
	stubs    map[string]*stub.Stub
	registry Registry
	suite    *suite.Suite
	logger   *slog.Logger
	output   io.Writer
	rand     io.Reader
}

// Var returns a variable's current value.
func (e *Env) Var(name string) (any, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// SetVar assigns a variable.
func (e *Env) SetVar(name string, v any) {
	e.vars[name] = v
}

// Stub returns a declared stub.
func (e *Env) Stub(name string) (*stub.Stub, error) {
	s, ok := e.stubs[name]
	if !ok {
		return nil, fmt.Errorf("stub %q is not declared", name)
	}
	return s, nil
}

// StubNames returns the declared stub names, sorted.
func (e *Env) StubNames() []string {
	names := make([]string, 0, len(e.stubs))
	for name := range e.stubs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Logger returns the logger log steps write to.
func (e *Env) Logger() *slog.Logger {
	return e.logger
}

// Rand returns the randomness source for fixtures.
func (e *Env) Rand() io.Reader {
	return e.rand
}

// resolve substitutes variable references inside v.
func (e *Env) resolve(v any) (any, error) {
	switch x := v.(type) {
	case string:
		switch {
		case strings.HasPrefix(x, "$$"):
			return x[1:], nil
		case x == "$undefined":
			return assert.Undefined, nil
		case strings.HasPrefix(x, "$") && len(x) > 1:
			val, ok := e.vars[x[1:]]
			if !ok {
				return nil, fmt.Errorf("undefined variable %q", x[1:])
			}
			return val, nil
		}
		return x, nil
	case []any:
		return e.resolveList(x)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			r, err := e.resolve(item)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	}
	return v, nil
}

func (e *Env) resolveList(list []any) ([]any, error) {
	out := make([]any, len(list))
	for i, item := range list {
		r, err := e.resolve(item)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}
