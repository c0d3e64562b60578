package script

import (
	"fmt"
	"math"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Op names a step kind.
type Op string

// Step kinds.
const (
	OpSet                 Op = "set"
	OpEval                Op = "eval"
	OpInvoke              Op = "invoke"
	OpAssertStrict        Op = "assert_strict"
	OpAssertCoerced       Op = "assert_coerced"
	OpAssertIntegerEquals Op = "assert_integer_equals"
	OpAssertCalled        Op = "assert_called"
	OpRun                 Op = "run"
	OpLog                 Op = "log"
)

// Step is one decoded test step. Which fields are set depends on Op.
type Step struct {
	Op   Op
	Line int

	Vars   map[string]any // set
	Fn     string         // eval
	Into   string         // eval
	Stub   string         // invoke, assert_called
	Method string         // invoke, assert_called
	Args   []any          // eval, invoke, assert_called
	Bundle bool           // invoke
	Pair   [2]any         // assert_strict, assert_coerced, assert_integer_equals
	Target string         // run
	Text   any            // log
}

// Test is a named, ordered list of steps.
type Test struct {
	Name  string
	Line  int
	Steps []Step
}

// File is a decoded suite file.
type File struct {
	Path        string
	Name        string
	Description string
	Load        []string
	Stubs       []string
	Vars        map[string]any
	Tests       []Test
}

// ReadFile decodes the suite file at path without resolving its loads.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Code: ErrCodeRead, Message: err.Error()}
	}

	var f *File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		f, err = decodeYAML(path, data)
	case ".cue":
		f, err = decodeCUE(path, data)
	default:
		return nil, &LoadError{Path: path, Code: ErrCodeUnsupported, Message: fmt.Sprintf("unsupported suite extension %q", ext)}
	}
	if err != nil {
		return nil, err
	}

	f.Path = path
	if f.Name == "" {
		base := filepath.Base(path)
		f.Name = strings.TrimPrefix(strings.TrimSuffix(base, filepath.Ext(base)), "_")
	}
	f.Name = norm.NFC.String(f.Name)
	for i := range f.Tests {
		f.Tests[i].Name = norm.NFC.String(f.Tests[i].Name)
	}
	if f.Vars == nil {
		f.Vars = map[string]any{}
	}
	return f, nil
}

// IsSuiteFile reports whether path has a suite file extension.
func IsSuiteFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".cue":
		return true
	}
	return false
}

// parseStep turns a decoded single-key mapping into a Step.
func parseStep(raw map[string]any, line int) (Step, error) {
	if len(raw) != 1 {
		keys := make([]string, 0, len(raw))
		for k := range raw {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return Step{}, fmt.Errorf("step must have exactly one key, got %v", keys)
	}

	var op Op
	var body any
	for k, v := range raw {
		op, body = Op(k), normalize(v)
	}
	step := Step{Op: op, Line: line}

	switch op {
	case OpSet:
		m, ok := body.(map[string]any)
		if !ok {
			return Step{}, fmt.Errorf("set: want a mapping of variables, got %T", body)
		}
		step.Vars = m

	case OpEval:
		m, err := object(op, body, "fn", "args", "into")
		if err != nil {
			return Step{}, err
		}
		if step.Fn, err = stringField(op, m, "fn", true); err != nil {
			return Step{}, err
		}
		if step.Into, err = stringField(op, m, "into", false); err != nil {
			return Step{}, err
		}
		if step.Args, err = listField(op, m, "args"); err != nil {
			return Step{}, err
		}

	case OpInvoke, OpAssertCalled:
		allowed := []string{"stub", "method", "args"}
		if op == OpInvoke {
			allowed = append(allowed, "bundle")
		}
		m, err := object(op, body, allowed...)
		if err != nil {
			return Step{}, err
		}
		if step.Stub, err = stringField(op, m, "stub", true); err != nil {
			return Step{}, err
		}
		if step.Method, err = stringField(op, m, "method", true); err != nil {
			return Step{}, err
		}
		if step.Args, err = listField(op, m, "args"); err != nil {
			return Step{}, err
		}
		if b, ok := m["bundle"]; ok {
			if step.Bundle, ok = b.(bool); !ok {
				return Step{}, fmt.Errorf("%s: bundle must be a bool, got %T", op, b)
			}
		}

	case OpAssertStrict, OpAssertCoerced, OpAssertIntegerEquals:
		list, ok := body.([]any)
		if !ok || len(list) != 2 {
			return Step{}, fmt.Errorf("%s: want [expected, actual]", op)
		}
		step.Pair = [2]any{list[0], list[1]}

	case OpRun:
		name, ok := body.(string)
		if !ok || name == "" {
			return Step{}, fmt.Errorf("run: want a test name")
		}
		step.Target = norm.NFC.String(name)

	case OpLog:
		step.Text = body

	default:
		return Step{}, fmt.Errorf("unknown step kind %q", op)
	}

	return step, nil
}

func object(op Op, body any, allowed ...string) (map[string]any, error) {
	m, ok := body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: want a mapping, got %T", op, body)
	}
	for k := range m {
		known := false
		for _, a := range allowed {
			if k == a {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("%s: unknown field %q", op, k)
		}
	}
	return m, nil
}

func stringField(op Op, m map[string]any, key string, required bool) (string, error) {
	v, ok := m[key]
	if !ok {
		if required {
			return "", fmt.Errorf("%s: %s is required", op, key)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok || (required && s == "") {
		return "", fmt.Errorf("%s: %s must be a non-empty string", op, key)
	}
	return s, nil
}

func listField(op Op, m map[string]any, key string) ([]any, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return []any{}, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: %s must be a list, got %T", op, key, v)
	}
	return list, nil
}

// normalize maps decoder output onto the value set steps work with:
// int64, float64, string, bool, nil, []any and map[string]any.
func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return normalize(uint64(x))
	case uint64:
		if x <= math.MaxInt64 {
			return int64(x)
		}
		return float64(x)
	case float32:
		return float64(x)
	case *big.Int:
		if x.IsInt64() {
			return x.Int64()
		}
		f, _ := new(big.Float).SetInt(x).Float64()
		return f
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	}
	return v
}
