package script

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"reflect"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/suitebridge/assert"
)

// Fixture is Go code a suite file can call through an eval step.
type Fixture func(env *Env, args []any) (any, error)

// Registry maps fixture names to fixtures.
type Registry map[string]Fixture

// maxRandomBytes caps random_hex so a typo cannot exhaust memory.
const maxRandomBytes = 1024

// DefaultRegistry returns a fresh registry with the built-in fixtures.
func DefaultRegistry() Registry {
	return Registry{
		"returns_four":             returnsFour,
		"does_something_important": doesSomethingImportant,
		"concat":                   concat,
		"len":                      length,
		"upper":                    upper,
		"sha256":                   sha256Hex,
		"random_hex":               randomHex,
	}
}

// Merge returns a registry holding r's fixtures overlaid with other's.
func (r Registry) Merge(other Registry) Registry {
	out := make(Registry, len(r)+len(other))
	for name, fn := range r {
		out[name] = fn
	}
	for name, fn := range other {
		out[name] = fn
	}
	return out
}

func wantArgs(args []any, n int) error {
	if len(args) != n {
		return fmt.Errorf("want %d argument(s), got %d", n, len(args))
	}
	return nil
}

func returnsFour(_ *Env, args []any) (any, error) {
	if err := wantArgs(args, 0); err != nil {
		return nil, err
	}
	return int64(4), nil
}

// doesSomethingImportant calls the collaborator the way the code under
// test in the classic example suite does.
func doesSomethingImportant(env *Env, args []any) (any, error) {
	if err := wantArgs(args, 0); err != nil {
		return nil, err
	}
	collaborator, err := env.Stub("collaborator")
	if err != nil {
		return nil, err
	}
	collaborator.Call("importantFunction", "hello", "world")
	return nil, nil
}

func concat(_ *Env, args []any) (any, error) {
	var b strings.Builder
	for _, arg := range args {
		b.WriteString(assert.String(arg))
	}
	return b.String(), nil
}

func length(_ *Env, args []any) (any, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	if s, ok := args[0].(string); ok {
		return int64(utf8.RuneCountInString(s)), nil
	}
	rv := reflect.ValueOf(args[0])
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return int64(rv.Len()), nil
	}
	return nil, fmt.Errorf("cannot take length of %T", args[0])
}

func upper(_ *Env, args []any) (any, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	return cases.Upper(language.Und).String(assert.String(args[0])), nil
}

func sha256Hex(_ *Env, args []any) (any, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	sum := sha256.Sum256([]byte(assert.String(args[0])))
	return hex.EncodeToString(sum[:]), nil
}

func randomHex(env *Env, args []any) (any, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	n, ok := integer(args[0])
	if !ok || n < 0 || n > maxRandomBytes {
		return nil, fmt.Errorf("byte count must be an integer in [0, %d], got %v", maxRandomBytes, assert.String(args[0]))
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(env.Rand(), buf); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func integer(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			return int64(x), true
		}
	}
	return 0, false
}
