package assert

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined marks an absent value.
// It is distinct from nil: stubs drop argument positions holding Undefined
// but record nil.
var Undefined any = undefined{}

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// Strict reports whether a and b have the same dynamic type and value.
//
// Comparable values use ==, so pointers compare by identity and NaN never
// equals itself. Values that are not comparable (slices, maps, structs
// holding them) fall back to reflect.DeepEqual. nil equals only nil.
func Strict(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if reflect.ValueOf(a).Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

type valueClass int

const (
	classNullish valueClass = iota
	classNumber
	classString
	classBool
	classComposite
)

func classify(v any) valueClass {
	if v == nil || IsUndefined(v) {
		return classNullish
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return classNumber
	case reflect.String:
		return classString
	case reflect.Bool:
		return classBool
	default:
		return classComposite
	}
}

// Loose reports whether a and b are equal after type coercion.
//
// The rules follow the abstract equality of dynamic languages:
//   - nil and Undefined equal each other and nothing else
//   - numbers of any Go numeric kind compare by value (NaN never equal)
//   - a string compared to a number is converted with ToNumber first
//   - a bool is converted to 1 or 0 and the comparison repeated
//   - a composite value compared to a primitive is reduced to String(v)
//   - two composite values use Strict
func Loose(a, b any) bool {
	ca, cb := classify(a), classify(b)

	switch {
	case ca == classNullish || cb == classNullish:
		return ca == cb
	case ca == classNumber && cb == classNumber:
		return toFloat(a) == toFloat(b)
	case ca == classString && cb == classString:
		return reflect.ValueOf(a).String() == reflect.ValueOf(b).String()
	case ca == classBool && cb == classBool:
		return reflect.ValueOf(a).Bool() == reflect.ValueOf(b).Bool()
	case ca == classBool:
		return Loose(boolNumber(a), b)
	case cb == classBool:
		return Loose(a, boolNumber(b))
	case ca == classNumber && cb == classString:
		return toFloat(a) == ToNumber(reflect.ValueOf(b).String())
	case ca == classString && cb == classNumber:
		return ToNumber(reflect.ValueOf(a).String()) == toFloat(b)
	case ca == classComposite && cb == classComposite:
		return Strict(a, b)
	case ca == classComposite:
		return Loose(String(a), b)
	default:
		return Loose(a, String(b))
	}
}

func toFloat(v any) float64 {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint())
	default:
		return rv.Float()
	}
}

func boolNumber(v any) float64 {
	if reflect.ValueOf(v).Bool() {
		return 1
	}
	return 0
}

var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ToNumber converts s the way a numeric string is coerced during loose
// comparison. Surrounding whitespace is ignored, the empty string is 0,
// 0x/0o/0b prefixes select a radix, and anything unparsable is NaN.
func ToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}

	if !decimalLiteral.MatchString(s) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}

// String renders v the way failure messages and call signatures show it.
//
// nil renders as <nil>, Undefined as undefined, numbers in their shortest
// form (NaN, Infinity, -Infinity for the special values), errors and
// fmt.Stringers by their own text, and slices or arrays as their elements
// joined with "," where nil and Undefined elements render empty.
func String(v any) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case undefined:
		return "undefined"
	case string:
		return x
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return formatNumber(rv.Float(), 32)
	case reflect.Float64:
		return formatNumber(rv.Float(), 64)
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			elem := rv.Index(i)
			if elem.Kind() == reflect.Interface && elem.IsNil() {
				continue
			}
			item := elem.Interface()
			if IsUndefined(item) {
				continue
			}
			parts[i] = String(item)
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v)
}

func formatNumber(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, bitSize)
	}
	return strconv.FormatFloat(f, 'g', -1, bitSize)
}
