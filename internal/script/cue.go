package script

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

func decodeCUE(path string, data []byte) (*File, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, &LoadError{Path: path, Code: ErrCodeParse, Message: fmt.Sprintf("failed to compile CUE: %v", err)}
	}

	iter, err := value.Fields()
	if err != nil {
		return nil, &LoadError{Path: path, Code: ErrCodeParse, Message: fmt.Sprintf("suite must be a struct: %v", err)}
	}

	f := &File{Tests: []Test{}}
	for iter.Next() {
		label := iter.Selector().Unquoted()
		field := iter.Value()
		line := field.Pos().Line()

		var decodeErr error
		switch label {
		case "name":
			f.Name, decodeErr = field.String()
		case "description":
			f.Description, decodeErr = field.String()
		case "load":
			decodeErr = field.Decode(&f.Load)
		case "stubs":
			decodeErr = field.Decode(&f.Stubs)
		case "vars":
			var vars map[string]any
			if decodeErr = field.Decode(&vars); decodeErr == nil {
				f.Vars, _ = normalize(vars).(map[string]any)
			}
		case "tests":
			f.Tests, err = cueTests(path, field)
			if err != nil {
				return nil, err
			}
		default:
			return nil, &LoadError{Path: path, Line: line, Code: ErrCodeParse, Message: fmt.Sprintf("unknown field %q", label)}
		}
		if decodeErr != nil {
			return nil, &LoadError{Path: path, Line: line, Code: ErrCodeParse, Message: fmt.Sprintf("%s: %v", label, decodeErr)}
		}
	}
	return f, nil
}

// cueTests iterates the tests struct; Fields yields declaration order.
func cueTests(path string, value cue.Value) ([]Test, error) {
	iter, err := value.Fields()
	if err != nil {
		return nil, &LoadError{Path: path, Line: value.Pos().Line(), Code: ErrCodeParse, Message: "tests must be a struct of test name to steps"}
	}

	var tests []Test
	for iter.Next() {
		name := iter.Selector().Unquoted()
		field := iter.Value()
		line := field.Pos().Line()

		steps, err := field.List()
		if err != nil {
			return nil, &LoadError{Path: path, Line: line, Code: ErrCodeParse, Message: fmt.Sprintf("test %q: steps must be a list: %v", name, err)}
		}

		test := Test{Name: name, Line: line, Steps: []Step{}}
		for i := 1; steps.Next(); i++ {
			elem := steps.Value()
			stepLine := elem.Pos().Line()
			if stepLine == 0 {
				stepLine = line
			}

			var m map[string]any
			if err := elem.Decode(&m); err != nil {
				return nil, &LoadError{Path: path, Line: stepLine, Code: ErrCodeInvalidStep, Message: fmt.Sprintf("test %q: step %d must be a struct", name, i)}
			}
			step, err := parseStep(m, stepLine)
			if err != nil {
				return nil, &LoadError{Path: path, Line: stepLine, Code: ErrCodeInvalidStep, Message: fmt.Sprintf("test %q: %v", name, err)}
			}
			test.Steps = append(test.Steps, step)
		}
		tests = append(tests, test)
	}
	if tests == nil {
		tests = []Test{}
	}
	return tests, nil
}
