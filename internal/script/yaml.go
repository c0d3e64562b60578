package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type yamlFile struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Load        []string       `yaml:"load"`
	Stubs       []string       `yaml:"stubs"`
	Vars        map[string]any `yaml:"vars"`
	Tests       yaml.Node      `yaml:"tests"`
}

func decodeYAML(path string, data []byte) (*File, error) {
	var raw yamlFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, &LoadError{Path: path, Code: ErrCodeParse, Message: fmt.Sprintf("failed to parse YAML: %v", err)}
	}

	f := &File{
		Name:        raw.Name,
		Description: raw.Description,
		Load:        raw.Load,
		Stubs:       raw.Stubs,
	}
	if vars, ok := normalize(raw.Vars).(map[string]any); ok {
		f.Vars = vars
	}

	tests, err := yamlTests(path, &raw.Tests)
	if err != nil {
		return nil, err
	}
	f.Tests = tests
	return f, nil
}

// yamlTests walks the tests mapping node so declaration order survives.
func yamlTests(path string, node *yaml.Node) ([]Test, error) {
	if node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null") {
		return []Test{}, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, &LoadError{Path: path, Line: node.Line, Code: ErrCodeParse, Message: "tests must be a mapping of test name to steps"}
	}

	tests := make([]Test, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, &LoadError{Path: path, Line: key.Line, Code: ErrCodeParse, Message: "test name must be a scalar"}
		}

		test := Test{Name: key.Value, Line: key.Line, Steps: []Step{}}
		switch {
		case value.Kind == yaml.ScalarNode && value.Tag == "!!null":
		case value.Kind != yaml.SequenceNode:
			return nil, &LoadError{Path: path, Line: value.Line, Code: ErrCodeParse, Message: fmt.Sprintf("test %q: steps must be a list", key.Value)}
		default:
			for _, stepNode := range value.Content {
				var raw map[string]any
				if err := stepNode.Decode(&raw); err != nil {
					return nil, &LoadError{Path: path, Line: stepNode.Line, Code: ErrCodeInvalidStep, Message: fmt.Sprintf("test %q: %v", key.Value, err)}
				}
				step, err := parseStep(raw, stepNode.Line)
				if err != nil {
					return nil, &LoadError{Path: path, Line: stepNode.Line, Code: ErrCodeInvalidStep, Message: fmt.Sprintf("test %q: %v", key.Value, err)}
				}
				test.Steps = append(test.Steps, step)
			}
		}
		tests = append(tests, test)
	}
	return tests, nil
}
