package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot is the part of a Result a golden file pins. The run ID and
// path vary between runs and machines, so they are left out.
type Snapshot struct {
	Suite  string       `json:"suite"`
	Pass   bool         `json:"pass"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Total  int          `json:"total"`
	Cases  []CaseResult `json:"cases"`
	Calls  []CallEvent  `json:"calls"`
	Errors []string     `json:"errors,omitempty"`
}

// NewSnapshot builds the snapshot of r.
func NewSnapshot(r *Result) Snapshot {
	return Snapshot{
		Suite:  r.Suite,
		Pass:   r.Pass,
		Passed: r.Passed,
		Failed: r.Failed,
		Total:  r.Total,
		Cases:  r.Cases,
		Calls:  r.Calls,
		Errors: r.Errors,
	}
}

// MarshalSnapshot returns the canonical JSON golden files hold for r.
func MarshalSnapshot(r *Result) ([]byte, error) {
	return MarshalCanonical(NewSnapshot(r))
}

// AssertGolden compares r's snapshot with testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, name string, r *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(r)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}

// GoldenPath returns where the golden file for a suite file lives: a
// golden directory next to it, named after the file without extension.
func GoldenPath(suiteFile string) string {
	base := filepath.Base(suiteFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(suiteFile), "golden", name+".golden")
}

// UpdateGolden writes r's snapshot to path, creating its directory.
func UpdateGolden(path string, r *Result) error {
	data, err := MarshalSnapshot(r)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// CompareGolden reports whether r's snapshot matches the file at path.
// A missing file is an error wrapping os.ErrNotExist.
func CompareGolden(path string, r *Result) (bool, error) {
	want, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	got, err := MarshalSnapshot(r)
	if err != nil {
		return false, err
	}
	return bytes.Equal(want, got), nil
}
