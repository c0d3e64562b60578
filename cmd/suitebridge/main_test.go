package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/suitebridge/internal/testutil"
)

func TestRun_ExitCodes(t *testing.T) {
	dir := t.TempDir()
	passing := testutil.WriteFile(t, dir, "passing.yaml", "tests:\n  same:\n    - assert_strict: [1, 1]\n")
	failing := testutil.WriteFile(t, dir, "failing.yaml", "tests:\n  differ:\n    - assert_strict: [1, \"1\"]\n")

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"pass", []string{"run", passing}, 0, ""},
		{"case_failure", []string{"run", failing}, 1, "Error: 1 case(s) failed\n"},
		{"missing_path", []string{"run", filepath.Join(dir, "missing")}, 2, "failed to find suites"},
		{"bad_format", []string{"--format", "xml", "list", dir}, 2, "invalid format"},
		{"unknown_command", []string{"frobnicate"}, 1, "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			code := run(tt.args, &stdout, &stderr)

			assert.Equal(t, tt.wantCode, code)
			if tt.wantErr == "" {
				assert.Empty(t, stderr.String())
			} else {
				assert.Contains(t, stderr.String(), tt.wantErr)
			}
		})
	}
}
