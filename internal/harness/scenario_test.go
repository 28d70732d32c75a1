package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nbcell/internal/config"
	"github.com/roach88/nbcell/internal/display"
)

func writeScenario(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

// TestLoadScenario tests parsing a well-formed scenario file.
func TestLoadScenario(t *testing.T) {
	scenario, err := LoadScenario("testdata/error-stops-cell.yaml")
	require.NoError(t, err)

	assert.Equal(t, "error-stops-cell", scenario.Name)
	assert.Equal(t, []string{"fmt"}, scenario.Imports)
	require.Len(t, scenario.Cells, 2)
	require.Len(t, scenario.Cells[0].Expect, 2)
	assert.Equal(t, "text", scenario.Cells[0].Expect[0].Kind)
	assert.Equal(t, "before\n", scenario.Cells[0].Expect[0].Payload)
}

// TestLoadScenario_UnknownField tests that typo'd fields are rejected by
// strict decoding.
func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
cels:
  - source: "x := 1"
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse scenario YAML")
}

// TestLoadScenario_Invalid tests validation failures.
func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "missing name",
			src:     "cells:\n  - source: \"x := 1\"\n",
			wantErr: "name is required",
		},
		{
			name:    "no cells",
			src:     "name: empty\n",
			wantErr: "at least one cell",
		},
		{
			name:    "blank source",
			src:     "name: blank\ncells:\n  - source: \"  \"\n",
			wantErr: "source is required",
		},
		{
			name:    "bad kind",
			src:     "name: kinds\ncells:\n  - source: \"x := 1\"\n    expect:\n      - kind: markdown\n",
			wantErr: "kind must be",
		},
		{
			name:    "payload and contains",
			src:     "name: both\ncells:\n  - source: \"x := 1\"\n    expect:\n      - kind: text\n        payload: a\n        contains: b\n",
			wantErr: "mutually exclusive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestRun_ErrorStopsCell tests the failure-stops-cell scenario end to end
// against a real interpreter session.
func TestRun_ErrorStopsCell(t *testing.T) {
	scenario, err := LoadScenario("testdata/error-stops-cell.yaml")
	require.NoError(t, err)

	result, err := Run(context.Background(), scenario, nil)
	require.NoError(t, err)

	assert.True(t, result.Passed(), "failures: %v", result.Failures)
	require.Len(t, result.Cells, 2)
	require.Len(t, result.Cells[0], 2)
	assert.Equal(t, display.Text("before\n"), result.Cells[0][0])
	assert.Equal(t, display.HTML, result.Cells[0][1].Kind)
}

// TestRun_ExpectationFailure tests that a wrong expectation is reported,
// not fatal.
func TestRun_ExpectationFailure(t *testing.T) {
	scenario := &Scenario{
		Name: "mismatch",
		Cells: []CellStep{
			{
				Source: `x := 1`,
				Expect: []ExpectRecord{{Kind: "text", Payload: "nope"}},
			},
		},
	}

	result, err := Run(context.Background(), scenario, nil)
	require.NoError(t, err)

	assert.False(t, result.Passed())
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "cell 1")
}

// TestRun_KernelImports tests that kernel-configured imports are active
// for scenario cells.
func TestRun_KernelImports(t *testing.T) {
	kernel := config.Default()
	kernel.Imports = []string{"strings"}

	scenario := &Scenario{
		Name: "kernel-imports",
		Cells: []CellStep{
			{
				Source: ":t strings.ToUpper(\"ok\")",
				Expect: []ExpectRecord{{Kind: "html", Contains: ":: string"}},
			},
		},
	}

	result, err := Run(context.Background(), scenario, kernel)
	require.NoError(t, err)
	assert.True(t, result.Passed(), "failures: %v", result.Failures)
}
