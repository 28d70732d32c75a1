// Package harness provides the notebook conformance harness: YAML
// scenario files describing a sequence of cells with expected display
// records, executed against a real interpreter-backed session, with
// optional golden-trace comparison.
package harness

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/nbcell/internal/config"
	"github.com/roach88/nbcell/internal/display"
	"github.com/roach88/nbcell/internal/eval"
	"github.com/roach88/nbcell/internal/session"
)

// Scenario defines one conformance scenario: an ordered notebook of cells
// evaluated against a fresh session.
type Scenario struct {
	// Name uniquely identifies this scenario; it is also the golden file
	// name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Imports are preloaded into the session before any cell runs.
	Imports []string `yaml:"imports,omitempty"`

	// Cells are evaluated in order with execution counters 1, 2, 3...
	// A failing cell does not stop the scenario; later cells still run,
	// matching notebook behavior.
	Cells []CellStep `yaml:"cells"`
}

// CellStep is one cell of source text with optional expectations on its
// display records.
type CellStep struct {
	// Source is the raw cell text.
	Source string `yaml:"source"`

	// Expect lists the expected display records, in order. Nil means no
	// validation beyond recording the trace.
	Expect []ExpectRecord `yaml:"expect,omitempty"`
}

// ExpectRecord matches one display record. Set Payload for an exact match
// or Contains for a substring match, not both.
type ExpectRecord struct {
	Kind     string `yaml:"kind"` // "text" or "html"
	Payload  string `yaml:"payload,omitempty"`
	Contains string `yaml:"contains,omitempty"`
}

// Result is the trace of one scenario run.
type Result struct {
	Scenario string             `json:"scenario"`
	Cells    [][]display.Record `json:"cells"`
	Failures []string           `json:"failures,omitempty"`
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// LoadScenario reads and parses a scenario YAML file with strict field
// validation, rejecting unknown fields (typos).
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Cells) == 0 {
		return fmt.Errorf("at least one cell is required")
	}
	for i, c := range s.Cells {
		if strings.TrimSpace(c.Source) == "" {
			return fmt.Errorf("cell %d: source is required", i+1)
		}
		for j, e := range c.Expect {
			if e.Kind != "text" && e.Kind != "html" {
				return fmt.Errorf("cell %d expect %d: kind must be \"text\" or \"html\"", i+1, j+1)
			}
			if e.Payload != "" && e.Contains != "" {
				return fmt.Errorf("cell %d expect %d: payload and contains are mutually exclusive", i+1, j+1)
			}
		}
	}
	return nil
}

// Run evaluates a scenario against a fresh interpreter session and checks
// its expectations. The kernel config, when non-nil, supplies display
// options and session bootstrap.
func Run(ctx context.Context, scenario *Scenario, kernel *config.Kernel) (*Result, error) {
	if kernel == nil {
		kernel = config.Default()
	}

	sess, err := session.New(
		session.WithDisplayOptions(kernel.DisplayOptions()),
		session.WithImports(kernel.Imports...),
		session.WithImports(scenario.Imports...),
		session.WithPreamble(kernel.Preamble...),
	)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: create session: %w", scenario.Name, err)
	}

	engine := eval.New(sess)
	result := &Result{Scenario: scenario.Name}

	for i, step := range scenario.Cells {
		records := engine.Evaluate(ctx, i+1, step.Source)
		result.Cells = append(result.Cells, records)
		checkExpectations(result, i+1, step, records)
	}

	return result, nil
}

// checkExpectations appends one failure line per mismatched expectation.
func checkExpectations(result *Result, cellNum int, step CellStep, records []display.Record) {
	if step.Expect == nil {
		return
	}

	if len(records) != len(step.Expect) {
		result.Failures = append(result.Failures, fmt.Sprintf(
			"cell %d: expected %d records, got %d", cellNum, len(step.Expect), len(records)))
		return
	}

	for j, want := range step.Expect {
		got := records[j]
		if got.Kind.String() != want.Kind {
			result.Failures = append(result.Failures, fmt.Sprintf(
				"cell %d record %d: expected kind %s, got %s", cellNum, j+1, want.Kind, got.Kind))
			continue
		}
		switch {
		case want.Contains != "":
			if !strings.Contains(got.Payload, want.Contains) {
				result.Failures = append(result.Failures, fmt.Sprintf(
					"cell %d record %d: payload %q does not contain %q", cellNum, j+1, got.Payload, want.Contains))
			}
		default:
			if got.Payload != want.Payload {
				result.Failures = append(result.Failures, fmt.Sprintf(
					"cell %d record %d: expected payload %q, got %q", cellNum, j+1, want.Payload, got.Payload))
			}
		}
	}
}
