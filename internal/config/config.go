// Package config loads kernel configuration from CUE files.
//
// A kernel config declares rendering options and session bootstrap for the
// notebook process:
//
//	kernel: {
//		errorColor: "red"
//		typeColor:  "green"
//		imports: ["fmt", "strings"]
//		preamble: ["const answer = 42"]
//	}
//
// Every field is optional; Default() is the zero-config kernel.
package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/nbcell/internal/display"
)

// Kernel holds validated kernel configuration.
type Kernel struct {
	ErrorColor string   `json:"errorColor"`
	TypeColor  string   `json:"typeColor"`
	Imports    []string `json:"imports"`
	Preamble   []string `json:"preamble"`
}

// Default returns the stock kernel configuration.
func Default() *Kernel {
	opts := display.DefaultOptions()
	return &Kernel{
		ErrorColor: opts.ErrorColor,
		TypeColor:  opts.TypeColor,
	}
}

// DisplayOptions maps the kernel's rendering fields onto display options.
func (k *Kernel) DisplayOptions() display.Options {
	return display.Options{
		ErrorColor: k.ErrorColor,
		TypeColor:  k.TypeColor,
	}
}

// ConfigError reports an invalid kernel config with CUE position info when
// available.
type ConfigError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *ConfigError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads and validates a kernel config file.
func Load(path string) (*Kernel, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(src, path)
}

// Parse compiles CUE source into a Kernel. Unset fields keep their
// defaults; an absent "kernel" struct yields the default kernel.
func Parse(src []byte, filename string) (*Kernel, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	kernel := Default()

	kv := v.LookupPath(cue.ParsePath("kernel"))
	if !kv.Exists() {
		return kernel, nil
	}
	if err := kv.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	if err := decodeString(kv, "errorColor", &kernel.ErrorColor); err != nil {
		return nil, err
	}
	if err := decodeString(kv, "typeColor", &kernel.TypeColor); err != nil {
		return nil, err
	}
	if err := decodeStrings(kv, "imports", &kernel.Imports); err != nil {
		return nil, err
	}
	if err := decodeStrings(kv, "preamble", &kernel.Preamble); err != nil {
		return nil, err
	}

	if kernel.ErrorColor == "" || kernel.TypeColor == "" {
		return nil, &ConfigError{
			Field:   "kernel",
			Message: "colors must be non-empty",
			Pos:     kv.Pos(),
		}
	}

	return kernel, nil
}

func decodeString(v cue.Value, field string, dst *string) error {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil
	}
	s, err := fv.String()
	if err != nil {
		return &ConfigError{Field: field, Message: "must be a string", Pos: fv.Pos()}
	}
	*dst = s
	return nil
}

func decodeStrings(v cue.Value, field string, dst *[]string) error {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil
	}
	iter, err := fv.List()
	if err != nil {
		return &ConfigError{Field: field, Message: "must be a list of strings", Pos: fv.Pos()}
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return &ConfigError{Field: field, Message: "must be a list of strings", Pos: iter.Value().Pos()}
		}
		out = append(out, s)
	}
	*dst = out
	return nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &ConfigError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return &ConfigError{Field: "cue", Message: first.Error()}
}
