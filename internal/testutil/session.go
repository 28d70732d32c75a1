// Package testutil provides test doubles for cell evaluation tests,
// chiefly a scripted in-memory Session that records every mutation.
package testutil

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/nbcell/internal/display"
	"github.com/roach88/nbcell/internal/session"
)

// FakeSession is a scripted session.Session for engine and capture tests.
//
// Behavior is overridable per operation; the defaults succeed. Every
// mutation is recorded so tests can assert on exactly what the engine did,
// including the no-mutation property for empty cells.
type FakeSession struct {
	// TypeFn computes the rendered type for :t. Default: "int".
	TypeFn func(expr string) (string, error)
	// DeclFn validates a declaration registration. Default: accept.
	DeclFn func(src string) error
	// ImportFn validates an import addition. Default: accept.
	ImportFn func(path string) error
	// StmtFn produces the run result for a statement. Default: RunOK.
	StmtFn func(src string) session.RunResult

	// OutputFor maps statement source to bytes "printed" to the session's
	// output binding while that statement runs.
	OutputFor map[string]string

	// Recorded mutations, in order.
	Imports     []string
	Decls       []string
	Stmts       []string
	TypeQueries []string

	out         io.Writer
	implicit    any
	hasImplicit bool
	opts        display.Options
}

// NewFakeSession creates a FakeSession with default display options and
// output discarded.
func NewFakeSession() *FakeSession {
	return &FakeSession{
		out:  io.Discard,
		opts: display.DefaultOptions(),
	}
}

// Mutated reports whether any session state changed.
func (s *FakeSession) Mutated() bool {
	return len(s.Imports)+len(s.Decls)+len(s.Stmts) > 0
}

func (s *FakeSession) ParseImport(text string) (*session.ImportDecl, error) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "import") {
		return nil, fmt.Errorf("parse import: not an import clause: %q", text)
	}
	path := strings.Trim(strings.TrimSpace(strings.TrimPrefix(trimmed, "import")), `"`)
	return &session.ImportDecl{Path: path, Text: text}, nil
}

func (s *FakeSession) AddImport(_ context.Context, imp *session.ImportDecl) error {
	if s.ImportFn != nil {
		if err := s.ImportFn(imp.Path); err != nil {
			return err
		}
	}
	s.Imports = append(s.Imports, imp.Path)
	return nil
}

func (s *FakeSession) RegisterDeclaration(_ context.Context, src string) error {
	if s.DeclFn != nil {
		if err := s.DeclFn(src); err != nil {
			return err
		}
	}
	s.Decls = append(s.Decls, src)
	return nil
}

func (s *FakeSession) RunStatement(_ context.Context, src string) session.RunResult {
	s.Stmts = append(s.Stmts, src)

	if out, ok := s.OutputFor[src]; ok {
		io.WriteString(s.out, out)
	}

	if s.StmtFn != nil {
		res := s.StmtFn(src)
		if res.Outcome == session.RunOK {
			s.BindImplicit(src)
		}
		return res
	}

	s.BindImplicit(src)
	return session.RunResult{Outcome: session.RunOK, BoundNames: []string{"it"}}
}

func (s *FakeSession) TypeOf(_ context.Context, expr string) (string, error) {
	s.TypeQueries = append(s.TypeQueries, expr)
	if s.TypeFn != nil {
		return s.TypeFn(expr)
	}
	return "int", nil
}

func (s *FakeSession) OutputBinding() io.Writer {
	return s.out
}

func (s *FakeSession) RebindOutput(w io.Writer) {
	s.out = w
}

func (s *FakeSession) ImplicitValue() (any, bool) {
	return s.implicit, s.hasImplicit
}

func (s *FakeSession) BindImplicit(v any) {
	s.implicit = v
	s.hasImplicit = true
}

func (s *FakeSession) Options() display.Options {
	return s.opts
}
