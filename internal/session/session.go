package session

import (
	"context"
	"io"

	"github.com/roach88/nbcell/internal/display"
)

// RunOutcome categorizes the result of running one statement.
type RunOutcome int

const (
	// RunOK: the statement completed; BoundNames lists what it bound.
	RunOK RunOutcome = iota
	// RunException: the statement raised; Err carries the failure.
	RunException
	// RunUnsupported: a result kind this evaluation mode cannot handle
	// (e.g. a debugger breakpoint). Never expected here; the engine treats
	// it as a fatal contract violation.
	RunUnsupported
)

// RunResult is the structured outcome of one statement execution.
type RunResult struct {
	Outcome    RunOutcome
	BoundNames []string
	Err        error
}

// ImportDecl is a parsed import clause, ready to be added to the session's
// active import context.
type ImportDecl struct {
	Alias string // "" for the default package name; "." and "_" as written
	Path  string // unquoted import path
	Text  string // original clause text, evaluated verbatim
}

// Session is the capability interface the evaluation engine consumes.
//
// All blocking operations take a context; there is no cancellation of a
// statement already executing inside the interpreter beyond what the
// implementation honors.
type Session interface {
	// ParseImport parses an import clause without registering it.
	ParseImport(text string) (*ImportDecl, error)

	// AddImport adds a parsed import to the active import context.
	AddImport(ctx context.Context, imp *ImportDecl) error

	// RegisterDeclaration registers a top-level declaration in the
	// persistent environment.
	RegisterDeclaration(ctx context.Context, src string) error

	// RunStatement runs a single executable statement. Failures are
	// reported in the RunResult, never raised.
	RunStatement(ctx context.Context, src string) RunResult

	// TypeOf computes the type of an expression, rendered for display.
	TypeOf(ctx context.Context, expr string) (string, error)

	// OutputBinding returns the current standard-output binding.
	OutputBinding() io.Writer

	// RebindOutput redirects the session's standard output to w.
	RebindOutput(w io.Writer)

	// ImplicitValue returns the current value of the implicit binding and
	// whether one has been bound at all.
	ImplicitValue() (any, bool)

	// BindImplicit rebinds the implicit binding to v.
	BindImplicit(v any)

	// Options returns the session's display options, used only for
	// rendering.
	Options() display.Options
}
