package cell

import "fmt"

// Command is one independently meaningful unit carved out of a cell's text.
//
// Command is sealed: the marker method restricts implementations to this
// package, so consumers can type-switch exhaustively over the five variants.
//
// Command values are created per evaluation call and consumed once; they
// never outlive the processing of a single cell.
type Command interface {
	isCommand()
}

// Directive is a meta-instruction line, interpreted by the evaluation core
// itself rather than handed to the session as code.
//
// The only recognized directive is "t" (show the static type of an
// expression): a line of the form ":t expr".
type Directive struct {
	Name     string // directive name without the marker, e.g. "t"
	Argument string // remaining text after the name, trimmed
}

// Import is the raw text of an import clause, e.g. `import "fmt"`.
// The text is passed to the session verbatim; no further parsing happens
// at classification time.
type Import struct {
	Spec string
}

// Declaration is the pretty-printed text of one top-level declaration unit
// (func, type, var, const - including a type joined with its methods).
type Declaration struct {
	Source string
}

// Statement is the pretty-printed text of a single executable statement.
type Statement struct {
	Source string
}

// ParseError records a block that matched no grammar.
//
// Line and Column are 1-based and best-effort: both are 0 when the failure
// has no precise location (e.g. an unrecognized directive).
type ParseError struct {
	Line    int
	Column  int
	Message string
}

func (Directive) isCommand()   {}
func (Import) isCommand()      {}
func (Declaration) isCommand() {}
func (Statement) isCommand()   {}
func (ParseError) isCommand()  {}

// String renders a ParseError the way it is shown to the user.
func (e ParseError) String() string {
	return fmt.Sprintf("Error (line %d, column %d): %s", e.Line, e.Column, e.Message)
}
