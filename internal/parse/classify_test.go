package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nbcell/internal/cell"
)

// TestClassify_Directive tests that ":t expr" yields a type directive.
func TestClassify_Directive(t *testing.T) {
	cmds := Classify([]string{":t 1+1"})
	require.Len(t, cmds, 1)
	assert.Equal(t, cell.Directive{Name: "t", Argument: "1+1"}, cmds[0])
}

// TestClassify_UnknownDirective tests that an unrecognized marker line
// yields a ParseError naming the directive, with no location.
func TestClassify_UnknownDirective(t *testing.T) {
	cmds := Classify([]string{":bogus"})
	require.Len(t, cmds, 1)

	pe, ok := cmds[0].(cell.ParseError)
	require.True(t, ok)
	assert.Equal(t, 0, pe.Line)
	assert.Equal(t, 0, pe.Column)
	assert.Contains(t, pe.Message, ":bogus")
}

// TestClassify_DirectiveWithoutArgument tests that ":t" alone is not a
// valid directive.
func TestClassify_DirectiveWithoutArgument(t *testing.T) {
	cmds := Classify([]string{":t"})
	require.Len(t, cmds, 1)
	_, ok := cmds[0].(cell.ParseError)
	assert.True(t, ok)
}

// TestClassify_Import tests that import lines pass through untouched.
func TestClassify_Import(t *testing.T) {
	cmds := Classify([]string{`import "fmt"`})
	require.Len(t, cmds, 1)
	assert.Equal(t, cell.Import{Spec: `import "fmt"`}, cmds[0])
}

// TestClassify_Declaration tests that a function declaration is emitted
// pretty-printed.
func TestClassify_Declaration(t *testing.T) {
	cmds := Classify([]string{"func add(a, b int) int {\n\treturn a + b\n}"})
	require.Len(t, cmds, 1)

	decl, ok := cmds[0].(cell.Declaration)
	require.True(t, ok)
	assert.Equal(t, "func add(a, b int) int {\n\treturn a + b\n}", decl.Source)
}

// TestClassify_Statement tests that an executable line becomes one
// Statement with the synthetic terminator discarded.
func TestClassify_Statement(t *testing.T) {
	cmds := Classify([]string{"x := 1"})
	require.Len(t, cmds, 1)
	assert.Equal(t, cell.Statement{Source: "x := 1"}, cmds[0])
}

// TestClassify_MultipleStatementsOneBlock tests that semicolon-separated
// statements split into one command each.
func TestClassify_MultipleStatementsOneBlock(t *testing.T) {
	cmds := Classify([]string{"x := 1; y := x + 1"})
	require.Len(t, cmds, 2)
	assert.Equal(t, cell.Statement{Source: "x := 1"}, cmds[0])
	assert.Equal(t, cell.Statement{Source: "y := x + 1"}, cmds[1])
}

// TestClassify_DeclarationPreferredOverStatement tests cascade order: a
// block valid under both grammars classifies as a declaration.
func TestClassify_DeclarationPreferredOverStatement(t *testing.T) {
	cmds := Classify([]string{"type celsius float64"})
	require.Len(t, cmds, 1)
	_, ok := cmds[0].(cell.Declaration)
	assert.True(t, ok)
}

// TestClassify_ParseErrorPrefersDeclarationFailure tests that a broken
// declaration-shaped block reports the declaration grammar's failure.
func TestClassify_ParseErrorPrefersDeclarationFailure(t *testing.T) {
	cmds := Classify([]string{"func add(a, b int int {"})
	require.Len(t, cmds, 1)

	pe, ok := cmds[0].(cell.ParseError)
	require.True(t, ok)
	assert.Equal(t, 1, pe.Line)
	assert.Greater(t, pe.Column, 0)
	assert.NotEmpty(t, pe.Message)
}

// TestClassify_ParseErrorStatementFailure tests that a non-declaration
// block reports the statement grammar's failure with a cell-relative
// line.
func TestClassify_ParseErrorStatementFailure(t *testing.T) {
	cmds := Classify([]string{"x := (1 +"})
	require.Len(t, cmds, 1)

	pe, ok := cmds[0].(cell.ParseError)
	require.True(t, ok)
	assert.GreaterOrEqual(t, pe.Line, 1)
	assert.NotEmpty(t, pe.Message)
}

// TestClassify_CommentOnlyBlock tests that a block holding only comments
// produces no commands: both grammars accept it, there is nothing to run,
// and it must not surface as an error.
func TestClassify_CommentOnlyBlock(t *testing.T) {
	tests := []struct {
		name  string
		block string
	}{
		{"line comment", "// just a comment"},
		{"block comment", "/* nothing here */"},
		{"several comment lines", "// one\n// two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, Classify([]string{tt.block}))
		})
	}
}
