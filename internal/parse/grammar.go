package parse

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/scanner"
	"go/token"
	"strings"
)

// failure records where and why a parse attempt failed, with positions
// already translated back into cell coordinates (1-based).
type failure struct {
	line    int
	column  int
	message string
}

// declWrapperLines is the number of synthetic lines prepended to a block
// before a declaration-grammar parse ("package cell").
const declWrapperLines = 1

// stmtWrapperLines is the number of synthetic lines prepended to a block
// before a statement-grammar parse ("package cell" + "func _() {").
const stmtWrapperLines = 2

// parseDecls attempts the full declaration grammar: the block wrapped in a
// package clause, parsed as a file. Returns the declarations and the
// fileset used to print them.
func parseDecls(block string) ([]ast.Decl, *token.FileSet, *failure) {
	src := "package cell\n" + block
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "cell.go", src, parser.SkipObjectResolution)
	if err != nil {
		return nil, nil, toFailure(err, declWrapperLines)
	}
	return file.Decls, fset, nil
}

// parseStmts attempts the statement grammar: the block wrapped in a
// synthetic function body terminated by a trivial return, parsed as a
// file. The synthetic terminator (and anything else past the block's last
// line) is discarded from the result.
func parseStmts(block string) ([]ast.Stmt, *token.FileSet, *failure) {
	src := "package cell\nfunc _() {\n" + block + "\nreturn\n}"
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "cell.go", src, parser.SkipObjectResolution)
	if err != nil {
		return nil, nil, toFailure(err, stmtWrapperLines)
	}

	if len(file.Decls) == 0 {
		return nil, nil, &failure{message: "not a statement sequence"}
	}
	fn, ok := file.Decls[len(file.Decls)-1].(*ast.FuncDecl)
	if !ok || fn.Body == nil {
		return nil, nil, &failure{message: "not a statement sequence"}
	}

	// Statements starting past the block's last source line belong to the
	// synthetic terminator.
	lastBlockLine := stmtWrapperLines + strings.Count(block, "\n") + 1
	var stmts []ast.Stmt
	for _, s := range fn.Body.List {
		if fset.Position(s.Pos()).Line > lastBlockLine {
			break
		}
		stmts = append(stmts, s)
	}
	return stmts, fset, nil
}

// toFailure translates a go/parser error into cell coordinates by undoing
// the wrapper line offset. Positions that fall inside the wrapper itself
// clamp to line 1.
func toFailure(err error, wrapperLines int) *failure {
	var list scanner.ErrorList
	if errors, ok := err.(scanner.ErrorList); ok {
		list = errors
	}
	if len(list) == 0 {
		return &failure{message: err.Error()}
	}
	first := list[0]
	line := first.Pos.Line - wrapperLines
	if line < 1 {
		line = 1
	}
	return &failure{
		line:    line,
		column:  first.Pos.Column,
		message: first.Msg,
	}
}

// printNode pretty-prints a declaration or statement back to canonical
// source text.
func printNode(fset *token.FileSet, node any) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, node); err != nil {
		return ""
	}
	return buf.String()
}

// declaredName computes the name a declaration block declares: the first
// declared identifier, or for a method the receiver's base type name (so a
// type and its methods count as one declaration unit).
//
// Returns "" when the block does not parse as declarations.
func declaredName(declSrc string) string {
	decls, _, fail := parseDecls(declSrc)
	if fail != nil || len(decls) == 0 {
		return ""
	}
	switch d := decls[0].(type) {
	case *ast.FuncDecl:
		if d.Recv != nil && len(d.Recv.List) > 0 {
			return receiverTypeName(d.Recv.List[0].Type)
		}
		return d.Name.Name
	case *ast.GenDecl:
		if len(d.Specs) == 0 {
			return ""
		}
		switch s := d.Specs[0].(type) {
		case *ast.TypeSpec:
			return s.Name.Name
		case *ast.ValueSpec:
			if len(s.Names) > 0 {
				return s.Names[0].Name
			}
		}
	}
	return ""
}

// receiverTypeName unwraps pointers and generic instantiations down to the
// receiver's base type identifier.
func receiverTypeName(expr ast.Expr) string {
	for {
		switch t := expr.(type) {
		case *ast.StarExpr:
			expr = t.X
		case *ast.IndexExpr:
			expr = t.X
		case *ast.IndexListExpr:
			expr = t.X
		case *ast.Ident:
			return t.Name
		default:
			return ""
		}
	}
}

// isBareAnnotation reports whether a block is a bare type annotation: a
// var declaration carrying a type but no initializer, e.g.
// "var f func(int) int". Such a block announces a name whose definition is
// expected to follow.
func isBareAnnotation(block string) bool {
	decls, _, fail := parseDecls(block)
	if fail != nil || len(decls) != 1 {
		return false
	}
	gen, ok := decls[0].(*ast.GenDecl)
	if !ok || gen.Tok != token.VAR || len(gen.Specs) == 0 {
		return false
	}
	for _, spec := range gen.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok || vs.Type == nil || len(vs.Values) > 0 {
			return false
		}
	}
	return true
}

// declKeywords is the fixed set of keywords that make a failed block look
// declaration-shaped, steering the ParseError toward the declaration
// grammar's diagnostic.
var declKeywords = []string{"func", "type", "var", "const"}

// looksDeclarationLike reports whether a block's shape suggests a
// declaration, by leading keyword.
func looksDeclarationLike(block string) bool {
	first := strings.TrimSpace(block)
	if i := strings.IndexAny(first, " \t\n("); i >= 0 {
		first = first[:i]
	}
	for _, kw := range declKeywords {
		if first == kw {
			return true
		}
	}
	return false
}
