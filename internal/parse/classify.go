package parse

import (
	"fmt"
	"strings"

	"github.com/roach88/nbcell/internal/cell"
)

// Classify converts each block into one or more typed commands using the
// grammar cascade: directive check, import check, declaration grammar,
// statement grammar. A block matching none becomes a single ParseError
// carrying the most relevant failure.
func Classify(blocks []string) []cell.Command {
	var cmds []cell.Command
	for _, block := range blocks {
		cmds = append(cmds, classifyBlock(block)...)
	}
	return cmds
}

func classifyBlock(block string) []cell.Command {
	trimmed := strings.TrimSpace(block)

	if isDirectiveLine(trimmed) {
		return []cell.Command{classifyDirective(trimmed)}
	}

	if isImportLine(trimmed) {
		return []cell.Command{cell.Import{Spec: trimmed}}
	}

	decls, declFset, declFail := parseDecls(block)
	if declFail == nil && len(decls) == 0 {
		// Comment-only block: the grammar accepts it but there is nothing
		// to evaluate. Same treatment as whitespace.
		return nil
	}
	if declFail == nil && len(decls) > 0 {
		cmds := make([]cell.Command, 0, len(decls))
		for _, d := range decls {
			cmds = append(cmds, cell.Declaration{Source: printNode(declFset, d)})
		}
		return cmds
	}

	stmts, stmtFset, stmtFail := parseStmts(block)
	if stmtFail == nil && len(stmts) == 0 {
		return nil
	}
	if stmtFail == nil && len(stmts) > 0 {
		cmds := make([]cell.Command, 0, len(stmts))
		for _, s := range stmts {
			cmds = append(cmds, cell.Statement{Source: printNode(stmtFset, s)})
		}
		return cmds
	}

	// Neither grammar matched. Prefer the declaration failure when the
	// block's shape looks declaration-like, otherwise the statement one.
	fail := stmtFail
	if looksDeclarationLike(block) && declFail != nil {
		fail = declFail
	}
	if fail == nil {
		fail = &failure{message: "empty block"}
	}
	return []cell.Command{cell.ParseError{
		Line:    fail.line,
		Column:  fail.column,
		Message: fail.message,
	}}
}

// classifyDirective parses a marker-prefixed line. Exactly one directive
// is recognized: ":t expr" (show the type of an expression). Anything else
// is a ParseError naming the unknown directive, with no location.
func classifyDirective(trimmed string) cell.Command {
	body := trimmed[1:]
	name, arg, _ := strings.Cut(body, " ")
	arg = strings.TrimSpace(arg)

	if name == "t" && arg != "" {
		return cell.Directive{Name: "t", Argument: arg}
	}
	return cell.ParseError{
		Line:    0,
		Column:  0,
		Message: fmt.Sprintf("Unknown directive: %q", trimmed),
	}
}
