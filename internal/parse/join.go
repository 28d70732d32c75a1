package parse

import (
	"strings"

	"github.com/roach88/nbcell/internal/cell"
)

// JoinDeclarations collapses maximal runs of consecutive Declaration
// commands declaring the same name into a single Declaration whose source
// is the newline-joined concatenation of the run, original order
// preserved.
//
// A type declaration and its immediately following methods share a
// declared name (the receiver's base type), so they register as one unit.
// Declarations of different names never join; non-Declaration commands
// pass through untouched and break runs.
func JoinDeclarations(cmds []cell.Command) []cell.Command {
	out := make([]cell.Command, 0, len(cmds))

	for i := 0; i < len(cmds); i++ {
		decl, ok := cmds[i].(cell.Declaration)
		if !ok {
			out = append(out, cmds[i])
			continue
		}

		name := declaredName(decl.Source)
		sources := []string{decl.Source}
		for name != "" && i+1 < len(cmds) {
			next, ok := cmds[i+1].(cell.Declaration)
			if !ok || declaredName(next.Source) != name {
				break
			}
			sources = append(sources, next.Source)
			i++
		}
		out = append(out, cell.Declaration{Source: strings.Join(sources, "\n")})
	}

	return out
}
