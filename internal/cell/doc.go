// Package cell provides the command data model for notebook cell evaluation.
//
// This package contains type definitions only. All other internal packages
// import cell; cell imports nothing internal. This keeps the command model
// the foundational layer with no circular dependencies.
//
// A raw cell of source text is carved by internal/parse into an ordered
// sequence of Commands. Exactly one variant is active per value:
//
//	switch c := cmd.(type) {
//	case cell.Directive:   // meta-instruction (":t expr")
//	case cell.Import:      // raw import clause
//	case cell.Declaration: // top-level decl text
//	case cell.Statement:   // single executable statement
//	case cell.ParseError:  // block matched no grammar
//	}
//
// Command is a sealed interface using the marker method pattern: only types
// in this package implement it, so evaluation can use exhaustive type
// switches safely.
package cell
