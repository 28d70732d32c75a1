// Package session defines the persistent interactive evaluation context
// that cell commands run against, and its concrete implementation backed
// by the yaegi Go interpreter.
//
// A Session accumulates imports, declarations and bindings for the
// lifetime of the notebook process. It also owns the implicit binding:
// the interpreter variable "it" always refers to the most recently computed
// statement result, and the engine snapshots it under counter-qualified
// names ("itN") so later cells can refer back to any cell's result.
//
// Sessions are NOT safe for concurrent mutation. Callers must serialize
// cell evaluations against a given session; one evaluation is in flight at
// a time.
package session
