// Package eval drives cell evaluation: it runs classified commands in
// order against a session, captures statement output, threads the implicit
// binding and the execution counter, and stops a cell at its first failing
// command.
//
// The engine-level contract is total: Evaluate never returns an error.
// Every per-command failure is converted into exactly one HTML error
// record in the returned display sequence. The single exception is a
// session reporting an unsupported statement outcome, which is a contract
// violation and panics.
package eval
