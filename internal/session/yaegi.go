package session

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strconv"

	"github.com/google/uuid"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/roach88/nbcell/internal/display"
)

// implicitName is the session-global name that always refers to the most
// recently computed statement result.
const implicitName = "it"

// bridgePackage is the import path of the host bridge registered with the
// interpreter. The bridge is how host-computed values (the implicit
// binding) re-enter interpreted code without re-evaluating user
// expressions.
const bridgePackage = "nbrt"

// GoSession is a Session backed by the yaegi Go interpreter.
//
// Cell code is interpreted with the full standard library available.
// Interpreter stdout and stderr both flow through a retargetable writer,
// which is what makes per-statement output capture possible: rebinding
// output swaps the writer's destination, never the interpreter itself.
//
// Not safe for concurrent use.
type GoSession struct {
	id     string
	interp *interp.Interpreter
	out    *switchWriter

	// bridge holds host-side values reachable from interpreted code via
	// nbrt.Get(name).
	bridge map[string]any

	implicit    any
	hasImplicit bool

	opts     display.Options
	stdout   io.Writer
	imports  []string
	preamble []string
}

// Option configures a GoSession at construction.
type Option func(*GoSession)

// WithDisplayOptions sets the rendering options exposed to the formatter.
func WithDisplayOptions(opts display.Options) Option {
	return func(s *GoSession) { s.opts = opts }
}

// WithStdout sets the session's initial standard-output binding.
// Defaults to os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(s *GoSession) { s.stdout = w }
}

// WithImports preloads import paths at session start, before any cell
// runs.
func WithImports(paths ...string) Option {
	return func(s *GoSession) { s.imports = append(s.imports, paths...) }
}

// WithPreamble runs source snippets at session start, after preloaded
// imports. A failing preamble snippet fails session construction.
func WithPreamble(cells ...string) Option {
	return func(s *GoSession) { s.preamble = append(s.preamble, cells...) }
}

// New creates a GoSession with a fresh interpreter, the stdlib loaded,
// the host bridge registered, and the implicit binding predeclared.
func New(opts ...Option) (*GoSession, error) {
	s := &GoSession{
		id:     uuid.Must(uuid.NewV7()).String(),
		bridge: make(map[string]any),
		opts:   display.DefaultOptions(),
		stdout: os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.out = newSwitchWriter(s.stdout)
	s.interp = interp.New(interp.Options{Stdout: s.out, Stderr: s.out})

	if err := s.interp.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("load stdlib symbols: %w", err)
	}
	exports := interp.Exports{
		bridgePackage + "/" + bridgePackage: {
			"Get": reflect.ValueOf(s.bridgeGet),
		},
	}
	if err := s.interp.Use(exports); err != nil {
		return nil, fmt.Errorf("register host bridge: %w", err)
	}

	// The bridge import and the implicit binding must exist before any
	// cell runs: the engine's bookkeeping statements reference both.
	boot := []string{
		fmt.Sprintf("import %q", bridgePackage),
		fmt.Sprintf("var %s interface{}", implicitName),
	}
	for _, path := range s.imports {
		boot = append(boot, fmt.Sprintf("import %q", path))
	}
	boot = append(boot, s.preamble...)

	for _, src := range boot {
		if _, err := s.safeEval(context.Background(), src); err != nil {
			return nil, fmt.Errorf("session bootstrap %q: %w", src, err)
		}
	}

	slog.Info("session started", "id", s.id, "imports", len(s.imports))
	return s, nil
}

// ID returns the session's unique identity, used in logs and capture sink
// names.
func (s *GoSession) ID() string {
	return s.id
}

// ParseImport parses an import clause without touching the interpreter.
// The clause must contain exactly one import spec, so the returned
// ImportDecl fully describes what AddImport will evaluate; grouped
// multi-spec clauses are rejected.
func (s *GoSession) ParseImport(text string) (*ImportDecl, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "import.go", "package cell\n"+text, parser.ImportsOnly)
	if err != nil {
		return nil, fmt.Errorf("parse import: %w", err)
	}
	if len(file.Imports) == 0 {
		return nil, fmt.Errorf("parse import: no import spec in %q", text)
	}
	if len(file.Imports) > 1 {
		return nil, fmt.Errorf("parse import: %d import specs in one clause, use one import per clause", len(file.Imports))
	}
	return importDecl(file.Imports[0], text), nil
}

func importDecl(spec *ast.ImportSpec, text string) *ImportDecl {
	path, err := strconv.Unquote(spec.Path.Value)
	if err != nil {
		path = spec.Path.Value
	}
	alias := ""
	if spec.Name != nil {
		alias = spec.Name.Name
	}
	return &ImportDecl{Alias: alias, Path: path, Text: text}
}

// AddImport adds a parsed import to the interpreter's active context.
func (s *GoSession) AddImport(ctx context.Context, imp *ImportDecl) error {
	if _, err := s.safeEval(ctx, imp.Text); err != nil {
		return fmt.Errorf("import %s: %w", imp.Path, err)
	}
	slog.Debug("import added", "session", s.id, "path", imp.Path)
	return nil
}

// RegisterDeclaration evaluates a top-level declaration, making it part of
// the persistent environment.
func (s *GoSession) RegisterDeclaration(ctx context.Context, src string) error {
	if _, err := s.safeEval(ctx, src); err != nil {
		return err
	}
	return nil
}

// RunStatement runs one executable statement. A completed statement that
// produced a value rebinds the implicit binding to it.
func (s *GoSession) RunStatement(ctx context.Context, src string) RunResult {
	v, err := s.safeEval(ctx, src)
	if err != nil {
		return RunResult{Outcome: RunException, Err: err}
	}

	names := statementBoundNames(src)
	if v.IsValid() && v.CanInterface() {
		s.BindImplicit(v.Interface())
		if len(names) == 0 {
			names = []string{implicitName}
		}
	}
	return RunResult{Outcome: RunOK, BoundNames: names}
}

// TypeOf evaluates an expression and renders its type.
//
// The session is dynamic: the type comes from the computed value, so the
// expression's side effects run. Directive users get the type of what the
// expression actually produced.
func (s *GoSession) TypeOf(ctx context.Context, expr string) (string, error) {
	v, err := s.safeEval(ctx, expr)
	if err != nil {
		return "", err
	}
	if !v.IsValid() {
		return "", fmt.Errorf("expression %q has no type", expr)
	}
	// Unwrap interface-typed values so the directive reports the dynamic
	// type of what was produced, not the variable's declared interface.
	if v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	return v.Type().String(), nil
}

// OutputBinding returns the current standard-output binding.
func (s *GoSession) OutputBinding() io.Writer {
	return s.out.Target()
}

// RebindOutput redirects interpreter stdout and stderr to w.
func (s *GoSession) RebindOutput(w io.Writer) {
	s.out.Retarget(w)
}

// ImplicitValue returns the implicit binding's current value.
func (s *GoSession) ImplicitValue() (any, bool) {
	return s.implicit, s.hasImplicit
}

// BindImplicit rebinds "it", both host-side and inside the interpreter.
// The in-interpreter rebind pulls the value through the host bridge, so
// user expressions are never re-evaluated.
func (s *GoSession) BindImplicit(v any) {
	s.implicit = v
	s.hasImplicit = true
	s.bridge[implicitName] = v
	rebind := fmt.Sprintf("%s = %s.Get(%q)", implicitName, bridgePackage, implicitName)
	if _, err := s.interp.Eval(rebind); err != nil {
		slog.Warn("implicit rebind failed", "session", s.id, "error", err)
	}
}

// Options returns the session's display options.
func (s *GoSession) Options() display.Options {
	return s.opts
}

// bridgeGet is the host bridge exported to interpreted code as nbrt.Get.
func (s *GoSession) bridgeGet(name string) any {
	return s.bridge[name]
}

// safeEval evaluates source in the interpreter, converting panics into
// errors. yaegi panics on some malformed inputs and on runtime faults in
// interpreted code; the session contract reports both as exceptions.
func (s *GoSession) safeEval(ctx context.Context, src string) (v reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			var ok bool
			if err, ok = r.(error); !ok {
				err = fmt.Errorf("%v", r)
			}
		}
	}()
	return s.interp.EvalWithContext(ctx, src)
}

// statementBoundNames extracts the names a statement binds: short variable
// declarations and var statements. Returns nil for plain expressions.
func statementBoundNames(src string) []string {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "stmt.go", "package cell\nfunc _() {\n"+src+"\n}", parser.SkipObjectResolution)
	if err != nil || len(file.Decls) == 0 {
		return nil
	}
	fn, ok := file.Decls[len(file.Decls)-1].(*ast.FuncDecl)
	if !ok || fn.Body == nil {
		return nil
	}

	var names []string
	for _, stmt := range fn.Body.List {
		switch st := stmt.(type) {
		case *ast.AssignStmt:
			if st.Tok != token.DEFINE {
				continue
			}
			for _, lhs := range st.Lhs {
				if ident, ok := lhs.(*ast.Ident); ok && ident.Name != "_" {
					names = append(names, ident.Name)
				}
			}
		case *ast.DeclStmt:
			gen, ok := st.Decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.VAR {
				continue
			}
			for _, spec := range gen.Specs {
				vs, ok := spec.(*ast.ValueSpec)
				if !ok {
					continue
				}
				for _, ident := range vs.Names {
					if ident.Name != "_" {
						names = append(names, ident.Name)
					}
				}
			}
		}
	}
	return names
}
