package eval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/nbcell/internal/cell"
	"github.com/roach88/nbcell/internal/display"
	"github.com/roach88/nbcell/internal/parse"
	"github.com/roach88/nbcell/internal/session"
)

// Engine is the sequential, stateful cell evaluation driver.
//
// Commands from one cell execute strictly in classification order; the
// first failing command stops all later commands in that cell. The engine
// mutates the session (imports, declarations, implicit bindings) and is
// therefore subject to the session's serialization requirement: one
// evaluation in flight at a time.
type Engine struct {
	sess session.Session
}

// New creates an Engine bound to a session.
func New(sess session.Session) *Engine {
	return &Engine{sess: sess}
}

// Evaluate runs one cell of raw text under the given execution counter and
// returns its aggregated, display-ready record sequence.
//
// Evaluate never returns an error: every per-command failure becomes one
// HTML error record in the result, and earlier successful records are
// returned alongside it. A whitespace-only cell yields an empty result
// with no session mutation and no counter rebinding.
func (e *Engine) Evaluate(ctx context.Context, count int, text string) []display.Record {
	blocks := parse.Segment(text)
	cmds := parse.JoinDeclarations(parse.Classify(blocks))
	if len(cmds) == 0 {
		return nil
	}

	// Snapshot this cell's final implicit value under a counter-qualified
	// name so later cells can refer back to it.
	cmds = append(cmds, cell.Statement{
		Source: fmt.Sprintf("it%d := it", count),
	})

	slog.Debug("evaluating cell", "count", count, "commands", len(cmds))

	var records []display.Record
	for _, cmd := range cmds {
		out, ok := e.evalCommand(ctx, cmd)
		records = append(records, out...)
		if !ok {
			slog.Debug("cell stopped at failing command",
				"count", count,
				"command", fmt.Sprintf("%T", cmd),
			)
			break
		}
	}

	return display.Aggregate(records)
}

// evalCommand evaluates one command and reports whether the cell should
// continue. Failure output, when any, is already in the returned records.
func (e *Engine) evalCommand(ctx context.Context, cmd cell.Command) ([]display.Record, bool) {
	switch c := cmd.(type) {
	case cell.Import:
		return e.evalImport(ctx, c)
	case cell.Directive:
		return e.evalDirective(ctx, c)
	case cell.Declaration:
		return e.evalDeclaration(ctx, c)
	case cell.Statement:
		return e.evalStatement(ctx, c)
	case cell.ParseError:
		return []display.Record{e.errorRecord(c.String())}, false
	default:
		panic(fmt.Sprintf("eval: unknown command type %T", cmd))
	}
}

func (e *Engine) evalImport(ctx context.Context, c cell.Import) ([]display.Record, bool) {
	imp, err := e.sess.ParseImport(c.Spec)
	if err != nil {
		return []display.Record{e.errorRecord(err.Error())}, false
	}
	if err := e.sess.AddImport(ctx, imp); err != nil {
		return []display.Record{e.errorRecord(err.Error())}, false
	}
	return nil, true
}

func (e *Engine) evalDirective(ctx context.Context, c cell.Directive) ([]display.Record, bool) {
	typ, err := e.sess.TypeOf(ctx, c.Argument)
	if err != nil {
		return []display.Record{e.errorRecord(err.Error())}, false
	}
	rec := display.FormatTypeInfo(c.Argument, typ, e.sess.Options())
	return []display.Record{rec}, true
}

func (e *Engine) evalDeclaration(ctx context.Context, c cell.Declaration) ([]display.Record, bool) {
	if err := e.sess.RegisterDeclaration(ctx, c.Source); err != nil {
		return []display.Record{e.errorRecord(err.Error())}, false
	}
	return nil, true
}

// evalStatement runs one statement under output capture. The captured
// stdout bytes become exactly one PlainText record, possibly empty.
func (e *Engine) evalStatement(ctx context.Context, c cell.Statement) ([]display.Record, bool) {
	scope, err := openCapture(e.sess)
	if err != nil {
		return []display.Record{e.errorRecord(err.Error())}, false
	}

	res := e.sess.RunStatement(ctx, c.Source)

	// The restore sequence runs on every exit path, before any error
	// record is produced.
	captured, restoreErr := scope.restore()

	switch res.Outcome {
	case session.RunOK:
		if restoreErr != nil {
			return []display.Record{e.errorRecord(restoreErr.Error())}, false
		}
		return []display.Record{display.Text(captured)}, true

	case session.RunException:
		if restoreErr != nil {
			slog.Warn("output restore failed after statement exception",
				"statement", c.Source,
				"error", restoreErr,
			)
		}
		scope.restoreImplicit()
		return []display.Record{e.errorRecord(res.Err.Error())}, false

	case session.RunUnsupported:
		panic("eval: session reported an unsupported statement outcome")

	default:
		panic(fmt.Sprintf("eval: unknown run outcome %d", res.Outcome))
	}
}

func (e *Engine) errorRecord(msg string) display.Record {
	return display.FormatError(msg, e.sess.Options())
}
