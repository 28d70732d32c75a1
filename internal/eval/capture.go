package eval

import (
	"fmt"
	"io"
	"os"

	"github.com/roach88/nbcell/internal/session"
)

// captureScope is the scoped redirect of a session's standard output into
// a private sink for the duration of exactly one statement.
//
// The sink is a short-lived temp file, named uniquely per statement; the
// name is never exposed to callers. The scope also snapshots the implicit
// binding so a failed statement cannot clobber the user's "it".
//
// restore must run on every exit path, success or exception, before any
// error record is produced.
type captureScope struct {
	sess session.Session
	prev io.Writer
	sink *os.File

	prevImplicit any
	hadImplicit  bool

	restored bool
}

// openCapture creates the private sink, remembers the current output
// binding and implicit value, and rebinds the session's output.
func openCapture(sess session.Session) (*captureScope, error) {
	sink, err := os.CreateTemp("", "nbcell-capture-*.out")
	if err != nil {
		return nil, fmt.Errorf("create capture sink: %w", err)
	}

	c := &captureScope{
		sess: sess,
		prev: sess.OutputBinding(),
		sink: sink,
	}
	c.prevImplicit, c.hadImplicit = sess.ImplicitValue()

	sess.RebindOutput(sink)
	return c, nil
}

// restore rebinds the previous output, tears the sink down, and returns
// everything the statement wrote to it. Idempotent: a second call returns
// empty content.
//
// The content is read back in full after the sink is closed; the file is
// never held open lazily, since a subsequent statement may create a sink
// immediately after.
func (c *captureScope) restore() (string, error) {
	if c.restored {
		return "", nil
	}
	c.restored = true

	c.sess.RebindOutput(c.prev)

	path := c.sink.Name()
	if err := c.sink.Sync(); err != nil {
		c.sink.Close()
		os.Remove(path)
		return "", fmt.Errorf("flush capture sink: %w", err)
	}
	if err := c.sink.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close capture sink: %w", err)
	}

	content, err := os.ReadFile(path)
	os.Remove(path)
	if err != nil {
		return "", fmt.Errorf("read capture sink: %w", err)
	}
	return string(content), nil
}

// restoreImplicit puts the pre-statement implicit binding back. Called on
// the exception path so bookkeeping around a failed statement leaves the
// user's "it" untouched.
func (c *captureScope) restoreImplicit() {
	if c.hadImplicit {
		c.sess.BindImplicit(c.prevImplicit)
	}
}
