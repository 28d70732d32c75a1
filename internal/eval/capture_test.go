package eval

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nbcell/internal/testutil"
)

// TestCapture_RoundTrip tests that bytes written to the rebound output
// come back verbatim and the previous binding returns on restore.
func TestCapture_RoundTrip(t *testing.T) {
	sess := testutil.NewFakeSession()

	scope, err := openCapture(sess)
	require.NoError(t, err)

	_, err = io.WriteString(sess.OutputBinding(), "hello from the cell\n")
	require.NoError(t, err)

	content, err := scope.restore()
	require.NoError(t, err)
	assert.Equal(t, "hello from the cell\n", content)
	assert.Equal(t, io.Discard, sess.OutputBinding())
}

// TestCapture_EmptyScope tests that an untouched scope restores cleanly
// with empty content.
func TestCapture_EmptyScope(t *testing.T) {
	sess := testutil.NewFakeSession()

	scope, err := openCapture(sess)
	require.NoError(t, err)

	content, err := scope.restore()
	require.NoError(t, err)
	assert.Empty(t, content)
}

// TestCapture_RestoreIsIdempotent tests that the second restore is a
// no-op returning empty content.
func TestCapture_RestoreIsIdempotent(t *testing.T) {
	sess := testutil.NewFakeSession()

	scope, err := openCapture(sess)
	require.NoError(t, err)
	io.WriteString(sess.OutputBinding(), "once")

	first, err := scope.restore()
	require.NoError(t, err)
	assert.Equal(t, "once", first)

	second, err := scope.restore()
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, io.Discard, sess.OutputBinding())
}

// TestCapture_SinkRemoved tests that the temp sink is gone after restore.
func TestCapture_SinkRemoved(t *testing.T) {
	sess := testutil.NewFakeSession()

	scope, err := openCapture(sess)
	require.NoError(t, err)
	path := scope.sink.Name()

	_, err = scope.restore()
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

// TestCapture_ImplicitSnapshot tests that restoreImplicit puts the
// pre-statement binding back after a later overwrite.
func TestCapture_ImplicitSnapshot(t *testing.T) {
	sess := testutil.NewFakeSession()
	sess.BindImplicit("before")

	scope, err := openCapture(sess)
	require.NoError(t, err)

	sess.BindImplicit("clobbered")
	scope.restoreImplicit()

	got, ok := sess.ImplicitValue()
	require.True(t, ok)
	assert.Equal(t, "before", got)

	_, err = scope.restore()
	require.NoError(t, err)
}

// TestCapture_NoImplicitToRestore tests that restoreImplicit leaves a
// fresh binding alone when nothing was bound before the scope opened.
func TestCapture_NoImplicitToRestore(t *testing.T) {
	sess := testutil.NewFakeSession()

	scope, err := openCapture(sess)
	require.NoError(t, err)

	sess.BindImplicit("first")
	scope.restoreImplicit()

	got, ok := sess.ImplicitValue()
	require.True(t, ok)
	assert.Equal(t, "first", got)

	_, err = scope.restore()
	require.NoError(t, err)
}

// TestCapture_RestoreErrorOnDeadSink tests that restore reports a failure
// when the sink is unusable, after the output binding has already been
// put back.
func TestCapture_RestoreErrorOnDeadSink(t *testing.T) {
	sess := testutil.NewFakeSession()

	scope, err := openCapture(sess)
	require.NoError(t, err)
	require.NoError(t, scope.sink.Close())

	_, err = scope.restore()
	assert.Error(t, err)
	assert.Equal(t, io.Discard, sess.OutputBinding())
}
