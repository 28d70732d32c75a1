package session

import (
	"io"
	"sync"
)

// switchWriter is an io.Writer whose target can be swapped at runtime.
//
// The yaegi interpreter's stdout is fixed at construction, so the session
// hands it a switchWriter and implements output rebinding by retargeting
// it. The mutex only guards the target pointer; the evaluation itself is
// single-threaded per session.
type switchWriter struct {
	mu     sync.Mutex
	target io.Writer
}

func newSwitchWriter(target io.Writer) *switchWriter {
	return &switchWriter{target: target}
}

func (w *switchWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	target := w.target
	w.mu.Unlock()
	return target.Write(p)
}

// Target returns the current destination.
func (w *switchWriter) Target() io.Writer {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.target
}

// Retarget points the writer at a new destination and returns the old one.
func (w *switchWriter) Retarget(target io.Writer) io.Writer {
	w.mu.Lock()
	defer w.mu.Unlock()
	prev := w.target
	w.target = target
	return prev
}
