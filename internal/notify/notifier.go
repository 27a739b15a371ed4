package notify

import (
	"fmt"
	"io"
	"sync"
)

// Notifier surfaces user-visible notices. How notices are rendered is up
// to the front end; state containers only report them.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Nop discards all notices. Useful default for tests and headless runs.
type Nop struct{}

func (Nop) Success(string) {}
func (Nop) Error(string)   {}

// Writer prints notices to an io.Writer, one per line.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriter creates a Writer notifier printing to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) Success(message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, "ok: %s\n", message)
}

func (w *Writer) Error(message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, "error: %s\n", message)
}
