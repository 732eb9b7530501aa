package notify

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Notifier delivers user-visible notices. The HTTP client and the route
// guard report through this interface instead of printing directly, so
// commands and tests can capture or restyle notices.
type Notifier interface {
	// Warn reports a recoverable condition (expired session, missing login).
	Warn(msg string)
	// Error reports a failed operation.
	Error(msg string)
}

// Console writes notices to a terminal stream.
type Console struct {
	out io.Writer
}

// NewConsole returns a Notifier writing to stderr.
func NewConsole() *Console {
	return &Console{out: os.Stderr}
}

// NewConsoleWriter returns a Notifier writing to the given stream.
func NewConsoleWriter(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Warn(msg string) {
	fmt.Fprintf(c.out, "! %s\n", msg)
}

func (c *Console) Error(msg string) {
	fmt.Fprintf(c.out, "✗ %s\n", msg)
}

// Recorder captures notices for tests.
type Recorder struct {
	mu       sync.Mutex
	Warnings []string
	Errors   []string
}

func (r *Recorder) Warn(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Warnings = append(r.Warnings, msg)
}

func (r *Recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, msg)
}
