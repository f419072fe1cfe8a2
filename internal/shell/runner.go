// Package shell runs submitted command lines through an external interpreter
// and turns whatever happens into display text.
package shell

import (
	"context"
	"fmt"
	"strings"
)

const (
	KindPipe = "pipe"
	KindPTY  = "pty"
)

// Runner executes one command line and returns the captured text.
// Failures are reported inside the text, never as an error.
type Runner interface {
	Run(ctx context.Context, line string) string
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, line string) string

func (f RunnerFunc) Run(ctx context.Context, line string) string {
	return f(ctx, line)
}

// New builds the runner named by kind for the given interpreter. dir is the
// working directory for every command; empty means the current one.
func New(kind string, interpreter string, dir string) (Runner, error) {
	interpreter = strings.TrimSpace(interpreter)
	if interpreter == "" {
		return nil, fmt.Errorf("shell interpreter is empty")
	}
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindPipe:
		return PipeRunner{Shell: interpreter, Dir: dir}, nil
	case KindPTY:
		return PTYRunner{Shell: interpreter, Dir: dir}, nil
	default:
		return nil, fmt.Errorf("unknown runner %q (want %s|%s)", kind, KindPipe, KindPTY)
	}
}

func errorText(err error) string {
	return "Error: " + err.Error()
}
