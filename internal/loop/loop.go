// Package loop is the interactive read/run/redraw cycle.
//
// Each iteration draws the current session, then waits a bounded interval for
// one key. Submitting a line runs it synchronously: while the command runs the
// loop neither reads keys nor redraws, and keys typed in the meantime are
// dropped. There is no timeout and no cancellation for a running command, so a
// command that never exits blocks the session until it is killed externally.
package loop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cmdblock/internal/logger"
	"cmdblock/internal/render"
	"cmdblock/internal/session"
	"cmdblock/internal/shell"
	"cmdblock/internal/term"

	"github.com/google/uuid"
)

type Status int

const (
	Running Status = iota
	Terminated
)

func (s Status) String() string {
	if s == Terminated {
		return "terminated"
	}
	return "running"
}

const DefaultPollInterval = 100 * time.Millisecond

// DefaultExitTokens end the session when submitted as the whole line.
var DefaultExitTokens = []string{"/exit", "/quit"}

type Options struct {
	Surface      term.Surface
	Runner       shell.Runner
	ExitTokens   []string
	PollInterval time.Duration
	Log          *logger.LogEntry
}

type Loop struct {
	surface    term.Surface
	runner     shell.Runner
	exitTokens []string
	interval   time.Duration
	log        *logger.LogEntry

	state  *session.State
	status Status
}

func New(opts Options) *Loop {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	tokens := opts.ExitTokens
	if len(tokens) == 0 {
		tokens = DefaultExitTokens
	}
	log := opts.Log
	if log == nil {
		log = logger.Named("loop")
	}
	return &Loop{
		surface:    opts.Surface,
		runner:     opts.Runner,
		exitTokens: append([]string(nil), tokens...),
		interval:   interval,
		log:        logger.WithSession(log, uuid.NewString()),
		state:      session.New(),
		status:     Running,
	}
}

// Run takes over the terminal until the session terminates or ctx is done.
// Terminal errors are fatal and returned; the terminal is restored on every
// path out once Enter has succeeded, including panics.
func (l *Loop) Run(ctx context.Context) (err error) {
	if err := l.surface.Enter(); err != nil {
		// Enter may have switched modes before failing.
		return errors.Join(fmt.Errorf("enter terminal: %w", err), l.leave())
	}
	l.log.Info("session started")
	defer func() {
		r := recover()
		leaveErr := l.leave()
		if r != nil {
			panic(r)
		}
		err = errors.Join(err, leaveErr)
		l.log.WithField("entries", l.state.Len()).Info("session ended")
	}()

	for l.status == Running {
		if ctx.Err() != nil {
			l.log.Info("context done; terminating")
			l.status = Terminated
			break
		}
		if err := l.draw(); err != nil {
			return err
		}
		key, ok, err := l.surface.PollKey(l.interval)
		if err != nil {
			return fmt.Errorf("poll input: %w", err)
		}
		if !ok {
			continue
		}
		l.HandleKey(ctx, key)
	}
	return nil
}

func (l *Loop) leave() error {
	if err := l.surface.Leave(); err != nil {
		return fmt.Errorf("leave terminal: %w", err)
	}
	return nil
}

func (l *Loop) draw() error {
	width, height := l.surface.Size()
	if err := l.surface.Draw(render.Render(l.state, width, height)); err != nil {
		return fmt.Errorf("draw frame: %w", err)
	}
	return nil
}

// HandleKey applies one key to the session. It returns the resulting status.
func (l *Loop) HandleKey(ctx context.Context, key term.Key) Status {
	if l.status == Terminated {
		return l.status
	}
	switch key.Kind {
	case term.KeyRune:
		l.state.AppendRune(key.Rune)
	case term.KeyBackspace:
		l.state.Backspace()
	case term.KeyEnter:
		l.submit(ctx)
	case term.KeyEscape:
		l.log.Info("escape pressed; terminating")
		l.status = Terminated
	}
	return l.status
}

func (l *Loop) submit(ctx context.Context) {
	line := l.state.Submission()
	l.state.ClearInput()
	if session.IsExitToken(line, l.exitTokens) {
		l.log.WithField("token", line).Info("exit token submitted; terminating")
		l.status = Terminated
		return
	}

	start := time.Now()
	output := l.runner.Run(context.WithoutCancel(ctx), line)
	l.state.Record(line, output)
	l.log.WithFields(logger.Fields{
		"command":  line,
		"duration": time.Since(start).Round(time.Millisecond),
		"bytes":    len(output),
	}).Info("command finished")

	if d, ok := l.surface.(term.Discarder); ok {
		d.DiscardPending()
	}
}

func (l *Loop) Status() Status {
	return l.status
}

// Session exposes the state for inspection; callers must not mutate it while Run is active.
func (l *Loop) Session() *session.State {
	return l.state
}
