// Package term is the boundary to the host terminal: alternate screen
// handling, drawing a frame of text cells and reading key presses.
package term

import (
	"fmt"
	"strings"
	"time"
)

type KeyKind int

const (
	KeyOther KeyKind = iota
	KeyRune
	KeyBackspace
	KeyEnter
	KeyEscape
)

func (k KeyKind) String() string {
	switch k {
	case KeyRune:
		return "rune"
	case KeyBackspace:
		return "backspace"
	case KeyEnter:
		return "enter"
	case KeyEscape:
		return "escape"
	default:
		return "other"
	}
}

// Key is one key press. Rune is only set for KeyRune.
type Key struct {
	Kind KeyKind
	Rune rune
}

// Frame is a full screen of text. Every line is exactly Width cells wide.
type Frame struct {
	Lines         []string
	Width         int
	CursorX       int
	CursorY       int
	CursorVisible bool
}

// String joins the lines; useful for tests and the bubbletea view.
func (f Frame) String() string {
	return strings.Join(f.Lines, "\n")
}

// Surface is the capability the event loop needs from a terminal.
type Surface interface {
	// Enter switches to raw mode and the alternate screen.
	Enter() error
	// Leave restores the terminal. It must be safe to call after a failed Enter.
	Leave() error
	Size() (width, height int)
	Draw(Frame) error
	// PollKey waits at most timeout for a key. ok is false when none arrived.
	PollKey(timeout time.Duration) (key Key, ok bool, err error)
}

// Discarder is implemented by surfaces that buffer keys between polls.
// DiscardPending drops only keys the surface has already translated. Input
// still queued in the backend (Bubble Tea's message channel, tcell's event
// queue) when it is called can arrive afterwards, so discarding type-ahead is
// best effort.
type Discarder interface {
	DiscardPending()
}

const (
	BackendTea   = "tea"
	BackendTcell = "tcell"
)

// New returns the surface implementation named by backend.
func New(backend string) (Surface, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendTea:
		return NewTeaSurface(), nil
	case BackendTcell:
		return NewTcellSurface(nil), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want %s|%s)", backend, BackendTea, BackendTcell)
	}
}

const keyBuffer = 64

// offer queues k without blocking; keys beyond the buffer are dropped.
func offer(ch chan Key, k Key) {
	select {
	case ch <- k:
	default:
	}
}

func drain(ch chan Key) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
