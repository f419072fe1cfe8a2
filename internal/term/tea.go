package term

import (
	"errors"
	"os"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xterm "github.com/charmbracelet/x/term"
	"github.com/mattn/go-runewidth"
)

// keyMap 只描述会话关心的按键，其余输入一律忽略。
type keyMap struct {
	Submit    key.Binding
	Backspace key.Binding
	Escape    key.Binding
}

var keys = keyMap{
	Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run command")),
	Backspace: key.NewBinding(key.WithKeys("backspace", "ctrl+h"), key.WithHelp("backspace", "delete")),
	Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "quit")),
}

var cursorStyle = lipgloss.NewStyle().Reverse(true)

// ErrProgramExited is returned by PollKey when the bubbletea program stopped on its own.
var ErrProgramExited = errors.New("terminal program exited")

type frameMsg struct {
	frame Frame
}

// TeaSurface drives a Bubble Tea program in the background and exposes it
// through the poll/draw Surface contract.
type TeaSurface struct {
	options []tea.ProgramOption
	program *tea.Program
	keys    chan Key

	ready     chan struct{}
	readyOnce sync.Once
	finished  chan struct{}
	runErr    error

	mu     sync.Mutex
	width  int
	height int
}

// NewTeaSurface 创建 surface；额外的 ProgramOption 追加在 WithAltScreen 与 WithoutSignalHandler 之后。
func NewTeaSurface(opts ...tea.ProgramOption) *TeaSurface {
	return &TeaSurface{
		options:  opts,
		keys:     make(chan Key, keyBuffer),
		ready:    make(chan struct{}),
		finished: make(chan struct{}),
		width:    80,
		height:   24,
	}
}

func (s *TeaSurface) Enter() error {
	if w, h, err := xterm.GetSize(os.Stdout.Fd()); err == nil && w > 0 && h > 0 {
		s.setSize(w, h)
	}
	// Signals belong to the caller's context; Bubble Tea must not kill the
	// program on SIGINT behind the session's back.
	opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithoutSignalHandler()}, s.options...)
	s.program = tea.NewProgram(teaModel{surface: s}, opts...)
	go func() {
		_, err := s.program.Run()
		s.runErr = err
		close(s.finished)
	}()
	select {
	case <-s.ready:
		return nil
	case <-s.finished:
		// Run already restored the terminal; Leave has nothing left to do.
		s.program = nil
		return s.exitErr()
	}
}

func (s *TeaSurface) Leave() error {
	if s.program == nil {
		return nil
	}
	s.program.Quit()
	<-s.finished
	return s.runErr
}

func (s *TeaSurface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *TeaSurface) Draw(f Frame) error {
	select {
	case <-s.finished:
		return s.exitErr()
	default:
	}
	s.program.Send(frameMsg{frame: f})
	return nil
}

func (s *TeaSurface) PollKey(timeout time.Duration) (Key, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case k := <-s.keys:
		return k, true, nil
	case <-timer.C:
		return Key{}, false, nil
	case <-s.finished:
		return Key{}, false, s.exitErr()
	}
}

// DiscardPending empties the translated key buffer. Key messages the program
// has read but not yet passed to Update are delivered later.
func (s *TeaSurface) DiscardPending() {
	drain(s.keys)
}

func (s *TeaSurface) exitErr() error {
	if s.runErr != nil {
		return s.runErr
	}
	return ErrProgramExited
}

func (s *TeaSurface) setSize(w, h int) {
	s.mu.Lock()
	s.width, s.height = w, h
	s.mu.Unlock()
}

func (s *TeaSurface) markReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

type teaModel struct {
	surface *TeaSurface
	frame   Frame
}

func (m teaModel) Init() tea.Cmd {
	m.surface.markReady()
	return nil
}

func (m teaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frame = msg.frame
	case tea.WindowSizeMsg:
		m.surface.setSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		for _, k := range translateKeyMsg(msg) {
			offer(m.surface.keys, k)
		}
	}
	return m, nil
}

func (m teaModel) View() string {
	if len(m.frame.Lines) == 0 {
		return ""
	}
	lines := append([]string(nil), m.frame.Lines...)
	if m.frame.CursorVisible && m.frame.CursorY >= 0 && m.frame.CursorY < len(lines) {
		lines[m.frame.CursorY] = withCursor(lines[m.frame.CursorY], m.frame.CursorX)
	}
	return strings.Join(lines, "\n")
}

// translateKeyMsg maps one Bubble Tea key message to zero or more keys.
// A paste arrives as a single message carrying many runes.
func translateKeyMsg(msg tea.KeyMsg) []Key {
	switch {
	case msg.Type == tea.KeyRunes && !msg.Alt:
		out := make([]Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			if unicode.IsPrint(r) {
				out = append(out, Key{Kind: KeyRune, Rune: r})
			}
		}
		return out
	case msg.Type == tea.KeySpace && !msg.Alt:
		return []Key{{Kind: KeyRune, Rune: ' '}}
	case key.Matches(msg, keys.Submit):
		return []Key{{Kind: KeyEnter}}
	case key.Matches(msg, keys.Backspace):
		return []Key{{Kind: KeyBackspace}}
	case key.Matches(msg, keys.Escape):
		return []Key{{Kind: KeyEscape}}
	default:
		return []Key{{Kind: KeyOther}}
	}
}

func withCursor(line string, x int) string {
	var b strings.Builder
	col := 0
	placed := false
	for _, r := range line {
		if !placed && col >= x {
			b.WriteString(cursorStyle.Render(string(r)))
			placed = true
		} else {
			b.WriteRune(r)
		}
		col += runewidth.RuneWidth(r)
	}
	if !placed {
		b.WriteString(cursorStyle.Render(" "))
	}
	return b.String()
}
