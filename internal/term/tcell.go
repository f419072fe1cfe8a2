package term

import (
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// TcellSurface implements Surface directly on a tcell screen.
type TcellSurface struct {
	screen tcell.Screen
	keys   chan Key
	done   chan struct{}
	style  tcell.Style
}

// NewTcellSurface wraps screen. A nil screen is created from the host terminal on Enter.
func NewTcellSurface(screen tcell.Screen) *TcellSurface {
	return &TcellSurface{
		screen: screen,
		keys:   make(chan Key, keyBuffer),
		style:  tcell.StyleDefault,
	}
}

func (s *TcellSurface) Enter() error {
	if s.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		s.screen = screen
	}
	if err := s.screen.Init(); err != nil {
		return err
	}
	s.done = make(chan struct{})
	go s.pump()
	return nil
}

func (s *TcellSurface) Leave() error {
	if s.done == nil {
		return nil
	}
	s.screen.Fini()
	<-s.done
	s.done = nil
	return nil
}

func (s *TcellSurface) Size() (int, int) {
	return s.screen.Size()
}

func (s *TcellSurface) Draw(f Frame) error {
	s.screen.Clear()
	for y, line := range f.Lines {
		x := 0
		for _, r := range line {
			w := runewidth.RuneWidth(r)
			if w == 0 {
				continue
			}
			s.screen.SetContent(x, y, r, nil, s.style)
			x += w
		}
	}
	if f.CursorVisible {
		s.screen.ShowCursor(f.CursorX, f.CursorY)
	} else {
		s.screen.HideCursor()
	}
	s.screen.Show()
	return nil
}

func (s *TcellSurface) PollKey(timeout time.Duration) (Key, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case k := <-s.keys:
		return k, true, nil
	case <-timer.C:
		return Key{}, false, nil
	}
}

func (s *TcellSurface) DiscardPending() {
	drain(s.keys)
}

// pump forwards screen events until Fini makes PollEvent return nil.
func (s *TcellSurface) pump() {
	defer close(s.done)
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			offer(s.keys, translateEventKey(ev))
		case *tcell.EventResize:
			// Wake the loop so the next frame uses the new size.
			s.screen.Sync()
			offer(s.keys, Key{Kind: KeyOther})
		}
	}
}

func translateEventKey(ev *tcell.EventKey) Key {
	switch ev.Key() {
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModAlt|tcell.ModCtrl) != 0 || !unicode.IsPrint(ev.Rune()) {
			return Key{Kind: KeyOther}
		}
		return Key{Kind: KeyRune, Rune: ev.Rune()}
	case tcell.KeyEnter:
		return Key{Kind: KeyEnter}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return Key{Kind: KeyBackspace}
	case tcell.KeyEscape:
		return Key{Kind: KeyEscape}
	default:
		return Key{Kind: KeyOther}
	}
}
