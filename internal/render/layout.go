// Package render projects session state onto a terminal frame.
package render

import (
	"strings"

	"cmdblock/internal/session"
	"cmdblock/internal/term"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	HistoryTitle = "Shell Output"
	InputTitle   = "Command"
	// InputHeight is the fixed height of the command pane, borders included.
	InputHeight = 3
)

var border = lipgloss.NormalBorder()

// Source is the read side of the session the renderer needs.
type Source interface {
	Input() string
	History() []session.Entry
}

// Render lays out the history pane above the command pane. The result has
// exactly height lines of exactly width cells. It does not mutate src.
func Render(src Source, width, height int) term.Frame {
	frame := term.Frame{Width: width}
	if width <= 0 || height <= 0 {
		return frame
	}
	inputHeight := min(InputHeight, height)
	historyHeight := height - inputHeight

	history := displayLines(HistoryText(src.History()))
	frame.Lines = append(frame.Lines, pane(HistoryTitle, tail(history, historyHeight-2), width, historyHeight)...)

	input, cursor := inputLine(src.Input(), width-2)
	frame.Lines = append(frame.Lines, pane(InputTitle, []string{input}, width, inputHeight)...)

	if inputHeight == InputHeight && width >= 2 {
		frame.CursorVisible = true
		frame.CursorX = 1 + cursor
		frame.CursorY = historyHeight + 1
	}
	return frame
}

// tail keeps the last n lines; older ones fall off the top of the pane.
func tail(lines []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if len(lines) > n {
		return lines[len(lines)-n:]
	}
	return lines
}

// inputLine returns the visible part of the buffer and the cursor column
// inside the pane. When the text is too wide its head is dropped so the end
// of the line, where the cursor sits, stays on screen.
func inputLine(text string, inner int) (string, int) {
	if inner <= 0 {
		return "", 0
	}
	text = sanitizeLine(text)
	w := runewidth.StringWidth(text)
	if w < inner {
		return text, w
	}
	visible := runewidth.TruncateLeft(text, w-inner+1, "")
	return visible, min(runewidth.StringWidth(visible), inner-1)
}

// pane draws a bordered box of the given size with title in the top border.
func pane(title string, body []string, width, height int) []string {
	if height <= 0 {
		return nil
	}
	if width < 2 || height < 2 {
		blank := strings.Repeat(" ", width)
		out := make([]string, height)
		for i := range out {
			out[i] = blank
		}
		return out
	}
	inner := width - 2
	out := make([]string, 0, height)

	label := runewidth.Truncate(title, inner, "")
	top := border.TopLeft + label + strings.Repeat(border.Top, inner-runewidth.StringWidth(label)) + border.TopRight
	out = append(out, top)

	for i := 0; i < height-2; i++ {
		line := ""
		if i < len(body) {
			line = body[i]
		}
		out = append(out, border.Left+fit(line, inner)+border.Right)
	}

	out = append(out, border.BottomLeft+strings.Repeat(border.Bottom, inner)+border.BottomRight)
	return out
}

// fit clips or pads s to exactly w cells.
func fit(s string, w int) string {
	s = runewidth.Truncate(s, w, "")
	return runewidth.FillRight(s, w)
}
