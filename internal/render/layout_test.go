package render

import (
	"strings"
	"testing"

	"cmdblock/internal/session"

	"github.com/mattn/go-runewidth"
)

type fakeSource struct {
	input   string
	history []session.Entry
}

func (f fakeSource) Input() string            { return f.input }
func (f fakeSource) History() []session.Entry { return f.history }

func assertGrid(t *testing.T, lines []string, width, height int) {
	t.Helper()
	if len(lines) != height {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), height, strings.Join(lines, "\n"))
	}
	for i, l := range lines {
		if w := runewidth.StringWidth(l); w != width {
			t.Fatalf("line %d is %d cells wide, want %d: %q", i, w, width, l)
		}
	}
}

func TestRender_EmptyHistory(t *testing.T) {
	frame := Render(fakeSource{input: "echo hi"}, 30, 10)
	assertGrid(t, frame.Lines, 30, 10)

	want := []string{
		"┌Shell Output────────────────┐",
		"│                            │",
		"│                            │",
		"│                            │",
		"│                            │",
		"│                            │",
		"└────────────────────────────┘",
		"┌Command─────────────────────┐",
		"│echo hi                     │",
		"└────────────────────────────┘",
	}
	for i := range want {
		if frame.Lines[i] != want[i] {
			t.Fatalf("line %d:\n got %q\nwant %q", i, frame.Lines[i], want[i])
		}
	}
	if !frame.CursorVisible || frame.CursorX != 8 || frame.CursorY != 8 {
		t.Fatalf("cursor = (%d,%d visible=%v), want (8,8 visible)", frame.CursorX, frame.CursorY, frame.CursorVisible)
	}
}

func TestRender_HistoryFormat(t *testing.T) {
	src := fakeSource{history: []session.Entry{
		{Command: "echo a", Output: "a\n"},
		{Command: "false", Output: ""},
	}}
	frame := Render(src, 20, 12)
	assertGrid(t, frame.Lines, 20, 12)

	body := []string{"$ echo a", "a", "", "", "$ false", ""}
	for i, want := range body {
		got := strings.TrimRight(strings.Trim(frame.Lines[i+1], "│"), " ")
		if got != want {
			t.Fatalf("history line %d = %q, want %q", i, got, want)
		}
	}
}

func TestHistoryText(t *testing.T) {
	got := HistoryText([]session.Entry{
		{Command: "echo hello", Output: "hello\n"},
		{Command: "pwd", Output: "/tmp\n"},
	})
	want := "$ echo hello\nhello\n\n\n$ pwd\n/tmp\n"
	if got != want {
		t.Fatalf("HistoryText() = %q, want %q", got, want)
	}
	if HistoryText(nil) != "" {
		t.Fatalf("HistoryText(nil) should be empty")
	}
}

func TestRender_OverflowKeepsNewestLines(t *testing.T) {
	var entries []session.Entry
	for i := 0; i < 20; i++ {
		entries = append(entries, session.Entry{Command: "seq", Output: strings.Repeat("x", i)})
	}
	entries = append(entries, session.Entry{Command: "last", Output: "final"})
	frame := Render(fakeSource{history: entries}, 20, 8)
	assertGrid(t, frame.Lines, 20, 8)

	// history pane is rows 0..4, body rows 1..3
	if got := strings.TrimRight(strings.Trim(frame.Lines[3], "│"), " "); got != "final" {
		t.Fatalf("last body line = %q, want %q", got, "final")
	}
	if got := strings.TrimRight(strings.Trim(frame.Lines[2], "│"), " "); got != "$ last" {
		t.Fatalf("second to last body line = %q, want %q", got, "$ last")
	}
}

func TestRender_ClipsWideLinesAndStripsEscapes(t *testing.T) {
	src := fakeSource{history: []session.Entry{
		{Command: "ls", Output: "\x1b[31mred\x1b[0m\tfile\r\n" + strings.Repeat("y", 50)},
	}}
	frame := Render(src, 16, 8)
	assertGrid(t, frame.Lines, 16, 8)
	if got := frame.Lines[2]; got != "│red     file  │" {
		t.Fatalf("sanitized line = %q", got)
	}
	if got := frame.Lines[3]; got != "│"+strings.Repeat("y", 14)+"│" {
		t.Fatalf("clipped line = %q", got)
	}
}

func TestRender_LongInputKeepsCursorVisible(t *testing.T) {
	input := strings.Repeat("a", 30) + "END"
	frame := Render(fakeSource{input: input}, 12, 5)
	assertGrid(t, frame.Lines, 12, 5)

	line := frame.Lines[3]
	if !strings.HasSuffix(strings.TrimSuffix(line, "│"), "END ") {
		t.Fatalf("input line = %q, want tail of buffer", line)
	}
	if frame.CursorX != 10 || frame.CursorY != 3 {
		t.Fatalf("cursor = (%d,%d), want (10,3)", frame.CursorX, frame.CursorY)
	}
}

func TestRender_WideRunesInInput(t *testing.T) {
	frame := Render(fakeSource{input: "日本"}, 12, 5)
	assertGrid(t, frame.Lines, 12, 5)
	if frame.CursorX != 5 {
		t.Fatalf("CursorX = %d, want 5", frame.CursorX)
	}
}

func TestRender_TinyTerminals(t *testing.T) {
	cases := []struct{ w, h int }{{0, 0}, {10, 0}, {1, 5}, {10, 1}, {10, 2}, {10, 3}, {10, 4}}
	for _, tc := range cases {
		frame := Render(fakeSource{input: "x"}, tc.w, tc.h)
		if tc.w <= 0 || tc.h <= 0 {
			if len(frame.Lines) != 0 {
				t.Fatalf("%dx%d: expected empty frame", tc.w, tc.h)
			}
			continue
		}
		assertGrid(t, frame.Lines, tc.w, tc.h)
	}
}

func TestRender_TitleTruncatedInNarrowPane(t *testing.T) {
	frame := Render(fakeSource{}, 6, 6)
	assertGrid(t, frame.Lines, 6, 6)
	if frame.Lines[0] != "┌Shel┐" {
		t.Fatalf("top border = %q", frame.Lines[0])
	}
}

func TestSanitizeLine(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "tab from column zero", in: "\tx", want: "        x"},
		{name: "tab after ascii", in: "ab\tx", want: "ab      x"},
		{name: "tab after wide rune", in: "中\tx", want: "中      x"},
		{name: "tab after two wide runes", in: "中文字\tx", want: "中文字  x"},
		{name: "carriage return dropped", in: "50%\r100%", want: "50%100%"},
		{name: "escape stripped", in: "\x1b[1mbold\x1b[0m\tx", want: "bold    x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sanitizeLine(tc.in)
			if got != tc.want {
				t.Fatalf("sanitizeLine(%q) = %q, want %q", tc.in, got, tc.want)
			}
			if w := runewidth.StringWidth(got); strings.Contains(tc.in, "\t") && w%tabWidth != 1 {
				t.Fatalf("width after tab = %d, want one past a tab stop", w)
			}
		})
	}
}
