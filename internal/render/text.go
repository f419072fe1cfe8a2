package render

import (
	"fmt"
	"strings"

	"cmdblock/internal/session"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

const tabWidth = 8

// HistoryText formats every entry as "$ <command>\n<output>", separated by a blank line.
func HistoryText(entries []session.Entry) string {
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, fmt.Sprintf("$ %s\n%s", e.Command, e.Output))
	}
	return strings.Join(blocks, "\n\n")
}

// displayLines splits text into lines that are safe to place on a cell grid:
// escape sequences stripped, tabs expanded, carriage returns dropped.
func displayLines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		out = append(out, sanitizeLine(line))
	}
	return out
}

func sanitizeLine(line string) string {
	line = ansi.Strip(line)
	var b strings.Builder
	col := 0
	for _, r := range line {
		switch {
		case r == '\t':
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case r < 0x20 || r == 0x7f:
			// other control bytes would move the terminal cursor
		default:
			b.WriteRune(r)
			col += runewidth.RuneWidth(r)
		}
	}
	return b.String()
}
