// Package session holds the prompt buffer and the command history of one run.
package session

import "strings"

// Entry is one completed command and the text it produced.
type Entry struct {
	Command string
	Output  string
}

// State owns the input buffer and the append-only history.
// It is not safe for concurrent use; the event loop is its only writer.
type State struct {
	input   []rune
	history []Entry
}

func New() *State {
	return &State{}
}

func (s *State) AppendRune(r rune) {
	s.input = append(s.input, r)
}

// Backspace drops the last rune. It reports false when the buffer was already empty.
func (s *State) Backspace() bool {
	if len(s.input) == 0 {
		return false
	}
	s.input = s.input[:len(s.input)-1]
	return true
}

func (s *State) Input() string {
	return string(s.input)
}

// Submission is the buffer with surrounding whitespace removed.
func (s *State) Submission() string {
	return strings.TrimSpace(string(s.input))
}

func (s *State) ClearInput() {
	s.input = s.input[:0]
}

// Record appends a completed command to the history.
func (s *State) Record(command, output string) {
	s.history = append(s.history, Entry{Command: command, Output: output})
}

// History returns a copy of the entries in submission order.
func (s *State) History() []Entry {
	return append([]Entry(nil), s.history...)
}

func (s *State) Len() int {
	return len(s.history)
}

// IsExitToken reports whether line, compared case-insensitively, is one of tokens.
func IsExitToken(line string, tokens []string) bool {
	for _, tok := range tokens {
		if tok != "" && strings.EqualFold(line, tok) {
			return true
		}
	}
	return false
}
