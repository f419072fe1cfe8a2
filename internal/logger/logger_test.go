package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestPlainFormatter_ComponentAndFieldOrdering(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	cases := []struct {
		name    string
		data    logrus.Fields
		message string
		want    string
	}{
		{
			name: "with component",
			data: logrus.Fields{
				"component":  "loop",
				"caller":     "x.go:1",
				"command":    "ls",
				"session_id": "s1",
			},
			message: "command finished",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] [loop] [s1] command finished command=ls\n",
		},
		{
			name: "uuid session is shortened",
			data: logrus.Fields{
				"component":  "loop",
				"caller":     "x.go:1",
				"session_id": "0f8c2a4e-91b3-4c6d-8e2f-1a2b3c4d5e6f",
			},
			message: "session started",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] [loop] [0f8c2a4e] session started\n",
		},
		{
			name: "without component",
			data: logrus.Fields{
				"caller": "x.go:1",
				"foo":    "bar",
			},
			message: "hello",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] hello foo=bar\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry := &logrus.Entry{
				Logger:  logrus.New(),
				Time:    ts,
				Level:   logrus.InfoLevel,
				Message: tc.message,
				Data:    tc.data,
			}
			out, err := (PlainFormatter{}).Format(entry)
			if err != nil {
				t.Fatalf("Format() error: %v", err)
			}
			if got := string(out); got != tc.want {
				t.Fatalf("unexpected format:\nwant: %q\ngot:  %q", tc.want, got)
			}
		})
	}
}

func TestShortenFilePath(t *testing.T) {
	cases := []struct{ in, want string }{
		{in: "/home/u/src/cmdblock/internal/loop/loop.go", want: "internal/loop/loop.go"},
		{in: "/home/u/src/cmdblock/cmd/cmdblock/main.go", want: "cmd/cmdblock/main.go"},
		{in: "/tmp/other.go", want: "other.go"},
	}
	for _, tc := range cases {
		if got := shortenFilePath(tc.in); got != tc.want {
			t.Fatalf("shortenFilePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSetupFileRedirectsRoot(t *testing.T) {
	l := logrus.New()
	l.SetFormatter(PlainFormatter{})
	setRoot(l)
	defer setRoot(nil)

	path := filepath.Join(t.TempDir(), "nested", "cmdblock.log")
	closer, resolved, err := SetupFile(path)
	if err != nil {
		t.Fatalf("SetupFile: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	Named("test").Info("hello file")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "[test] hello file") {
		t.Fatalf("log file missing entry: %q", string(data))
	}
}

func TestSetupFileFailureDiscards(t *testing.T) {
	l := logrus.New()
	setRoot(l)
	defer setRoot(nil)

	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	closer, resolved, err := SetupFile(filepath.Join(blocker, "cmdblock.log"))
	if err == nil {
		t.Fatalf("expected error when log dir is a file")
	}
	if resolved != filepath.Join(blocker, "cmdblock.log") {
		t.Fatalf("resolved = %q", resolved)
	}
	if closer == nil || closer.Close() != nil {
		t.Fatalf("closer must be usable after failure")
	}
	if l.Out != io.Discard {
		t.Fatalf("root output not discarded after failure")
	}
}

func TestWithSession(t *testing.T) {
	entry := WithSession(Named("loop"), "abc")
	if got := entry.Data[SessionKey]; got != "abc" {
		t.Fatalf("session field = %v, want abc", got)
	}
	if got := entry.Data["component"]; got != "loop" {
		t.Fatalf("component = %v, want loop", got)
	}
	if WithSession(nil, "x").Data[SessionKey] != "x" {
		t.Fatalf("nil entry not handled")
	}
}
