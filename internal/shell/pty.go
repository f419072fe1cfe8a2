package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"syscall"

	"github.com/creack/pty"
)

// PTYRunner runs the command under a pseudo-terminal so programs that check
// isatty behave as they would interactively. stdout and stderr share the
// terminal, so the result is interleaved in the order it was written.
type PTYRunner struct {
	Shell string
	Dir   string
}

func (r PTYRunner) Run(ctx context.Context, line string) string {
	cmd := exec.CommandContext(ctx, r.Shell, "-c", line)
	if r.Dir != "" {
		cmd.Dir = r.Dir
	}
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return errorText(err)
	}
	defer ptmx.Close()

	var buf bytes.Buffer
	done := make(chan error, 1)
	go func() {
		_, err := io.Copy(&buf, ptmx)
		done <- err
	}()

	waitErr := cmd.Wait()
	// Linux reports EIO on the master once the slave side is gone; that is EOF.
	if copyErr := <-done; copyErr != nil && !errors.Is(copyErr, syscall.EIO) {
		return errorText(copyErr)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return errorText(waitErr)
		}
	}
	return strings.ReplaceAll(decodeLossy(buf.Bytes()), "\r\n", "\n")
}
