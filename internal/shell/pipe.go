package shell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// PipeRunner runs `<Shell> -c <line>` with separate stdout/stderr pipes and
// returns stdout followed by stderr. A non-zero exit status is not a failure.
type PipeRunner struct {
	Shell string
	// Dir is the working directory; empty means the current one.
	Dir string
}

func (r PipeRunner) Run(ctx context.Context, line string) string {
	cmd := exec.CommandContext(ctx, r.Shell, "-c", line)
	if r.Dir != "" {
		cmd.Dir = r.Dir
	}
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return errorText(err)
		}
	}
	return decodeLossy(stdout.Bytes()) + decodeLossy(stderr.Bytes())
}

// decodeLossy decodes b as UTF-8, replacing invalid sequences with U+FFFD.
func decodeLossy(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "\uFFFD")
	}
	return string(out)
}
