package main

import (
	"context"
	"fmt"
	"strings"

	"cmdblock/internal/shell"
)

// execMain runs one line through the configured runner and prints what the
// session would have recorded for it.
func execMain(args []string) {
	fs, cli := newSessionFlagSet("cmdblock exec")
	if err := fs.Parse(args); err != nil {
		fatalf("parse exec args: %v", err)
	}
	line := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if line == "" {
		fatalf("exec requires a command line")
	}
	cfg := cli.resolveConfig()

	logCloser := setupLogging(cfg.LogPath)
	defer logCloser.Close()

	runner, err := shell.New(cfg.Runner, cfg.Shell, resolveWorkdir(cli.workdir))
	if err != nil {
		fatalf("build runner: %v", err)
	}
	fmt.Print(runExec(context.Background(), runner, line))
}

func runExec(ctx context.Context, runner shell.Runner, line string) string {
	log.WithField("command", line).Info("exec")
	return runner.Run(ctx, line)
}
