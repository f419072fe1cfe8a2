package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"cmdblock/internal/config"
	"cmdblock/internal/logger"
	"cmdblock/internal/loop"
	"cmdblock/internal/shell"
	"cmdblock/internal/term"
)

var log = logger.Named("cli")

func main() {
	logger.Configure()
	// Nothing goes to stderr until a log file is open; the terminal is ours.
	logger.Discard()

	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "exec":
			execMain(args[1:])
			return
		case "init-config":
			initConfigMain(args[1:])
			return
		case "completion":
			completionMain(args[1:])
			return
		}
	}
	runInteractive(args)
}

func runInteractive(args []string) {
	fs, cli := newSessionFlagSet("cmdblock")
	if err := fs.Parse(args); err != nil {
		fatalf("parse args: %v", err)
	}
	if fs.NArg() > 0 {
		fatalf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	cfg := cli.resolveConfig()

	logCloser := setupLogging(cfg.LogPath)
	defer logCloser.Close()

	runner, err := shell.New(cfg.Runner, cfg.Shell, resolveWorkdir(cli.workdir))
	if err != nil {
		fatalf("build runner: %v", err)
	}
	surface, err := term.New(cfg.Backend)
	if err != nil {
		fatalf("build terminal: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()
	go func() {
		// A second signal falls through to the default handler, which matters
		// when a command that never exits is holding the loop.
		<-ctx.Done()
		stop()
	}()

	log.WithFields(logger.Fields{
		"shell":   cfg.Shell,
		"runner":  cfg.Runner,
		"backend": cfg.Backend,
		"config":  cfg.Source,
	}).Info("starting interactive session")

	session := loop.New(loop.Options{
		Surface:      surface,
		Runner:       runner,
		ExitTokens:   cfg.ExitTokens,
		PollInterval: cfg.PollInterval(),
		Log:          logger.Named("loop"),
	})
	if err := session.Run(ctx); err != nil {
		log.Errorf("terminal session failed: %v", err)
		logCloser.Close()
		exitf("terminal session failed: %v", err)
	}
}

// setupLogging sends the root logger to a file. The terminal belongs to the
// session, so when the file cannot be opened logging stays off.
func setupLogging(path string) io.Closer {
	closer, resolved, err := logger.SetupFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cmdblock: failed to initialize log file (%s): %v; logging disabled\n", resolved, err)
	}
	return closer
}

func fatalf(format string, args ...any) {
	log.Errorf(format, args...)
	exitf(format, args...)
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "cmdblock: "+format+"\n", args...)
	os.Exit(1)
}

func resolveWorkdir(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	if filepath.IsAbs(input) {
		return input
	}
	wd, err := os.Getwd()
	if err != nil {
		return input
	}
	return filepath.Join(wd, input)
}

func loadConfig(path string, overrides []string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	return config.ApplyKVOverrides(cfg, overrides), nil
}
