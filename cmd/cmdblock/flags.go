package main

import (
	"flag"
	"strings"

	"cmdblock/internal/config"
)

type stringSlice []string

func (s *stringSlice) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSlice) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// sessionArgs captures flags shared by the interactive entrypoint and exec.
type sessionArgs struct {
	cfgPath         string
	shell           string
	runner          string
	backend         string
	workdir         string
	configOverrides stringSlice
}

func newSessionFlagSet(name string) (*flag.FlagSet, *sessionArgs) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	args := &sessionArgs{}

	fs.StringVar(&args.cfgPath, "config", "", "Path to config file (default ~/.cmdblock/config.toml)")
	fs.StringVar(&args.shell, "shell", "", "Shell interpreter invoked as <shell> -c <line>")
	fs.StringVar(&args.runner, "runner", "", "Command runner (pipe|pty)")
	fs.StringVar(&args.backend, "backend", "", "Terminal backend (tea|tcell)")
	fs.StringVar(&args.workdir, "cd", "", "Working directory for commands")
	fs.StringVar(&args.workdir, "C", "", "Alias for --cd")
	fs.Var(&args.configOverrides, "c", "Override config value key=value (repeatable)")

	return fs, args
}

// overrides returns -c values followed by the dedicated flags, so the
// dedicated flags win.
func (a *sessionArgs) overrides() []string {
	out := append([]string{}, a.configOverrides...)
	if v := strings.TrimSpace(a.shell); v != "" {
		out = append(out, "shell="+v)
	}
	if v := strings.TrimSpace(a.runner); v != "" {
		out = append(out, "runner="+v)
	}
	if v := strings.TrimSpace(a.backend); v != "" {
		out = append(out, "backend="+v)
	}
	return out
}

func (a *sessionArgs) resolveConfig() config.Config {
	cfg, err := loadConfig(a.cfgPath, a.overrides())
	if err != nil {
		fatalf("failed to load config: %v", err)
	}
	return cfg
}
