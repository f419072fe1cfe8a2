package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultShell          = "fish"
	DefaultRunner         = "pipe"
	DefaultBackend        = "tea"
	DefaultPollIntervalMS = 100
)

// builtinExitTokens are always honoured; exit_tokens in the file only adds to them.
var builtinExitTokens = []string{"/exit", "/quit"}

// Config is the persisted config file schema.
type Config struct {
	Shell          string   `toml:"shell"`
	Runner         string   `toml:"runner"`
	Backend        string   `toml:"backend"`
	PollIntervalMS int      `toml:"poll_interval_ms"`
	ExitTokens     []string `toml:"exit_tokens"`
	LogPath        string   `toml:"log_path"`
	Source         string   `toml:"-"`
}

func Default() Config {
	return Config{
		Shell:          DefaultShell,
		Runner:         DefaultRunner,
		Backend:        DefaultBackend,
		PollIntervalMS: DefaultPollIntervalMS,
		ExitTokens:     append([]string(nil), builtinExitTokens...),
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cmdblock", "config.toml")
}

// Load reads the config at path. A missing file is not an error: defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return Normalize(cfg), nil
}

// Normalize fills empty fields with defaults and guarantees the builtin exit tokens.
func Normalize(cfg Config) Config {
	if strings.TrimSpace(cfg.Shell) == "" {
		cfg.Shell = DefaultShell
	}
	cfg.Runner = strings.ToLower(strings.TrimSpace(cfg.Runner))
	if cfg.Runner == "" {
		cfg.Runner = DefaultRunner
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if cfg.Backend == "" {
		cfg.Backend = DefaultBackend
	}
	if cfg.PollIntervalMS <= 0 {
		cfg.PollIntervalMS = DefaultPollIntervalMS
	}
	cfg.ExitTokens = mergeTokens(builtinExitTokens, cfg.ExitTokens)
	return cfg
}

// PollInterval is the bounded wait for one key event.
func (c Config) PollInterval() time.Duration {
	if c.PollIntervalMS <= 0 {
		return DefaultPollIntervalMS * time.Millisecond
	}
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

func mergeTokens(base []string, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, tok := range list {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			key := strings.ToLower(tok)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, tok)
		}
	}
	return out
}
