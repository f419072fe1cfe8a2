package config

import (
	"strconv"
	"strings"
)

// ApplyKVOverrides applies free-form -c key=value overrides.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	if len(overrides) == 0 {
		return cfg
	}
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		switch key {
		case "shell":
			cfg.Shell = val
		case "runner":
			cfg.Runner = val
		case "backend":
			cfg.Backend = val
		case "poll_interval_ms":
			if n, err := strconv.Atoi(val); err == nil {
				cfg.PollIntervalMS = n
			}
		case "exit_tokens":
			cfg.ExitTokens = append(cfg.ExitTokens, strings.Split(val, ",")...)
		case "log_path":
			cfg.LogPath = val
		}
	}
	return Normalize(cfg)
}
