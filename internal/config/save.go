package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ErrExists is returned by Save when the target exists and overwrite is false.
var ErrExists = errors.New("config file already exists")

const fileHeader = "# cmdblock config. exit_tokens adds to the builtin /exit and /quit.\n"

// Save normalizes cfg and writes it to path (DefaultPath when empty), returning
// the path written. Builtin exit tokens are implied and left out of the file.
func Save(path string, cfg Config, overwrite bool) (string, error) {
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return "", errors.New("config path is empty and $HOME is not set")
	}
	if !overwrite {
		_, err := os.Stat(path)
		if err == nil {
			return path, fmt.Errorf("%s: %w", path, ErrExists)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return path, err
		}
	}

	cfg = Normalize(cfg)
	cfg.ExitTokens = extraTokens(cfg.ExitTokens)
	data, err := toml.Marshal(cfg)
	if err != nil {
		return path, fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return path, fmt.Errorf("create config dir: %w", err)
	}
	return path, os.WriteFile(path, append([]byte(fileHeader), data...), 0o600)
}

func extraTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
next:
	for _, tok := range tokens {
		for _, b := range builtinExitTokens {
			if strings.EqualFold(tok, b) {
				continue next
			}
		}
		out = append(out, tok)
	}
	return out
}
