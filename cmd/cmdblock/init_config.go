package main

import (
	"errors"
	"flag"
	"fmt"

	"cmdblock/internal/config"
)

func initConfigMain(args []string) {
	fs := flag.NewFlagSet("cmdblock init-config", flag.ContinueOnError)
	path := fs.String("config", "", "Where to write the config (default ~/.cmdblock/config.toml)")
	force := fs.Bool("force", false, "Overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		fatalf("parse init-config args: %v", err)
	}
	target, err := writeDefaultConfig(*path, *force)
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Println("wrote", target)
}

func writeDefaultConfig(path string, force bool) (string, error) {
	target, err := config.Save(path, config.Default(), force)
	if errors.Is(err, config.ErrExists) {
		return "", fmt.Errorf("%w (use -force to overwrite)", err)
	}
	if err != nil {
		return "", err
	}
	return target, nil
}
