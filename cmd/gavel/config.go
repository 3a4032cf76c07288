package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// defaultAPIURL is the fallback service address. The deployed and local
// backends used to be mixed per call site; every request now goes
// through this single configured base URL.
const defaultAPIURL = "http://localhost:8000"

// Config is the contents of ~/.gavel/config.toml.
type Config struct {
	APIURL   string `toml:"api_url"`
	LogLevel string `toml:"log_level"`
}

// gavelDir returns ~/.gavel, the home of the config file, the session
// file, and the log.
func gavelDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".gavel"), nil
}

// loadConfig reads the config file if present and applies the
// GAVEL_API_URL override. A missing file yields the defaults.
func loadConfig() (Config, error) {
	cfg := Config{APIURL: defaultAPIURL, LogLevel: "info"}

	dir, err := gavelDir()
	if err != nil {
		return cfg, err
	}
	file, err := os.Open(filepath.Join(dir, "config.toml"))
	if err == nil {
		defer file.Close() //nolint:errcheck // read-only file
		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
		if cfg.APIURL == "" {
			cfg.APIURL = defaultAPIURL
		}
		if cfg.LogLevel == "" {
			cfg.LogLevel = "info"
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("open config: %w", err)
	}

	if url := os.Getenv("GAVEL_API_URL"); url != "" {
		cfg.APIURL = url
	}
	return cfg, nil
}
