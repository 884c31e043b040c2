// Package config resolves CLI/engine configuration. Precedence: explicit
// flags, then COURSEFORGE_* environment variables, then an optional YAML
// config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	envBaseURL = "COURSEFORGE_API_URL"
	envToken   = "COURSEFORGE_API_TOKEN"
	envLogMode = "COURSEFORGE_LOG_MODE"
)

type Config struct {
	BaseURL string        `yaml:"api_url"`
	Token   string        `yaml:"api_token"`
	LogMode string        `yaml:"log_mode"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultPath returns the default config file location
// (~/.config/courseforge/config.yaml). ok is false when the home directory
// cannot be resolved.
func DefaultPath() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, ".config", "courseforge", "config.yaml"), true
}

// Load resolves the effective config. flags carries whatever the CLI parsed;
// empty fields fall through to env, then the file. A missing file is fine; a
// malformed one is an error.
func Load(path string, flags Config) (Config, error) {
	cfg := flags

	if cfg.BaseURL == "" {
		cfg.BaseURL = strings.TrimSpace(os.Getenv(envBaseURL))
	}
	if cfg.Token == "" {
		cfg.Token = strings.TrimSpace(os.Getenv(envToken))
	}
	if cfg.LogMode == "" {
		cfg.LogMode = strings.TrimSpace(os.Getenv(envLogMode))
	}

	var fileCfg Config
	if path == "" {
		if p, ok := DefaultPath(); ok {
			path = p
		}
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// no file, nothing to merge
		default:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = fileCfg.BaseURL
	}
	if cfg.Token == "" {
		cfg.Token = fileCfg.Token
	}
	if cfg.LogMode == "" {
		cfg.LogMode = fileCfg.LogMode
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = fileCfg.Timeout
	}

	if cfg.BaseURL == "" {
		return Config{}, fmt.Errorf("no API base URL configured (flag --api-url, %s, or config file)", envBaseURL)
	}
	return cfg, nil
}
