// Package config loads Flick's service and account configuration.
// The app password is never stored in the file; it is read from
// FLICK_APP_PASSWORD only when a fresh login is needed.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields Flick needs to reach the service.
type Config struct {
	Service     string
	Identifier  string
	SessionPath string
}

const (
	defaultConfigPath  = "~/.config/flick/config.toml"
	defaultSessionPath = "~/.config/flick/session.json"
	defaultService     = "https://bsky.social"

	passwordEnvVar = "FLICK_APP_PASSWORD"
)

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{Service: defaultService, SessionPath: mustExpand(defaultSessionPath)}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Service     string `toml:"service"`
		Identifier  string `toml:"identifier"`
		SessionPath string `toml:"session_path"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if s := strings.TrimSpace(raw.Service); s != "" {
		cfg.Service = s
	}
	cfg.Identifier = strings.TrimSpace(raw.Identifier)
	if p := strings.TrimSpace(raw.SessionPath); p != "" {
		cfg.SessionPath = mustExpand(p)
	}
	return cfg, nil
}

// AppPassword returns the app password from the environment, empty when unset.
func AppPassword() string {
	return strings.TrimSpace(os.Getenv(passwordEnvVar))
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
