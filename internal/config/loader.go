package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time or by --config
	EnvFile      string // Optional .env file applied before SNAPMARK_* variables
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
		EnvFile:      ".env",
	}
}

// Load reads the configuration file, if any, and applies environment
// overrides on top.
func (l *Loader) Load() (*Config, error) {
	cfg := New()
	if path := l.GetConfigPath(); path != "" {
		var err error
		cfg, err = ParseFile(path)
		if err != nil {
			return nil, err
		}
	}
	if err := ApplyEnv(cfg, l.EnvFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseFile parses path, choosing the TOML parser for .toml files.
func ParseFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg *Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		cfg, err = ParseTOML(f)
	} else {
		cfg, err = Parse(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Dir returns the snapmark configuration directory.
func Dir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "snapmark")
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	// 1. Variable override path
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	// 2. Local run directory (dev mode)
	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".snapmarkrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	// 3. XDG Config Path
	for _, name := range []string{"config.toml", "config.rc", "snapmark.rc"} {
		p := filepath.Join(Dir(), name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
